package adminapi

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/talkincode/motosync/internal/domain"
	"github.com/talkincode/motosync/internal/pos"
	"github.com/talkincode/motosync/internal/webserver"
)

// saleRow is a sale joined with display names for listing and export.
type saleRow struct {
	ID           int64     `json:"id,string" csv:"id"`
	ProductID    int64     `json:"product_id,string" csv:"product_id"`
	ProductName  string    `json:"product_name" csv:"product_name"`
	CustomerID   *int64    `json:"customer_id,string,omitempty" csv:"customer_id"`
	CustomerName string    `json:"customer_name,omitempty" csv:"customer_name"`
	Quantity     int       `json:"quantity" csv:"quantity"`
	TotalPrice   string    `json:"total_price" csv:"total_price"`
	Date         time.Time `json:"date" csv:"date"`
}

// registerSaleRoutes registers sale recording and history routes
func registerSaleRoutes() {
	webserver.ApiGET("/store/sales", listSales)
	webserver.ApiGET("/store/sales/export", exportSales)
	webserver.ApiGET("/store/sales/:id", getSale)
	webserver.ApiPOST("/store/sales", createSale)
}

// saleQuery applies the shared list/export filters: product, customer and a
// date range parsed leniently so both "2024-06-01" and RFC3339 work.
func saleQuery(c echo.Context) (*gorm.DB, error) {
	db := GetDB(c).Model(&domain.Sale{})

	if productID := strings.TrimSpace(c.QueryParam("product_id")); productID != "" {
		db = db.Where("sales.product_id = ?", productID)
	}
	if customerID := strings.TrimSpace(c.QueryParam("customer_id")); customerID != "" {
		db = db.Where("sales.customer_id = ?", customerID)
	}
	if start := strings.TrimSpace(c.QueryParam("start_date")); start != "" {
		t, err := dateparse.ParseLocal(start)
		if err != nil {
			return nil, fmt.Errorf("invalid start_date %q", start)
		}
		db = db.Where("sales.date >= ?", t)
	}
	if end := strings.TrimSpace(c.QueryParam("end_date")); end != "" {
		t, err := dateparse.ParseLocal(end)
		if err != nil {
			return nil, fmt.Errorf("invalid end_date %q", end)
		}
		db = db.Where("sales.date <= ?", t)
	}
	return db, nil
}

func querySaleRows(db *gorm.DB, offset, limit int) ([]saleRow, error) {
	var rows []saleRow
	query := db.
		Select("sales.id, sales.product_id, products.name as product_name, " +
			"sales.customer_id, customers.name as customer_name, " +
			"sales.quantity, sales.total_price, sales.date").
		Joins("LEFT JOIN products ON products.id = sales.product_id").
		Joins("LEFT JOIN customers ON customers.id = sales.customer_id").
		Order("sales.date DESC, sales.id DESC")
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}
	err := query.Scan(&rows).Error
	return rows, err
}

func listSales(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db, err := saleQuery(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query sales", err.Error())
	}

	rows, err := querySaleRows(db, (page-1)*pageSize, pageSize)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query sales", err.Error())
	}

	return paged(c, rows, total, page, pageSize)
}

func getSale(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid sale ID", nil)
	}

	rows, err := querySaleRows(GetDB(c).Model(&domain.Sale{}).Where("sales.id = ?", id), 0, 1)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query sale", err.Error())
	}
	if len(rows) == 0 {
		return fail(c, http.StatusNotFound, "SALE_NOT_FOUND", "Sale not found", nil)
	}

	return ok(c, rows[0])
}

// createSale records a sale through the transactional sale processor.
// Validation failures come back as a field-to-message map so the terminal
// can surface them against the offending input.
func createSale(c echo.Context) error {
	var req pos.SaleRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse sale parameters", nil)
	}

	appctx := GetAppContext(c)
	service := pos.NewService(pos.NewGormStore(GetDB(c)), appctx.Bus())

	detail, err := service.RecordSale(c.Request().Context(), req)
	if err != nil {
		var verr *pos.ValidationError
		if errors.As(err, &verr) {
			return c.JSON(http.StatusBadRequest, map[string]string{verr.Field: verr.Message})
		}
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to record sale", err.Error())
	}

	return c.JSON(http.StatusCreated, detail)
}

// exportSales streams the filtered sale history as a CSV download.
func exportSales(c echo.Context) error {
	db, err := saleQuery(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}

	rows, err := querySaleRows(db, 0, 0)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query sales", err.Error())
	}

	var buf bytes.Buffer
	if err := gocsv.Marshal(&rows, &buf); err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to encode sales export", err.Error())
	}

	filename := fmt.Sprintf("sales-%s.csv", time.Now().Format("20060102-150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}
