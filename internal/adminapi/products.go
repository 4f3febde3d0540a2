package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/talkincode/motosync/internal/domain"
	"github.com/talkincode/motosync/internal/webserver"
)

type productPayload struct {
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	Description   string          `json:"description" validate:"omitempty,max=1000"`
	Srp           decimal.Decimal `json:"srp"`
	SupplierPrice decimal.Decimal `json:"supplier_price"`
	Stock         *int            `json:"stock"`
	Category      string          `json:"category" validate:"required"`
	SupplierID    int64           `json:"supplier_id,string" validate:"required"`
}

type restockPayload struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// registerProductRoutes registers product catalog CRUD endpoints
func registerProductRoutes() {
	webserver.ApiGET("/store/products", listProducts)
	webserver.ApiGET("/store/products/:id", getProduct)
	webserver.ApiPOST("/store/products", createProduct)
	webserver.ApiPUT("/store/products/:id", updateProduct)
	webserver.ApiDELETE("/store/products/:id", deleteProduct)
	webserver.ApiPOST("/store/products/:id/restock", restockProduct)
}

// checkProductPayload validates field constraints shared by create and update
func checkProductPayload(payload *productPayload) (field, message string) {
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return "name", "Name is required"
	}
	if !domain.ValidCategory(payload.Category) {
		return "category", "Category must be one of accessory, part, oil, cleaner"
	}
	if payload.Srp.IsNegative() || payload.Srp.Exponent() < -2 {
		return "srp", "SRP must be a non-negative amount with at most 2 decimal places"
	}
	if payload.SupplierPrice.IsNegative() || payload.SupplierPrice.Exponent() < -2 {
		return "supplier_price", "Supplier price must be a non-negative amount with at most 2 decimal places"
	}
	if payload.Stock != nil && *payload.Stock < 0 {
		return "stock", "Stock must not be negative"
	}
	return "", ""
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)

	// Sorting: field and order, whitelisted to avoid SQL injection
	sortField := strings.TrimSpace(c.QueryParam("sort"))
	order := strings.ToUpper(strings.TrimSpace(c.QueryParam("order")))
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	allowed := map[string]string{
		"id":         "id",
		"name":       "name",
		"srp":        "srp",
		"stock":      "stock",
		"category":   "category",
		"created_at": "created_at",
		"updated_at": "updated_at",
	}
	sortCol, okCol := allowed[sortField]
	if !okCol || sortCol == "" {
		sortCol = "id"
	}

	db := GetDB(c).Model(&domain.Product{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") {
			db = db.Where("name ILIKE ? OR description ILIKE ?", "%"+q+"%", "%"+q+"%")
		} else {
			db = db.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", "%"+strings.ToLower(q)+"%", "%"+strings.ToLower(q)+"%")
		}
	}
	if category := strings.TrimSpace(c.QueryParam("category")); category != "" {
		db = db.Where("category = ?", category)
	}
	if supplier := strings.TrimSpace(c.QueryParam("supplier_id")); supplier != "" {
		db = db.Where("supplier_id = ?", supplier)
	}
	if lowStock := strings.TrimSpace(c.QueryParam("low_stock")); lowStock == "true" || lowStock == "1" {
		db = db.Where("stock <= ?", domain.LowStockThreshold)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	var rows []domain.Product
	if err := db.Order(sortCol + " " + order).Offset((page-1)*pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	return paged(c, rows, total, page, pageSize)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}
	return ok(c, p)
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product parameters", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if field, msg := checkProductPayload(&payload); field != "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, map[string]string{"field": field})
	}

	// supplier reference must exist
	var supplierCount int64
	GetDB(c).Model(&domain.Supplier{}).Where("id = ?", payload.SupplierID).Count(&supplierCount)
	if supplierCount == 0 {
		return fail(c, http.StatusBadRequest, "SUPPLIER_NOT_FOUND", "Referenced supplier does not exist", nil)
	}

	stock := 0
	if payload.Stock != nil {
		stock = *payload.Stock
	}

	now := time.Now()
	p := domain.Product{
		Name:          payload.Name,
		Description:   strings.TrimSpace(payload.Description),
		Srp:           payload.Srp,
		SupplierPrice: payload.SupplierPrice,
		Stock:         stock,
		Category:      payload.Category,
		SupplierID:    payload.SupplierID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := GetDB(c).Create(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}
	return ok(c, p)
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product parameters", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if field, msg := checkProductPayload(&payload); field != "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, map[string]string{"field": field})
	}

	if payload.SupplierID != p.SupplierID {
		var supplierCount int64
		GetDB(c).Model(&domain.Supplier{}).Where("id = ?", payload.SupplierID).Count(&supplierCount)
		if supplierCount == 0 {
			return fail(c, http.StatusBadRequest, "SUPPLIER_NOT_FOUND", "Referenced supplier does not exist", nil)
		}
	}

	p.Name = payload.Name
	p.Description = strings.TrimSpace(payload.Description)
	p.Srp = payload.Srp
	p.SupplierPrice = payload.SupplierPrice
	p.Category = payload.Category
	p.SupplierID = payload.SupplierID
	if payload.Stock != nil {
		p.Stock = *payload.Stock
	}
	p.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", err.Error())
	}
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	// Keep sale history intact: block deletion once sales reference the product
	var saleCount int64
	GetDB(c).Model(&domain.Sale{}).Where("product_id = ?", id).Count(&saleCount)
	if saleCount > 0 {
		return fail(c, http.StatusConflict, "PRODUCT_IN_USE", "Product has recorded sales and cannot be deleted", map[string]interface{}{"sale_count": saleCount})
	}

	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Product{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}

// restockProduct increments stock outside the sale path (catalog restocking)
func restockProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	var payload restockPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse restock parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}

	if err := GetDB(c).Model(&domain.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock + ?", payload.Quantity),
			"updated_at": time.Now(),
		}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to restock product", err.Error())
	}

	GetDB(c).Where("id = ?", id).First(&p)
	return ok(c, p)
}
