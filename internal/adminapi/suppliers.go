package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/talkincode/motosync/internal/domain"
	"github.com/talkincode/motosync/internal/webserver"
)

type supplierPayload struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	ContactInfo string `json:"contact_info" validate:"omitempty,max=1000"`
}

type supplierUpdatePayload struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	ContactInfo *string `json:"contact_info" validate:"omitempty,max=1000"`
}

// registerSupplierRoutes registers supplier CRUD routes
func registerSupplierRoutes() {
	webserver.ApiGET("/store/suppliers", listSuppliers)
	webserver.ApiGET("/store/suppliers/:id", getSupplier)
	webserver.ApiPOST("/store/suppliers", createSupplier)
	webserver.ApiPUT("/store/suppliers/:id", updateSupplier)
	webserver.ApiDELETE("/store/suppliers/:id", deleteSupplier)
}

func listSuppliers(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.Supplier{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") {
			db = db.Where("name ILIKE ? OR contact_info ILIKE ?", "%"+q+"%", "%"+q+"%")
		} else {
			db = db.Where("LOWER(name) LIKE ? OR LOWER(contact_info) LIKE ?", "%"+strings.ToLower(q)+"%", "%"+strings.ToLower(q)+"%")
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query suppliers", err.Error())
	}

	var suppliers []domain.Supplier
	if err := db.Order("id DESC").Offset((page-1)*pageSize).Limit(pageSize).Find(&suppliers).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query suppliers", err.Error())
	}

	return paged(c, suppliers, total, page, pageSize)
}

func getSupplier(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid supplier ID", nil)
	}

	var s domain.Supplier
	if err := GetDB(c).Where("id = ?", id).First(&s).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "SUPPLIER_NOT_FOUND", "Supplier not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query supplier", err.Error())
	}

	return ok(c, s)
}

func createSupplier(c echo.Context) error {
	var payload supplierPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse supplier parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	supplier := domain.Supplier{
		Name:        strings.TrimSpace(payload.Name),
		ContactInfo: strings.TrimSpace(payload.ContactInfo),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := GetDB(c).Create(&supplier).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create supplier", err.Error())
	}

	return ok(c, supplier)
}

func updateSupplier(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid supplier ID", nil)
	}

	var payload supplierUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse supplier parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	var s domain.Supplier
	if err := GetDB(c).Where("id = ?", id).First(&s).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "SUPPLIER_NOT_FOUND", "Supplier not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query supplier", err.Error())
	}

	if payload.Name != nil {
		s.Name = strings.TrimSpace(*payload.Name)
	}
	if payload.ContactInfo != nil {
		s.ContactInfo = strings.TrimSpace(*payload.ContactInfo)
	}
	s.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&s).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update supplier", err.Error())
	}

	return ok(c, s)
}

func deleteSupplier(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid supplier ID", nil)
	}

	var s domain.Supplier
	if err := GetDB(c).Where("id = ?", id).First(&s).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "SUPPLIER_NOT_FOUND", "Supplier not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query supplier", err.Error())
	}

	// Prevent deletion while products reference this supplier
	var productCount int64
	GetDB(c).Model(&domain.Product{}).Where("supplier_id = ?", id).Count(&productCount)
	if productCount > 0 {
		return fail(c, http.StatusConflict, "SUPPLIER_IN_USE", "Supplier is referenced by products and cannot be deleted", map[string]interface{}{"product_count": productCount})
	}

	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Supplier{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete supplier", err.Error())
	}

	return ok(c, map[string]interface{}{"id": id})
}
