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

type customerPayload struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
	Rfid string `json:"rfid" validate:"required,min=1,max=50"`
}

type customerUpdatePayload struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=200"`
}

// registerCustomerRoutes registers loyalty customer CRUD routes
func registerCustomerRoutes() {
	webserver.ApiGET("/store/customers", listCustomers)
	webserver.ApiGET("/store/customers/:id", getCustomer)
	webserver.ApiGET("/store/customers/rfid/:rfid", getCustomerByRfid)
	webserver.ApiPOST("/store/customers", createCustomer)
	webserver.ApiPUT("/store/customers/:id", updateCustomer)
	webserver.ApiDELETE("/store/customers/:id", deleteCustomer)
}

func listCustomers(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.Customer{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") {
			db = db.Where("name ILIKE ? OR rfid ILIKE ?", "%"+q+"%", "%"+q+"%")
		} else {
			db = db.Where("LOWER(name) LIKE ? OR LOWER(rfid) LIKE ?", "%"+strings.ToLower(q)+"%", "%"+strings.ToLower(q)+"%")
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customers", err.Error())
	}

	var customers []domain.Customer
	if err := db.Order("id DESC").Offset((page-1)*pageSize).Limit(pageSize).Find(&customers).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customers", err.Error())
	}

	return paged(c, customers, total, page, pageSize)
}

func getCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}

	var cu domain.Customer
	if err := GetDB(c).Where("id = ?", id).First(&cu).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "Customer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customer", err.Error())
	}

	return ok(c, cu)
}

// getCustomerByRfid resolves a scanned card to a customer at the register
func getCustomerByRfid(c echo.Context) error {
	rfid := strings.TrimSpace(c.Param("rfid"))
	if rfid == "" {
		return fail(c, http.StatusBadRequest, "INVALID_RFID", "RFID is required", nil)
	}

	var cu domain.Customer
	if err := GetDB(c).Where("rfid = ?", rfid).First(&cu).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "Customer with this RFID not found.", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customer", err.Error())
	}

	return ok(c, cu)
}

func createCustomer(c echo.Context) error {
	var payload customerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse customer parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	rfid := strings.TrimSpace(payload.Rfid)

	var count int64
	GetDB(c).Model(&domain.Customer{}).Where("rfid = ?", rfid).Count(&count)
	if count > 0 {
		return fail(c, http.StatusConflict, "RFID_EXISTS", "A customer with this RFID already exists", nil)
	}

	customer := domain.Customer{
		Name:          strings.TrimSpace(payload.Name),
		Rfid:          rfid,
		LoyaltyPoints: 0,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := GetDB(c).Create(&customer).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create customer", err.Error())
	}

	return ok(c, customer)
}

// updateCustomer updates the display name only. The RFID identifies the
// physical card and loyalty points are earned through sales, so neither
// is editable here.
func updateCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}

	var payload customerUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse customer parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	var cu domain.Customer
	if err := GetDB(c).Where("id = ?", id).First(&cu).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "Customer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customer", err.Error())
	}

	if payload.Name != nil {
		cu.Name = strings.TrimSpace(*payload.Name)
	}
	cu.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&cu).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update customer", err.Error())
	}

	return ok(c, cu)
}

func deleteCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}

	var cu domain.Customer
	if err := GetDB(c).Where("id = ?", id).First(&cu).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "Customer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customer", err.Error())
	}

	// Sales keep a nullable customer reference; detach before removing
	// the customer so history survives.
	if err := GetDB(c).Model(&domain.Sale{}).
		Where("customer_id = ?", id).
		Update("customer_id", nil).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to detach customer sales", err.Error())
	}

	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Customer{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete customer", err.Error())
	}

	return ok(c, map[string]interface{}{"id": id})
}
