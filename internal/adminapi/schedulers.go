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

var schedulerTaskTypes = map[string]bool{
	"low_stock_check": true,
	"sales_summary":   true,
}

type schedulerPayload struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	TaskType string `json:"task_type" validate:"required"`
	Interval int    `json:"interval" validate:"required,min=60"`
	Status   string `json:"status" validate:"omitempty,oneof=enabled disabled"`
	Remark   string `json:"remark" validate:"omitempty,max=1000"`
}

// registerSchedulerRoutes registers store maintenance scheduler routes
func registerSchedulerRoutes() {
	webserver.ApiGET("/store/schedulers", listSchedulers)
	webserver.ApiGET("/store/schedulers/:id", getScheduler)
	webserver.ApiPOST("/store/schedulers", createScheduler)
	webserver.ApiPUT("/store/schedulers/:id", updateScheduler)
	webserver.ApiDELETE("/store/schedulers/:id", deleteScheduler)
	webserver.ApiPOST("/store/schedulers/:id/run", triggerScheduler)
}

func listSchedulers(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.StoreScheduler{})
	if taskType := strings.TrimSpace(c.QueryParam("task_type")); taskType != "" {
		db = db.Where("task_type = ?", taskType)
	}
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query schedulers", err.Error())
	}

	var schedulers []domain.StoreScheduler
	if err := db.Order("id ASC").Offset((page-1)*pageSize).Limit(pageSize).Find(&schedulers).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query schedulers", err.Error())
	}

	return paged(c, schedulers, total, page, pageSize)
}

func getScheduler(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid scheduler ID", nil)
	}

	var s domain.StoreScheduler
	if err := GetDB(c).Where("id = ?", id).First(&s).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "SCHEDULER_NOT_FOUND", "Scheduler not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query scheduler", err.Error())
	}

	return ok(c, s)
}

func createScheduler(c echo.Context) error {
	var payload schedulerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse scheduler parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if !schedulerTaskTypes[payload.TaskType] {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unknown task type", map[string]string{"field": "task_type"})
	}

	status := payload.Status
	if status == "" {
		status = "enabled"
	}

	s := domain.StoreScheduler{
		Name:      strings.TrimSpace(payload.Name),
		TaskType:  payload.TaskType,
		Interval:  payload.Interval,
		Status:    status,
		NextRunAt: time.Now().Add(time.Duration(payload.Interval) * time.Second),
		Remark:    strings.TrimSpace(payload.Remark),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := GetDB(c).Create(&s).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create scheduler", err.Error())
	}

	return ok(c, s)
}

func updateScheduler(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid scheduler ID", nil)
	}

	var payload schedulerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse scheduler parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if !schedulerTaskTypes[payload.TaskType] {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unknown task type", map[string]string{"field": "task_type"})
	}

	var s domain.StoreScheduler
	if err := GetDB(c).Where("id = ?", id).First(&s).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "SCHEDULER_NOT_FOUND", "Scheduler not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query scheduler", err.Error())
	}

	s.Name = strings.TrimSpace(payload.Name)
	s.TaskType = payload.TaskType
	if payload.Interval != s.Interval {
		s.Interval = payload.Interval
		s.NextRunAt = time.Now().Add(time.Duration(payload.Interval) * time.Second)
	}
	if payload.Status != "" {
		s.Status = payload.Status
	}
	s.Remark = strings.TrimSpace(payload.Remark)
	s.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&s).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update scheduler", err.Error())
	}

	return ok(c, s)
}

func deleteScheduler(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid scheduler ID", nil)
	}

	if err := GetDB(c).Where("id = ?", id).Delete(&domain.StoreScheduler{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete scheduler", err.Error())
	}

	return ok(c, map[string]interface{}{"id": id})
}

// triggerScheduler runs a scheduler immediately regardless of its interval
func triggerScheduler(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid scheduler ID", nil)
	}

	if err := GetAppContext(c).RunSchedulerNow(id); errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "SCHEDULER_NOT_FOUND", "Scheduler not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to run scheduler", err.Error())
	}

	var s domain.StoreScheduler
	GetDB(c).Where("id = ?", id).First(&s)
	return ok(c, s)
}
