package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/motosync/internal/domain"
	"github.com/talkincode/motosync/internal/webserver"
)

type settingPayload struct {
	Type  string `json:"type" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Value string `json:"value"`
}

// registerSystemRoutes registers settings and operator audit log routes
func registerSystemRoutes() {
	webserver.ApiGET("/system/settings", listSettings)
	webserver.ApiPUT("/system/settings", updateSetting)
	webserver.ApiGET("/system/oprlogs", listOprLogs)
}

func listSettings(c echo.Context) error {
	db := GetDB(c).Model(&domain.SysConfig{})
	if stype := strings.TrimSpace(c.QueryParam("type")); stype != "" {
		db = db.Where("type = ?", stype)
	}

	var settings []domain.SysConfig
	if err := db.Order("type ASC, sort ASC, name ASC").Find(&settings).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query settings", err.Error())
	}

	return ok(c, settings)
}

// updateSetting writes the value through the configuration manager so the
// in-memory cache stays consistent with the database.
func updateSetting(c echo.Context) error {
	var payload settingPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse setting parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	var count int64
	GetDB(c).Model(&domain.SysConfig{}).
		Where("type = ? and name = ?", payload.Type, payload.Name).
		Count(&count)
	if count == 0 {
		return fail(c, http.StatusNotFound, "SETTING_NOT_FOUND", "Setting not found", nil)
	}

	if err := GetAppContext(c).ConfigMgr().SetValue(payload.Type, payload.Name, payload.Value); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update setting", err.Error())
	}

	return ok(c, map[string]string{
		"type":  payload.Type,
		"name":  payload.Name,
		"value": payload.Value,
	})
}

func listOprLogs(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.SysOprLog{})
	if name := strings.TrimSpace(c.QueryParam("opr_name")); name != "" {
		db = db.Where("opr_name = ?", name)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query operator logs", err.Error())
	}

	var logs []domain.SysOprLog
	if err := db.Order("opt_time DESC").Offset((page-1)*pageSize).Limit(pageSize).Find(&logs).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query operator logs", err.Error())
	}

	return paged(c, logs, total, page, pageSize)
}
