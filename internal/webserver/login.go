package webserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/talkincode/motosync/internal/domain"
	"github.com/talkincode/motosync/pkg/common"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const sessionName = "motosync_session"

type loginPayload struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (ws *WebServer) initAuthRoutes() {
	ws.root.POST("/auth/login", ws.handleLogin)
	ws.root.GET("/auth/logout", ws.handleLogout)
}

// handleLogin verifies operator credentials and issues the API token used by
// the /api group.
func (ws *WebServer) handleLogin(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Unable to parse login parameters")
	}
	if err := c.Validate(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Username and password are required")
	}

	username := strings.TrimSpace(payload.Username)

	var operator domain.SysOpr
	err := ws.appctx.DB().
		Where("username = ? and status = ?", username, common.ENABLED).
		First(&operator).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password")
	}

	if common.Sha256HashWithSalt(payload.Password, common.GetSecretSalt()) != operator.Password {
		zap.L().Warn("operator login failed", zap.String("username", username), zap.String("ip", c.RealIP()))
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"usr": operator.Username,
		"lvl": operator.Level,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(ws.appctx.Config().Web.JwtSecret))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to sign token")
	}

	session, _ := ws.sessions.Get(c.Request(), sessionName)
	session.Values["username"] = operator.Username
	session.Values["level"] = operator.Level
	_ = session.Save(c.Request(), c.Response())

	ws.appctx.DB().Model(&domain.SysOpr{}).
		Where("id = ?", operator.ID).
		Update("last_login", time.Now())

	ws.appctx.DB().Create(&domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   operator.Username,
		OprIp:     c.RealIP(),
		OptAction: "login",
		OptDesc:   "operator login",
		OptTime:   time.Now(),
	})

	return c.JSON(http.StatusOK, map[string]interface{}{
		"token":    signed,
		"username": operator.Username,
		"level":    operator.Level,
	})
}

func (ws *WebServer) handleLogout(c echo.Context) error {
	session, _ := ws.sessions.Get(c.Request(), sessionName)
	session.Options.MaxAge = -1
	_ = session.Save(c.Request(), c.Response())
	return c.JSON(http.StatusOK, map[string]interface{}{"logout": true})
}
