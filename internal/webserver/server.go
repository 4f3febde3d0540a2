package webserver

import (
	"fmt"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/gorilla/sessions"
	"github.com/talkincode/motosync/internal/app"
	"go.uber.org/zap"
)

// Context keys used to expose application handles to API handlers.
const (
	ContextKeyDB  = "motosync_db"
	ContextKeyApp = "motosync_app"
)

type WebServer struct {
	appctx   *app.Application
	root     *echo.Echo
	api      *echo.Group
	sessions *sessions.CookieStore
}

var server *WebServer

// Init builds the package-level web server instance.
func Init(appctx *app.Application) {
	server = NewWebServer(appctx)
}

func NewWebServer(appctx *app.Application) *WebServer {
	ws := &WebServer{appctx: appctx}
	cfg := appctx.Config()

	e := echo.New()
	e.HideBanner = true
	e.Debug = cfg.System.Debug
	e.JSONSerializer = NewJsoniterSerializer()
	e.Validator = NewWebValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				zap.L().Error("http request",
					zap.String("method", v.Method),
					zap.String("uri", v.URI),
					zap.Int("status", v.Status),
					zap.Error(v.Error))
			} else {
				zap.L().Info("http request",
					zap.String("method", v.Method),
					zap.String("uri", v.URI),
					zap.Int("status", v.Status))
			}
			return nil
		},
	}))

	// Expose the database and application context to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextKeyDB, appctx.DB())
			c.Set(ContextKeyApp, appctx)
			return next(c)
		}
	})

	ws.sessions = sessions.NewCookieStore([]byte(cfg.Web.Secret))
	ws.root = e

	ws.api = e.Group("/api", echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.Web.JwtSecret),
	}))

	ws.initAuthRoutes()
	return ws
}

// Listen starts the web server, blocking until it exits.
func Listen() error {
	cfg := server.appctx.Config()
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	zap.L().Info("starting admin api server", zap.String("listen", addr))
	return server.root.Start(addr)
}

// ApiGET registers an authenticated GET route.
func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

// ApiPOST registers an authenticated POST route.
func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

// ApiPUT registers an authenticated PUT route.
func ApiPUT(path string, h echo.HandlerFunc) {
	server.api.PUT(path, h)
}

// ApiDELETE registers an authenticated DELETE route.
func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}
