package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pwmfan/pwmfan/internal/controller"
	"github.com/pwmfan/pwmfan/internal/statistics"
	"net/http"
)

const (
	urlParamId      = "id"
	indentationChar = "  "

	metricsSubsystem = "api"
)

// CreateRestService creates the http interface of the controller.
// If webRoot is not empty, its files are served for all paths without a route.
func CreateRestService(contr controller.Controller, webRoot string, registry statistics.Registry) *echo.Echo {
	echoRest := echo.New()
	echoRest.HideBanner = true
	echoRest.HidePort = true

	// Root level middleware
	echoRest.Pre(middleware.AddTrailingSlash())

	echoRest.Use(middleware.Secure())

	echoRest.Use(middleware.Logger())
	echoRest.Use(middleware.Recover())
	echoRest.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "pwmfan",
		Subsystem:  metricsSubsystem,
		Registerer: registry,
	}))

	if webRoot != "" {
		echoRest.Use(middleware.StaticWithConfig(middleware.StaticConfig{
			Root:  webRoot,
			Index: "index.html",
		}))
	}

	echoRest.GET("/alive/", isAlive)
	echoRest.GET("/ping/", ping)
	echoRest.GET("/metrics/", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: registry,
	}))

	registerSettingsEndpoints(echoRest, contr)
	registerHistoryEndpoints(echoRest, contr)

	return echoRest
}

// returns an empty "ok" answer
func isAlive(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func ping(c echo.Context) error {
	return c.String(http.StatusOK, "PONG")
}
