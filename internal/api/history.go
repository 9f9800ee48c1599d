package api

import (
	"github.com/labstack/echo/v4"
	"github.com/pwmfan/pwmfan/internal/controller"
	"net/http"
)

func registerHistoryEndpoints(rest *echo.Echo, contr controller.Controller) {
	group := rest.Group("/history")

	group.GET("/:"+urlParamId+"/", func(c echo.Context) error {
		return getHistory(c, contr)
	})
}

// returns the most recent duty cycles of an output, oldest first
func getHistory(c echo.Context, contr controller.Controller) error {
	id := c.Param(urlParamId)
	data, err := contr.History(id)
	if err != nil {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}
