package api

import (
	"errors"
	"github.com/labstack/echo/v4"
	"github.com/pwmfan/pwmfan/internal/config"
	"github.com/pwmfan/pwmfan/internal/controller"
	"github.com/pwmfan/pwmfan/internal/pwm"
	"github.com/pwmfan/pwmfan/internal/util"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

func registerSettingsEndpoints(rest *echo.Echo, contr controller.Controller) {
	group := rest.Group("/settings")

	handler := func(c echo.Context) error {
		return updateSettings(c, contr)
	}
	group.GET("/", handler)
	group.POST("/", handler)
}

// applies and saves all given key/value pairs, then returns the resulting settings.
// Without any pairs this only returns the current settings.
func updateSettings(c echo.Context, contr controller.Controller) error {
	updates, err := parseUpdates(c)
	if err != nil {
		return returnBadRequest(c, err)
	}

	if len(updates) > 0 {
		_, err = contr.UpdateAll(updates, true)
		if errors.Is(err, config.ErrUnknownKey) {
			return returnBadRequest(c, err)
		}
		if err != nil {
			return returnError(c, err)
		}
	}

	return getSettings(c, contr)
}

func getSettings(c echo.Context, contr controller.Controller) error {
	values, err := contr.Values()
	if err != nil {
		return returnError(c, err)
	}

	min := strconv.Itoa(pwm.MinDutyValue)
	max := strconv.Itoa(pwm.MaxDutyValue)
	values["pwm_fan_duty_min"] = min
	values["pwm_fan_duty_max"] = max
	values["pwm_mos_duty_min"] = min
	values["pwm_mos_duty_max"] = max

	return c.JSONPretty(http.StatusOK, values, indentationChar)
}

// parseUpdates returns the key/value pairs of the query, in request order,
// followed by those of a form body, ordered by key
func parseUpdates(c echo.Context) ([]controller.Update, error) {
	var updates []controller.Update

	for _, pair := range strings.Split(c.Request().URL.RawQuery, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, err
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, err
		}
		updates = append(updates, controller.Update{Key: key, Value: value})
	}

	if c.Request().Method == http.MethodPost {
		form := c.Request().PostForm
		if form == nil {
			if err := c.Request().ParseForm(); err != nil {
				return nil, err
			}
			form = c.Request().PostForm
		}
		for _, key := range util.SortedKeys(map[string][]string(form)) {
			for _, value := range form[key] {
				updates = append(updates, controller.Update{Key: key, Value: value})
			}
		}
	}

	return updates, nil
}
