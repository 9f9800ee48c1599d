package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pwmfan/pwmfan/internal/config"
	"github.com/pwmfan/pwmfan/internal/controller"
	"github.com/pwmfan/pwmfan/internal/persistence"
	"github.com/pwmfan/pwmfan/internal/pwm"
	"github.com/pwmfan/pwmfan/internal/wifi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createService(t *testing.T, webRoot string) (*echo.Echo, *persistence.ConfigStore, *pwm.MemoryOutput) {
	store := persistence.NewConfigStore(persistence.NewFileStorage(), filepath.Join(t.TempDir(), "config.cfg"))
	output := pwm.NewMemoryOutput()
	contr := controller.NewController(store, config.New(), output, wifi.NewDisabledAccessPoint(), time.Second, 10)
	require.NoError(t, contr.Start())
	t.Cleanup(func() {
		_ = contr.Stop()
	})
	return CreateRestService(contr, webRoot, prometheus.NewRegistry()), store, output
}

func request(e *echo.Echo, method string, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeSettings(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	var result map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return result
}

func TestPing(t *testing.T) {
	// GIVEN
	e, _, _ := createService(t, "")

	// WHEN
	rec := request(e, http.MethodGet, "/ping")

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PONG", rec.Body.String())
}

func TestAlive(t *testing.T) {
	// GIVEN
	e, _, _ := createService(t, "")

	// WHEN
	rec := request(e, http.MethodGet, "/alive/")

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetSettings(t *testing.T) {
	// GIVEN
	e, _, _ := createService(t, "")

	// WHEN
	rec := request(e, http.MethodGet, "/settings/")

	// THEN
	require.Equal(t, http.StatusOK, rec.Code)
	settings := decodeSettings(t, rec)
	assert.Equal(t, "100", settings["pwm_fan_duty"])
	assert.Equal(t, "PWM_FAN_CONTROLLER", settings["wifi_ssid"])
	assert.Equal(t, "10.10.10.1", settings["dhcps_ip"])
	assert.Equal(t, "0", settings["pwm_fan_duty_min"])
	assert.Equal(t, "255", settings["pwm_mos_duty_max"])
	assert.Len(t, settings, len(config.Keys())+4)
}

func TestUpdateSettings(t *testing.T) {
	// GIVEN
	e, store, output := createService(t, "")

	// WHEN
	rec := request(e, http.MethodGet, "/settings/?pwm_fan_duty=42&wifi_ssid=my_fan&pwm_mos_duty=300")

	// THEN
	require.Equal(t, http.StatusOK, rec.Code)
	settings := decodeSettings(t, rec)
	assert.Equal(t, "42", settings["pwm_fan_duty"])
	assert.Equal(t, "my_fan", settings["wifi_ssid"])
	assert.Equal(t, "255", settings["pwm_mos_duty"])

	duty, err := output.GetDuty(controller.OutputFan, config.PwmChannel{})
	require.NoError(t, err)
	assert.Equal(t, 42, duty)

	saved := store.Load()
	assert.Equal(t, 42, saved.Fan.Duty)
	assert.Equal(t, "my_fan", saved.Wifi.Ssid)
}

func TestUpdateSettings_Form(t *testing.T) {
	// GIVEN
	e, store, _ := createService(t, "")
	req := httptest.NewRequest(http.MethodPost, "/settings/", strings.NewReader("pwm_fan_gpio=12"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()

	// WHEN
	e.ServeHTTP(rec, req)

	// THEN
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "12", decodeSettings(t, rec)["pwm_fan_gpio"])
	assert.Equal(t, 12, store.Load().Fan.Gpio)
}

func TestUpdateSettings_UnknownKey(t *testing.T) {
	// GIVEN
	e, store, _ := createService(t, "")

	// WHEN
	rec := request(e, http.MethodGet, "/settings/?pwm_fan_duty=42&fan_speed=3")

	// THEN
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var result Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Contains(t, result.Message, "fan_speed")

	assert.Equal(t, config.DefaultFanDuty, store.Load().Fan.Duty)
}

func TestGetHistory(t *testing.T) {
	// GIVEN
	e, _, _ := createService(t, "")
	request(e, http.MethodGet, "/settings/?pwm_mos_duty=10")

	// WHEN
	rec := request(e, http.MethodGet, "/history/mos/")

	// THEN
	require.Equal(t, http.StatusOK, rec.Code)
	var history []float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Equal(t, []float64{255, 10}, history)
}

func TestGetHistory_Unknown(t *testing.T) {
	// GIVEN
	e, _, _ := createService(t, "")

	// WHEN
	rec := request(e, http.MethodGet, "/history/cpu/")

	// THEN
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics(t *testing.T) {
	// GIVEN
	e, _, _ := createService(t, "")
	request(e, http.MethodGet, "/ping/")

	// WHEN
	rec := request(e, http.MethodGet, "/metrics/")

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pwmfan_api_requests_total")
}

func TestStaticWebRoot(t *testing.T) {
	// GIVEN
	webRoot := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(webRoot, "index.html"), []byte("<html>fan</html>"), 0644))
	e, _, _ := createService(t, webRoot)

	// WHEN
	rec := request(e, http.MethodGet, "/")

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fan")
}
