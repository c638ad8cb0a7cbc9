package server

import (
	"net/http"
	"time"

	"github.com/dawidkulpa/vesync2mqtt/internal/core/domain"
	"github.com/dawidkulpa/vesync2mqtt/internal/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	if s.httpLog {
		e.Use(middleware.Logger())
	}
	e.Use(middleware.Recover())

	e.GET("/healthcheck", s.HealthCheckHandler)
	e.POST("/devices/refresh", s.RefreshDevicesHandler)
	e.GET("/diagnostics", s.DiagnosticsHandler)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	return e
}

func (s *Server) HealthCheckHandler(c echo.Context) error {
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.ActorHealthRequest{}, 10*time.Second).Result()
	if err != nil {
		return c.String(http.StatusServiceUnavailable, "health_check: FAIL")
	}
	if response, ok := res.(domain.ActorHealthResponse); ok && response.Healthy {
		return c.String(http.StatusOK, "health_check: OK")
	}
	return c.String(http.StatusServiceUnavailable, "health_check: FAIL")
}

// RefreshDevicesHandler triggers an account rescan followed by a discovery
// pass, so newly added devices show up without a restart.
func (s *Server) RefreshDevicesHandler(c echo.Context) error {
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.RefreshDevicesRequest{}, 60*time.Second).Result()
	if err != nil {
		return c.String(http.StatusServiceUnavailable, "refresh: FAIL")
	}
	if response, ok := res.(domain.RefreshDevicesResponse); ok && !response.HasResponseError() {
		return c.String(http.StatusOK, "refresh: OK")
	}
	return c.String(http.StatusServiceUnavailable, "refresh: FAIL")
}

type diagnosticsDevice struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Firmware   string `json:"firmware"`
	Connection string `json:"connection"`
}

// DiagnosticsHandler lists the known devices with cloud identifiers
// (cid, uuid, mac) stripped out.
func (s *Server) DiagnosticsHandler(c echo.Context) error {
	out := []diagnosticsDevice{}
	for _, dev := range s.manager.Devices().All() {
		meta := dev.Meta()
		out = append(out, diagnosticsDevice{
			Name:       meta.DeviceName,
			Type:       meta.DeviceType,
			Firmware:   meta.FirmwareVersion,
			Connection: meta.ConnectionStatus,
		})
	}
	return c.JSON(http.StatusOK, out)
}
