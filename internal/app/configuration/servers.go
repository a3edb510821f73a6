package configuration

import (
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// ServeMCP starts the HTTP transport: the streamable MCP handler mounted
// at /mcp plus a readiness probe. The returned echo instance is owned by
// the caller, which shuts it down on termination.
func ServeMCP(address string, handler http.Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.GET("/ready", readyHandler)
	e.Any("/mcp", echo.WrapHandler(handler))
	e.Any("/mcp/*", echo.WrapHandler(handler))

	go func() {
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	return e
}

func readyHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
