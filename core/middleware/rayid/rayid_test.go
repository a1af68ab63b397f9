package rayid

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestRayID_GeneratesID(t *testing.T) {
	app := fiber.New()
	app.Use(New())

	var seen string
	app.Get("/ping", func(c *fiber.Ctx) error {
		seen, _ = c.Locals(LocalsKey).(string)
		return c.SendString("pong")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	assert.NoError(t, err)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, resp.Header.Get(HeaderName))
}

func TestRayID_KeepsCallerID(t *testing.T) {
	app := fiber.New()
	app.Use(New())
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(HeaderName, "trace-123")
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, "trace-123", resp.Header.Get(HeaderName))
}
