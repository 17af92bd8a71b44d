package handler

import "github.com/gofiber/fiber/v2"

type messageResponse struct {
	Message string `json:"message"`
}

// Root godoc
// @Summary Root greeting
// @Tags meta
// @Produce json
// @Success 200 {object} messageResponse
// @Router / [get]
func Root() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(messageResponse{Message: "Hello from FastAPI Backend!"})
	}
}

// Hello godoc
// @Summary API greeting
// @Tags meta
// @Produce json
// @Success 200 {object} messageResponse
// @Router /api/hello [get]
func Hello() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(messageResponse{Message: "Hello from the backend API!"})
	}
}
