package handler

import (
	"github.com/gofiber/fiber/v2"

	"pdfchat/internal/service"
)

// chatRequest uses pointers so a missing field is distinguishable from an empty one.
type chatRequest struct {
	DocumentID *string `json:"document_id"`
	Question   *string `json:"question"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

// Chat godoc
// @Summary Ask a question about an uploaded document
// @Description Returns a placeholder answer referencing the document's filename.
// @Tags chat
// @Accept json
// @Produce json
// @Param body body chatRequest true "document_id and question"
// @Success 200 {object} chatResponse
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Router /api/chat [post]
func Chat(svc service.ChatService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req chatRequest
		if err := parseJSONBody(c, &req); err != nil {
			return writeError(c, fiber.StatusUnprocessableEntity, "INVALID_BODY", "request body must be JSON")
		}
		if req.DocumentID == nil || req.Question == nil {
			return writeError(c, fiber.StatusUnprocessableEntity, "INVALID_BODY", "document_id and question are required")
		}

		answer, err := svc.Ask(c.UserContext(), *req.DocumentID, *req.Question)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(chatResponse{Answer: answer})
	}
}

// parseJSONBody decodes the body as JSON when Content-Type is JSON or absent.
func parseJSONBody(c *fiber.Ctx, out any) error {
	if len(c.Request().Header.ContentType()) == 0 {
		return c.App().Config().JSONDecoder(c.Body(), out)
	}
	return c.BodyParser(out)
}
