package handler

import (
	"mime"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"pdfchat/internal/service"
)

type uploadResponse struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Size       int64  `json:"size"`
}

// UploadPDF godoc
// @Summary Upload a PDF
// @Description multipart/form-data, field name: file. The part's Content-Type must be application/pdf.
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF file"
// @Success 200 {object} uploadResponse
// @Failure 400 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /api/upload_pdf [post]
func UploadPDF(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusUnprocessableEntity, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		doc, err := svc.Upload(c.UserContext(), f, clientFilename(fh), fh.Header.Get(fiber.HeaderContentType), fh.Size)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(uploadResponse{
			DocumentID: doc.ID,
			Filename:   doc.Filename,
			Size:       doc.Size,
		})
	}
}

// clientFilename returns the filename exactly as the client sent it.
// multipart strips directories from FileHeader.Filename; the raw parameter keeps them.
// The name is only stored as metadata, never used as a path.
func clientFilename(fh *multipart.FileHeader) string {
	_, params, err := mime.ParseMediaType(fh.Header.Get(fiber.HeaderContentDisposition))
	if err == nil && params["filename"] != "" {
		return params["filename"]
	}
	return fh.Filename
}
