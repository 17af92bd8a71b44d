package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"pdfchat/internal/repository"
)

// ChatService answers questions about an uploaded document.
type ChatService interface {
	// Ask returns an answer for question in the context of the document identified by documentID.
	Ask(ctx context.Context, documentID, question string) (string, error)
}

// placeholderChat answers with a fixed template; it does not read the document's contents.
type placeholderChat struct {
	repo repository.DocumentRepository
}

// NewChatService returns the placeholder chat implementation. repo may be nil (see NewDocumentService).
func NewChatService(repo repository.DocumentRepository) ChatService {
	return &placeholderChat{repo: repo}
}

func (s *placeholderChat) Ask(ctx context.Context, documentID, question string) (string, error) {
	ctx, span := tracer.Start(ctx, "ChatService.Ask")
	defer span.End()

	doc, err := findDocument(ctx, s.repo, documentID)
	if err != nil {
		return "", err
	}
	span.SetAttributes(attribute.String("document.id", doc.ID))

	return PlaceholderAnswer(question, doc.Filename), nil
}

// PlaceholderAnswer renders the canned answer. An empty filename is reported as "unknown".
func PlaceholderAnswer(question, filename string) string {
	if filename == "" {
		filename = "unknown"
	}
	return fmt.Sprintf("You asked: '%s'. This is a placeholder answer based on the uploaded document '%s'.", question, filename)
}
