package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"pdfchat/internal/model"
	"pdfchat/internal/repository"
)

const (
	maxCollections = 10
	maxErrorRunes  = 50
)

// DiagnosticsService reports process, datastore and configuration state for the /test endpoint.
type DiagnosticsService struct {
	inspector repository.Inspector
	getenv    func(string) string
	timeout   time.Duration
}

// NewDiagnosticsService builds a diagnostics reporter. inspector may be nil.
func NewDiagnosticsService(inspector repository.Inspector) *DiagnosticsService {
	return &DiagnosticsService{
		inspector: inspector,
		getenv:    os.Getenv,
		timeout:   3 * time.Second,
	}
}

// Report never fails: datastore errors and panics are folded into the Database field.
func (s *DiagnosticsService) Report(ctx context.Context) model.Diagnostics {
	d := model.Diagnostics{
		Backend:          "✅ Running",
		Database:         "❌ Not Available",
		ConnectionStatus: "Not Connected",
		Collections:      []string{},
	}

	s.probe(ctx, &d)

	d.DatabaseURL = setOrNot(s.getenv("DATABASE_URL"))
	d.DatabaseName = setOrNot(s.getenv("DATABASE_NAME"))

	return d
}

func (s *DiagnosticsService) probe(ctx context.Context, d *model.Diagnostics) {
	defer func() {
		if r := recover(); r != nil {
			d.Database = "❌ Error: " + truncate(fmt.Sprint(r), maxErrorRunes)
		}
	}()

	if s.inspector == nil {
		d.Database = "⚠️  Available but not initialized"
		return
	}

	d.Database = "✅ Available"
	d.ConnectionStatus = "Connected"

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	names, err := s.inspector.ListCollections(ctx)
	if err != nil {
		d.Database = "⚠️  Connected but Error: " + truncate(err.Error(), maxErrorRunes)
		return
	}
	if len(names) > maxCollections {
		names = names[:maxCollections]
	}
	if names != nil {
		d.Collections = names
	}
	d.Database = "✅ Connected & Working"
}

func setOrNot(v string) string {
	if v != "" {
		return "✅ Set"
	}
	return "❌ Not Set"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
