package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	repoMocks "pdfchat/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDiagnosticsService_Report(t *testing.T) {
	ctx := context.Background()

	t.Run("no datastore handle", func(t *testing.T) {
		s := NewDiagnosticsService(nil)
		s.getenv = envFrom(nil)

		d := s.Report(ctx)

		assert.Equal(t, "✅ Running", d.Backend)
		assert.Equal(t, "⚠️  Available but not initialized", d.Database)
		assert.Equal(t, "Not Connected", d.ConnectionStatus)
		assert.Equal(t, "❌ Not Set", d.DatabaseURL)
		assert.Equal(t, "❌ Not Set", d.DatabaseName)
		assert.NotNil(t, d.Collections)
		assert.Empty(t, d.Collections)
	})

	t.Run("collections capped at ten", func(t *testing.T) {
		names := make([]string, 12)
		for i := range names {
			names[i] = fmt.Sprintf("c%02d", i)
		}
		in := new(repoMocks.MockInspector)
		in.On("ListCollections", mock.Anything).Return(names, nil)

		s := NewDiagnosticsService(in)
		s.getenv = envFrom(map[string]string{"DATABASE_URL": "mongodb://x", "DATABASE_NAME": "docs"})

		d := s.Report(ctx)

		assert.Equal(t, "✅ Connected & Working", d.Database)
		assert.Equal(t, "Connected", d.ConnectionStatus)
		assert.Equal(t, names[:10], d.Collections)
		assert.Equal(t, "✅ Set", d.DatabaseURL)
		assert.Equal(t, "✅ Set", d.DatabaseName)
	})

	t.Run("listing error is truncated", func(t *testing.T) {
		in := new(repoMocks.MockInspector)
		in.On("ListCollections", mock.Anything).Return(nil, errors.New(strings.Repeat("x", 80)))

		s := NewDiagnosticsService(in)
		s.getenv = envFrom(nil)

		d := s.Report(ctx)

		assert.Equal(t, "⚠️  Connected but Error: "+strings.Repeat("x", 50), d.Database)
		assert.Equal(t, "Connected", d.ConnectionStatus)
		assert.Empty(t, d.Collections)
	})

	t.Run("panic is reported not raised", func(t *testing.T) {
		in := new(repoMocks.MockInspector)
		in.On("ListCollections", mock.Anything).Run(func(mock.Arguments) {
			panic("driver exploded")
		})

		s := NewDiagnosticsService(in)
		s.getenv = envFrom(map[string]string{"DATABASE_URL": "x"})

		d := s.Report(ctx)

		assert.Equal(t, "❌ Error: driver exploded", d.Database)
		assert.Equal(t, "✅ Set", d.DatabaseURL)
	})

	t.Run("repeated reports are identical", func(t *testing.T) {
		in := new(repoMocks.MockInspector)
		in.On("ListCollections", mock.Anything).Return([]string{"document"}, nil)
		s := NewDiagnosticsService(in)
		s.getenv = envFrom(nil)

		assert.Equal(t, s.Report(ctx), s.Report(ctx))
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 50))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "éé", truncate("ééé", 2))
}
