package handler

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/crmlite/crm/internal/core/ports"
	"github.com/crmlite/crm/internal/core/repository"
	"github.com/crmlite/crm/internal/core/service"
	"github.com/crmlite/crm/internal/infrastructure/blob"
	"github.com/crmlite/crm/internal/infrastructure/db/memory"
)

type seqIDs struct{ n int }

func (g *seqIDs) NewID() string {
	g.n++
	return fmt.Sprintf("C0FFEE%02d-0000-4000-8000-000000000000", g.n)
}

type stubRenderer struct{}

func (stubRenderer) RenderQuote(w io.Writer, doc ports.QuoteDocument) error {
	_, err := io.WriteString(w, "%PDF-stub "+doc.ClientName)
	return err
}

func (stubRenderer) ContentType() string { return "application/pdf" }

type env struct {
	e         *echo.Echo
	repos     *repository.Set
	compose   ports.QuoteService
	export    ports.ExportService
	artifacts *blob.MemoryStore
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ids := &seqIDs{}
	repos := repository.NewSet(repository.Deps{
		Store: memory.NewSlotStore(),
		IDs:   ids,
		Clock: func() time.Time { return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC) },
		Log:   zerolog.Nop(),
	})
	artifacts := blob.NewMemoryStore()
	compose := service.NewQuoteService(repos.Quotes, repos.Clients, repos.Services, ids, 0.22, zerolog.Nop())

	e := echo.New()
	e.Validator = NewValidator()
	return &env{
		e:         e,
		repos:     repos,
		compose:   compose,
		export:    service.NewExportService(repos.Quotes, repos.Clients, stubRenderer{}, artifacts, 0.22, zerolog.Nop()),
		artifacts: artifacts,
	}
}

// call builds a context for one request. params alternate name, value.
func (v *env) call(method, target, body string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := v.e.NewContext(req, rec)
	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

func expectHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	if he.Code != code {
		t.Fatalf("expected %d, got %d (%v)", code, he.Code, he.Message)
	}
}

func bg() context.Context { return context.Background() }


func ptr[T any](v T) *T { return &v }
