package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/crmlite/crm/internal/core/ports"
	"github.com/crmlite/crm/internal/core/repository"
	"github.com/crmlite/crm/internal/core/service"
	"github.com/crmlite/crm/internal/core/store"
	"github.com/crmlite/crm/internal/infrastructure/blob"
	"github.com/crmlite/crm/internal/infrastructure/db/memory"
	"github.com/crmlite/crm/internal/infrastructure/pdf"
)

type counterIDs struct{ n int }

func (g *counterIDs) NewID() string {
	g.n++
	return strings.Repeat(string(rune('a'+g.n%26)), 8) + "-router"
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	backend := memory.NewSlotStore()
	ids := &counterIDs{}
	repos := repository.NewSet(repository.Deps{
		Store: backend,
		IDs:   ids,
		Clock: func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) },
		Log:   zerolog.Nop(),
	})
	artifacts := blob.NewMemoryStore()
	slots := make([]*store.Slot, 0, len(store.AllSlots))
	for _, name := range store.AllSlots {
		slots = append(slots, store.NewSlot(name, backend, nil, zerolog.Nop()))
	}

	reg := prometheus.NewRegistry()
	return NewRouter(Deps{
		Clients:           repos.Clients,
		Services:          repos.Services,
		Quotes:            repos.Quotes,
		Projects:          repos.Projects,
		Compose:           service.NewQuoteService(repos.Quotes, repos.Clients, repos.Services, ids, 0.22, zerolog.Nop()),
		Export:            service.NewExportService(repos.Quotes, repos.Clients, pdf.NewQuoteRenderer(), artifacts, 0.22, zerolog.Nop()),
		Artifacts:         artifacts,
		Intake:            service.NewIntakeService(repos.Clients, memory.NewSubmissionDedup(time.Hour), zerolog.Nop()),
		Repair:            service.NewRepairService(slots, ids, zerolog.Nop()),
		Ready:             map[string]ports.Pinger{"store": backend},
		Log:               zerolog.Nop(),
		MetricsRegisterer: reg,
		MetricsGatherer:   reg,
	})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestRouter_QuoteLifecycle(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/v1/clients", `{"name":"Mario Rossi","email":"mario@example.com"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create client: %d %s", rec.Code, rec.Body.String())
	}
	client := decode[map[string]any](t, rec)

	rec = do(t, h, http.MethodPost, "/v1/quotes", `{"clientId":"`+client["id"].(string)+`","items":[{"name":"Consulenza","price":80,"quantity":3}]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create quote: %d %s", rec.Code, rec.Body.String())
	}
	quote := decode[map[string]any](t, rec)
	id := quote["id"].(string)

	rec = do(t, h, http.MethodPost, "/v1/quotes/"+id+"/export", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("export: %d %s", rec.Code, rec.Body.String())
	}
	art := decode[map[string]any](t, rec)
	if art["name"] != "preventivo_"+id[:8]+".pdf" {
		t.Fatalf("unexpected artifact name %v", art["name"])
	}

	rec = do(t, h, http.MethodGet, "/v1/exports/"+art["name"].(string), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("download: %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF-") {
		t.Fatalf("download is not a pdf")
	}
	rec = do(t, h, http.MethodGet, "/v1/exports/a..b", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("invalid artifact name: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodDelete, "/v1/quotes/"+id, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", rec.Code)
	}
	rec = do(t, h, http.MethodGet, "/v1/quotes/"+id, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", rec.Code)
	}
}

func TestRouter_TotalsRouteIsNotAnID(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/v1/quotes/totals", `{"items":[{"name":"A","price":80,"quantity":3}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	body := decode[map[string]any](t, rec)
	formatted := body["formatted"].(map[string]any)
	if formatted["grandTotal"] != "292.80" {
		t.Fatalf("unexpected grand total %v", formatted["grandTotal"])
	}
}

func TestRouter_ErrorEnvelope(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPut, "/v1/projects/ghost", `{"name":"X"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body := decode[map[string]string](t, rec); body["error"] == "" {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}

	rec = do(t, h, http.MethodPost, "/v1/services", `{"name":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRouter_RepairAndProbes(t *testing.T) {
	h := newTestRouter(t)

	if rec := do(t, h, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("liveness: %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/health/ready", ""); rec.Code != http.StatusOK {
		t.Fatalf("readiness: %d", rec.Code)
	}

	rec := do(t, h, http.MethodPost, "/v1/admin/repair", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("repair: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Errorf("expected echo request metrics in output")
	}
}
