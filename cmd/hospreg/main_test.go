package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/hospreg/hospreg/internal/config"
	"github.com/hospreg/hospreg/internal/domain/registry"
	"github.com/hospreg/hospreg/internal/platform/middleware"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:            "8000",
		Env:             "test",
		LogLevel:        "info",
		CORSOrigins:     []string{"http://localhost:3000"},
		MetricsEnabled:  true,
		ShutdownTimeout: 10 * time.Second,
	}
}

func TestNewLogger_JSONOutsideDev(t *testing.T) {
	cfg := testConfig()
	var buf bytes.Buffer

	logger := newLogger(cfg, &buf)
	logger.Debug().Msg("hidden")
	logger.Info().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("expected debug line to be filtered at info level")
	}
	if !strings.Contains(out, `"message":"shown"`) {
		t.Errorf("expected JSON line, got %q", out)
	}
}

func TestNewRegistry_SeedsHospital(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultHospital = "Central"

	svc, err := newRegistry(context.Background(), cfg, zerolog.Nop(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f, err := svc.CurrentFacility(context.Background())
	if err != nil {
		t.Fatalf("expected a current facility, got %v", err)
	}
	if f.Name != "Central" {
		t.Errorf("expected Central, got %s", f.Name)
	}
}

func TestNewRegistry_NoSeed(t *testing.T) {
	svc, err := newRegistry(context.Background(), testConfig(), zerolog.Nop(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.CurrentFacility(context.Background()); err == nil {
		t.Error("expected no facility without DEFAULT_HOSPITAL")
	}
}

func TestNewServer_Routes(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultHospital = "Central"
	promReg := prometheus.NewRegistry()
	metrics := registry.NewMetrics(promReg)

	svc, err := newRegistry(context.Background(), cfg, zerolog.Nop(), metrics)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e := newServer(cfg, zerolog.Nop(), svc, promReg)

	body := `{"id":"12345678","name":"Ana Perez","specialty":"Cardiology"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/practitioners", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("expected a request id header")
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"practitioners":1`) {
		t.Errorf("expected practitioner count in health body, got %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "hospreg_practitioner_add_total") {
		t.Errorf("expected registry counters in metrics output")
	}
}

func TestNewServer_MetricsDisabled(t *testing.T) {
	cfg := testConfig()
	svc, _ := newRegistry(context.Background(), cfg, zerolog.Nop(), nil)
	e := newServer(cfg, zerolog.Nop(), svc, nil)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 with metrics disabled, got %d", rec.Code)
	}
}
