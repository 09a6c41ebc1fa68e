package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/kinsearch/internal/config"
	"github.com/kailas-cloud/kinsearch/internal/domain/actor"
	"github.com/kailas-cloud/kinsearch/internal/repository/sqlstore"
)

func TestOpenBackend_SQLite(t *testing.T) {
	cfg := config.Config{
		HTTP: config.HTTPConfig{Port: 8080},
		Database: config.DatabaseConfig{
			Driver:     config.DriverSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "kinsearch.db"),
		},
		Audit: config.AuditConfig{Sink: config.AuditSinkSQLite},
	}
	cfg.ApplyDefaults()

	be, err := openBackend(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("openBackend: %v", err)
	}
	defer be.closer.Close()

	if _, ok := be.audit.(*sqlstore.Repo); !ok {
		t.Errorf("audit sink = %T, want *sqlstore.Repo", be.audit)
	}
	if err := be.dbPinger.Ping(context.Background()); err != nil {
		t.Errorf("ping: %v", err)
	}
}

func TestOpenBackend_NoAudit(t *testing.T) {
	cfg := config.Config{
		Database: config.DatabaseConfig{
			Driver:     config.DriverSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "k.db"),
		},
		Audit: config.AuditConfig{Sink: config.AuditSinkNone},
	}
	cfg.ApplyDefaults()

	be, err := openBackend(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("openBackend: %v", err)
	}
	defer be.closer.Close()

	if be.audit != nil {
		t.Errorf("expected nil audit sink, got %T", be.audit)
	}
}

func TestOpenBackend_UnknownDriver(t *testing.T) {
	cfg := config.Config{Database: config.DatabaseConfig{Driver: "mongo"}}
	if _, err := openBackend(context.Background(), cfg, zap.NewNop()); err == nil {
		t.Fatal("expected error")
	}
}

func TestAPIKeys(t *testing.T) {
	keys := apiKeys(config.AuthConfig{APIKeys: []config.APIKeyConfig{
		{Key: "k", Role: "police", ActorID: "p1", Approval: "pending"},
	}})
	if len(keys) != 1 {
		t.Fatalf("expected 1 key, got %d", len(keys))
	}
	if keys[0].Role != actor.Police || keys[0].Approval != actor.Pending || keys[0].ActorID != "p1" {
		t.Errorf("unexpected key: %+v", keys[0])
	}
}

func TestJSONRecoverer(t *testing.T) {
	h := jsonRecoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/search", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "internal_error") {
		t.Errorf("body = %s", rr.Body.String())
	}
}
