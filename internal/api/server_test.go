package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testServer(deps map[string]Pinger) *Server {
	return NewServer(slog.New(slog.NewTextHandler(io.Discard, nil)), deps)
}

func TestHealth(t *testing.T) {
	srv := testServer(nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestReady(t *testing.T) {
	ok := PingerFunc(func(ctx context.Context) error { return nil })
	broken := PingerFunc(func(ctx context.Context) error { return errors.New("connection refused") })

	t.Run("all dependencies up", func(t *testing.T) {
		srv := testServer(map[string]Pinger{"redis": ok, "database": ok})
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("one dependency down", func(t *testing.T) {
		srv := testServer(map[string]Pinger{"redis": ok, "database": broken})
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", rec.Code)
		}
		var checks map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &checks); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if checks["redis"] != "ok" {
			t.Errorf("redis check = %q", checks["redis"])
		}
		if checks["database"] != "connection refused" {
			t.Errorf("database check = %q", checks["database"])
		}
	})
}
