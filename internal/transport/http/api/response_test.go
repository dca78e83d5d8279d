package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, map[string]string{"status": "ok"}, "req-1")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}

	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if !env.Success || env.Error != nil || env.RequestID != "req-1" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestFailEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Fail(rec, http.StatusConflict, "already_assigned", "asset is already assigned", "req-2")

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Success || env.Error == nil {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if env.Error.Code != "already_assigned" {
		t.Fatalf("unexpected error code %q", env.Error.Code)
	}
}

func TestDecodeEmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	var dst struct{}
	if err := Decode(req, &dst); !errors.Is(err, ErrEmptyBody) {
		t.Fatalf("expected ErrEmptyBody, got %v", err)
	}
}

func TestDecodeBodyTooLarge(t *testing.T) {
	body := strings.NewReader(`{"note":"` + strings.Repeat("x", 100) + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Body = http.MaxBytesReader(httptest.NewRecorder(), req.Body, 10)

	var dst struct {
		Note string `json:"note"`
	}
	if err := Decode(req, &dst); !errors.Is(err, ErrBodyTooLarge) {
		t.Fatalf("expected ErrBodyTooLarge, got %v", err)
	}
}
