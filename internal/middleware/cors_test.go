package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akolanti/DocGateway/internal/config"
)

func TestPreflightHandler(t *testing.T) {
	Init(&config.Settings{CORSAllowOrigin: "https://app.example.com"})
	defer Init(nil)

	w := httptest.NewRecorder()
	PreflightHandler(w, httptest.NewRequest("OPTIONS", "/upload", nil))

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("allow-origin = %q, want configured origin", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Error("allow-methods header missing")
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); got == "" {
		t.Error("allow-headers header missing")
	}
}

func TestCorsHeaders_DefaultsToWildcard(t *testing.T) {
	Init(nil)

	w := httptest.NewRecorder()
	corsHeaders(requestResponseStruct{writer: w, req: httptest.NewRequest("GET", "/documents", nil)})

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow-origin = %q, want *", got)
	}
}
