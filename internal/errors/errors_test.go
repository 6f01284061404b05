package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{Internal("x"), http.StatusInternalServerError},
		{Validation("x"), http.StatusBadRequest},
		{BadRequest("x"), http.StatusBadRequest},
		{NotFoundf("chart %q", "pie"), http.StatusNotFound},
		{RateLimit("x"), http.StatusTooManyRequests},
		{ServiceUnavailable("x"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Code), func(t *testing.T) {
			if tt.err.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", tt.err.StatusCode, tt.want)
			}
		})
	}
}

func TestWrap_Unwraps(t *testing.T) {
	cause := stderrors.New("disk gone")
	err := InternalWrap(cause, "load failed")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "disk gone") {
		t.Errorf("Error() = %q, should mention the cause", err.Error())
	}
}

func TestWriteError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("app error", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, logger, NotFoundf("unknown chart %q", "pie"), "req-1")

		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
		var resp ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatal(err)
		}
		if resp.Success || resp.Error.RequestID != "req-1" || resp.Error.Code != CodeNotFound {
			t.Errorf("unexpected response %+v", resp.Error)
		}
	})

	t.Run("wrapped app error", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, logger, fmt.Errorf("handler: %w", BadRequest("bad region")), "")

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("plain error", func(t *testing.T) {
		var logs bytes.Buffer
		w := httptest.NewRecorder()
		WriteError(w, slog.New(slog.NewTextHandler(&logs, nil)), stderrors.New("boom"), "req-2")

		if w.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", w.Code)
		}
		if !strings.Contains(logs.String(), "level=ERROR") {
			t.Errorf("server errors should log at error level: %s", logs.String())
		}
	})
}

func TestWriteSuccessWithHeaders(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	w := httptest.NewRecorder()

	WriteSuccessWithHeaders(w, logger, map[string]int{"records": 3}, map[string]string{"Cache-Control": "public, max-age=60"})

	if w.Header().Get("Cache-Control") != "public, max-age=60" {
		t.Errorf("missing cache header")
	}
	var resp struct {
		Success bool           `json:"success"`
		Data    map[string]int `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.Data["records"] != 3 {
		t.Errorf("unexpected response %+v", resp)
	}
}
