package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn", "json")
	l.Info("hidden")
	l.Warn("shown", "k", 1)

	out := strings.TrimSpace(buf.String())
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered at warn level: %s", out)
	}
	var line map[string]any
	if err := json.Unmarshal([]byte(out), &line); err != nil {
		t.Fatalf("expected a single json line, got %q: %v", out, err)
	}
	if line["msg"] != "shown" || line["k"] != float64(1) {
		t.Fatalf("unexpected line %v", line)
	}
}

func TestAccessMiddleware(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "debug", "text")
	h := AccessMiddleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("hello"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/map_data?zoom=3", nil))

	out := buf.String()
	for _, want := range []string{"msg=http_access", "status=418", "bytes=5", "path=/map_data"} {
		if !strings.Contains(out, want) {
			t.Errorf("access log %q missing %q", out, want)
		}
	}
}
