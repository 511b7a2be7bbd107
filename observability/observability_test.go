package observability

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics()

	RecordHTTPRequest("GET", "/health", 200, 12*time.Millisecond)
	RecordMove("player", true)
	RecordCollision("player", "pellet")
	RecordOutcome("won")
	SetActiveSessions(3)

	if got := testutil.ToFloat64(activeSessions); got != 3 {
		t.Errorf("active sessions = %v, want 3", got)
	}
}

func TestInitLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := initLogger(&buf, "test", "warn")
	if logger.GetLevel() != zerolog.WarnLevel {
		t.Errorf("level = %v, want warn", logger.GetLevel())
	}

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected output: %q", buf.String())
	}

	if got := initLogger(&buf, "test", "nonsense").GetLevel(); got != zerolog.InfoLevel {
		t.Errorf("fallback level = %v, want info", got)
	}
}

func TestMiddlewareRecordsRouteTemplate(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	router := mux.NewRouter()
	router.Use(RequestLogger(logger), RequestMetricsMiddleware())
	router.HandleFunc("/api/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("missing"))
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/sessions/{id}", "404"))

	req := httptest.NewRequest("GET", "/api/sessions/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/sessions/{id}", "404"))
	if after != before+1 {
		t.Errorf("request counter = %v, want %v", after, before+1)
	}
	out := buf.String()
	if !strings.Contains(out, `"path":"/api/sessions/{id}"`) || !strings.Contains(out, `"level":"warn"`) {
		t.Errorf("unexpected log line: %s", out)
	}
	if !strings.Contains(out, `"bytes":7`) {
		t.Errorf("expected byte count in log line: %s", out)
	}
}
