package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/api/middleware"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

func TestLogger(t *testing.T) {
	hook := logtest.NewGlobal()
	t.Cleanup(hook.Reset)

	h := chimw.RequestID(middleware.Logger(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/partner/x", nil)
	req.URL.Path = "/api/partner/x\n"
	h.ServeHTTP(httptest.NewRecorder(), req)

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("Expected a log entry")
	}
	if entry.Level != logrus.WarnLevel {
		t.Errorf("Expected warn level for 404, got %s", entry.Level)
	}
	if entry.Data["status"] != http.StatusNotFound {
		t.Errorf("Expected status 404, got %v", entry.Data["status"])
	}
	if entry.Data["path"] != "/api/partner/x" {
		t.Errorf("Expected sanitized path, got %q", entry.Data["path"])
	}
	if entry.Data["request_id"] == "" {
		t.Error("Expected a request id")
	}
}
