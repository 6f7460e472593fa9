package trace_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hwstore/order/pkg/http/middleware/trace"
	"github.com/stretchr/testify/assert"
)

func TestTraceMiddleware_PassesThrough(t *testing.T) {
	for _, target := range []string{"/api/orders", "/swagger/index.html", "/api/openapi.json"} {
		called := false
		handler := trace.NewTraceMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			w.WriteHeader(http.StatusNoContent)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

		assert.True(t, called, target)
		assert.Equal(t, http.StatusNoContent, rec.Code, target)
	}
}
