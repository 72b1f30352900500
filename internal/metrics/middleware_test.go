package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/probe", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	before := testutil.ToFloat64(RequestTotal.WithLabelValues("GET", "/probe", "418"))
	unmatched := testutil.ToFloat64(RequestTotal.WithLabelValues("GET", "unmatched", "404"))

	for _, path := range []string{"/probe", "/probe", "/nope/123"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(RequestTotal.WithLabelValues("GET", "/probe", "418")); got != before+2 {
		t.Errorf("probe count = %v, want %v", got, before+2)
	}
	if got := testutil.ToFloat64(RequestTotal.WithLabelValues("GET", "unmatched", "404")); got != unmatched+1 {
		t.Errorf("unmatched count = %v, want %v", got, unmatched+1)
	}
}
