package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupSubscriptionRouter() *gin.Engine {
	r := gin.New()
	handler := NewHandler(nil, nil, nil, nil)
	r.PUT("/api/subscriptions", handler.PutSubscription)
	return r
}

func TestPutSubscription_InvalidRequest(t *testing.T) {
	router := setupSubscriptionRouter()

	testCases := []struct {
		name string
		body string
	}{
		{name: "Empty body", body: ""},
		{name: "Missing keys", body: `{"endpoint":"https://push.example.com/x"}`},
		{name: "Malformed JSON", body: `{"endpoint":`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPut, "/api/subscriptions", strings.NewReader(tc.body))
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"invalid request"}`, w.Body.String())
		})
	}
}

func TestRawQueryParam(t *testing.T) {
	v, ok := rawQueryParam("a=1&endpoint=https://push.example.com/a%2Fb&z=2", "endpoint")
	assert.True(t, ok)
	assert.Equal(t, "https://push.example.com/a%2Fb", v)

	_, ok = rawQueryParam("a=1", "endpoint")
	assert.False(t, ok)
}
