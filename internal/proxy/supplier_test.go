package proxy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaticSupplier_RoundRobin(t *testing.T) {
	s := NewStaticSupplier([]string{"http://a:1", "http://b:2"})

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "http://a:1", s.Get())
	assert.Equal(t, "http://b:2", s.Get())
	assert.Equal(t, "http://a:1", s.Get())
}

func TestSupplier_Empty(t *testing.T) {
	s := NewSupplier(context.Background(), nil, "http://unused")

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, "", s.Get())
}

func TestSupplier_KeepsOnlyWorkingProxies(t *testing.T) {
	live := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		assert.Equal(t, "availability.example", r.URL.Host)
		w.WriteHeader(http.StatusOK)
	}))
	defer live.Close()

	rejecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer rejecting.Close()

	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	s := NewSupplier(context.Background(), []string{deadURL, live.URL, rejecting.URL}, "http://availability.example/")

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, live.URL, s.Get())
	assert.Equal(t, live.URL, s.Get())
}
