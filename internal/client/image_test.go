package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"shipping/estimator/internal/config"
	"shipping/estimator/internal/domain"
	"shipping/estimator/internal/proxy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func testImageConfig() config.ImageConfig {
	return config.ImageConfig{
		Timeout:   2 * time.Second,
		UserAgent: "test-agent",
		MaxBytes:  1024,
	}
}

func TestImageFetcher_Fetch(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(pngHeader)
	}))
	defer srv.Close()

	img, err := NewImageFetcher(testImageConfig(), nil).Fetch(context.Background(), srv.URL+"/photo.png")
	require.NoError(t, err)
	assert.Equal(t, pngHeader, img.Data)
	assert.Equal(t, "image/png", img.MIMEType)
	assert.Equal(t, 1, hits)
}

func TestImageFetcher_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"not found", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) }},
		{"no content", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }},
		{"too large", func(w http.ResponseWriter, r *http.Request) { w.Write(make([]byte, 2048)) }},
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := 0
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits++
				tt.handler(w, r)
			}))
			defer srv.Close()

			_, err := NewImageFetcher(testImageConfig(), nil).Fetch(context.Background(), srv.URL)
			require.Error(t, err)
			assert.True(t, domain.IsKind(err, domain.KindRetrieval))
			assert.Equal(t, 1, hits, "no retries")
		})
	}
}

func TestImageFetcher_EmptyURL(t *testing.T) {
	_, err := NewImageFetcher(testImageConfig(), nil).Fetch(context.Background(), " ")
	assert.True(t, domain.IsKind(err, domain.KindRetrieval))
}

func TestImageMIMEType(t *testing.T) {
	assert.Equal(t, "image/webp", imageMIMEType("image/webp; charset=binary", nil))
	assert.Equal(t, "image/png", imageMIMEType("text/plain", pngHeader))
	assert.Equal(t, "image/jpeg", imageMIMEType("", []byte("hello")))
}

func TestImageFetcher_StreamingBodyOverLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		chunk := make([]byte, 1024)
		for i := 0; i < 1024; i++ {
			if _, err := w.Write(chunk); err != nil {
				return
			}
			w.(http.Flusher).Flush()
		}
	}))
	defer srv.Close()

	img, err := NewImageFetcher(testImageConfig(), nil).Fetch(context.Background(), srv.URL)
	assert.Nil(t, img)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindRetrieval))
	assert.ErrorContains(t, err, "exceeds 1024 bytes")
}

func TestImageFetcher_BodyAtLimit(t *testing.T) {
	body := append(append([]byte{}, pngHeader...), make([]byte, 1024-len(pngHeader))...)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	img, err := NewImageFetcher(testImageConfig(), nil).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, img.Data, 1024)
}

func TestImageFetcher_ThroughProxies(t *testing.T) {
	newProxy := func(hits *atomic.Int32, hosts chan<- string) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			hosts <- r.URL.Host
			w.Write(pngHeader)
		}))
	}

	hosts := make(chan string, 2)
	var hitsA, hitsB atomic.Int32
	proxyA := newProxy(&hitsA, hosts)
	defer proxyA.Close()
	proxyB := newProxy(&hitsB, hosts)
	defer proxyB.Close()

	f := NewImageFetcher(testImageConfig(), proxy.NewStaticSupplier([]string{proxyA.URL, proxyB.URL}))

	for i := 0; i < 2; i++ {
		img, err := f.Fetch(context.Background(), "http://images.example/photo.png")
		require.NoError(t, err)
		assert.Equal(t, "image/png", img.MIMEType)
		assert.Equal(t, "images.example", <-hosts)
	}

	assert.Equal(t, int32(1), hitsA.Load())
	assert.Equal(t, int32(1), hitsB.Load())
}
