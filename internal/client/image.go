package client

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"shipping/estimator/internal/config"
	"shipping/estimator/internal/domain"
	"shipping/estimator/internal/proxy"

	log "github.com/sirupsen/logrus"
	"resty.dev/v3"
)

// ImageFetcher retrieves a listing image for attachment to a predictor query.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (*domain.Image, error)
}

type imageFetcher struct {
	clients       map[string]*resty.Client // keyed by proxy URL, "" is direct
	proxySupplier proxy.Supplier
	timeout       time.Duration
	maxBytes      int64
}

// NewImageFetcher builds a fetcher that makes exactly one attempt per URL.
// With a non-empty supplier, fetches rotate across its proxies.
func NewImageFetcher(cfg config.ImageConfig, proxySupplier proxy.Supplier) ImageFetcher {
	f := &imageFetcher{
		clients:       make(map[string]*resty.Client),
		proxySupplier: proxySupplier,
		timeout:       cfg.Timeout,
		maxBytes:      cfg.MaxBytes,
	}

	f.clients[""] = newImageClient(cfg, "")
	if proxySupplier != nil {
		for i := 0; i < proxySupplier.Len(); i++ {
			p := proxySupplier.Get()
			f.clients[p] = newImageClient(cfg, p)
		}
	}

	return f
}

func newImageClient(cfg config.ImageConfig, proxyURL string) *resty.Client {
	c := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "image/avif,image/webp,image/png,image/jpeg,image/*;q=0.8,*/*;q=0.5")
	if cfg.MaxBytes > 0 {
		c.SetResponseBodyLimit(cfg.MaxBytes)
	}
	if proxyURL != "" {
		c.SetProxy(proxyURL)
	}
	return c
}

func (f *imageFetcher) client() (*resty.Client, string) {
	if f.proxySupplier == nil {
		return f.clients[""], ""
	}
	p := f.proxySupplier.Get()
	if c, ok := f.clients[p]; ok {
		return c, p
	}
	return f.clients[""], ""
}

func (f *imageFetcher) Fetch(ctx context.Context, url string) (*domain.Image, error) {
	if strings.TrimSpace(url) == "" {
		return nil, domain.RetrievalFailure("empty image url", nil)
	}

	reqCtx := ctx
	if f.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	c, proxyURL := f.client()
	resp, err := c.R().
		SetContext(reqCtx).
		Get(url)
	if errors.Is(err, resty.ErrReadExceedsThresholdLimit) {
		return nil, domain.RetrievalFailure(fmt.Sprintf("image exceeds %d bytes", f.maxBytes), err)
	}
	if err != nil {
		return nil, domain.RetrievalFailure("failed to fetch image", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, domain.RetrievalFailure(fmt.Sprintf("image fetch returned HTTP %d", resp.StatusCode()), nil)
	}

	data := resp.Bytes()
	if len(data) == 0 {
		return nil, domain.RetrievalFailure("image body is empty", nil)
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return nil, domain.RetrievalFailure(fmt.Sprintf("image is %d bytes, limit is %d", len(data), f.maxBytes), nil)
	}

	log.WithFields(log.Fields{
		"url":   url,
		"bytes": len(data),
		"proxy": proxyURL,
	}).Debug("Fetched listing image")

	return &domain.Image{
		Data:     data,
		MIMEType: imageMIMEType(resp.Header().Get("Content-Type"), data),
	}, nil
}

// imageMIMEType prefers an image/* Content-Type header, then sniffs the
// payload, then falls back to JPEG.
func imageMIMEType(header string, data []byte) string {
	if mt, _, err := mime.ParseMediaType(header); err == nil && strings.HasPrefix(mt, "image/") {
		return mt
	}
	if sniffed := http.DetectContentType(data); strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}
	return "image/jpeg"
}
