package proxy

import (
	"context"
	"crypto/tls"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
	"resty.dev/v3"
)

// Supplier hands out proxies in round-robin order
type Supplier interface {
	// Get returns the next proxy URL, or "" when no proxies are available.
	Get() string
	Len() int
}

type supplier struct {
	proxies []string
	next    atomic.Uint64
}

// NewSupplier probes every proxy against testURL in parallel and keeps only
// the working ones. An empty list gives a supplier that always returns "".
func NewSupplier(ctx context.Context, proxies []string, testURL string) Supplier {
	if len(proxies) == 0 {
		return &supplier{}
	}

	validProxiesCh := make(chan string, len(proxies))

	log.Infof("🔄 Testing %d image proxies in parallel...", len(proxies))

	semaphore := make(chan struct{}, 50)

	var wg sync.WaitGroup
	for _, proxyURL := range proxies {
		wg.Add(1)

		go func(proxy string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if isProxyValid(ctx, proxy, testURL) {
				validProxiesCh <- proxy
				log.Infof("✅ Proxy %s is working", proxy)
			} else {
				log.Infof("❌ Proxy %s is not working, skipping", proxy)
			}
		}(proxyURL)
	}

	wg.Wait()
	close(validProxiesCh)

	validProxies := make([]string, 0, len(proxies))
	for proxy := range validProxiesCh {
		validProxies = append(validProxies, proxy)
	}

	log.Infof("✅ Proxy supplier initialized with %d working proxies out of %d tested", len(validProxies), len(proxies))

	return NewStaticSupplier(validProxies)
}

// NewStaticSupplier rotates over proxies without probing them.
func NewStaticSupplier(proxies []string) Supplier {
	return &supplier{proxies: proxies}
}

func (p *supplier) Get() string {
	if len(p.proxies) == 0 {
		return ""
	}
	n := p.next.Add(1) - 1
	return p.proxies[n%uint64(len(p.proxies))]
}

func (p *supplier) Len() int {
	return len(p.proxies)
}

func isProxyValid(ctx context.Context, proxyURL, testURL string) bool {
	client := resty.New().
		SetTimeout(5 * time.Second).
		SetRetryCount(0).
		SetProxy(proxyURL).
		SetTLSClientConfig(&tls.Config{
			InsecureSkipVerify: true,
		})
	defer client.Close()

	resp, err := client.R().
		SetContext(ctx).
		Head(testURL)

	if err != nil {
		log.Debugf("Proxy test failed for %s: %v", proxyURL, err)
		return false
	}

	if resp.IsError() {
		log.Debugf("Proxy test failed for %s with status: %s", proxyURL, resp.Status())
		return false
	}

	return true
}
