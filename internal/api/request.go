package api

import (
	"bytes"
	"encoding/json"
	"strings"

	"shipping/estimator/internal/domain"
)

// listingFields is the wrapped envelope's data object, as produced by the
// listing extractor.
type listingFields struct {
	ProductName        string             `json:"productName"`
	ProductDescription string             `json:"productDescription"`
	Category           categoryField      `json:"category"`
	ImageURLs          []string           `json:"imageUrls"`
	PriceKRW           *domain.FlexNumber `json:"priceKRW"`
}

type wrappedEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func (w wrappedEnvelope) isWrapped() bool {
	data := bytes.TrimSpace(w.Data)
	return w.Success && len(data) > 0 && data[0] == '{'
}

// flatEnvelope accepts both camelCase and snake_case names.
type flatEnvelope struct {
	ProductName        *string            `json:"productName"`
	ProductNameSnake   string             `json:"product_name"`
	ProductDescription *string            `json:"productDescription"`
	Description        string             `json:"description"`
	Category           categoryField      `json:"category"`
	ImageURLs          []string           `json:"imageUrls"`
	ImageURLsSnake     []string           `json:"image_urls"`
	PriceKRW           *domain.FlexNumber `json:"priceKRW"`
	Price              *domain.FlexNumber `json:"price"`
}

// categoryField is a breadcrumb string or a list of breadcrumb segments.
type categoryField string

func (c *categoryField) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*c = ""
		return nil
	}
	if len(b) > 0 && b[0] == '[' {
		var segments []string
		if err := json.Unmarshal(b, &segments); err != nil {
			return err
		}
		*c = categoryField(strings.Join(segments, domain.CategoryPathJoinString))
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*c = categoryField(s)
	return nil
}

// decodeEstimateRequest resolves either envelope into the canonical request.
// It does not check the product name; the estimator owns that rule.
func decodeEstimateRequest(body []byte) (domain.EstimateRequest, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return domain.EstimateRequest{}, domain.InputError("No JSON data provided")
	}

	var wrapped wrappedEnvelope
	if err := json.Unmarshal(trimmed, &wrapped); err == nil && wrapped.isWrapped() {
		var data listingFields
		if err := json.Unmarshal(wrapped.Data, &data); err != nil {
			return domain.EstimateRequest{}, domain.NewError(domain.KindInput, "invalid request body", err)
		}
		return data.canonical(), nil
	}

	var flat flatEnvelope
	if err := json.Unmarshal(trimmed, &flat); err != nil {
		return domain.EstimateRequest{}, domain.NewError(domain.KindInput, "invalid request body", err)
	}
	return flat.canonical(), nil
}

func (l *listingFields) canonical() domain.EstimateRequest {
	return domain.EstimateRequest{
		ProductName:   l.ProductName,
		Description:   l.ProductDescription,
		CategoryPath:  string(l.Category),
		ImageURLs:     nonEmpty(l.ImageURLs),
		DeclaredPrice: price(l.PriceKRW),
	}
}

func (f *flatEnvelope) canonical() domain.EstimateRequest {
	req := domain.EstimateRequest{
		ProductName:  f.ProductNameSnake,
		Description:  f.Description,
		CategoryPath: string(f.Category),
		ImageURLs:    nonEmpty(f.ImageURLsSnake),
	}
	if f.ProductName != nil {
		req.ProductName = *f.ProductName
	}
	if f.ProductDescription != nil {
		req.Description = *f.ProductDescription
	}
	if f.ImageURLs != nil {
		req.ImageURLs = nonEmpty(f.ImageURLs)
	}
	if f.PriceKRW != nil {
		req.DeclaredPrice = price(f.PriceKRW)
	} else {
		req.DeclaredPrice = price(f.Price)
	}
	return req
}

func price(n *domain.FlexNumber) float64 {
	if n == nil {
		return 0
	}
	return n.Float()
}

func nonEmpty(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}
