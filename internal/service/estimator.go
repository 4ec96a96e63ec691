package service

import (
	"context"
	"time"

	"shipping/estimator/internal/client"
	"shipping/estimator/internal/domain"

	log "github.com/sirupsen/logrus"
)

// FallbackResolver produces the category-statistics estimate for a path.
type FallbackResolver interface {
	Resolve(categoryPath string) domain.FallbackEstimate
}

// Estimator fuses the predictor's reply with the category fallback. It holds
// no mutable state and is safe for concurrent use.
type Estimator struct {
	resolver  FallbackResolver
	predictor client.Predictor
	images    client.ImageFetcher
}

func NewEstimator(resolver FallbackResolver, predictor client.Predictor, images client.ImageFetcher) *Estimator {
	return &Estimator{
		resolver:  resolver,
		predictor: predictor,
		images:    images,
	}
}

// Estimate returns an InputError when the product name is empty; every other
// failure degrades to the category fallback with provenance explaining why.
func (e *Estimator) Estimate(ctx context.Context, req domain.EstimateRequest) (domain.EstimationResult, error) {
	if req.ProductName == "" {
		return domain.EstimationResult{}, domain.InputError("productName is required")
	}

	started := time.Now()
	logger := log.WithField("product", req.ProductName)

	fallback := e.resolver.Resolve(req.CategoryPath)
	logger.Debugf("Category fallback for %q: %.1fg / %.1fcm³", req.CategoryPath, fallback.WeightGrams, fallback.VolumeCubicCm)

	query := domain.PredictorQuery{
		System: systemPrompt,
		Prompt: buildPrompt(req, fallback),
		Image:  e.firstImage(ctx, req.ImageURLs, logger),
	}

	result := e.predict(ctx, query, fallback, logger)

	logger.WithFields(log.Fields{
		"weight_g":   result.WeightGrams,
		"volume_cm3": result.VolumeCubicCm,
		"confidence": result.Provenance.Confidence,
		"source":     result.Provenance.Source,
		"image":      query.Image != nil,
		"elapsed":    time.Since(started).Round(time.Millisecond),
	}).Info("📦 Estimate ready")

	return result, nil
}

// firstImage fetches only the first image; any failure means no image.
func (e *Estimator) firstImage(ctx context.Context, urls []string, logger *log.Entry) *domain.Image {
	if len(urls) == 0 || e.images == nil {
		return nil
	}

	img, err := e.images.Fetch(ctx, urls[0])
	if err != nil {
		logger.Warnf("⚠️ Image retrieval failed, continuing without image: %v", err)
		return nil
	}
	return img
}

func (e *Estimator) predict(ctx context.Context, query domain.PredictorQuery, fallback domain.FallbackEstimate, logger *log.Entry) domain.EstimationResult {
	if e.predictor == nil {
		return fallbackResult(fallback, domain.RecognizedError, "predictor is not configured")
	}

	raw, err := e.predictor.Predict(ctx, query)
	if err != nil {
		failure := domain.PredictorTransportFailure("predictor call failed", err)
		logger.Warnf("❌ %v", failure)
		return fallbackResult(fallback, domain.RecognizedError, failure.Error())
	}

	reply, err := parseReply(raw)
	if err != nil {
		logger.Warnf("❌ %v", err)
		return fallbackResult(fallback, domain.RecognizedParseFailed, err.Error())
	}

	return reconcile(reply, fallback)
}
