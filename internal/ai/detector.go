package ai

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yildizm/AIDetect/internal/logger"
)

// Detector adapts a Provider to the boolean verdict contract used by the
// analysis engine. Every call gets a fresh request id.
type Detector struct {
	provider Provider
	model    string
	log      *logger.Logger
}

// NewDetector wraps provider; model may be empty to use the provider default
func NewDetector(provider Provider, model string, log *logger.Logger) *Detector {
	if log == nil {
		log = logger.Nop("detector")
	}
	return &Detector{
		provider: provider,
		model:    model,
		log:      log.With(logger.F("provider", provider.Name())),
	}
}

// Provider returns the wrapped provider
func (d *Detector) Provider() Provider {
	return d.provider
}

// DetectText classifies a text passage
func (d *Detector) DetectText(ctx context.Context, text string) (bool, error) {
	req := &TextRequest{
		Text:      text,
		Model:     d.model,
		RequestID: uuid.NewString(),
	}

	start := time.Now()
	d.log.DebugWithFields("dispatching text detection", []logger.Field{
		logger.RequestID(req.RequestID),
		logger.F("chars", len(text)),
	})

	verdict, err := d.provider.DetectText(ctx, req)
	return d.finish(req.RequestID, start, verdict, err)
}

// DetectImage classifies an image payload
func (d *Detector) DetectImage(ctx context.Context, data []byte, mimeType string) (bool, error) {
	if !IsSupportedImageType(mimeType) {
		return false, NewValidationError("mime_type", mimeType, "unsupported image type "+mimeType)
	}

	req := &ImageRequest{
		Data:      data,
		MimeType:  mimeType,
		Model:     d.model,
		RequestID: uuid.NewString(),
	}

	start := time.Now()
	d.log.DebugWithFields("dispatching image detection", []logger.Field{
		logger.RequestID(req.RequestID),
		logger.F("bytes", len(data)),
		logger.F("mime", mimeType),
	})

	verdict, err := d.provider.DetectImage(ctx, req)
	return d.finish(req.RequestID, start, verdict, err)
}

func (d *Detector) finish(requestID string, start time.Time, verdict *Verdict, err error) (bool, error) {
	fields := []logger.Field{logger.RequestID(requestID), logger.Duration(time.Since(start))}
	if err != nil {
		d.log.WarnWithFields("detection failed", append(fields, logger.Error(err)))
		return false, err
	}
	if verdict == nil {
		return false, NewProviderError(ErrTypeMalformedResponse, "the detection service returned no verdict", d.provider.Name())
	}

	d.log.InfoWithFields("detection complete", append(fields, logger.F("ai_generated", verdict.IsAIGenerated)))
	return verdict.IsAIGenerated, nil
}
