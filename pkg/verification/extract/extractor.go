package extract

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"ai-verification-be/internal/pkg/logger"
	"ai-verification-be/pkg/verification/dispatch"
	"ai-verification-be/pkg/verification/schema"
)

// DefaultMaxChars bounds the text handed to evaluators
const DefaultMaxChars = 60000

// Payload is evaluator-ready content
type Payload struct {
	Text        string
	ImageBase64 string
	MIMEType    string
}

// Empty reports whether extraction produced nothing to evaluate
func (p Payload) Empty() bool {
	return strings.TrimSpace(p.Text) == "" && p.ImageBase64 == ""
}

// FailureReason is the diagnostic reason used when a category yields empty content
func FailureReason(c schema.Category) string {
	switch c {
	case schema.CategoryImage:
		return schema.ReasonImageExtractFailed
	case schema.CategoryCSV:
		return schema.ReasonCSVExtractFailed
	default:
		return schema.ReasonTextExtractFailed
	}
}

// formatFunc converts raw bytes into text
type formatFunc func(ctx context.Context, data []byte) (string, error)

type Config struct {
	MaxChars     int
	AntiwordPath string
}

// Extractor normalizes raw document bytes per dispatch format
type Extractor struct {
	maxChars int
	formats  map[dispatch.Format]formatFunc
	logger   logger.ILogger
}

func NewExtractor(cfg Config, log logger.ILogger) *Extractor {
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = DefaultMaxChars
	}
	doc := NewDocConverter(cfg.AntiwordPath, log)
	return &Extractor{
		maxChars: cfg.MaxChars,
		logger:   log,
		formats: map[dispatch.Format]formatFunc{
			dispatch.FormatPDF:   func(_ context.Context, b []byte) (string, error) { return PDFText(b) },
			dispatch.FormatDOCX:  func(_ context.Context, b []byte) (string, error) { return DOCXText(b) },
			dispatch.FormatDOC:   doc.Text,
			dispatch.FormatPlain: func(_ context.Context, b []byte) (string, error) { return PlainText(b), nil },
			dispatch.FormatCSV:   func(_ context.Context, b []byte) (string, error) { return CSVText(b) },
			dispatch.FormatXLSX:  func(_ context.Context, b []byte) (string, error) { return XLSXText(b) },
			dispatch.FormatXLS:   func(_ context.Context, b []byte) (string, error) { return XLSText(b) },
		},
	}
}

// Extract never fails the pipeline: parse errors are logged and reported as
// an empty Payload, which callers short-circuit on.
func (e *Extractor) Extract(ctx context.Context, route dispatch.Route, data []byte) Payload {
	if route.Format == dispatch.FormatImage {
		return Payload{ImageBase64: EncodeImage(data), MIMEType: route.MIMEType}
	}

	fn, ok := e.formats[route.Format]
	if !ok {
		e.logger.Warn("EXTRACT", "No extractor for format, content treated as empty", map[string]interface{}{
			"format":    route.Format,
			"mime_type": route.MIMEType,
		})
		return Payload{MIMEType: route.MIMEType}
	}

	text, err := e.safeRun(ctx, fn, data)
	if err != nil {
		e.logger.Warn("EXTRACT", "Content extraction failed", map[string]interface{}{
			"format": route.Format,
			"error":  err.Error(),
		})
		return Payload{MIMEType: route.MIMEType}
	}
	return Payload{Text: truncate(text, e.maxChars), MIMEType: route.MIMEType}
}

func (e *Extractor) safeRun(ctx context.Context, fn formatFunc, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extractor panic: %v", r)
		}
	}()
	return fn(ctx, data)
}

func truncate(s string, maxChars int) string {
	if utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxChars])
}
