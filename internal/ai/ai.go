package ai

import (
	"context"
	"errors"
)

var ErrMissingAPIKey = errors.New("missing GEMINI_API_KEY or GOOGLE_API_KEY")

// Source is one piece of research material handed to the report generator.
type Source struct {
	Name string
	Text string
	// PDF, when set, is attached to the prompt as the original document.
	PDF []byte
}

type ReportRequest struct {
	Topic   string
	Sources []Source
}

// Reporter produces long-form research text. Tabular figures are expected
// as GFM tables.
type Reporter interface {
	GenerateReport(ctx context.Context, req ReportRequest) (string, error)
	Summarize(ctx context.Context, text string, maxWords int) (string, error)
}

// Noop is the offline Reporter. It returns nothing, and callers fall back to
// the source text.
type Noop struct{}

func (Noop) GenerateReport(ctx context.Context, req ReportRequest) (string, error) {
	return "", nil
}

func (Noop) Summarize(ctx context.Context, text string, maxWords int) (string, error) {
	return "", nil
}
