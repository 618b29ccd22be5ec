package ai

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	genai "google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

type Gemini struct {
	client *genai.Client
	model  string
	log    *zap.Logger
}

func NewGemini(ctx context.Context, apiKey, model string, log *zap.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = DefaultModel
	}
	if log == nil {
		log = zap.NewNop()
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Gemini{client: c, model: model, log: log}, nil
}

func (g *Gemini) Model() string { return g.model }

func (g *Gemini) generate(ctx context.Context, contents []*genai.Content) (string, error) {
	res, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}
	return res.Text(), nil
}

func (g *Gemini) GenerateReport(ctx context.Context, req ReportRequest) (string, error) {
	if g.client == nil {
		return "", nil
	}
	parts := []*genai.Part{{Text: reportPrompt(req)}}
	for _, s := range req.Sources {
		if len(s.PDF) > 0 {
			parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: "application/pdf", Data: s.PDF}})
		}
	}
	g.log.Debug("Requesting report",
		zap.String("model", g.model),
		zap.String("topic", req.Topic),
		zap.Int("sources", len(req.Sources)),
		zap.Int("parts", len(parts)))

	out, err := g.generate(ctx, []*genai.Content{{Role: genai.RoleUser, Parts: parts}})
	if err != nil {
		return "", err
	}
	g.log.Debug("Report received", zap.Int("bytes", len(out)))
	return StripCodeFences(out), nil
}

func (g *Gemini) Summarize(ctx context.Context, text string, maxWords int) (string, error) {
	if g.client == nil {
		return "", nil
	}
	if maxWords <= 0 {
		maxWords = 25
	}
	prompt := fmt.Sprintf("Summarize in one sentence (max %d words):\n\n%s", maxWords, text)
	out, err := g.generate(ctx, []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func reportPrompt(req ReportRequest) string {
	var b strings.Builder
	b.WriteString(`You are an investment research analyst. Write a long-form research report in Markdown.

RULES:
- Use ## headings for sections and plain paragraphs for narrative.
- Present every set of comparable figures (financials, ratios, peers, scenarios) as a GitHub-flavored Markdown table:
  a header row, a separator row of hyphens, then one row per line, each line starting and ending with |.
- Never put a | character inside a table cell.
- Leave a blank line before and after every table.
- Return ONLY the report - DO NOT wrap your response in ` + "```markdown or ```" + ` code fences.
`)
	b.WriteString("\nTOPIC: ")
	b.WriteString(req.Topic)
	b.WriteString("\n")
	for _, s := range req.Sources {
		if strings.TrimSpace(s.Text) == "" {
			continue
		}
		b.WriteString("\n--- SOURCE: ")
		b.WriteString(s.Name)
		b.WriteString(" ---\n")
		b.WriteString(s.Text)
		b.WriteString("\n")
	}
	return b.String()
}

// StripCodeFences unwraps a response the model put inside a single ``` fence,
// dropping the fence line with its language tag. Anything else is only
// trimmed.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	body, ok := strings.CutPrefix(s, "```")
	if !ok {
		return s
	}
	if _, rest, found := strings.Cut(body, "\n"); found {
		body = rest
	} else {
		body = ""
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(body), "```"))
}
