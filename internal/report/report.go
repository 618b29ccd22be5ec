package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/thywilljoshua/research-blocks/internal/ai"
	"github.com/thywilljoshua/research-blocks/internal/blocks"
	"github.com/thywilljoshua/research-blocks/internal/render"
	"github.com/thywilljoshua/research-blocks/internal/source"
)

type Config struct {
	OutDir        string
	Topic         string
	Slug          string
	Sources       []string
	MaxPages      int
	DetectColumns bool
	Reporter      ai.Reporter
	Cache         *blocks.Cache
	Logger        *zap.Logger
	// Now stamps the front matter; defaults to time.Now.
	Now func() time.Time
}

type Result struct {
	Slug         string         `json:"slug"`
	MarkdownPath string         `json:"markdown_path"`
	BlocksPath   string         `json:"blocks_path"`
	Generated    bool           `json:"generated"`
	Summary      blocks.Summary `json:"summary"`
}

// Run loads the sources, asks the Reporter for a report, splits it into
// blocks and writes <slug>.md and <slug>.blocks.json to OutDir.
func Run(ctx context.Context, cfg Config) (Result, error) {
	if strings.TrimSpace(cfg.Topic) == "" {
		return Result{}, errors.New("report topic is required")
	}
	if cfg.OutDir == "" {
		cfg.OutDir = "."
	}
	if cfg.Reporter == nil {
		cfg.Reporter = ai.Noop{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	log := cfg.Logger
	slug := cfg.Slug
	if slug == "" {
		slug = Slugify(cfg.Topic)
	}
	if slug == "" {
		slug = "report"
	}

	docs, err := loadSources(ctx, cfg.Sources, source.LoadOptions{MaxPages: cfg.MaxPages, DetectColumns: cfg.DetectColumns})
	if err != nil {
		return Result{}, err
	}
	log.Info("Sources loaded", zap.Int("count", len(docs)))

	req := ai.ReportRequest{Topic: cfg.Topic}
	for _, d := range docs {
		s := ai.Source{Name: d.Name, Text: d.Text()}
		if d.IsPDF() {
			s.PDF = d.Raw
		}
		req.Sources = append(req.Sources, s)
	}

	text, err := cfg.Reporter.GenerateReport(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("generate report: %w", err)
	}
	generated := strings.TrimSpace(text) != ""
	if !generated {
		log.Warn("Reporter returned no text, using source text")
		text = fallbackText(cfg.Topic, docs)
	}
	text = ai.StripCodeFences(text) + "\n"

	bs := cfg.Cache.Parse(text)
	sum := blocks.Stats(bs)
	log.Info("Report segmented",
		zap.Int("blocks", sum.Blocks),
		zap.Int("tables", sum.Tables),
		zap.Int("rows", sum.Rows))

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return Result{}, err
	}
	res := Result{
		Slug:         slug,
		MarkdownPath: filepath.Join(cfg.OutDir, slug+".md"),
		BlocksPath:   filepath.Join(cfg.OutDir, slug+".blocks.json"),
		Generated:    generated,
		Summary:      sum,
	}
	fm := frontMatter{Title: cfg.Topic, Topic: cfg.Topic, Generated: cfg.Now().UTC().Format(time.RFC3339)}
	if generated {
		abstract, err := cfg.Reporter.Summarize(ctx, text, 40)
		if err != nil {
			log.Warn("Summary failed", zap.Error(err))
		}
		fm.Description = strings.TrimSpace(abstract)
	}
	if err := writeMarkdown(res.MarkdownPath, fm, bs); err != nil {
		return Result{}, err
	}
	if err := writeBlocks(res.BlocksPath, bs); err != nil {
		return Result{}, err
	}
	return res, nil
}

// loadSources reads every source concurrently, keeping the given order.
func loadSources(ctx context.Context, paths []string, opts source.LoadOptions) ([]source.Document, error) {
	docs := make([]source.Document, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := source.Load(p, opts)
			if err != nil {
				return err
			}
			docs[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

func fallbackText(topic string, docs []source.Document) string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(topic)
	b.WriteString("\n")
	for _, d := range docs {
		t := d.Text()
		if strings.TrimSpace(t) == "" {
			continue
		}
		b.WriteString("\n## ")
		b.WriteString(d.Name)
		b.WriteString("\n\n")
		b.WriteString(t)
		b.WriteString("\n")
	}
	return b.String()
}

func writeBlocks(path string, bs []blocks.Block) error {
	b, err := json.MarshalIndent(bs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

func writeMarkdown(path string, fm frontMatter, bs []blocks.Block) error {
	head, err := fm.encode()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(head+"\n"+render.Markdown(bs)), 0o644)
}
