// Package analysis turns an uploaded manuscript into a structured
// editorial report: local linguistic statistics, model-extracted evidence
// snippets, and radar scores across three modes. Model output never
// reaches the response unsanitized, and every model stage has a
// deterministic fallback so a report always comes back whole.
package analysis

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/foliograph/inkscore/audit"
	"github.com/foliograph/inkscore/docpipe"
	"github.com/foliograph/inkscore/gemini"
	"github.com/foliograph/inkscore/lingstat"
)

// Static genre hints feed the scoring prompt; the model may override them
// in its reply. A dedicated classifier stage can replace these later.
const (
	defaultGenre    = "General Fiction"
	defaultSubgenre = "Contemporary"
)

var defaultSubgenreCandidates = []string{"Contemporary", "Literary", "Commercial", "Speculative"}

// Generator produces model completions. *gemini.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, parts []gemini.Part, cfg *gemini.GenerationConfig) (*gemini.Result, error)
}

// Upload is one manuscript file handed in for analysis.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Service is the manuscript analysis orchestrator.
type Service struct {
	cfg       *Config
	gen       Generator
	extractor *docpipe.Pipeline
	logger    *slog.Logger
	audit     audit.Logger
}

// ServiceOption configures a Service during creation.
type ServiceOption func(*Service)

// WithExtractor replaces the default document extraction pipeline.
func WithExtractor(p *docpipe.Pipeline) ServiceOption {
	return func(s *Service) { s.extractor = p }
}

// WithAudit enables the analysis audit trail.
func WithAudit(a audit.Logger) ServiceOption {
	return func(s *Service) { s.audit = a }
}

// New creates an analysis Service.
func New(cfg *Config, gen Generator, logger *slog.Logger, opts ...ServiceOption) (*Service, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if gen == nil {
		return nil, fmt.Errorf("analysis: generator is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	svc := &Service{
		cfg:    cfg,
		gen:    gen,
		logger: logger,
		extractor: docpipe.New(docpipe.Config{
			MaxFileSize: cfg.MaxFileBytes(),
			Logger:      logger,
		}),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Analyze runs the full pipeline on one upload. The two model stages fail
// soft: a dead extraction stage yields an empty evidence index, a dead
// scoring stage yields fallback scores and canned prose. Text extraction
// failing outright is the only hard error past input validation.
func (s *Service) Analyze(ctx context.Context, up Upload) (*Report, error) {
	start := time.Now()

	if s.cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if len(up.Data) == 0 {
		return nil, ErrNoFile
	}
	if int64(len(up.Data)) > s.cfg.MaxFileBytes() {
		return nil, fmt.Errorf("%w (%d MB max)", ErrFileTooLarge, s.cfg.MaxFileMB)
	}

	rawText, err := s.extractText(ctx, up)
	if err != nil {
		s.auditOutcome(ctx, up, nil, "", "", time.Since(start), err)
		return nil, err
	}
	cleaned := strings.TrimSpace(rawText)
	if len([]rune(cleaned)) < s.cfg.MinTextChars {
		s.auditOutcome(ctx, up, nil, "", "", time.Since(start), ErrNotEnoughText)
		return nil, ErrNotEnoughText
	}

	truncated := truncateText(cleaned, s.cfg.MaxTextChars)
	local := lingstat.Analyze(truncated)

	evidence, partial, extractionModel := s.runExtraction(ctx, truncated, local.Stats)
	merged := mergeLanguageStats(local.Stats, partial)

	outcome := s.runScoring(ctx, truncated, merged)

	if evidence == nil {
		evidence = []EvidenceSnippet{}
	}
	report := &Report{
		SchemaVersion:      SchemaVersion,
		FileName:           up.FileName,
		TitleGuess:         pickTitle(cleaned, up.FileName),
		DetectedGenre:      outcome.Genre,
		DetectedSubgenre:   outcome.Subgenre,
		SubgenreCandidates: outcome.Candidates,
		WordCount:          local.WordCount,
		CharCount:          local.CharCount,
		SpiderByMode:       outcome.Spider,
		Highlights:         outcome.Highlights,
		LanguageStats:      merged,
		EvidenceIndex:      evidence,
		Summary:            outcome.Summary,
	}

	s.auditOutcome(ctx, up, report, extractionModel, outcome.Model, time.Since(start), nil)
	s.logger.Info("manuscript analyzed",
		"file", up.FileName,
		"words", report.WordCount,
		"evidence", len(report.EvidenceIndex),
		"extraction_model", extractionModel,
		"scoring_model", outcome.Model,
		"duration", time.Since(start))
	return report, nil
}

// extractText resolves an upload to plain text. PDFs go through the model
// first with the raw bytes inline; local extraction is the fallback when
// the model path fails but pdfcpu still yields usable prose. Formats the
// pipeline does not recognize are read as UTF-8 text.
func (s *Service) extractText(ctx context.Context, up Upload) (string, error) {
	format, err := s.extractor.Detect(up.FileName, up.ContentType, up.Data)
	if err != nil {
		s.logger.Debug("unknown upload format, treating as plain text", "file", up.FileName)
		return string(up.Data), nil
	}

	if format == docpipe.FormatPDF {
		return s.extractPDF(ctx, up)
	}

	doc, err := s.extractor.Extract(ctx, up.FileName, up.ContentType, up.Data)
	if err != nil {
		return "", fmt.Errorf("analysis: extract %s: %w", up.FileName, err)
	}
	return doc.Text, nil
}

func (s *Service) extractPDF(ctx context.Context, up Upload) (string, error) {
	parts := []gemini.Part{
		{InlineData: &gemini.Blob{
			MIMEType: "application/pdf",
			Data:     base64.StdEncoding.EncodeToString(up.Data),
		}},
		{Text: pdfExtractionPrompt},
	}
	res, err := s.gen.Generate(ctx, parts, &gemini.GenerationConfig{Temperature: gemini.Temp(0)})
	if err == nil && strings.TrimSpace(res.Text) != "" {
		return res.Text, nil
	}
	if err != nil {
		s.logger.Warn("model PDF extraction failed, trying local", "file", up.FileName, "err", err)
	}

	doc, lerr := s.extractor.Extract(ctx, up.FileName, up.ContentType, up.Data)
	if lerr == nil && doc.Quality != nil && doc.Quality.Usable() {
		s.logger.Info("local PDF extraction used", "file", up.FileName, "pages", doc.Quality.PageCount)
		return doc.Text, nil
	}

	if err != nil {
		return "", fmt.Errorf("analysis: pdf extraction: %w", err)
	}
	return "", ErrExtractionFailed
}

// runExtraction is the first model stage: evidence snippets plus the
// model's own languageStats. Failure yields no evidence and no overrides.
func (s *Service) runExtraction(ctx context.Context, text string, local lingstat.LanguageStats) ([]EvidenceSnippet, *partialStats, string) {
	prompt := buildExtractionPrompt(text, s.cfg.SnippetCount, local)
	res, err := s.gen.Generate(ctx, []gemini.Part{{Text: prompt}}, &gemini.GenerationConfig{
		Temperature:     gemini.Temp(0.2),
		MaxOutputTokens: 2048,
	})
	if err != nil {
		s.logger.Error("evidence extraction stage failed", "err", err)
		return nil, nil, ""
	}
	parsed, err := parseModelJSON(res.Text)
	if err != nil {
		s.logger.Error("evidence extraction reply unparseable", "model", res.Model, "err", err)
		return nil, nil, res.Model
	}
	return cleanEvidence(parsed["evidenceIndex"]), decodePartialStats(parsed["languageStats"]), res.Model
}

type scoringOutcome struct {
	Spider     SpiderByMode
	Summary    Summary
	Highlights Highlights
	Genre      string
	Subgenre   string
	Candidates []string
	Model      string
}

// runScoring is the second model stage. The outcome starts as the full
// fallback report and keeps whatever the model supplied validly.
func (s *Service) runScoring(ctx context.Context, text string, stats lingstat.LanguageStats) scoringOutcome {
	outcome := scoringOutcome{
		Spider:     cleanSpider(nil, fallbackBaseScore),
		Summary:    fallbackSummary(),
		Highlights: Highlights{Strengths: []string{}, Risks: []string{}},
		Genre:      defaultGenre,
		Subgenre:   defaultSubgenre,
		Candidates: defaultSubgenreCandidates,
	}

	prompt := buildScoringPrompt(
		truncateText(text, s.cfg.ScoringSampleChars),
		defaultGenre, defaultSubgenre, defaultSubgenreCandidates, stats)
	res, err := s.gen.Generate(ctx, []gemini.Part{{Text: prompt}}, &gemini.GenerationConfig{
		Temperature:     gemini.Temp(0.3),
		MaxOutputTokens: 2048,
	})
	if err != nil {
		s.logger.Error("scoring stage failed", "err", err)
		return outcome
	}
	outcome.Model = res.Model

	parsed, err := parseModelJSON(res.Text)
	if err != nil {
		s.logger.Error("scoring reply unparseable", "model", res.Model, "err", err)
		return outcome
	}

	outcome.Spider = cleanSpider(parsed["spiderByMode"], fallbackBaseScore)

	if summary, ok := parsed["llmSummary"].(map[string]any); ok {
		if v := safeStringArray(summary["synopsis"]); len(v) > 0 {
			outcome.Summary.Synopsis = v
		}
		if v := safeStringArray(summary["comps"]); len(v) > 0 {
			outcome.Summary.Comps = v
		}
		if v := safeStringArray(summary["redFlags"]); len(v) > 0 {
			outcome.Summary.RedFlags = v
		}
		if v := safeStringArray(summary["marketPositioning"]); len(v) > 0 {
			outcome.Summary.MarketPositioning = v
		}
	}
	if highlights, ok := parsed["highlights"].(map[string]any); ok {
		outcome.Highlights = Highlights{
			Strengths: safeStringArray(highlights["strengths"]),
			Risks:     safeStringArray(highlights["risks"]),
		}
	}
	if g := asString(parsed["detectedGenre"]); g != "" {
		outcome.Genre = g
	}
	if g := asString(parsed["detectedSubgenre"]); g != "" {
		outcome.Subgenre = g
	}
	if v := safeStringArray(parsed["subgenreCandidates"]); len(v) > 0 {
		outcome.Candidates = v
	}
	return outcome
}

// auditOutcome records one analysis in the audit trail, best effort.
func (s *Service) auditOutcome(ctx context.Context, up Upload, report *Report, extractionModel, scoringModel string, elapsed time.Duration, failure error) {
	if s.audit == nil {
		return
	}
	entry := audit.Entry{
		FileName:        up.FileName,
		ContentType:     up.ContentType,
		SizeBytes:       int64(len(up.Data)),
		ExtractionModel: extractionModel,
		ScoringModel:    scoringModel,
		DurationMS:      elapsed.Milliseconds(),
		Status:          "ok",
	}
	if report != nil {
		entry.WordCount = report.WordCount
		entry.CharCount = report.CharCount
	}
	if failure != nil {
		entry.Status = "error"
		entry.Error = failure.Error()
	}
	if err := s.audit.Log(ctx, entry); err != nil {
		s.logger.Warn("audit log write failed", "err", err)
	}
}
