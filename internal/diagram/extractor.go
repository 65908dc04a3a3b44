package diagram

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	retry "github.com/avast/retry-go/v4"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/drillbook/drillbook/internal/jsontext"
	"github.com/drillbook/drillbook/internal/metrics"
	"github.com/drillbook/drillbook/internal/plan"
	"github.com/drillbook/drillbook/internal/vision"
	"github.com/drillbook/drillbook/internal/vlm"
)

// errUnparsable signals that a response contained no recoverable JSON
// object, triggering the no-think retry.
var errUnparsable = errors.New("no JSON object in response")

const (
	defaultClassifyTokens = 1024
	defaultExtractTokens  = 4096
	defaultCacheSize      = 256
)

// Config tunes an Extractor. Zero values select defaults.
type Config struct {
	// MaxTokensClassify bounds the classification pass response.
	MaxTokensClassify int
	// MaxTokensExtract bounds each structured extraction pass response.
	MaxTokensExtract int
	// CacheSize is the number of per-image extractions kept, keyed by
	// image content hash. Re-ingesting the same PDF skips the model.
	CacheSize int
	// Recorder receives per-call usage records when set.
	Recorder *metrics.Recorder
	Logger   *slog.Logger
}

// Extractor runs the classification and extraction passes against a
// backend. Safe for concurrent use.
type Extractor struct {
	backend        vlm.Backend
	classifyTokens int
	extractTokens  int
	recorder       *metrics.Recorder
	logger         *slog.Logger
	cache          *lru.Cache[string, *Extraction]

	// DocumentID attributes usage records when set.
	DocumentID string
}

// NewExtractor creates an extractor over the given backend.
func NewExtractor(backend vlm.Backend, cfg Config) *Extractor {
	if cfg.MaxTokensClassify <= 0 {
		cfg.MaxTokensClassify = defaultClassifyTokens
	}
	if cfg.MaxTokensExtract <= 0 {
		cfg.MaxTokensExtract = defaultExtractTokens
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = defaultCacheSize
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	cache, _ := lru.New[string, *Extraction](cfg.CacheSize)
	return &Extractor{
		backend:        backend,
		classifyTokens: cfg.MaxTokensClassify,
		extractTokens:  cfg.MaxTokensExtract,
		recorder:       cfg.Recorder,
		logger:         cfg.Logger,
		cache:          cache,
	}
}

// callJSON sends one request and parses a JSON object out of the reply,
// retrying once with a think-suppressing system prompt. Returns the parsed
// object and the raw content of the last attempt.
func (e *Extractor) callJSON(ctx context.Context, stage, itemKey string, image []byte, system, user string, maxTokens int, jsonMode bool) (map[string]any, string, error) {
	var (
		parsed  map[string]any
		content string
		attempt int
	)
	err := retry.Do(
		func() error {
			sys := system
			if attempt > 0 {
				sys += noThinkSuffix
			}
			attempt++

			start := time.Now()
			resp, err := e.backend.ChatCompletion(ctx, vlm.Request{
				Image:        image,
				SystemPrompt: sys,
				UserPrompt:   user,
				MaxTokens:    maxTokens,
				JSONMode:     jsonMode,
			})
			e.record(stage, itemKey, resp, time.Since(start), err == nil, attempt > 1)
			if err != nil {
				return err
			}
			content = resp.Content

			m, ok := jsontext.ExtractObject(resp.Content)
			if !ok {
				return errUnparsable
			}
			parsed = m
			return nil
		},
		retry.Attempts(2),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil && content == "" {
		return nil, "", err
	}
	return parsed, content, nil
}

func (e *Extractor) record(stage, itemKey string, resp *vlm.Response, dur time.Duration, success, retried bool) {
	if e.recorder == nil {
		return
	}
	c := metrics.Call{
		DocumentID:       e.DocumentID,
		Stage:            stage,
		ItemKey:          itemKey,
		Backend:          e.backend.Name(),
		ExecutionSeconds: dur.Seconds(),
		Success:          success,
		Retried:          retried,
	}
	if resp != nil {
		c.Model = resp.Model
		c.PromptTokens = resp.Usage.PromptTokens
		c.CompletionTokens = resp.Usage.CompletionTokens
	}
	e.recorder.Record(c)
}

// Classify decides whether an image is a coaching diagram. When the reply
// cannot be parsed even after a retry, it falls back to keyword sniffing on
// the raw text, treating obvious photo descriptions as non-diagrams.
func (e *Extractor) Classify(ctx context.Context, key, imagePath string) (Classification, error) {
	image, err := os.ReadFile(imagePath)
	if err != nil {
		return Classification{}, fmt.Errorf("reading image: %w", err)
	}

	parsed, content, err := e.callJSON(ctx, "classify", key, image,
		classificationSystemPrompt, classificationPrompt, e.classifyTokens, true)
	if err != nil {
		return Classification{}, err
	}

	if parsed != nil {
		c := Classification{IsDiagram: true, Description: toString(parsed["description"])}
		if v, ok := parsed["is_diagram"].(bool); ok {
			c.IsDiagram = v
		}
		return c, nil
	}

	e.logger.Warn("unparsable classification reply, falling back to keyword sniff", "image", key)
	lower := strings.ToLower(content)
	isPhoto := false
	for _, w := range []string{"photograph", "photo of", "portrait", "not a diagram", "book cover"} {
		if strings.Contains(lower, w) {
			isPhoto = true
			break
		}
	}
	desc := content
	if len(desc) > 200 {
		desc = desc[:200]
	}
	return Classification{IsDiagram: !isPhoto, Description: desc}, nil
}

// ClassifyAll classifies every image. A failed call marks the image as a
// non-diagram rather than aborting the document.
func (e *Extractor) ClassifyAll(ctx context.Context, images map[string]string) map[string]Classification {
	results := make(map[string]Classification, len(images))
	for _, key := range sortedKeys(images) {
		c, err := e.Classify(ctx, key, images[key])
		if err != nil {
			e.logger.Error("classification failed", "image", key, "error", err)
			c = Classification{IsDiagram: false, Description: "classification failed: " + err.Error()}
		}
		e.logger.Info("classified image", "image", key, "is_diagram", c.IsDiagram)
		results[key] = c
	}
	return results
}

// Extract runs marker detection plus the four structured passes for one
// confirmed diagram. The passes run concurrently; a pass that fails or
// returns garbage degrades to an empty result instead of failing the
// diagram. Results are cached by image content hash.
func (e *Extractor) Extract(ctx context.Context, key, imagePath string, c Classification) (*Extraction, error) {
	image, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}

	hash := sha256.Sum256(image)
	cacheKey := hex.EncodeToString(hash[:])
	if cached, ok := e.cache.Get(cacheKey); ok {
		e.logger.Debug("extraction cache hit", "image", key)
		return cached.clone(), nil
	}

	analysis, err := vision.AnalyzeFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("marker detection: %w", err)
	}
	e.logger.Info("marker detection complete",
		"image", key,
		"circles", len(analysis.Circles),
		"by_color", analysis.CirclesByColor,
		"estimated_view", analysis.EstimatedPitchView)

	var (
		wg        sync.WaitGroup
		players   = []plan.PlayerPosition{}
		arrows    = []plan.MovementArrow{}
		equipment = []plan.EquipmentObject{}
		goals     = []plan.GoalInfo{}
		pitchView *plan.PitchView
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		players = e.extractPlayers(ctx, key, image, analysis.ContextString())
	}()
	go func() {
		defer wg.Done()
		arrows = e.extractArrows(ctx, key, image)
	}()
	go func() {
		defer wg.Done()
		equipment, goals = e.extractEquipmentGoals(ctx, key, image, len(analysis.Circles))
	}()
	go func() {
		defer wg.Done()
		pitchView = e.extractPitchView(ctx, key, image, analysis.PitchContextString())
	}()
	wg.Wait()

	ext := &Extraction{
		Description: c.Description,
		Players:     players,
		Arrows:      arrows,
		Equipment:   equipment,
		Goals:       goals,
		Balls:       []plan.BallPosition{},
		Zones:       []plan.PitchZone{},
		PitchView:   pitchView,
		CV:          newCVAnalysis(analysis),
	}
	e.logger.Info("extraction complete",
		"image", key,
		"players", len(players),
		"arrows", len(arrows),
		"equipment", len(equipment),
		"goals", len(goals))

	e.cache.Add(cacheKey, ext.clone())
	return ext, nil
}

// ExtractAll extracts every confirmed diagram. Non-diagrams are skipped;
// individual failures are logged and skipped.
func (e *Extractor) ExtractAll(ctx context.Context, images map[string]string, classifications map[string]Classification) map[string]*Extraction {
	results := make(map[string]*Extraction)
	for _, key := range sortedKeys(images) {
		c, ok := classifications[key]
		if !ok || !c.IsDiagram {
			continue
		}
		ext, err := e.Extract(ctx, key, images[key], c)
		if err != nil {
			e.logger.Error("diagram extraction failed", "image", key, "error", err)
			continue
		}
		results[key] = ext
	}
	return results
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
