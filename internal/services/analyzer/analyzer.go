// Package analyzer converts fused technical and contextual market data
// into typed, confidence-gated trading decisions by delegating reasoning
// to a generative model and deterministically validating its output.
// Every operation absorbs boundary failures and returns a well-shaped
// negative result; nothing here raises past the component edge.
package analyzer

import (
	"context"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/VietCodeBug/TelegramBotForex/internal/clients"
	"github.com/VietCodeBug/TelegramBotForex/internal/domain"
	"github.com/VietCodeBug/TelegramBotForex/internal/services/promptbuilder"
)

const imageFetchTimeout = 10 * time.Second

// Analyzer is the decision normalizer. A nil model puts it in offline
// demo mode producing synthetic decisions of the exact same shape.
type Analyzer struct {
	model       clients.ModelClient
	pb          *promptbuilder.PromptBuilder
	imageClient *http.Client
	logger      *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures the Analyzer.
type Option func(*Analyzer)

// WithImageClient overrides the HTTP client used for chart downloads.
func WithImageClient(c *http.Client) Option {
	return func(a *Analyzer) {
		a.imageClient = c
	}
}

// WithRand overrides the demo-mode random source, used in tests.
func WithRand(r *rand.Rand) Option {
	return func(a *Analyzer) {
		a.rng = r
	}
}

// New creates an Analyzer. model may be nil: the analyzer then runs in
// offline demo mode so downstream consumers keep functioning without
// live credentials.
func New(model clients.ModelClient, logger *zap.Logger, opts ...Option) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &Analyzer{
		model:       model,
		pb:          promptbuilder.NewPromptBuilder(logger),
		imageClient: &http.Client{Timeout: imageFetchTimeout},
		logger:      logger,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze produces a trading decision from market data, the indicator
// summary and optional pre-computed Wyckoff/SMC/news context. It has
// exactly two terminal outcomes: an actionable BUY/SELL with confidence
// at or above the gate, or WAIT. Invocation and parse failures map to
// WAIT with a diagnostic reason, never an error.
func (a *Analyzer) Analyze(
	ctx context.Context,
	marketData string,
	indicators map[string]any,
	wyckoff *promptbuilder.WyckoffContext,
	smc *promptbuilder.SMCContext,
	news string,
) domain.Decision {
	if a.model == nil {
		return a.demoDecision()
	}

	requestID := uuid.NewString()
	prompt := a.pb.BuildAnalysisPrompt(promptbuilder.AnalysisRequest{
		MarketData: marketData,
		Indicators: indicators,
		Wyckoff:    wyckoff,
		SMC:        smc,
		News:       news,
	})

	raw, err := a.model.Generate(ctx, prompt)
	if err != nil {
		a.logger.Warn("model invocation failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		return domain.WaitDecision("model invocation failed: " + domain.Truncate(err.Error(), 50))
	}

	d := domain.ParseDecision(raw)
	a.logger.Info("decision",
		zap.String("request_id", requestID),
		zap.String("action", d.Action),
		zap.Int("confidence", d.Confidence))

	return d
}

// Translate asks the model for a translation, returning the input
// unchanged on any failure. It never errors.
func (a *Analyzer) Translate(ctx context.Context, text string) string {
	if a.model == nil || text == "" {
		return text
	}

	out, err := a.model.Generate(ctx, a.pb.BuildTranslatePrompt(text))
	if err != nil {
		a.logger.Debug("translation failed, returning original", zap.Error(err))
		return text
	}
	return out
}
