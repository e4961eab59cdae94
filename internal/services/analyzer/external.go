package analyzer

import (
	"context"

	"go.uber.org/zap"

	"github.com/VietCodeBug/TelegramBotForex/internal/domain"
)

// AnalyzeExternalSignal reviews a third-party trading signal and
// returns a follow/skip/caution verdict. Every failure path collapses
// to SKIP so a broken review can never endorse a signal.
func (a *Analyzer) AnalyzeExternalSignal(ctx context.Context, sig domain.ExternalSignal, currentPrice *float64) domain.SignalVerdict {
	if a.model == nil {
		return domain.SkipVerdict("no reasoning model configured")
	}

	prompt := a.pb.BuildSignalReviewPrompt(sig, currentPrice)

	raw, err := a.model.Generate(ctx, prompt)
	if err != nil {
		a.logger.Warn("signal review failed",
			zap.String("source", sig.Source),
			zap.Error(err))
		return domain.SkipVerdict("model invocation failed: " + domain.Truncate(err.Error(), 50))
	}

	v := domain.ParseSignalVerdict(raw)
	a.logger.Info("signal verdict",
		zap.String("source", sig.Source),
		zap.String("recommendation", v.Recommendation),
		zap.Int("confidence", v.Confidence))

	return v
}
