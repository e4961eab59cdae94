package analyzer

import (
	"context"

	"github.com/bytedance/gopkg/util/gopool"

	"github.com/VietCodeBug/TelegramBotForex/internal/domain"
	"github.com/VietCodeBug/TelegramBotForex/internal/services/promptbuilder"
)

// analysisPool bounds concurrent model invocations process-wide.
// Submissions beyond the cap queue instead of spawning goroutines.
var analysisPool = gopool.NewPool("analyzer", 2, gopool.NewConfig())

// Future holds the eventual result of an asynchronous analysis.
type Future struct {
	done chan struct{}
	dec  domain.Decision
}

// Wait blocks until the analysis completes or ctx is done. An expired
// context yields a WAIT decision; the in-flight analysis keeps running
// and its result is simply discarded.
func (f *Future) Wait(ctx context.Context) domain.Decision {
	select {
	case <-f.done:
		return f.dec
	case <-ctx.Done():
		return domain.WaitDecision("analysis abandoned: " + ctx.Err().Error())
	}
}

// AnalyzeAsync schedules an analysis on the shared worker pool and
// returns immediately. The analysis continues even if every caller
// abandons the future, so the pool slot is always released.
func (a *Analyzer) AnalyzeAsync(
	ctx context.Context,
	marketData string,
	indicators map[string]any,
	wyckoff *promptbuilder.WyckoffContext,
	smc *promptbuilder.SMCContext,
	news string,
) *Future {
	f := &Future{done: make(chan struct{})}
	detached := context.WithoutCancel(ctx)

	analysisPool.Go(func() {
		f.dec = a.Analyze(detached, marketData, indicators, wyckoff, smc, news)
		close(f.done)
	})

	return f
}
