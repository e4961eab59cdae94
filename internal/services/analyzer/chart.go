package analyzer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/VietCodeBug/TelegramBotForex/internal/domain"
)

// maxChartImageBytes caps how much of a chart download is read.
const maxChartImageBytes = 8 << 20

// AnalyzeChartImage downloads a chart screenshot and asks the vision
// model to read it, optionally cross-checking an accompanying signal.
// A failed download yields SKIP; a model reply that cannot be parsed
// yields CAUTION, so the two failure modes stay distinguishable.
func (a *Analyzer) AnalyzeChartImage(ctx context.Context, imageURL string, sig *domain.ExternalSignal) domain.ChartAnalysis {
	if a.model == nil {
		return domain.SkipChartAnalysis("no reasoning model configured")
	}

	image, mimeType, err := a.fetchImage(ctx, imageURL)
	if err != nil {
		a.logger.Warn("chart download failed",
			zap.String("url", imageURL),
			zap.Error(err))
		return domain.SkipChartAnalysis("failed to download chart image: " + domain.Truncate(err.Error(), 50))
	}

	raw, err := a.model.GenerateWithImage(ctx, a.pb.BuildChartPrompt(sig), image, mimeType)
	if err != nil {
		a.logger.Warn("chart analysis failed", zap.Error(err))
		return domain.SkipChartAnalysis("model invocation failed: " + domain.Truncate(err.Error(), 50))
	}

	return domain.ParseChartAnalysis(raw)
}

func (a *Analyzer) fetchImage(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := a.imageClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxChartImageBytes))
	if err != nil {
		return nil, "", err
	}
	if len(body) == 0 {
		return nil, "", fmt.Errorf("empty image body")
	}

	mimeType := resp.Header.Get("Content-Type")
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	mimeType = strings.TrimSpace(mimeType)
	if mimeType == "" {
		mimeType = "image/png"
	}

	return body, mimeType, nil
}
