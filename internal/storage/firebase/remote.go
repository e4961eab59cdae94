package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/VietCodeBug/TelegramBotForex/internal/domain"
)

// requestTimeout bounds every individual REST call.
const requestTimeout = 10 * time.Second

// remoteBackend talks to a Firebase Realtime Database over REST.
// Paths map to {databaseURL}/{path}.json with the API key passed as an
// auth query parameter.
type remoteBackend struct {
	databaseURL string
	apiKey      string
	httpClient  *http.Client
	logger      *zap.Logger
}

func newRemoteBackend(databaseURL, apiKey string, logger *zap.Logger) *remoteBackend {
	return &remoteBackend{
		databaseURL: strings.TrimRight(databaseURL, "/"),
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: requestTimeout},
		logger:      logger,
	}
}

// probe checks reachability with a single root read.
func (r *remoteBackend) probe(ctx context.Context) bool {
	if r.databaseURL == "" {
		return false
	}
	_, ok := r.request(ctx, http.MethodGet, "", nil)
	return ok
}

// request performs one verb against a hierarchical path. Any failure
// returns ok=false; callers own the fallback decision.
func (r *remoteBackend) request(ctx context.Context, method, path string, payload any) (json.RawMessage, bool) {
	url := fmt.Sprintf("%s/%s.json", r.databaseURL, path)
	if r.apiKey != "" {
		url += "?auth=" + r.apiKey
	}

	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			r.logger.Warn("firebase payload marshal failed",
				zap.String("path", path),
				zap.Error(err))
			return nil, false
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		r.logger.Warn("firebase request build failed", zap.String("path", path), zap.Error(err))
		return nil, false
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.logger.Warn("firebase request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(errors.Wrap(err, "do request")))
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		r.logger.Warn("firebase request rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return nil, false
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		r.logger.Warn("firebase response decode failed", zap.String("path", path), zap.Error(err))
		return nil, false
	}
	return raw, true
}

// push POSTs a record to a collection and returns the store-assigned key.
func (r *remoteBackend) push(ctx context.Context, path string, payload any) (string, bool) {
	raw, ok := r.request(ctx, http.MethodPost, path, payload)
	if !ok {
		return "", false
	}

	var res struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &res); err != nil || res.Name == "" {
		r.logger.Warn("firebase push returned no key", zap.String("path", path))
		return "", false
	}
	return res.Name, true
}

func (r *remoteBackend) saveTrade(ctx context.Context, rec domain.TradeRecord) (string, bool) {
	return r.push(ctx, "trades", rec)
}

func (r *remoteBackend) patchTrade(ctx context.Context, id string, patch map[string]any) bool {
	_, ok := r.request(ctx, http.MethodPatch, "trades/"+id, patch)
	return ok
}

func (r *remoteBackend) trades(ctx context.Context) []domain.TradeRecord {
	raw, ok := r.request(ctx, http.MethodGet, "trades", nil)
	if !ok {
		return nil
	}

	byKey := map[string]domain.TradeRecord{}
	if err := json.Unmarshal(raw, &byKey); err != nil {
		r.logger.Warn("firebase trades decode failed", zap.Error(err))
		return nil
	}

	recs := make([]domain.TradeRecord, 0, len(byKey))
	for key, rec := range byKey {
		rec.ID = key
		recs = append(recs, rec)
	}
	return recs
}

func (r *remoteBackend) saveSignal(ctx context.Context, sig domain.ExternalSignal) (string, bool) {
	return r.push(ctx, "external_signals", sig)
}

func (r *remoteBackend) signal(ctx context.Context, id string) (domain.ExternalSignal, bool) {
	raw, ok := r.request(ctx, http.MethodGet, "external_signals/"+id, nil)
	if !ok || string(raw) == "null" {
		return domain.ExternalSignal{}, false
	}

	var sig domain.ExternalSignal
	if err := json.Unmarshal(raw, &sig); err != nil {
		r.logger.Warn("firebase signal decode failed", zap.String("id", id), zap.Error(err))
		return domain.ExternalSignal{}, false
	}
	sig.ID = id
	return sig, true
}

func (r *remoteBackend) patchSignal(ctx context.Context, id string, patch map[string]any) bool {
	_, ok := r.request(ctx, http.MethodPatch, "external_signals/"+id, patch)
	return ok
}

func (r *remoteBackend) signals(ctx context.Context) []domain.ExternalSignal {
	raw, ok := r.request(ctx, http.MethodGet, "external_signals", nil)
	if !ok {
		return nil
	}

	byKey := map[string]domain.ExternalSignal{}
	if err := json.Unmarshal(raw, &byKey); err != nil {
		r.logger.Warn("firebase signals decode failed", zap.Error(err))
		return nil
	}

	sigs := make([]domain.ExternalSignal, 0, len(byKey))
	for key, sig := range byKey {
		sig.ID = key
		sigs = append(sigs, sig)
	}
	return sigs
}

func (r *remoteBackend) capital(ctx context.Context) (float64, bool) {
	raw, ok := r.request(ctx, http.MethodGet, "config/capital", nil)
	if !ok || string(raw) == "null" {
		return 0, false
	}

	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	return v, true
}

func (r *remoteBackend) setCapital(ctx context.Context, v float64) bool {
	_, ok := r.request(ctx, http.MethodPut, "config/capital", v)
	return ok
}

func (r *remoteBackend) setRisk(ctx context.Context, percent float64) bool {
	_, ok := r.request(ctx, http.MethodPut, "config/risk_percent", percent)
	return ok
}

func (r *remoteBackend) appendLog(ctx context.Context, entry map[string]any) {
	r.request(ctx, http.MethodPost, "logs", entry)
}
