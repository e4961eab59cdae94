// Package web exposes a small read-only dashboard over the store:
// recent trade history, external signals and aggregate stats as JSON,
// plus a live decision stream fed from the local journal.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/VietCodeBug/TelegramBotForex/internal/domain"
)

const journalPollInterval = 2 * time.Second

type historyReader interface {
	TradeHistory(ctx context.Context, limit int) []domain.TradeRecord
	ExternalSignals(ctx context.Context, source string, limit int) []domain.ExternalSignal
	DailyStats(ctx context.Context) domain.DailyStats
	SignalStats(ctx context.Context, source string) domain.SignalStats
}

// JournalReader supplies journaled decision events for streaming.
type JournalReader interface {
	EventsAfter(index uint64) ([]domain.DecisionEventRecord, error)
}

// Server exposes the read-only HTTP endpoints.
type Server struct {
	addr    string
	store   historyReader
	journal JournalReader
	logger  *zap.Logger
}

// NewServer creates a dashboard server. journal may be nil, which
// disables the stream endpoint.
func NewServer(addr string, store historyReader, journal JournalReader, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{addr: addr, store: store, journal: journal, logger: logger}
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is
// cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/trades", s.handleTrades)
	mux.HandleFunc("/api/signals", s.handleSignals)
	mux.HandleFunc("/api/stats/daily", s.handleDailyStats)
	mux.HandleFunc("/api/stats/signals", s.handleSignalStats)
	mux.HandleFunc("/decisions/stream", s.handleDecisionStream)

	server := &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("dashboard listening", zap.String("addr", s.addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.store.TradeHistory(r.Context(), limitParam(r, 50)))
}

func (s *Server) handleSignals(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	writeJSON(w, s.store.ExternalSignals(r.Context(), source, limitParam(r, 20)))
}

func (s *Server) handleDailyStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.store.DailyStats(r.Context()))
}

func (s *Server) handleSignalStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.store.SignalStats(r.Context(), r.URL.Query().Get("source")))
}

// handleDecisionStream pushes journal entries as server-sent events.
func (s *Server) handleDecisionStream(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		http.Error(w, "decision journal not available", http.StatusServiceUnavailable)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(journalPollInterval)
	defer ticker.Stop()

	var lastIndex uint64
	for {
		records, err := s.journal.EventsAfter(lastIndex)
		if err != nil {
			s.logger.Warn("journal read failed", zap.Error(err))
		}
		for _, rec := range records {
			payload, err := json.Marshal(rec.Event)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "id: %d\ndata: %s\n\n", rec.Index, payload)
			lastIndex = rec.Index
		}
		flusher.Flush()

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

func limitParam(r *http.Request, def int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return def
	}
	return limit
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
