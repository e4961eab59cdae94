// Package journal keeps an append-only local record of every decision
// the analyzer emits. It survives restarts and remote store outages,
// giving operators a replayable trail independent of Firebase.
package journal

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"

	"github.com/VietCodeBug/TelegramBotForex/internal/domain"
)

const (
	defaultJournalDir   = "./wal/decisions"
	journalSegmentLimit = 20
	journalMaxSegments  = 5
	journalKeyPrefix    = "decision_"
)

// Journal is a WAL-backed decision log.
type Journal struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// New opens the journal under dir, creating it when absent.
func New(dir string) (*Journal, error) {
	if dir == "" {
		dir = defaultJournalDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "segment_",
		SegmentThreshold: journalSegmentLimit,
		MaxSegments:      journalMaxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "open decision journal")
	}

	return &Journal{wal: wal}, nil
}

// Append records a decision event. The event's symbol keys the entry,
// so it must be non-empty.
func (j *Journal) Append(event domain.DecisionEvent) error {
	if j == nil || j.wal == nil {
		return errors.New("journal is not open")
	}
	if event.Symbol == "" {
		return fmt.Errorf("decision event has no symbol")
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "encode decision event")
	}

	key := fmt.Sprintf("%s%s", journalKeyPrefix, event.Symbol)

	j.mu.Lock()
	defer j.mu.Unlock()

	nextIndex := j.wal.CurrentIndex() + 1
	return j.wal.Write(nextIndex, key, payload)
}

// EventsAfter replays every event recorded after index, oldest first.
// Consumers track the index of the last record they handled and pass it
// back on the next call.
func (j *Journal) EventsAfter(index uint64) ([]domain.DecisionEventRecord, error) {
	if j == nil || j.wal == nil {
		return nil, errors.New("journal is not open")
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	current := j.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]domain.DecisionEventRecord, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, ok := j.wal.Get(idx)
		if !ok || !strings.HasPrefix(key, journalKeyPrefix) {
			continue
		}
		var event domain.DecisionEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, errors.Wrap(err, "corrupt decision event")
		}
		records = append(records, domain.DecisionEventRecord{
			Index: idx,
			Event: event,
		})
	}

	return records, nil
}

// CurrentIndex reports the index of the most recently written event,
// zero when the journal is empty or not open.
func (j *Journal) CurrentIndex() uint64 {
	if j == nil || j.wal == nil {
		return 0
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	return j.wal.CurrentIndex()
}

// Close flushes and closes the backing log.
func (j *Journal) Close() error {
	if j == nil || j.wal == nil {
		return errors.New("journal is not open")
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	return j.wal.Close()
}
