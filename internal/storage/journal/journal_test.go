package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VietCodeBug/TelegramBotForex/internal/domain"
)

func newTestJournal(t *testing.T) *Journal {
	t.Helper()

	j, err := New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func event(symbol, action string, conf int) domain.DecisionEvent {
	return domain.DecisionEvent{
		Timestamp: time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
		Symbol:    symbol,
		Model:     "gemini-2.0-flash",
		Decision: domain.Decision{
			Action:     action,
			Confidence: conf,
			Reason:     "test",
		},
	}
}

func TestJournal_AppendAndReplay(t *testing.T) {
	j := newTestJournal(t)

	require.NoError(t, j.Append(event("XAUUSD", domain.ActionBuy, 82)))
	require.NoError(t, j.Append(event("XAUUSD", domain.ActionWait, 0)))

	recs, err := j.EventsAfter(0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, uint64(1), recs[0].Index)
	assert.Equal(t, domain.ActionBuy, recs[0].Event.Decision.Action)
	assert.Equal(t, domain.ActionWait, recs[1].Event.Decision.Action)

	// resume past the first event
	tail, err := j.EventsAfter(1)
	require.NoError(t, err)
	require.Len(t, tail, 1)
	assert.Equal(t, uint64(2), tail[0].Index)
}

func TestJournal_RequiresSymbol(t *testing.T) {
	j := newTestJournal(t)

	err := j.Append(domain.DecisionEvent{Decision: domain.Decision{Action: domain.ActionWait}})
	require.Error(t, err)
	assert.Equal(t, uint64(0), j.CurrentIndex())
}

func TestJournal_EventsAfterCurrentIsEmpty(t *testing.T) {
	j := newTestJournal(t)

	require.NoError(t, j.Append(event("XAUUSD", domain.ActionSell, 75)))

	recs, err := j.EventsAfter(j.CurrentIndex())
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestJournal_Uninitialized(t *testing.T) {
	var j *Journal

	require.Error(t, j.Append(event("XAUUSD", domain.ActionBuy, 80)))
	_, err := j.EventsAfter(0)
	require.Error(t, err)
	assert.Equal(t, uint64(0), j.CurrentIndex())
}
