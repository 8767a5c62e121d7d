package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	return NewStore("de", []string{"de", "en"})
}

func TestEnableDisable(t *testing.T) {
	s := newTestStore()

	assert.False(t, s.IsActive(1))
	assert.True(t, s.Enable(1))
	assert.True(t, s.IsActive(1))
	assert.False(t, s.Enable(1), "second enable reports no change")

	assert.True(t, s.Disable(1))
	assert.False(t, s.IsActive(1))
	assert.False(t, s.Disable(1), "second disable reports no change")
}

func TestDisableKeepsDayState(t *testing.T) {
	s := newTestStore()
	s.Enable(1)
	s.RecordParticipant(1, "x")
	s.Abort(1)

	s.Disable(1)
	s.Enable(1)

	assert.True(t, s.IsAborted(1), "day state survives disable/enable")
	assert.True(t, s.HasParticipant(1, "x"))
}

func TestSetLanguage(t *testing.T) {
	s := newTestStore()

	require.NoError(t, s.SetLanguage(1, "en"))
	assert.Equal(t, "en", s.Language(1))

	err := s.SetLanguage(1, "fr")
	require.ErrorIs(t, err, ErrUnsupportedLanguage)
	assert.Equal(t, "en", s.Language(1), "failed set leaves language untouched")
}

func TestLanguageFallback(t *testing.T) {
	s := newTestStore()

	assert.Equal(t, "de", s.Language(42), "unseen chat resolves to default")

	require.NoError(t, s.SetLanguage(1, "en"))
	s.SetLanguagePolicy("de", []string{"de"})
	assert.Equal(t, "de", s.Language(1), "no-longer-supported language falls back")
}

func TestAbortStopsParticipantGrowth(t *testing.T) {
	s := newTestStore()
	s.Enable(1)
	s.RecordParticipant(1, "x")
	s.Abort(1)

	s.RecordParticipant(1, "y")

	sum := s.Summarize(1)
	assert.Equal(t, 1, sum.Count)
	assert.Equal(t, []string{"x"}, sum.Participants)
	assert.True(t, sum.Aborted)
}

func TestRecordParticipantDeduplicates(t *testing.T) {
	s := newTestStore()
	s.Enable(1)
	s.RecordParticipant(1, "x")
	s.RecordParticipant(1, "x")

	assert.Equal(t, 1, s.Summarize(1).Count)
}

func TestFinishDay(t *testing.T) {
	s := newTestStore()
	s.Enable(1)
	s.RecordParticipant(1, "x")
	s.RecordParticipant(1, "y")
	s.Abort(1)

	sum := s.Summarize(1)
	require.Equal(t, 2, sum.Count)

	s.FinishDay(1, sum.Count)
	assert.Equal(t, 2, s.Record(1))
	assert.False(t, s.IsAborted(1))
	assert.Equal(t, 0, s.Summarize(1).Count)

	// A worse day never lowers the record.
	s.RecordParticipant(1, "x")
	s.FinishDay(1, 1)
	assert.Equal(t, 2, s.Record(1))
}

func TestActiveChatsSorted(t *testing.T) {
	s := newTestStore()
	s.Enable(30)
	s.Enable(10)
	s.Enable(20)
	s.Disable(20)

	assert.Equal(t, []int64{10, 30}, s.ActiveChats())
}

func TestResetDay(t *testing.T) {
	s := newTestStore()
	s.Enable(1)
	s.RecordParticipant(1, "x")
	s.Abort(1)
	s.ResetDay(1)

	assert.False(t, s.IsAborted(1))
	assert.Equal(t, 0, s.Summarize(1).Count)
	assert.True(t, s.IsActive(1), "reset only touches day state")
}
