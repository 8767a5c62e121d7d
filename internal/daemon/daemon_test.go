package daemon

import (
	"context"
	"fmt"
	"math/rand"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeldir/leetbot/internal/config"
	"github.com/yeldir/leetbot/internal/events"
	"github.com/yeldir/leetbot/internal/leet"
	"github.com/yeldir/leetbot/internal/state"
)

// fakeTransport records outbound traffic and can be told to fail per chat.
type fakeTransport struct {
	mu       sync.Mutex
	sent     []events.Notification
	pins     map[int64]int
	unpinned []int64
	nextPin  int
	failSend map[int64]bool
	failPin  map[int64]bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		pins:     make(map[int64]int),
		failSend: make(map[int64]bool),
		failPin:  make(map[int64]bool),
	}
}

func (f *fakeTransport) Send(_ context.Context, _ string, n events.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSend[n.ChatID] {
		return fmt.Errorf("send failed for chat %d", n.ChatID)
	}
	f.sent = append(f.sent, n)
	return nil
}

func (f *fakeTransport) PinReminder(_ context.Context, chatID int64, _ string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPin[chatID] {
		return 0, fmt.Errorf("pin failed for chat %d", chatID)
	}
	f.nextPin++
	f.pins[chatID] = f.nextPin
	return f.nextPin, nil
}

func (f *fakeTransport) Unpin(_ context.Context, chatID int64, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unpinned = append(f.unpinned, chatID)
	return nil
}

func (f *fakeTransport) sentKinds(chatID int64) []events.Kind {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []events.Kind
	for _, n := range f.sent {
		if n.ChatID == chatID {
			out = append(out, n.Kind)
		}
	}
	return out
}

func (f *fakeTransport) lastSent(t *testing.T, chatID int64) events.Notification {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.sent) - 1; i >= 0; i-- {
		if f.sent[i].ChatID == chatID {
			return f.sent[i]
		}
	}
	t.Fatalf("no notification sent to chat %d", chatID)
	return events.Notification{}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Telegram: config.TelegramConfig{BotToken: "123:abc"},
		Window:   config.WindowConfig{Hour: 13, Minute: 37, Timezone: "UTC"},
		Token:    "1337",
		Snapshot: config.SnapshotConfig{
			Path:     filepath.Join(t.TempDir(), "state.json"),
			Schedule: "*/5 * * * *",
		},
		Language: config.LanguageConfig{Default: "de", Supported: []string{"de", "en"}},
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

func windowOracle(cfg *config.Config, inWindow bool) *leet.Oracle {
	o := leet.NewOracle(cfg.Window.Hour, cfg.Window.Minute, cfg.Window.Location())
	minute := cfg.Window.Minute
	if !inWindow {
		minute = (minute + 3) % 60
	}
	fixed := time.Date(2024, 6, 1, cfg.Window.Hour, minute, 30, 0, cfg.Window.Location())
	o.Now = func() time.Time { return fixed }
	return o
}

func testDaemon(t *testing.T, inWindow bool) (*Daemon, *state.Store, *fakeTransport) {
	t.Helper()
	cfg := testConfig(t)
	store := state.NewStore(cfg.Language.Default, cfg.Language.Supported)
	transport := newFakeTransport()
	d, err := New(cfg, store, transport, "test",
		WithRand(rand.New(rand.NewSource(1))),
		WithOracle(windowOracle(cfg, inWindow)))
	require.NoError(t, err)
	return d, store, transport
}

func TestOffsetWindow(t *testing.T) {
	cases := []struct {
		hour, minute, offset int
		wantHour, wantMin    int
	}{
		{13, 37, -1, 13, 36},
		{13, 37, 1, 13, 38},
		{13, 37, 2, 13, 39},
		{0, 0, -1, 23, 59},
		{23, 59, 2, 0, 1},
		{0, 0, 1, 0, 1},
	}
	for _, tc := range cases {
		h, m := offsetWindow(tc.hour, tc.minute, tc.offset)
		assert.Equal(t, tc.wantHour, h, "%02d:%02d%+d", tc.hour, tc.minute, tc.offset)
		assert.Equal(t, tc.wantMin, m, "%02d:%02d%+d", tc.hour, tc.minute, tc.offset)
	}
}

func TestReportNoParticipants(t *testing.T) {
	// An active chat without any messages still gets a report and a reset.
	d, store, transport := testDaemon(t, false)
	store.Enable(1)
	store.FinishDay(1, 4) // pre-existing record

	d.runReport(context.Background())

	n := transport.lastSent(t, 1)
	assert.Equal(t, events.KindReportSummary, n.Kind)
	assert.Equal(t, 0, n.Params["count"])
	assert.Equal(t, noWinner, n.Params["winner"])
	assert.Equal(t, false, n.Params["new_record"])
	assert.Equal(t, 4, store.Record(1), "record unchanged by an empty day")
	assert.Equal(t, 0, store.Summarize(1).Count)
}

func TestFullDayFlow(t *testing.T) {
	// Two participants post the token inside the window; the report counts
	// both, declares a record and resets the day.
	d, store, transport := testDaemon(t, true)
	store.Enable(1)

	d.handleMessage(context.Background(), events.Message{ChatID: 1, Participant: "@x", Text: "1337", MessageID: 10})
	d.handleMessage(context.Background(), events.Message{ChatID: 1, Participant: "@y", Text: "1337", MessageID: 11})

	d.runReport(context.Background())

	n := transport.lastSent(t, 1)
	assert.Equal(t, events.KindReportSummary, n.Kind)
	assert.Equal(t, 2, n.Params["count"])
	assert.Equal(t, true, n.Params["new_record"])
	assert.Contains(t, []string{"@x", "@y"}, n.Params["winner"])
	assert.Equal(t, []string{"@x", "@y"}, n.Params["participants"])
	assert.Equal(t, false, n.Params["aborted"])

	assert.Equal(t, 2, store.Record(1))
	assert.Equal(t, 0, store.Summarize(1).Count, "day reset after report")
	assert.False(t, store.IsAborted(1))
}

func TestAbortNotificationNamesOffenderAndThreads(t *testing.T) {
	d, store, transport := testDaemon(t, true)
	store.Enable(1)

	d.handleMessage(context.Background(), events.Message{ChatID: 1, Participant: "@x", Text: "wrong", MessageID: 99})

	n := transport.lastSent(t, 1)
	assert.Equal(t, events.KindViolationOffender, n.Kind)
	assert.Equal(t, "@x", n.Params["offender"])
	assert.Equal(t, 99, n.ReplyTo)
	assert.True(t, store.IsAborted(1))
}

func TestAbortedDayReportedAndCleared(t *testing.T) {
	d, store, transport := testDaemon(t, true)
	store.Enable(1)

	d.handleMessage(context.Background(), events.Message{ChatID: 1, Participant: "@x", Text: "1337", MessageID: 1})
	d.handleMessage(context.Background(), events.Message{ChatID: 1, Participant: "@x", Text: "1337", MessageID: 2})

	d.runReport(context.Background())

	n := transport.lastSent(t, 1)
	assert.Equal(t, true, n.Params["aborted"])
	assert.Equal(t, 1, n.Params["count"], "the valid first post still counts")
	assert.False(t, store.IsAborted(1), "reset clears the aborted flag")
}

func TestOffWindowCalloutThreads(t *testing.T) {
	d, store, transport := testDaemon(t, false)
	store.Enable(1)

	d.handleMessage(context.Background(), events.Message{ChatID: 1, Participant: "@x", Text: "1337", MessageID: 7})

	n := transport.lastSent(t, 1)
	assert.Equal(t, events.KindViolationTiming, n.Kind)
	assert.Equal(t, 7, n.ReplyTo)
	assert.Equal(t, 0, store.Summarize(1).Count)
}

func TestReportFailureIsolation(t *testing.T) {
	// A failing transport for one chat must not stop the report step for
	// the others, and every chat still gets its daily reset.
	d, store, transport := testDaemon(t, false)
	store.Enable(1)
	store.Enable(2)
	store.RecordParticipant(1, "@a")
	store.RecordParticipant(2, "@b")
	transport.failSend[1] = true

	d.runReport(context.Background())

	n := transport.lastSent(t, 2)
	assert.Equal(t, events.KindReportSummary, n.Kind)
	assert.Equal(t, 1, n.Params["count"])

	assert.Equal(t, 0, store.Summarize(1).Count, "failed chat is still reset")
	assert.Equal(t, 1, store.Record(1), "failed chat's record is still updated")
	assert.Equal(t, 0, store.Summarize(2).Count)
}

func TestReminderPinsAndUnpinClears(t *testing.T) {
	d, store, transport := testDaemon(t, false)
	store.Enable(1)
	store.Enable(2)
	store.Enable(3)
	transport.failPin[2] = true

	d.runReminder(context.Background())

	assert.Equal(t, map[int64]int{1: transport.pins[1], 3: transport.pins[3]}, d.pinned,
		"only successfully pinned chats are remembered")

	d.runUnpin(context.Background())
	assert.ElementsMatch(t, []int64{1, 3}, transport.unpinned)
	assert.Empty(t, d.pinned)
}

func TestCountdownOnlyActiveChats(t *testing.T) {
	d, store, transport := testDaemon(t, false)
	store.Enable(1)
	store.Enable(2)
	store.Disable(2)

	d.runCountdown(context.Background())

	assert.Equal(t, []events.Kind{events.KindCountdown}, transport.sentKinds(1))
	assert.Empty(t, transport.sentKinds(2))
}

func TestEnableDisableCommands(t *testing.T) {
	d, _, transport := testDaemon(t, false)

	d.handleCommand(context.Background(), events.Command{Kind: events.CommandEnable, ChatID: 1})
	d.handleCommand(context.Background(), events.Command{Kind: events.CommandEnable, ChatID: 1})
	d.handleCommand(context.Background(), events.Command{Kind: events.CommandDisable, ChatID: 1})
	d.handleCommand(context.Background(), events.Command{Kind: events.CommandDisable, ChatID: 1})

	assert.Equal(t, []events.Kind{
		events.KindEnabled,
		events.KindAlreadyEnabled,
		events.KindDisabled,
		events.KindAlreadyDisabled,
	}, transport.sentKinds(1))
}

func TestSetLanguageCommand(t *testing.T) {
	d, store, transport := testDaemon(t, false)

	d.handleCommand(context.Background(), events.Command{Kind: events.CommandSetLanguage, ChatID: 1, Arg: "en"})
	assert.Equal(t, events.KindLanguageChanged, transport.lastSent(t, 1).Kind)
	assert.Equal(t, "en", store.Language(1))

	d.handleCommand(context.Background(), events.Command{Kind: events.CommandSetLanguage, ChatID: 1, Arg: "fr"})
	n := transport.lastSent(t, 1)
	assert.Equal(t, events.KindLanguageUnknown, n.Kind)
	assert.Equal(t, "fr", n.Params["language"])
	assert.Equal(t, "en", store.Language(1), "failed change keeps the old language")
}

func TestInfoCommand(t *testing.T) {
	d, store, transport := testDaemon(t, false)
	store.Enable(1)
	store.FinishDay(1, 3)

	d.handleCommand(context.Background(), events.Command{Kind: events.CommandInfo, ChatID: 1})

	n := transport.lastSent(t, 1)
	assert.Equal(t, events.KindInfoSummary, n.Kind)
	assert.Equal(t, true, n.Params["active"])
	assert.Equal(t, 3, n.Params["record"])
	assert.Equal(t, 13, n.Params["hour"])
	assert.Equal(t, 37, n.Params["minute"])
	assert.Equal(t, "UTC", n.Params["timezone"])
	assert.Equal(t, "test", n.Params["version"])
}

func TestDebugAndResetCommands(t *testing.T) {
	d, store, transport := testDaemon(t, false)
	store.Enable(1)
	store.RecordParticipant(1, "@x")
	store.Abort(1)

	d.handleCommand(context.Background(), events.Command{Kind: events.CommandDebug, ChatID: 1})
	n := transport.lastSent(t, 1)
	assert.Equal(t, events.KindDebugDump, n.Kind)
	assert.Contains(t, n.Params["dump"], `"aborted": true`)

	d.handleCommand(context.Background(), events.Command{Kind: events.CommandReset, ChatID: 1})
	assert.Equal(t, events.KindStateReset, transport.lastSent(t, 1).Kind)
	assert.False(t, store.IsAborted(1))
	assert.Equal(t, 0, store.Summarize(1).Count)
}

func TestRestartCarriesStateOver(t *testing.T) {
	// Day N's report runs, the process restarts, day N+1 sees the record.
	cfg := testConfig(t)
	store := state.NewStore(cfg.Language.Default, cfg.Language.Supported)
	transport := newFakeTransport()
	d, err := New(cfg, store, transport, "test",
		WithRand(rand.New(rand.NewSource(1))),
		WithOracle(windowOracle(cfg, false)))
	require.NoError(t, err)

	store.Enable(1)
	store.RecordParticipant(1, "@x")
	d.runReport(context.Background())
	require.NoError(t, store.Save(cfg.Snapshot.Path))

	restarted := state.NewStore(cfg.Language.Default, cfg.Language.Supported)
	require.NoError(t, restarted.Load(cfg.Snapshot.Path))

	assert.True(t, restarted.IsActive(1))
	assert.Equal(t, 1, restarted.Record(1))
	assert.Equal(t, 0, restarted.Summarize(1).Count)
	assert.False(t, restarted.IsAborted(1))
}

func TestStopWritesFinalSnapshot(t *testing.T) {
	d, store, _ := testDaemon(t, false)
	store.Enable(1)

	require.NoError(t, d.Stop(context.Background()))

	loaded := state.NewStore("de", []string{"de", "en"})
	require.NoError(t, loaded.Load(d.cfg.Snapshot.Path))
	assert.True(t, loaded.IsActive(1))
}

func TestSerializedLoopProcessesInOrder(t *testing.T) {
	d, store, transport := testDaemon(t, true)
	store.Enable(1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = d.Start(ctx)
		close(done)
	}()

	// First post records, the duplicate aborts; arrival order decides which
	// is which.
	d.OnMessage(events.Message{ChatID: 1, Participant: "@x", Text: "1337", MessageID: 1})
	d.OnMessage(events.Message{ChatID: 1, Participant: "@x", Text: "1337", MessageID: 2})

	require.Eventually(t, func() bool {
		return len(transport.sentKinds(1)) == 1
	}, 2*time.Second, 10*time.Millisecond)

	n := transport.lastSent(t, 1)
	assert.Equal(t, events.KindViolationOffender, n.Kind)
	assert.Equal(t, 2, n.ReplyTo, "the second message is the offending one")
	assert.Equal(t, 1, store.Summarize(1).Count)

	cancel()
	<-done
}
