// Package daemon ties the core together: one serialized event loop through
// which every state mutation passes, the daily cycle scheduler, snapshot
// persistence and metrics. Inbound messages and scheduled steps are distinct
// event sources but never interleave; each runs to completion on the loop
// before the next begins.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/yeldir/leetbot/internal/config"
	"github.com/yeldir/leetbot/internal/events"
	"github.com/yeldir/leetbot/internal/leet"
	"github.com/yeldir/leetbot/internal/logfields"
	"github.com/yeldir/leetbot/internal/state"
)

// Transport is the outbound side of the chat collaborator. Implemented by
// telegram.Bot; tests supply fakes.
type Transport interface {
	Send(ctx context.Context, lang string, n events.Notification) error
	PinReminder(ctx context.Context, chatID int64, lang string) (int, error)
	Unpin(ctx context.Context, chatID int64, messageID int) error
}

// Daemon is the main service. Construct with New, drive with Start/Stop.
type Daemon struct {
	cfg        *config.Config
	store      *state.Store
	oracle     *leet.Oracle
	classifier *leet.Classifier
	transport  Transport
	scheduler  *Scheduler
	metrics    *Metrics
	version    string

	rnd *rand.Rand

	tasks    chan func()
	stopped  chan struct{}
	stopOnce sync.Once

	// pinned maps chat id to today's pinned reminder message, filled by the
	// reminder step and drained by the unpin step.
	pinned map[int64]int
}

// Option customizes daemon construction.
type Option func(*Daemon)

// WithRand overrides the random source used for winner selection.
func WithRand(rnd *rand.Rand) Option {
	return func(d *Daemon) { d.rnd = rnd }
}

// WithOracle overrides the window oracle, letting tests control the clock.
func WithOracle(o *leet.Oracle) Option {
	return func(d *Daemon) {
		d.oracle = o
		d.classifier = leet.NewClassifier(d.store, o, d.cfg.Token)
	}
}

// New creates a daemon over an already hydrated (or empty) store.
func New(cfg *config.Config, store *state.Store, transport Transport, version string, opts ...Option) (*Daemon, error) {
	d := &Daemon{
		cfg:       cfg,
		store:     store,
		transport: transport,
		version:   version,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
		tasks:     make(chan func(), 64),
		stopped:   make(chan struct{}),
		pinned:    make(map[int64]int),
	}
	d.oracle = leet.NewOracle(cfg.Window.Hour, cfg.Window.Minute, cfg.Window.Location())
	d.classifier = leet.NewClassifier(store, d.oracle, cfg.Token)
	d.metrics = NewMetrics(store)

	for _, opt := range opts {
		opt(d)
	}

	scheduler, err := NewScheduler(cfg.Window.Location())
	if err != nil {
		return nil, err
	}
	d.scheduler = scheduler
	if err := d.registerJobs(); err != nil {
		return nil, err
	}
	return d, nil
}

// registerJobs wires the daily cycle steps and the snapshot cadence. Each
// job only enqueues onto the serialized loop; gocron goroutines never touch
// state directly.
func (d *Daemon) registerJobs() error {
	h, m := d.cfg.Window.Hour, d.cfg.Window.Minute

	steps := []struct {
		name          string
		offsetMinutes int
		second        int
		run           func(context.Context)
	}{
		{"reminder", -1, 0, d.runReminder},
		{"countdown", -1, 57, d.runCountdown},
		{"report", 1, 0, d.runReport},
		{"unpin", 2, 0, d.runUnpin},
	}
	for _, step := range steps {
		sh, sm := offsetWindow(h, m, step.offsetMinutes)
		run := step.run
		if err := d.scheduler.ScheduleDaily(step.name, sh, sm, step.second, func() {
			d.enqueue(func() { run(context.Background()) })
		}); err != nil {
			return err
		}
	}

	if err := d.scheduler.ScheduleCron("snapshot", d.cfg.Snapshot.Schedule, func() {
		d.enqueue(d.saveSnapshot)
	}); err != nil {
		return fmt.Errorf("invalid snapshot schedule %q: %w", d.cfg.Snapshot.Schedule, err)
	}
	return nil
}

// offsetWindow shifts the window time by the given number of minutes,
// wrapping around midnight.
func offsetWindow(hour, minute, offset int) (int, int) {
	total := (hour*60 + minute + offset + 24*60) % (24 * 60)
	return total / 60, total % 60
}

// Start hydrates the store from the snapshot, starts the scheduler and the
// optional metrics endpoint, then runs the serialized loop until the context
// is cancelled. The snapshot is loaded before any event is processed.
func (d *Daemon) Start(ctx context.Context) error {
	if err := d.store.Load(d.cfg.Snapshot.Path); err != nil {
		slog.Warn("Snapshot unusable, starting with empty state",
			logfields.Path(d.cfg.Snapshot.Path), logfields.Error(err))
	} else {
		slog.Info("State hydrated", logfields.Path(d.cfg.Snapshot.Path))
	}

	if d.cfg.Metrics.Listen != "" {
		d.metrics.Serve(d.cfg.Metrics.Listen)
	}

	d.scheduler.Start()
	slog.Info("Daemon started",
		slog.Int("window_hour", d.cfg.Window.Hour),
		slog.Int("window_minute", d.cfg.Window.Minute),
		slog.String("timezone", d.cfg.Window.Timezone))

	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-d.tasks:
			fn()
		}
	}
}

// Stop shuts down the scheduler and metrics server and writes a final
// snapshot when configured to.
func (d *Daemon) Stop(ctx context.Context) error {
	var err error
	d.stopOnce.Do(func() {
		close(d.stopped)
		if serr := d.scheduler.Stop(); serr != nil {
			slog.Error("Failed to stop scheduler", logfields.Error(serr))
			err = serr
		}
		d.metrics.Close(ctx)
		if d.cfg.Snapshot.WriteOnShutdown() {
			if serr := d.store.Save(d.cfg.Snapshot.Path); serr != nil {
				slog.Error("Final snapshot failed", logfields.Error(serr))
				err = serr
			} else {
				slog.Info("Final snapshot written", logfields.Path(d.cfg.Snapshot.Path))
			}
		}
	})
	return err
}

// ApplyConfig applies hot-reloadable settings from a freshly loaded config.
// Called by the config watcher; runs on the serialized loop.
func (d *Daemon) ApplyConfig(cfg *config.Config) {
	d.enqueue(func() {
		d.store.SetLanguagePolicy(cfg.Language.Default, cfg.Language.Supported)
		slog.Info("Language policy updated",
			logfields.Language(cfg.Language.Default),
			slog.Any("supported", cfg.Language.Supported))
	})
}

// enqueue hands a task to the serialized loop. Drops the task once the
// daemon has stopped.
func (d *Daemon) enqueue(fn func()) {
	select {
	case d.tasks <- fn:
	case <-d.stopped:
	}
}

// saveSnapshot persists the store on the snapshot cadence.
func (d *Daemon) saveSnapshot() {
	if err := d.store.Save(d.cfg.Snapshot.Path); err != nil {
		d.metrics.snapshotErrors.Inc()
		slog.Error("Snapshot write failed", logfields.Path(d.cfg.Snapshot.Path), logfields.Error(err))
		return
	}
	d.metrics.snapshotWrites.Inc()
	slog.Debug("Snapshot written", logfields.Path(d.cfg.Snapshot.Path))
}

// protect runs fn for one chat, converting panics into errors so a failure
// in one chat's processing cannot take down the step for the others.
func protect(chatID int64, step string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s for chat %d: %v", step, chatID, r)
		}
	}()
	return fn()
}
