package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mrlokans/wooauto/internal/preferences"
)

const enqueueTimeout = 10 * time.Second

// Poll reasons passed to the Enqueuer.
const (
	ReasonSchedule = "schedule"
	ReasonManual   = "manual"
)

// Enqueuer queues an order poll. *tasks.Client implements it.
type Enqueuer interface {
	EnqueuePoll(ctx context.Context, reason string) (string, error)
}

// ConnectionSource provides the saved connection and polling interval.
// *preferences.Store implements it.
type ConnectionSource interface {
	WooCommerceConfig() (preferences.WooCommerceConfig, error)
}

// OrderPollScheduler enqueues an order poll every polling interval.
type OrderPollScheduler struct {
	source   ConnectionSource
	enqueuer Enqueuer
	log      *zap.Logger

	cron     *cron.Cron
	entryID  cron.EntryID
	interval time.Duration
	parent   context.Context
	done     chan struct{}
	mu       sync.RWMutex
	running  bool
}

// NewOrderPollScheduler creates a new scheduler instance
func NewOrderPollScheduler(source ConnectionSource, enqueuer Enqueuer, log *zap.Logger) *OrderPollScheduler {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("scheduler")
	return &OrderPollScheduler{
		source:   source,
		enqueuer: enqueuer,
		log:      log,
		cron: cron.New(
			cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow|cron.Descriptor)),
			cron.WithLogger(cronLogger{log: log.Sugar()}),
		),
	}
}

// Start begins the scheduler if the store connection is configured. The scheduler
// stops when ctx is cancelled.
func (s *OrderPollScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	s.parent = ctx

	cfg, err := s.source.WooCommerceConfig()
	if err != nil {
		return fmt.Errorf("load connection settings: %w", err)
	}
	if !cfg.IsConfigured() {
		s.log.Info("order poll scheduler: connection not configured, skipping")
		return nil
	}
	if cfg.PollingInterval < time.Second {
		return fmt.Errorf("invalid polling interval %v", cfg.PollingInterval)
	}

	spec := Spec(cfg.PollingInterval)
	entryID, err := s.cron.AddFunc(spec, s.tick)
	if err != nil {
		return fmt.Errorf("failed to schedule poll job: %w", err)
	}
	s.entryID = entryID
	s.interval = cfg.PollingInterval

	s.cron.Start()
	s.running = true

	done := make(chan struct{})
	s.done = done
	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-done:
		}
	}()

	s.log.Info("order poll scheduler started",
		zap.String("schedule", spec),
		zap.Time("next_run", time.Now().Add(cfg.PollingInterval)))
	return nil
}

// Stop stops the scheduler and waits for a running tick to finish.
func (s *OrderPollScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)
	close(s.done)

	s.running = false
	s.interval = 0
	s.log.Info("order poll scheduler stopped")
}

// Reschedule re-reads the connection settings (call after they change).
func (s *OrderPollScheduler) Reschedule() error {
	s.Stop()

	s.mu.RLock()
	parent := s.parent
	s.mu.RUnlock()
	if parent == nil {
		parent = context.Background()
	}
	return s.Start(parent)
}

// RunNow enqueues an immediate poll.
func (s *OrderPollScheduler) RunNow(ctx context.Context) (string, error) {
	return s.enqueuer.EnqueuePoll(ctx, ReasonManual)
}

// IsRunning returns whether the scheduler is active
func (s *OrderPollScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Interval returns the active polling interval, or zero when stopped.
func (s *OrderPollScheduler) Interval() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.interval
}

// NextRun returns when the next poll will be enqueued.
func (s *OrderPollScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.running {
		return nil
	}
	entry := s.cron.Entry(s.entryID)
	if !entry.Valid() || entry.Next.IsZero() {
		return nil
	}
	next := entry.Next
	return &next
}

func (s *OrderPollScheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), enqueueTimeout)
	defer cancel()

	id, err := s.enqueuer.EnqueuePoll(ctx, ReasonSchedule)
	if err != nil {
		s.log.Error("failed to enqueue order poll", zap.Error(err))
		return
	}
	s.log.Debug("order poll enqueued", zap.String("task_id", id))
}

// Spec returns the cron spec for a polling interval, e.g. "@every 60s".
func Spec(interval time.Duration) string {
	return fmt.Sprintf("@every %ds", int(interval/time.Second))
}

// cronLogger adapts zap to cron's Logger interface.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
