package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"

	"github.com/mrlokans/wooauto/internal/preferences"
	"github.com/mrlokans/wooauto/internal/woocommerce"
)

// PollOrdersQueue is the backlite queue name for order polls.
const PollOrdersQueue = "poll_orders"

// maxPollPages bounds a single poll to maxPollPages*woocommerce.MaxPerPage orders.
const maxPollPages = 100

// PollStore provides the saved connection and records poll outcomes.
// *preferences.Store implements it.
type PollStore interface {
	WooCommerceConfig() (preferences.WooCommerceConfig, error)
	PollStatus() (preferences.PollStatus, error)
	RecordPoll(status preferences.PollStatus) error
}

// OrderLister fetches orders from a store.
type OrderLister interface {
	ListOrders(ctx context.Context, opts woocommerce.ListOptions) ([]woocommerce.Order, error)
}

// OrderListerFactory builds a lister for the current connection settings.
type OrderListerFactory func(cfg preferences.WooCommerceConfig) OrderLister

// OrderHandler receives the orders found by a poll.
type OrderHandler interface {
	HandleOrders(ctx context.Context, orders []woocommerce.Order) error
}

// PollOrdersTask fetches orders created since the last successful poll.
type PollOrdersTask struct {
	Reason string `json:"reason,omitempty"` // "schedule" or "manual"
}

// Config returns the queue configuration for order polls. A failed poll is not
// retried; the next scheduled tick covers the same window.
func (t PollOrdersTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        PollOrdersQueue,
		MaxAttempts: 1,
		Backoff:     30 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// PollResult summarizes one poll.
type PollResult struct {
	Status string
	Orders []woocommerce.Order
	Since  time.Time
}

// OrderPoller runs a single poll against the configured store.
type OrderPoller struct {
	store     PollStore
	newLister OrderListerFactory
	handler   OrderHandler
	log       *zap.Logger
	now       func() time.Time
}

// NewOrderPoller creates a poller. A nil handler logs each order.
func NewOrderPoller(store PollStore, newLister OrderListerFactory, handler OrderHandler, log *zap.Logger) *OrderPoller {
	if log == nil {
		log = zap.NewNop()
	}
	p := &OrderPoller{
		store:     store,
		newLister: newLister,
		handler:   handler,
		log:       log,
		now:       time.Now,
	}
	if p.handler == nil {
		p.handler = &logOrderHandler{log: log}
	}
	return p
}

// WooCommerceListerFactory returns a factory that builds real API clients.
func WooCommerceListerFactory(timeout time.Duration) OrderListerFactory {
	return func(cfg preferences.WooCommerceConfig) OrderLister {
		return woocommerce.NewClient(woocommerce.Config{
			SiteURL:        cfg.SiteURL,
			ConsumerKey:    cfg.ConsumerKey,
			ConsumerSecret: cfg.ConsumerSecret,
			Timeout:        timeout,
		})
	}
}

// Poll lists orders created after the last recorded poll and records the outcome.
// An unconfigured connection is recorded as skipped, not as an error.
func (p *OrderPoller) Poll(ctx context.Context) (*PollResult, error) {
	startedAt := p.now().UTC()

	cfg, err := p.store.WooCommerceConfig()
	if err != nil {
		return nil, fmt.Errorf("load connection settings: %w", err)
	}
	if !cfg.IsConfigured() {
		p.log.Debug("order poll skipped, connection not configured")
		status := preferences.PollStatus{
			Status:  preferences.PollStatusSkipped,
			Message: woocommerce.ErrNotConfigured.Error(),
		}
		if err := p.store.RecordPoll(status); err != nil {
			return nil, err
		}
		return &PollResult{Status: preferences.PollStatusSkipped}, nil
	}

	last, err := p.store.PollStatus()
	if err != nil {
		return nil, fmt.Errorf("load poll status: %w", err)
	}
	since := startedAt.Add(-cfg.PollingInterval)
	if last.LastPollAt != nil {
		since = *last.LastPollAt
	}

	orders, err := p.listSince(ctx, p.newLister(cfg), since)
	if err != nil {
		p.recordFailure(err)
		return nil, fmt.Errorf("list orders: %w", err)
	}

	if len(orders) > 0 {
		if err := p.handler.HandleOrders(ctx, orders); err != nil {
			p.recordFailure(err)
			return nil, fmt.Errorf("handle orders: %w", err)
		}
	}

	status := preferences.PollStatus{
		LastPollAt: &startedAt,
		Status:     preferences.PollStatusSuccess,
		Message:    fmt.Sprintf("%d new orders", len(orders)),
	}
	if err := p.store.RecordPoll(status); err != nil {
		return nil, err
	}

	p.log.Info("orders polled",
		zap.Int("orders", len(orders)),
		zap.Time("since", since))
	return &PollResult{Status: preferences.PollStatusSuccess, Orders: orders, Since: since}, nil
}

// listSince pages through every order created after since. A page shorter than
// the page size ends the listing.
func (p *OrderPoller) listSince(ctx context.Context, lister OrderLister, since time.Time) ([]woocommerce.Order, error) {
	var orders []woocommerce.Order
	for page := 1; page <= maxPollPages; page++ {
		batch, err := lister.ListOrders(ctx, woocommerce.ListOptions{
			After:   since,
			PerPage: woocommerce.MaxPerPage,
			Page:    page,
		})
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		orders = append(orders, batch...)
		if len(batch) < woocommerce.MaxPerPage {
			return orders, nil
		}
	}
	p.log.Warn("order poll stopped at page limit",
		zap.Int("pages", maxPollPages),
		zap.Int("orders", len(orders)))
	return orders, nil
}

func (p *OrderPoller) recordFailure(cause error) {
	status := preferences.PollStatus{Status: preferences.PollStatusFailed, Message: cause.Error()}
	if err := p.store.RecordPoll(status); err != nil {
		p.log.Error("failed to record poll failure", zap.Error(err))
	}
}

// PollOrdersProcessor creates a processor function for PollOrdersTask.
func PollOrdersProcessor(poller *OrderPoller) backlite.QueueProcessor[PollOrdersTask] {
	return func(ctx context.Context, task PollOrdersTask) error {
		if poller == nil {
			return fmt.Errorf("order poller not configured")
		}
		poller.log.Debug("polling orders", zap.String("reason", task.Reason))
		_, err := poller.Poll(ctx)
		return err
	}
}

// NewPollOrdersQueue creates a backlite queue for order polls.
func NewPollOrdersQueue(poller *OrderPoller) backlite.Queue {
	return backlite.NewQueue(PollOrdersProcessor(poller))
}

// logOrderHandler writes one log line per order.
type logOrderHandler struct {
	log *zap.Logger
}

func (h *logOrderHandler) HandleOrders(_ context.Context, orders []woocommerce.Order) error {
	for _, o := range orders {
		h.log.Info("new order",
			zap.Int64("id", o.ID),
			zap.String("number", o.Number),
			zap.String("status", o.Status),
			zap.String("total", o.Total+" "+o.Currency),
			zap.Int("items", len(o.LineItems)))
	}
	return nil
}
