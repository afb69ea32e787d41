// Package interfaces documents the seams between packages and checks them at
// compile time.
//
// # Interface Categories
//
// ## Storage
//
//   - preferences.Repository: key/value rows (internal/database/settings)
//   - preferences.Sealer: at-rest encryption of secrets (internal/crypto)
//   - http.Pinger: database health (internal/database)
//
// ## Preference Consumers
//
// Each consumer declares the narrow slice of *preferences.Store it needs:
//
//   - http.PreferenceStore: snapshot, batch update, reset, poll status
//   - locale.Store: language lookup and update
//   - scheduler.ConnectionSource: connection settings and polling interval
//   - tasks.PollStore: connection settings and poll bookkeeping
//
// ## Order Polling
//
//   - http.PollScheduler: reschedule and trigger (internal/scheduler)
//   - scheduler.Enqueuer, http.TaskStatusSource: queue a poll task and follow it (internal/tasks)
//   - tasks.OrderLister, http.ConnectionTester: WooCommerce REST calls (internal/woocommerce)
//   - tasks.OrderHandler: reacts to newly polled orders
//
// # Adding an Order Handler
//
// Polled orders are logged by default. To act on them (notify, print, sound):
//
//  1. Implement OrderHandler
//
//     type SoundHandler struct {
//         prefs *preferences.Store
//     }
//
//     func (h *SoundHandler) HandleOrders(ctx context.Context, orders []woocommerce.Order) error
//
//     var _ tasks.OrderHandler = (*SoundHandler)(nil)
//
//  2. Pass it to tasks.NewOrderPoller in entrypoint.go
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go.
package interfaces
