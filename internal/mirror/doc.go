// Package mirror keeps the local queue picture in lockstep with the server.
//
// The server owns the queue. The client never derives state on its own; it
// replays what the server tells it through two channels:
//
//   - mutation responses: created or refreshed records returned by the
//     command operations (Submit, Retry)
//   - the push stream: job and stats updates delivered over the websocket
//     and routed here via HandleItem and HandleStats
//
// Both funnel through the same apply path, so the auto-save trigger sees a
// finished item no matter which channel reported it first.
//
// # Suppression
//
// Local dismissals (Cancel, CancelAll, ClearAll) race against push updates
// already in flight. The engine records the dismissed ids in a suppression
// set and drops any later update for a member, which keeps a dismissed row
// from flickering back into the list. Ids are never reused by the server, so
// the set only grows and is never pruned. ClearCompleted does not suppress:
// a finished item gets no further updates, so there is nothing to race.
//
// # Auto-save
//
// When enabled, the engine fetches the produced file of every item that
// reaches a terminal success state, exactly once per id. The once-guard is a
// monotonic set updated before the fetch starts; a failed fetch is logged
// and not retried automatically. The set resets only on ClearAll.
//
// # Optimism
//
// Bulk dismissals mutate the store before the request resolves. There is no
// rollback: if the request fails the store may briefly disagree with the
// server, and the next push update or reload converges it.
package mirror
