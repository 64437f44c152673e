// Package push subscribes to the server's websocket event stream.
//
// The server publishes queue changes as JSON frames of the form
//
//	{"type": "job-updated",   "data": {<job record>}}
//	{"type": "stats-updated", "data": {<stats record>}}
//
// and the channel decodes each frame and hands the payload to its Handler.
// Malformed frames and unknown type tags are logged and dropped; one bad
// frame never takes the stream down.
//
// # Reconnection
//
// The channel holds exactly one connection. When the dial fails or an
// established connection drops, a single timer is armed to redial after a
// fixed delay. Concurrent failures cannot stack attempts, and Close stops
// the timer so a torn-down channel never dials again. There is no backoff
// growth and no retry cap: a client pointed at a stopped server keeps
// probing at the same cadence until it reappears.
package push
