// Package ui implements the tapedeck terminal interface with Bubble Tea.
//
// The interface is a single queue screen: a status header with the
// server-pushed counters and the push-channel connection state, a command
// bar showing the session toggles, the item table, and a footer carrying
// the outcome of the last action.
//
// # Data flow
//
// The model never talks to the network from the update loop. Queue data
// arrives by polling the state store on a short tick; the store itself is
// fed by the mirror engine from websocket pushes and command responses.
// Commands run as tea.Cmd functions calling the engine, and report back via
// actionMsg so failures surface in the footer instead of crashing the view.
//
// # Keys
//
// 'a' opens the URL input bar; enter submits with the session quality, esc
// abandons it. Item actions (c, r, s) apply to the cursor row. Bulk actions
// are C (clear completed), x (cancel all active), X (clear everything).
// Session toggles: b cycles quality, d flips auto-save, T cycles the theme
// and persists it to prefs.
package ui
