// Package app assembles the tapedeck client.
//
// Run wires the pieces in dependency order: configuration and preferences
// load first, the HTTP client is built from the resolved server URL, the
// store and mirror engine sit on top of it, and the push channel feeds the
// engine until shutdown. The UI runs in the foreground and owns the
// terminal; background log output goes to the file named by TAPEDECK_LOG,
// or nowhere.
//
// A server that is down at startup does not abort the run. The initial
// queue fetch failure is logged, the UI starts empty, and the push
// channel's redial loop picks the queue up when the server returns.
package app
