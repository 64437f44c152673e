// Package main hosts the tapedeck CLI entrypoint and command graph.
//
// Running tapedeck with no arguments opens the interactive queue view. The
// subcommands cover one-shot use from scripts and pipes: queueing URLs,
// listing items and counters, cancelling and retrying, and fetching or
// deleting the files the server produced. Table output switches to
// tab-separated rows when stdout is not a terminal.
//
// Keep this package lean: new behavior belongs in the internal packages,
// surfaced here through dedicated commands or flags.
package main
