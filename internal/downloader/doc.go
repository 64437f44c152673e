// Package downloader provides an HTTP client for the download server API.
//
// # Overview
//
// This package defines the API client for the YouTube-to-MP3 download server.
// It handles HTTP communication, JSON serialization, and type-safe
// representation of queue items, aggregate stats, and produced files.
//
// # Architecture
//
// The package is split into two files:
//
//   - client.go: HTTP client implementation and request/response handling
//   - types.go: Data structures mirroring the server API schema
//
// # Client Usage
//
// Create a client using the server URL from configuration:
//
//	client, err := downloader.NewClient("http://127.0.0.1:8000")
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//
//	items, err := client.FetchQueue(ctx)
//	created, err := client.Submit(ctx, []string{"https://..."}, "192k")
//
// # API Endpoints
//
//   - GET    /api/downloads            list the current queue
//   - POST   /api/downloads            submit a batch of URLs
//   - GET    /api/downloads/{id}       fetch a single item
//   - DELETE /api/downloads/{id}       cancel an item (404 = already gone)
//   - POST   /api/downloads/{id}/retry restart a failed item
//   - GET    /api/queue/stats          aggregate counters
//   - POST   /api/queue/clear          remove completed items
//   - POST   /api/queue/cancel-all     cancel active items
//   - POST   /api/queue/clear-all      empty the queue
//   - GET    /api/files                list produced files
//   - GET    /api/files/{name}         stream a produced file
//   - DELETE /api/files/{name}         delete a produced file
//
// The push endpoint (/ws) is derived via WebSocketURL and consumed by the
// push package, not by this client.
//
// # Error Handling
//
// Non-2xx responses surface as *StatusError so callers can branch on the
// HTTP code; IsNotFound recognizes 404. Cancel folds 404 into success itself
// because cancellation is idempotent: a server that no longer knows the item
// has already done what was asked.
//
// All other errors are wrapped with descriptive context using fmt.Errorf.
//
// # Network Assumptions
//
// Requests run under a 5-second timeout except file downloads, which can
// legitimately take minutes and are bounded only by the caller's context.
// The server is assumed to be on localhost or a trusted local network with
// no authentication, matching its single-operator deployment.
package downloader
