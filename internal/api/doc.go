// Package api provides an HTTP client for the board API.
//
// # Overview
//
// This package defines the client for the board's JSON API and the entity
// types it returns. It handles HTTP communication, JSON serialization and
// error classification. It knows nothing about caching or state; the board
// package decides when to call it and what to do with the results.
//
// # Client Usage
//
//	client, err := api.NewClient("127.0.0.1:7480")
//	if err != nil {
//		return err
//	}
//	posts, err := client.FetchPosts(ctx)
//
// # API Endpoints
//
//   - GET  /fakeApi/posts: every post
//   - GET  /fakeApi/posts/{id}: one post
//   - POST /fakeApi/posts: create a post from {title, content, user}
//   - GET  /fakeApi/users: every user
//   - GET  /fakeApi/notifications?since=<RFC 3339>: notifications newer than since
//
// # Error Handling
//
// Every failure to talk to the API is a *NetworkError carrying the method,
// the resource path and, when a response arrived, its status code:
//
//   - "api GET /fakeApi/posts: execute request: dial tcp: connection refused"
//   - "api GET /fakeApi/users returned status 500"
//   - "api GET /fakeApi/posts: decode response: unexpected EOF"
//
// A 404 wraps ErrNotFound, so errors.Is(err, api.ErrNotFound) works.
//
// # Timestamps
//
// Dates travel as RFC 3339 strings and are kept as strings on the entity
// types. ParsedDate converts them; CompareDates orders two of them, falling
// back to string order when either is unparseable.
//
// # Thread Safety
//
// The Client is safe for concurrent use.
package api
