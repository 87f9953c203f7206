// Package wordpress implements the remote client for WordPress-compatible
// REST APIs.
//
// Every request authenticates with HTTP Basic auth (username plus
// application password) and is throttled through a token bucket.
// Responses that are too large for the transport are retried with smaller
// pages, and as a last resort post by post.
package wordpress
