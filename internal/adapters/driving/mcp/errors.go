// Package mcp provides an MCP (Model Context Protocol) server adapter for quill.
// It lets AI assistants read, draft and sync posts through the same services
// the CLI uses.
package mcp

import "errors"

// ErrMissingPostService is returned when the post service is not provided.
var ErrMissingPostService = errors.New("mcp: post service is required")

// ErrSyncUnavailable is returned by the sync tool when no sync service is configured.
var ErrSyncUnavailable = errors.New("mcp: sync is not configured")

// ErrGoalsUnavailable is returned by the progress tool when no goal service is configured.
var ErrGoalsUnavailable = errors.New("mcp: goal tracking is not configured")
