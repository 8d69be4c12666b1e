//go:build tools
// +build tools

// Package tools documents development tool dependencies.
// These tools are installed globally via `go install` and are not tracked in go.mod
// since they are development tools, not runtime dependencies.
package tools

// Development tools (install via `go install`):
//
// mockgen - gomock generator used by internal/mocks (go generate ./internal/mocks)
//   Install: go install go.uber.org/mock/mockgen@v0.6.0
//   Version: v0.6.0 (matches go.uber.org/mock in go.mod)
//
// Air - Live reload for cmd/tenderwatch during development
//   Install: go install github.com/air-verse/air@v1.63.0
//   Version: v1.63.0
//   Docs: https://github.com/air-verse/air
