//go:build tools
// +build tools

// Package tools lists the development tools the portal relies on.
// They run through `go run` or `go install` and are not tracked in go.mod.
package tools

// mockgen - regenerates internal/mocks from the ports interfaces
//   Run: go generate ./internal/mocks
//   Version: go.uber.org/mock/mockgen@v0.6.0 (matches the go.uber.org/mock runtime in go.mod)
//
// Air - live reload of cmd/medscan-portal while editing templates under web/templates
//   Install: go install github.com/air-verse/air@v1.63.0
//   Run: air --build.cmd "go build -o ./tmp/medscan-portal ./cmd/medscan-portal" --build.bin ./tmp/medscan-portal
