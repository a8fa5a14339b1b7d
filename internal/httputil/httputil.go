// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"io"
	"net/http"
	"time"
)

// maxBodyBytes bounds how much of a provider response is read into memory.
const maxBodyBytes = 1 << 20 // 1 MiB

// NewClient returns an HTTP client with the given request timeout. Every
// outbound call in the pipeline is a single blocking call-and-wait with its
// own timeout; there is no retry layer.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// ReadBody reads the response body up to maxBodyBytes and closes it.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}

// Truncate shortens s to at most max bytes for log lines.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
