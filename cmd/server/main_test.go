package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"inventory-hub/internal/config"
)

func TestCurlHostForListenAddr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		listenAddr string
		want       string
	}{
		{name: "port only", listenAddr: ":8000", want: "localhost:8000"},
		{name: "ipv4 host and port", listenAddr: "127.0.0.1:8000", want: "127.0.0.1:8000"},
		{name: "wildcard ipv4", listenAddr: "0.0.0.0:8000", want: "localhost:8000"},
		{name: "wildcard ipv6", listenAddr: "[::]:8000", want: "localhost:8000"},
		{name: "ipv6 loopback", listenAddr: "[::1]:8000", want: "[::1]:8000"},
		{name: "trim host and port", listenAddr: " localhost:9090 ", want: "localhost:9090"},
		{name: "empty falls back", listenAddr: "", want: "localhost:8000"},
		{name: "malformed passes through", listenAddr: "localhost", want: "localhost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, curlHostForListenAddr(tt.listenAddr))
		})
	}
}

func TestRequestTimeout(t *testing.T) {
	cfg := &config.Config{
		Upstream: config.UpstreamConfig{Timeout: 10 * time.Second},
		Query:    config.QueryConfig{PollInterval: time.Second, PollAttempts: 30},
	}
	assert.Equal(t, 45*time.Second, requestTimeout(cfg))
}
