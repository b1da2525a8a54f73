package ratelimit

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_AllowsBurstThenDenies(t *testing.T) {
	l := NewMemoryLimiter(Config{Requests: 3, Window: time.Hour})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "10.0.0.1", PurposeLogin)
		require.NoError(t, err)
		require.True(t, ok, "request %d", i+1)
	}

	ok, err := l.Allow(ctx, "10.0.0.1", PurposeLogin)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	l := NewMemoryLimiter(Config{Requests: 1, Window: time.Hour})
	ctx := context.Background()

	ok, _ := l.Allow(ctx, "10.0.0.1", PurposeLogin)
	require.True(t, ok)
	ok, _ = l.Allow(ctx, "10.0.0.1", PurposeLogin)
	require.False(t, ok)

	ok, _ = l.Allow(ctx, "10.0.0.2", PurposeLogin)
	require.True(t, ok)
	ok, _ = l.Allow(ctx, "10.0.0.1", PurposeRegister)
	require.True(t, ok)
}

func TestMemoryLimiter_CleanupDropsIdleKeys(t *testing.T) {
	l := NewMemoryLimiter(Config{Requests: 5, Window: time.Minute})

	l.getLimiter(key("10.0.0.1", PurposeLogin))
	l.lastCleanup = time.Now().Add(-2 * cleanupInterval)
	l.getLimiter(key("10.0.0.2", PurposeLogin))

	_, ok := l.limiters.Load(key("10.0.0.1", PurposeLogin))
	require.False(t, ok)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"ignores forwarded for", map[string]string{"X-Forwarded-For": "1.2.3.4, 10.0.0.1"}, "10.0.0.9:1234", "10.0.0.9"},
		{"ignores real ip", map[string]string{"X-Real-IP": " 5.6.7.8 "}, "10.0.0.9:1234", "10.0.0.9"},
		{"remote addr", nil, "10.0.0.9:1234", "10.0.0.9"},
		{"ipv6 remote addr", nil, "[::1]:1234", "::1"},
		{"no port", nil, "10.0.0.9", "10.0.0.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/auth/login", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			require.Equal(t, tt.want, ClientIP(r))
		})
	}
}
