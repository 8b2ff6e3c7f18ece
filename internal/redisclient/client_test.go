package redisclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolSizing(t *testing.T) {
	cases := []struct {
		name      string
		requested int
		wantPool  int
		wantIdle  int
	}{
		{"zero falls back to default", 0, 10, 1},
		{"negative falls back to default", -5, 10, 1},
		{"small pool keeps one idle", 4, 4, 1},
		{"large pool scales idle", 50, 50, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pool, idle := poolSizing(tc.requested)
			assert.Equal(t, tc.wantPool, pool)
			assert.Equal(t, tc.wantIdle, idle)
		})
	}
}
