package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"ProductionJSON", Config{Level: "info", Format: "json"}},
		{"DevelopmentConsole", Config{Level: "debug", Format: "console"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(&tt.cfg)
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestWithCorrelation(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := WithCorrelation(zap.New(core), "plan-1", "item-1")

	l.Info("comparing")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "plan-1", fields["plan_id"])
	assert.Equal(t, "item-1", fields["plan_item_id"])
	assert.Equal(t, appType, fields["app_type"])
}

func TestFromContext(t *testing.T) {
	fallback := zap.NewNop()
	assert.Same(t, fallback, FromContext(context.Background(), fallback))

	bound := zap.NewExample()
	ctx := NewContext(context.Background(), bound)
	assert.Same(t, bound, FromContext(ctx, fallback))
}
