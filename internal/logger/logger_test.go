package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name      string
		json      bool
		debug     bool
		wantDebug bool
	}{
		{"console info", false, false, false},
		{"console debug", false, true, true},
		{"json info", true, false, false},
		{"json debug", true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.json, tt.debug)
			require.NoError(t, err)
			require.NotNil(t, log)

			assert.Equal(t, tt.wantDebug, log.Core().Enabled(zapcore.DebugLevel))
			assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "", Truncate("filter", 0))
	assert.Equal(t, "filter", Truncate("filter", 6))
	assert.Equal(t, "fil...", Truncate("filter", 3))
	assert.Equal(t, "ü...", Truncate("über", 1))
}
