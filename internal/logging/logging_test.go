package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
		want   Level
	}{
		{name: "json info", level: "info", format: "json", want: LevelInfo},
		{name: "console debug", level: "debug", format: "console", want: LevelDebug},
		{name: "warn", level: "warn", format: "json", want: LevelWarn},
		{name: "error", level: "error", format: "console", want: LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.level, tt.format)
			require.NoError(t, err)

			assert.True(t, l.Core().Enabled(tt.want))
			assert.False(t, l.Core().Enabled(tt.want-1))
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("loud", "json")

	assert.ErrorContains(t, err, "invalid log level")
}

func TestInit(t *testing.T) {
	assert.NotNil(t, L())

	require.NoError(t, Init("debug", "console"))
	assert.True(t, L().Core().Enabled(LevelDebug))

	assert.Error(t, Init("verbose", "json"))
	assert.True(t, L().Core().Enabled(LevelDebug), "failed Init keeps previous logger")
}
