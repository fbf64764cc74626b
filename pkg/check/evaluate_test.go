package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentUsed(t *testing.T) {
	tests := []struct {
		name  string
		total uint64
		free  uint64
		want  float64
	}{
		{"exact boundary", 100, 15, 85.00},
		{"below boundary", 10000, 1501, 84.99},
		{"rounds up to boundary", 100000, 15001, 85.00},
		{"empty", 1000, 1000, 0},
		{"full", 1000, 0, 100},
		{"one third", 3, 2, 33.33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PercentUsed(tt.total, tt.free), 1e-9)
		})
	}
}

func TestClassify(t *testing.T) {
	defaults := Thresholds{Warn: 85, Crit: 95}
	inverted := Thresholds{Warn: 90, Crit: 80}

	tests := []struct {
		name          string
		thresholds    Thresholds
		percent       float64
		wantStatus    Status
		wantThreshold int
	}{
		{"ok", defaults, 84.99, StatusOK, 0},
		{"warn inclusive", defaults, 85, StatusWarning, 85},
		{"crit inclusive", defaults, 95, StatusCritical, 95},
		{"inverted reaches crit", inverted, 82, StatusCritical, 80},
		{"inverted above both", inverted, 95, StatusCritical, 80},
		{"inverted ok", inverted, 79.99, StatusOK, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, threshold := tt.thresholds.Classify(tt.percent)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantThreshold, threshold)
		})
	}
}

func TestEvaluate(t *testing.T) {
	t.Run("critical message names the threshold", func(t *testing.T) {
		v, ok := Evaluate("/data", Space, 1000, 40, Thresholds{Warn: 85, Crit: 95})
		require.True(t, ok)
		assert.Equal(t, StatusCritical, v.Status)
		assert.InDelta(t, 96.0, v.Percent, 1e-9)
		assert.Equal(t, "Filesystem /data space usage is 96.00%, expected < 95%", v.Message)
		assert.True(t, v.Problem())
	})

	t.Run("override crit downgrades to warning", func(t *testing.T) {
		v, ok := Evaluate("/data", Space, 1000, 40, Thresholds{Warn: 85, Crit: 97})
		require.True(t, ok)
		assert.Equal(t, StatusWarning, v.Status)
		assert.Contains(t, v.Message, "expected < 85%")
	})

	t.Run("ok message has no threshold", func(t *testing.T) {
		v, ok := Evaluate("/", Inodes, 1000, 900, Thresholds{Warn: 85, Crit: 95})
		require.True(t, ok)
		assert.Equal(t, StatusOK, v.Status)
		assert.Equal(t, "Filesystem / inodes usage is 10.00%", v.Message)
		assert.NotContains(t, v.Message, "expected")
		assert.False(t, v.Problem())
	})

	t.Run("zero total is not applicable", func(t *testing.T) {
		_, ok := Evaluate("/proc", Space, 0, 0, Thresholds{Warn: 85, Crit: 95})
		assert.False(t, ok)
	})

	t.Run("boundary is inclusive", func(t *testing.T) {
		v, ok := Evaluate("/var", Space, 100, 15, Thresholds{Warn: 85, Crit: 95})
		require.True(t, ok)
		assert.Equal(t, StatusWarning, v.Status)

		v, ok = Evaluate("/var", Space, 10000, 1501, Thresholds{Warn: 85, Crit: 95})
		require.True(t, ok)
		assert.Equal(t, StatusOK, v.Status)
	})
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "OK", StatusOK.String())
	assert.Equal(t, "WARNING", StatusWarning.String())
	assert.Equal(t, "CRITICAL", StatusCritical.String())
	assert.Equal(t, "UNKNOWN", StatusUnknown.String())

	assert.Equal(t, 0, StatusOK.ExitCode())
	assert.Equal(t, 2, StatusCritical.ExitCode())
	assert.Equal(t, 3, Status(42).ExitCode())

	assert.Equal(t, StatusWarning, ParseStatus("warning"))
	assert.Equal(t, StatusUnknown, ParseStatus("bogus"))
}

func TestDefaults(t *testing.T) {
	d := DefaultThresholds()
	d.Inodes.Crit = 99

	assert.Equal(t, 85, d.For(Space, Warn))
	assert.Equal(t, 95, d.For(Space, Crit))
	assert.Equal(t, 85, d.For(Inodes, Warn))
	assert.Equal(t, 99, d.For(Inodes, Crit))
}
