package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m4ce/sensu-plugins-disk-usage/pkg/inventory"
	"github.com/m4ce/sensu-plugins-disk-usage/pkg/sink"
)

func withInventory(t *testing.T, records ...inventory.MountRecord) {
	t.Helper()
	orig := newProvider
	newProvider = func() inventory.Provider {
		return &inventory.Static{Records: records}
	}
	t.Cleanup(func() { newProvider = orig })
}

func mount(mp, fstype string, bytesTotal, bytesFree uint64) inventory.MountRecord {
	return inventory.MountRecord{
		Mount: inventory.Mount{MountPoint: mp, FSType: fstype},
		Usage: inventory.Usage{BytesTotal: bytesTotal, BytesFree: bytesFree, InodesTotal: 100, InodesFree: 90},
	}
}

// execute runs the root command and returns stdout, stderr and the exit code.
func execute(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	t.Setenv("DISK_USAGE_CONFIG", filepath.Join(t.TempDir(), "absent.json"))

	var stdout, stderr bytes.Buffer
	c := newRootCmd()
	c.SetOut(&stdout)
	c.SetErr(&stderr)
	c.SetArgs(args)

	err := c.Execute()
	code := 0
	if err != nil {
		var ee ExitError
		require.True(t, errors.As(err, &ee), "unexpected error: %v", err)
		code = ee.ExitCode()
	}
	return stdout.String(), stderr.String(), code
}

func decodeEvents(t *testing.T, out string) ([]sink.Event, string) {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	var events []sink.Event
	for _, l := range lines[:len(lines)-1] {
		var e sink.Event
		require.NoError(t, json.Unmarshal([]byte(l), &e))
		events = append(events, e)
	}
	return events, lines[len(lines)-1]
}

func TestRunCheckOK(t *testing.T) {
	withInventory(t,
		mount("/", "ext4", 1000, 500),
		mount("/proc", "proc", 0, 0),
	)

	stdout, _, code := execute(t, "--dry-run", "--handlers", "mail,slack")
	assert.Equal(t, 0, code)

	events, last := decodeEvents(t, stdout)
	assert.Equal(t, "CheckDiskUsage OK: All filesystems (/, /proc) are OK", last)
	require.Len(t, events, 3)
	assert.Equal(t, []string{"mail", "slack"}, events[0].Handlers)
}

func TestRunCheckCritical(t *testing.T) {
	withInventory(t, mount("/data", "xfs", 1000, 40))

	stdout, _, code := execute(t, "--dry-run")
	assert.Equal(t, 2, code)

	events, last := decodeEvents(t, stdout)
	assert.Equal(t, "CheckDiskUsage CRITICAL: Found 1 problems", last)
	assert.Equal(t, "CheckDiskUsage CRITICAL: Filesystem /data space usage is 96.00%, expected < 95%", events[0].Output)
}

func TestRunCheckWarnFlag(t *testing.T) {
	withInventory(t, mount("/data", "xfs", 1000, 40))

	stdout, _, code := execute(t, "--dry-run", "-w")
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "CheckDiskUsage WARNING: Found 1 problems")
}

func TestRunCheckThresholdFlags(t *testing.T) {
	withInventory(t, mount("/data", "xfs", 1000, 40))

	_, _, code := execute(t, "--dry-run", "--crit-space", "97", "--warn-space", "97")
	assert.Equal(t, 0, code)
}

func TestRunCheckFilters(t *testing.T) {
	withInventory(t,
		mount("/", "ext4", 1000, 500),
		mount("/data", "xfs", 1000, 40),
		mount("/run", "tmpfs", 1000, 0),
	)

	stdout, _, code := execute(t, "--dry-run", "--ignore-fstype", "tmpfs", "--ignore-mount-regex", "^/data")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "All filesystems (/) are OK")
}

func TestRunCheckTrailingCommaInFilter(t *testing.T) {
	withInventory(t,
		mount("/", "ext4", 1000, 10),
		mount("/proc", "proc", 0, 0),
	)

	stdout, _, code := execute(t, "--dry-run", "--ignore-mount-regex", "^/proc,")
	assert.Equal(t, 2, code)

	events, last := decodeEvents(t, stdout)
	assert.Equal(t, "CheckDiskUsage CRITICAL: Found 1 problems", last)
	require.NotEmpty(t, events)
	assert.Equal(t, "disk-usage-space-_", events[0].Name)
}

func TestRunCheckOverrideFile(t *testing.T) {
	withInventory(t, mount("/data", "xfs", 1000, 40))

	path := filepath.Join(t.TempDir(), "disk-usage.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"mountpoints": {"/data": {"crit_space": 97}}}`), 0644))

	stdout, _, code := execute(t, "--dry-run", "-w", "-c", path)
	assert.Equal(t, 1, code)

	events, _ := decodeEvents(t, stdout)
	assert.Equal(t, 1, events[0].Status)
}

func TestRunCheckConfigErrors(t *testing.T) {
	withInventory(t, mount("/", "ext4", 1000, 500))

	broken := filepath.Join(t.TempDir(), "disk-usage.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"mountpoints":`), 0644))

	tests := []struct {
		name string
		args []string
	}{
		{"bad regex", []string{"--dry-run", "--mount-regex", "("}},
		{"bad override file", []string{"--dry-run", "-c", broken}},
		{"bad format", []string{"--dry-run", "--format", "html"}},
		{"bad log level", []string{"--dry-run", "--log-level", "shouty"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, code := execute(t, tt.args...)
			assert.Equal(t, 3, code)
			assert.True(t, strings.HasPrefix(stdout, "CheckDiskUsage UNKNOWN: "), stdout)
			assert.NotContains(t, stdout, `"name"`, "no events before a configuration error")
		})
	}
}

func TestRunCheckDryRunJSON(t *testing.T) {
	withInventory(t, mount("/data", "xfs", 1000, 40))

	stdout, stderr, code := execute(t, "--dry-run", "--format", "json")
	assert.Equal(t, 2, code)

	var doc struct {
		Status string       `json:"status"`
		Events []sink.Event `json:"events"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "CRITICAL", doc.Status)
	assert.Len(t, doc.Events, 2)

	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	require.Len(t, lines, 2)
	var e sink.Event
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &e))
	assert.Equal(t, "disk-usage-space-_data", e.Name)
}

func TestRunCheckTableAndDiagnostics(t *testing.T) {
	withInventory(t, mount("/", "ext4", 1000, 500))

	stdout, stderr, code := execute(t, "--dry-run", "--format", "table", "--dump-raw", "--debug-timing")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Disk Usage Check")
	assert.Contains(t, stderr, "Raw Mount Dump")
	assert.Contains(t, stderr, "Inventory Timing Report")
}
