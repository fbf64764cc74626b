// Package overrides loads per-mount threshold overrides and resolves the
// effective threshold for a mount.
package overrides

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/m4ce/sensu-plugins-disk-usage/pkg/check"
)

// Entry holds the thresholds overridden for one mount point. A nil field
// falls back to the process default.
type Entry struct {
	WarnSpace  *int `json:"warn_space,omitempty" yaml:"warn_space,omitempty"`
	CritSpace  *int `json:"crit_space,omitempty" yaml:"crit_space,omitempty"`
	WarnInodes *int `json:"warn_inodes,omitempty" yaml:"warn_inodes,omitempty"`
	CritInodes *int `json:"crit_inodes,omitempty" yaml:"crit_inodes,omitempty"`
}

// Get returns the override for a metric and severity, if set.
func (e Entry) Get(metric check.Metric, sev check.Severity) (int, bool) {
	var v *int
	switch {
	case metric == check.Space && sev == check.Warn:
		v = e.WarnSpace
	case metric == check.Space && sev == check.Crit:
		v = e.CritSpace
	case metric == check.Inodes && sev == check.Warn:
		v = e.WarnInodes
	case metric == check.Inodes && sev == check.Crit:
		v = e.CritInodes
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

// document is the on-disk layout.
type document struct {
	MountPoints map[string]Entry `json:"mountpoints" yaml:"mountpoints"`
}

// Store maps mount points to their overrides. The zero value is an empty store.
type Store struct {
	mounts map[string]Entry
}

// New creates a store from an in-memory mapping.
func New(mounts map[string]Entry) *Store {
	if mounts == nil {
		mounts = map[string]Entry{}
	}
	return &Store{mounts: mounts}
}

// Load reads the override file at path. A missing file yields an empty
// store. Files ending in .yml or .yaml are parsed as YAML, anything else as
// JSON.
func Load(path string) (*Store, error) {
	if path == "" {
		return New(nil), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(nil), nil
		}
		return nil, &check.ConfigError{Op: "read overrides", Err: err}
	}

	var doc document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, &check.ConfigError{Op: "parse overrides", Err: fmt.Errorf("%s: %w", path, err)}
	}

	return New(doc.MountPoints), nil
}

// Len returns the number of mount points with overrides.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.mounts)
}

// Lookup returns the entry for an exact mount point.
func (s *Store) Lookup(mountPoint string) (Entry, bool) {
	if s == nil {
		return Entry{}, false
	}
	e, ok := s.mounts[mountPoint]
	return e, ok
}

// Resolve returns the effective threshold for a mount, metric and severity.
// Only an exact mount point match overrides the default.
func (s *Store) Resolve(mountPoint string, metric check.Metric, sev check.Severity, defaults check.Defaults) int {
	if e, ok := s.Lookup(mountPoint); ok {
		if v, ok := e.Get(metric, sev); ok {
			return v
		}
	}
	return defaults.For(metric, sev)
}

// Thresholds resolves both severities for a mount and metric.
func (s *Store) Thresholds(mountPoint string, metric check.Metric, defaults check.Defaults) check.Thresholds {
	return check.Thresholds{
		Warn: s.Resolve(mountPoint, metric, check.Warn, defaults),
		Crit: s.Resolve(mountPoint, metric, check.Crit, defaults),
	}
}
