// Package filter selects which mounts a run evaluates.
//
// Candidates pass through six ordered stages. A candidate is dropped by the
// first stage that rejects it. Exclusions run before inclusions for both the
// filesystem type pair and the mount point pair, and an empty pattern set never
// rejects anything.
package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"

	"github.com/m4ce/sensu-plugins-disk-usage/pkg/check"
	"github.com/m4ce/sensu-plugins-disk-usage/pkg/inventory"
)

// Config holds the six pattern sets. All default to empty.
type Config struct {
	FSTypes          []string `json:"fstype" yaml:"fstype"`
	IgnoreFSTypes    []string `json:"ignore_fstype" yaml:"ignore_fstype"`
	Mounts           []string `json:"mount" yaml:"mount"`
	MountRegex       []string `json:"mount_regex" yaml:"mount_regex"`
	IgnoreMounts     []string `json:"ignore_mount" yaml:"ignore_mount"`
	IgnoreMountRegex []string `json:"ignore_mount_regex" yaml:"ignore_mount_regex"`
}

// compact drops blank entries, such as those left by a trailing comma.
// An empty pattern would otherwise match every mount point.
func (c Config) compact() Config {
	return Config{
		FSTypes:          nonBlank(c.FSTypes),
		IgnoreFSTypes:    nonBlank(c.IgnoreFSTypes),
		Mounts:           nonBlank(c.Mounts),
		MountRegex:       nonBlank(c.MountRegex),
		IgnoreMounts:     nonBlank(c.IgnoreMounts),
		IgnoreMountRegex: nonBlank(c.IgnoreMountRegex),
	}
}

func nonBlank(ss []string) []string {
	return lo.Reject(ss, func(s string, _ int) bool {
		return strings.TrimSpace(s) == ""
	})
}

// Stage is one named predicate of the pipeline. Skip reports whether the
// candidate is dropped.
type Stage struct {
	Name string
	Skip func(m inventory.Mount) bool
}

// Stage names, in pipeline order.
const (
	StageIgnoreFSType     = "ignore_fstype"
	StageFSType           = "fstype"
	StageIgnoreMount      = "ignore_mount"
	StageIgnoreMountRegex = "ignore_mount_regex"
	StageMount            = "mount"
	StageMountRegex       = "mount_regex"
)

// Pipeline is a compiled filter configuration.
type Pipeline struct {
	stages []Stage
}

// New compiles cfg. Blank entries are ignored. A malformed regular
// expression is returned as a *check.ConfigError.
func New(cfg Config) (*Pipeline, error) {
	cfg = cfg.compact()

	ignoreRegex, err := compile(StageIgnoreMountRegex, cfg.IgnoreMountRegex)
	if err != nil {
		return nil, err
	}
	mountRegex, err := compile(StageMountRegex, cfg.MountRegex)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		stages: []Stage{
			{StageIgnoreFSType, func(m inventory.Mount) bool {
				return len(cfg.IgnoreFSTypes) > 0 && lo.Contains(cfg.IgnoreFSTypes, m.FSType)
			}},
			{StageFSType, func(m inventory.Mount) bool {
				return len(cfg.FSTypes) > 0 && !lo.Contains(cfg.FSTypes, m.FSType)
			}},
			{StageIgnoreMount, func(m inventory.Mount) bool {
				return len(cfg.IgnoreMounts) > 0 && lo.Contains(cfg.IgnoreMounts, m.MountPoint)
			}},
			// Dropped when any pattern matches.
			{StageIgnoreMountRegex, func(m inventory.Mount) bool {
				return len(ignoreRegex) > 0 && matchAny(ignoreRegex, m.MountPoint)
			}},
			{StageMount, func(m inventory.Mount) bool {
				return len(cfg.Mounts) > 0 && !lo.Contains(cfg.Mounts, m.MountPoint)
			}},
			// Kept only when at least one pattern matches.
			{StageMountRegex, func(m inventory.Mount) bool {
				return len(mountRegex) > 0 && !matchAny(mountRegex, m.MountPoint)
			}},
		},
	}, nil
}

// Stages returns the stages in evaluation order.
func (p *Pipeline) Stages() []Stage {
	return p.stages
}

// Explain returns the name of the first stage that drops m. The boolean is
// true when m survives every stage.
func (p *Pipeline) Explain(m inventory.Mount) (string, bool) {
	for _, s := range p.stages {
		if s.Skip(m) {
			return s.Name, false
		}
	}
	return "", true
}

// Keep reports whether m survives the pipeline.
func (p *Pipeline) Keep(m inventory.Mount) bool {
	_, kept := p.Explain(m)
	return kept
}

// Select returns the mounts that survive. Mounts sharing a mount point are
// kept once, as first seen.
func (p *Pipeline) Select(mounts []inventory.Mount) []inventory.Mount {
	kept := make([]inventory.Mount, 0, len(mounts))
	for _, m := range mounts {
		if p.Keep(m) {
			kept = append(kept, m)
		}
	}
	return lo.UniqBy(kept, func(m inventory.Mount) string {
		return m.MountPoint
	})
}

// Apply returns the mount points that survive, deduplicated in first-seen order.
func (p *Pipeline) Apply(mounts []inventory.Mount) []string {
	return MountPoints(p.Select(mounts))
}

// MountPoints returns the mount point of every mount.
func MountPoints(mounts []inventory.Mount) []string {
	return lo.Map(mounts, func(m inventory.Mount, _ int) string {
		return m.MountPoint
	})
}

func compile(stage string, patterns []string) ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, &check.ConfigError{Op: stage, Err: fmt.Errorf("pattern %q: %w", p, err)}
		}
		res = append(res, re)
	}
	return res, nil
}

func matchAny(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
