// Package check provides the threshold evaluation types for filesystem usage checks.
package check

import "strings"

// Metric identifies which usage counter pair a verdict is about.
type Metric string

const (
	Space  Metric = "space"
	Inodes Metric = "inodes"
)

// Metrics lists the metric kinds in evaluation order.
var Metrics = []Metric{Space, Inodes}

// Severity selects the warn or crit half of a threshold pair.
type Severity string

const (
	Warn Severity = "warn"
	Crit Severity = "crit"
)

// Status represents the health status of a check.
type Status int

const (
	StatusOK Status = iota
	StatusWarning
	StatusCritical
	StatusUnknown
)

// String returns the upper-case status name used in check output.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusWarning:
		return "WARNING"
	case StatusCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ExitCode returns the process exit code for the status.
func (s Status) ExitCode() int {
	if s < StatusOK || s > StatusUnknown {
		return int(StatusUnknown)
	}
	return int(s)
}

// ParseStatus maps a status name back to its value. Unrecognised names are unknown.
func ParseStatus(name string) Status {
	switch strings.ToUpper(name) {
	case "OK":
		return StatusOK
	case "WARNING":
		return StatusWarning
	case "CRITICAL":
		return StatusCritical
	default:
		return StatusUnknown
	}
}

// Thresholds defines warning and critical thresholds for one metric, in percent.
// Crit is conventionally above Warn but an inverted pair is evaluated as given.
type Thresholds struct {
	Warn int
	Crit int
}

// For returns the threshold for a severity.
func (t Thresholds) For(sev Severity) int {
	if sev == Crit {
		return t.Crit
	}
	return t.Warn
}

// Defaults holds the process-wide thresholds for every metric.
type Defaults struct {
	Space  Thresholds
	Inodes Thresholds
}

// DefaultThresholds returns the default threshold values.
func DefaultThresholds() Defaults {
	return Defaults{
		Space:  Thresholds{Warn: 85, Crit: 95},
		Inodes: Thresholds{Warn: 85, Crit: 95},
	}
}

// For returns the default threshold for a metric and severity.
func (d Defaults) For(metric Metric, sev Severity) int {
	if metric == Inodes {
		return d.Inodes.For(sev)
	}
	return d.Space.For(sev)
}

// Verdict is the result of evaluating one metric on one mount.
type Verdict struct {
	Metric     Metric  `json:"metric"`
	MountPoint string  `json:"mount_point"`
	Percent    float64 `json:"percent"`
	Status     Status  `json:"status"`
	// Threshold is the violated threshold; zero for OK verdicts.
	Threshold int    `json:"threshold,omitempty"`
	Message   string `json:"message"`
}

// Problem reports whether the verdict counts against the run.
func (v Verdict) Problem() bool {
	return v.Status == StatusWarning || v.Status == StatusCritical
}
