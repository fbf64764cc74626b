package check

import (
	"fmt"
	"math"
)

// PercentUsed returns the used share of total rounded to two decimals,
// half away from zero.
func PercentUsed(total, free uint64) float64 {
	used := 100.0 - (100.0 * float64(free) / float64(total))
	return math.Round(used*100) / 100
}

// Classify returns the status for a usage percentage. The critical
// threshold is checked first, so an inverted pair can still reach it.
func (t Thresholds) Classify(percent float64) (Status, int) {
	if percent >= float64(t.Crit) {
		return StatusCritical, t.Crit
	}
	if percent >= float64(t.Warn) {
		return StatusWarning, t.Warn
	}
	return StatusOK, 0
}

// Evaluate produces the verdict for one metric on one mount. It returns
// false when total is zero, in which case the metric does not apply.
func Evaluate(mountPoint string, metric Metric, total, free uint64, t Thresholds) (Verdict, bool) {
	if total == 0 {
		return Verdict{}, false
	}

	percent := PercentUsed(total, free)
	status, threshold := t.Classify(percent)

	msg := fmt.Sprintf("Filesystem %s %s usage is %.2f%%", mountPoint, metric, percent)
	if status != StatusOK {
		msg += fmt.Sprintf(", expected < %d%%", threshold)
	}

	return Verdict{
		Metric:     metric,
		MountPoint: mountPoint,
		Percent:    percent,
		Status:     status,
		Threshold:  threshold,
		Message:    msg,
	}, true
}
