// Package runner evaluates every selected mount once and aggregates the outcome.
package runner

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/m4ce/sensu-plugins-disk-usage/pkg/check"
	"github.com/m4ce/sensu-plugins-disk-usage/pkg/filter"
	"github.com/m4ce/sensu-plugins-disk-usage/pkg/inventory"
	"github.com/m4ce/sensu-plugins-disk-usage/pkg/overrides"
	"github.com/m4ce/sensu-plugins-disk-usage/pkg/sink"
)

// Config is the run configuration.
type Config struct {
	Filters  filter.Config
	Defaults check.Defaults
	Handlers []string
	// WarnOnly reports problems as WARNING instead of CRITICAL.
	WarnOnly bool
}

// Result is the aggregate outcome of a run.
type Result struct {
	Status   check.Status `json:"status"`
	Message  string       `json:"message"`
	Problems int          `json:"problems"`
	// Mounts lists the selected mount points in filtered order.
	Mounts []string `json:"mounts"`
	// Unreadable lists selected mount points that could not be statted.
	Unreadable []string `json:"unreadable,omitempty"`
}

// Evaluated returns the selected mounts that were inspected successfully.
func (r Result) Evaluated() []string {
	return lo.Without(r.Mounts, r.Unreadable...)
}

// Runner orchestrates filtering, threshold resolution, evaluation and
// event emission.
type Runner struct {
	cfg      Config
	provider inventory.Provider
	store    *overrides.Store
	sink     sink.Sink
	logger   *logrus.Logger
	pipeline *filter.Pipeline

	// OnRecord, if set, sees every record before it is evaluated.
	OnRecord func(inventory.MountRecord)
}

// New creates a runner. The filter configuration is compiled here, so a
// malformed pattern fails before anything is evaluated.
func New(cfg Config, provider inventory.Provider, store *overrides.Store, s sink.Sink, logger *logrus.Logger) (*Runner, error) {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	if store == nil {
		store = overrides.New(nil)
	}
	if s == nil {
		s = sink.Discard{}
	}

	pipeline, err := filter.New(cfg.Filters)
	if err != nil {
		return nil, err
	}

	return &Runner{
		cfg:      cfg,
		provider: provider,
		store:    store,
		sink:     s,
		logger:   logger,
		pipeline: pipeline,
	}, nil
}

// Mounts lists the inventory and returns the mounts that pass the filters.
func (r *Runner) Mounts(ctx context.Context) ([]inventory.Mount, error) {
	all, err := r.provider.ListMounts(ctx)
	if err != nil {
		return nil, &check.InventoryError{Err: err}
	}

	for _, m := range all {
		if stage, kept := r.pipeline.Explain(m); !kept {
			r.logger.WithFields(logrus.Fields{
				"mount":  m.MountPoint,
				"fstype": m.FSType,
				"stage":  stage,
			}).Debug("Mount filtered out")
		}
	}
	return r.pipeline.Select(all), nil
}

// Run evaluates every selected mount. The returned error is non-nil only
// when the inventory cannot be enumerated.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	mounts, err := r.Mounts(ctx)
	if err != nil {
		return Result{Status: check.StatusUnknown, Message: err.Error()}, err
	}

	res := Result{Mounts: filter.MountPoints(mounts)}
	for _, m := range mounts {
		usage, err := r.provider.Stat(ctx, m.MountPoint)
		if err != nil {
			r.unreadable(m.MountPoint, err)
			res.Unreadable = append(res.Unreadable, m.MountPoint)
			continue
		}

		rec := inventory.MountRecord{Mount: m, Usage: usage}
		if r.OnRecord != nil {
			r.OnRecord(rec)
		}
		res.Problems += r.evaluate(rec)
	}

	res.Status, res.Message = r.outcome(res)
	return res, nil
}

// evaluate checks space and inodes on one mount and returns the number of problems.
func (r *Runner) evaluate(rec inventory.MountRecord) int {
	counters := map[check.Metric][2]uint64{
		check.Space:  {rec.BytesTotal, rec.BytesFree},
		check.Inodes: {rec.InodesTotal, rec.InodesFree},
	}

	problems := 0
	for _, metric := range check.Metrics {
		c := counters[metric]
		thresholds := r.store.Thresholds(rec.MountPoint, metric, r.cfg.Defaults)

		v, ok := check.Evaluate(rec.MountPoint, metric, c[0], c[1], thresholds)
		if !ok {
			r.logger.WithFields(logrus.Fields{
				"mount":  rec.MountPoint,
				"metric": metric,
			}).Debug("Metric not applicable, total is zero")
			continue
		}

		r.logger.WithFields(logrus.Fields{
			"mount":   rec.MountPoint,
			"metric":  metric,
			"percent": v.Percent,
			"warn":    thresholds.Warn,
			"crit":    thresholds.Crit,
			"status":  v.Status,
		}).Debug("Metric evaluated")

		r.sink.Emit(sink.FromVerdict(v, r.cfg.Handlers))
		if v.Problem() {
			problems++
		}
	}
	return problems
}

func (r *Runner) unreadable(mp string, err error) {
	ierr := &check.InventoryError{MountPoint: mp, Err: err}
	r.logger.WithFields(logrus.Fields{
		"mount": mp,
		"error": err,
	}).Warn("Cannot inspect mount, skipping")

	for _, metric := range check.Metrics {
		r.sink.Emit(sink.NewEvent(sink.CheckName(mp, metric), check.StatusUnknown, ierr.Error(), r.cfg.Handlers))
	}
}

func (r *Runner) outcome(res Result) (check.Status, string) {
	var (
		status check.Status
		msg    string
	)
	if res.Problems > 0 {
		status = check.StatusCritical
		if r.cfg.WarnOnly {
			status = check.StatusWarning
		}
		msg = fmt.Sprintf("Found %d problems", res.Problems)
	} else {
		status = check.StatusOK
		msg = fmt.Sprintf("All filesystems (%s) are OK", strings.Join(res.Evaluated(), ", "))
	}

	if len(res.Unreadable) > 0 {
		msg += fmt.Sprintf("; unable to inspect: %s", strings.Join(res.Unreadable, ", "))
	}
	return status, msg
}
