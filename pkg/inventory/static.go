package inventory

import (
	"context"
	"fmt"
)

// Static serves a fixed inventory. It backs tests and replays of dumped records.
type Static struct {
	Records []MountRecord
	// Errors makes Stat fail for the listed mount points.
	Errors map[string]error
}

// ListMounts returns the mounts of all records in order.
func (s *Static) ListMounts(_ context.Context) ([]Mount, error) {
	mounts := make([]Mount, 0, len(s.Records))
	for _, r := range s.Records {
		mounts = append(mounts, r.Mount)
	}
	return mounts, nil
}

// Stat returns the usage of the first record mounted at mountPoint.
func (s *Static) Stat(_ context.Context, mountPoint string) (Usage, error) {
	if err, ok := s.Errors[mountPoint]; ok {
		return Usage{}, err
	}
	for _, r := range s.Records {
		if r.MountPoint == mountPoint {
			return r.Usage, nil
		}
	}
	return Usage{}, fmt.Errorf("no such mount point: %s", mountPoint)
}
