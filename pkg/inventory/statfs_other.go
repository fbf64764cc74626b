//go:build !linux && !darwin

package inventory

import (
	"context"

	"github.com/shirou/gopsutil/v3/disk"
)

func statUsage(ctx context.Context, mountPoint string) (Usage, error) {
	u, err := disk.UsageWithContext(ctx, mountPoint)
	if err != nil {
		return Usage{}, err
	}
	return Usage{
		BytesTotal:  u.Total,
		BytesFree:   u.Free,
		InodesTotal: u.InodesTotal,
		InodesFree:  u.InodesFree,
	}, nil
}
