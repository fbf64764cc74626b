// Package inventory enumerates mounted filesystems and reads their usage counters.
package inventory

import (
	"context"

	"github.com/shirou/gopsutil/v3/disk"
)

// Mount identifies one entry of the mount table.
type Mount struct {
	Device     string `json:"device"`
	MountPoint string `json:"mount_point"`
	FSType     string `json:"fs_type"`
}

// Usage holds the raw space and inode counters of a mounted filesystem.
type Usage struct {
	BytesTotal  uint64 `json:"bytes_total"`
	BytesFree   uint64 `json:"bytes_free"`
	InodesTotal uint64 `json:"inodes_total"`
	InodesFree  uint64 `json:"inodes_free"`
}

// MountRecord is a mount together with the counters read for it.
type MountRecord struct {
	Mount
	Usage
}

// Provider is the interface the filesystem inventory must implement.
type Provider interface {
	// ListMounts returns every currently mounted filesystem in mount table order.
	ListMounts(ctx context.Context) ([]Mount, error)

	// Stat reads the usage counters of the filesystem mounted at mountPoint.
	Stat(ctx context.Context, mountPoint string) (Usage, error)
}

// partitions is swapped out in tests.
var partitions = disk.PartitionsWithContext

// System reads the live mount table of the host.
type System struct{}

// NewSystem creates a provider backed by the host mount table.
func NewSystem() *System {
	return &System{}
}

// ListMounts returns all mounts, pseudo filesystems included.
func (s *System) ListMounts(ctx context.Context) ([]Mount, error) {
	parts, err := partitions(ctx, true)
	if err != nil {
		return nil, err
	}

	mounts := make([]Mount, 0, len(parts))
	for _, p := range parts {
		mounts = append(mounts, Mount{
			Device:     p.Device,
			MountPoint: p.Mountpoint,
			FSType:     p.Fstype,
		})
	}
	return mounts, nil
}

// Stat reads the usage counters for mountPoint.
func (s *System) Stat(ctx context.Context, mountPoint string) (Usage, error) {
	return statUsage(ctx, mountPoint)
}
