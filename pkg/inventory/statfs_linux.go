//go:build linux

package inventory

import (
	"context"

	"golang.org/x/sys/unix"
)

func statUsage(_ context.Context, mountPoint string) (Usage, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(mountPoint, &stat); err != nil {
		return Usage{}, err
	}

	// Free space counts blocks free to root, measured in fragments.
	blockSize := uint64(stat.Frsize)
	if blockSize == 0 {
		blockSize = uint64(stat.Bsize)
	}

	return Usage{
		BytesTotal:  stat.Blocks * blockSize,
		BytesFree:   stat.Bfree * blockSize,
		InodesTotal: stat.Files,
		InodesFree:  stat.Ffree,
	}, nil
}
