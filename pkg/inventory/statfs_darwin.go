//go:build darwin

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

	blockSize := uint64(stat.Bsize)

	return Usage{
		BytesTotal:  stat.Blocks * blockSize,
		BytesFree:   stat.Bfree * blockSize,
		InodesTotal: stat.Files,
		InodesFree:  uint64(stat.Ffree),
	}, nil
}
