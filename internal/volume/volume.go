// Package volume reports filesystem usage for the volume a path lives on.
package volume

import (
	"github.com/shirou/gopsutil/v4/disk"
)

// Info is a snapshot of the volume holding the scan root.
type Info struct {
	Free  uint64
	Total uint64
}

// Stat returns free and total bytes for the filesystem containing path.
func Stat(path string) (Info, error) {
	u, err := disk.Usage(path)
	if err != nil {
		return Info{}, err
	}
	return Info{Free: u.Free, Total: u.Total}, nil
}
