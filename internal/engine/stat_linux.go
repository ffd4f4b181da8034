//go:build linux

package engine

import (
	"syscall"
	"time"
)

func atimeFromStat(stat *syscall.Stat_t) time.Time {
	return time.Unix(stat.Atim.Sec, stat.Atim.Nsec)
}
