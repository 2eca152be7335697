//go:build !linux && !darwin && !freebsd && !openbsd && !netbsd && !dragonfly && !windows

package clockadj

import "time"

const permissionHint = "Setting the clock is not supported on this platform."

func setSystemTime(time.Time) error {
	return ErrUnsupported
}
