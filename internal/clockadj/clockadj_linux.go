//go:build linux

package clockadj

import (
	"errors"
	"time"

	"golang.org/x/sys/unix"
)

const permissionHint = "You have to run this as root (use sudo)!"

// setSystemTime устанавливает CLOCK_REALTIME. Требует CAP_SYS_TIME или root.
func setSystemTime(t time.Time) error {
	ts := unix.NsecToTimespec(t.UnixNano())
	err := unix.ClockSettime(unix.CLOCK_REALTIME, &ts)
	if errors.Is(err, unix.EPERM) || errors.Is(err, unix.EACCES) {
		return errors.Join(ErrPermission, err)
	}
	return err
}
