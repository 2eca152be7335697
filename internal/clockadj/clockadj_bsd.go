//go:build darwin || freebsd || openbsd || netbsd || dragonfly

package clockadj

import (
	"errors"
	"time"

	"golang.org/x/sys/unix"
)

const permissionHint = "You have to run this as root (use sudo)!"

// setSystemTime — settimeofday, микросекундная точность.
func setSystemTime(t time.Time) error {
	tv := unix.NsecToTimeval(t.UnixNano())
	err := unix.Settimeofday(&tv)
	if errors.Is(err, unix.EPERM) || errors.Is(err, unix.EACCES) {
		return errors.Join(ErrPermission, err)
	}
	return err
}
