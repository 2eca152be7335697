//go:build windows

package clockadj

import (
	"errors"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

const permissionHint = "SetSystemTime() failed, you need to run this as Administrator!"

var procSetSystemTime = windows.NewLazySystemDLL("kernel32.dll").NewProc("SetSystemTime")

// setSystemTime вызывает kernel32!SetSystemTime (UTC, миллисекундная точность).
func setSystemTime(t time.Time) error {
	t = t.UTC()
	st := windows.Systemtime{
		Year:         uint16(t.Year()),
		Month:        uint16(t.Month()),
		DayOfWeek:    uint16(t.Weekday()),
		Day:          uint16(t.Day()),
		Hour:         uint16(t.Hour()),
		Minute:       uint16(t.Minute()),
		Second:       uint16(t.Second()),
		Milliseconds: uint16(t.Nanosecond() / int(time.Millisecond)),
	}
	r1, _, err := procSetSystemTime.Call(uintptr(unsafe.Pointer(&st)))
	if r1 != 0 {
		return nil
	}
	if errors.Is(err, windows.ERROR_PRIVILEGE_NOT_HELD) || errors.Is(err, windows.ERROR_ACCESS_DENIED) {
		return errors.Join(ErrPermission, err)
	}
	return err
}
