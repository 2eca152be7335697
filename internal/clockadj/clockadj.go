// Package clockadj — системные часы как пара операций: прочитать и установить
// время в секундах Unix с дробной частью.
//
// Представление времени конкретной ОС (timespec, timeval, SYSTEMTIME) скрыто
// за Port; ядро синхронизации видит только float64.
package clockadj

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jonboulle/clockwork"
)

var (
	// ErrPermission — недостаточно прав для установки часов (нужен root / Administrator).
	ErrPermission = errors.New("insufficient privileges to set the system clock")
	// ErrUnsupported — установка часов на этой платформе не реализована.
	ErrUnsupported = errors.New("setting the system clock is not supported on this platform")
)

// Port — системные часы.
type Port interface {
	// Now возвращает текущее время в секундах с 1970-01-01 UTC.
	Now() float64
	// Set устанавливает часы; ошибка с ErrPermission означает, что коммит не состоялся.
	Set(secs float64) error
}

// System — реальные часы ОС. Чтение через clockwork.Clock, запись через setSystemTime.
type System struct {
	clock clockwork.Clock
}

// NewSystem возвращает реальные системные часы.
func NewSystem() *System {
	return &System{clock: clockwork.NewRealClock()}
}

// Now возвращает текущее системное время.
func (s *System) Now() float64 {
	return FromTime(s.clock.Now())
}

// Set устанавливает системное время (скачок). Требует root / CAP_SYS_TIME / Administrator.
func (s *System) Set(secs float64) error {
	if math.IsNaN(secs) || math.IsInf(secs, 0) || secs < 0 {
		return fmt.Errorf("set clock: invalid epoch %v", secs)
	}
	if err := setSystemTime(ToTime(secs)); err != nil {
		return fmt.Errorf("set clock to %f: %w", secs, err)
	}
	return nil
}

// PermissionHint — подсказка оператору при ErrPermission.
func PermissionHint() string {
	return permissionHint
}

// ToTime переводит секунды Unix с дробной частью в time.Time (UTC).
func ToTime(secs float64) time.Time {
	whole := math.Floor(secs)
	nsec := math.Round((secs - whole) * 1e9)
	if nsec >= 1e9 {
		whole++
		nsec -= 1e9
	}
	return time.Unix(int64(whole), int64(nsec)).UTC()
}

// FromTime переводит time.Time в секунды Unix с дробной частью.
func FromTime(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}
