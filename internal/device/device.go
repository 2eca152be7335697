// Package device — последовательный порт источника SQW (GPS/RTC модуль).
//
// Порт всегда открывается 8N1; скорость по умолчанию 115200. После открытия
// поднимаются линии RTS и DTR: без них часть USB-serial адаптеров (Teensy)
// не начинает передачу.
package device

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// Драйверы порта.
const (
	DriverBugst = "bugst" // go.bug.st/serial, поддерживает RTS/DTR
	DriverTarm  = "tarm"  // github.com/tarm/serial, без управления линиями
)

const (
	DefaultBaud        = 115200
	DefaultReadTimeout = 100 * time.Millisecond
)

// ErrHandshakeUnsupported — драйвер не умеет управлять RTS/DTR.
var ErrHandshakeUnsupported = errors.New("handshake lines not supported by driver")

// Port — открытый последовательный порт.
type Port interface {
	io.Reader
	Close() error
	SetRTS(on bool) error
	SetDTR(on bool) error
}

// Config — параметры открытия.
type Config struct {
	Path        string
	Baud        int
	Driver      string
	ReadTimeout time.Duration
}

// Factory открывает порт; подменяется в тестах.
type Factory func(cfg Config) (Port, error)

// Open открывает порт выбранным драйвером и поднимает RTS/DTR.
// ErrHandshakeUnsupported не считается ошибкой открытия: порт возвращается
// вместе с этой ошибкой, вызывающий решает, предупреждать ли оператора.
func Open(cfg Config) (Port, error) {
	return OpenWith(DefaultFactory, cfg)
}

// OpenWith — Open с явной фабрикой.
func OpenWith(factory Factory, cfg Config) (Port, error) {
	if cfg.Baud == 0 {
		cfg.Baud = DefaultBaud
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	p, err := factory(cfg)
	if err != nil {
		return nil, err
	}
	if err := assertHandshake(p); err != nil {
		if errors.Is(err, ErrHandshakeUnsupported) {
			return p, err
		}
		_ = p.Close()
		return nil, fmt.Errorf("serial %s: %w", cfg.Path, err)
	}
	return p, nil
}

// DefaultFactory выбирает драйвер по cfg.Driver.
func DefaultFactory(cfg Config) (Port, error) {
	switch cfg.Driver {
	case "", DriverBugst:
		return openBugst(cfg)
	case DriverTarm:
		return openTarm(cfg)
	default:
		return nil, fmt.Errorf("unknown serial driver: %s", cfg.Driver)
	}
}

func assertHandshake(p Port) error {
	if err := p.SetRTS(true); err != nil {
		return fmt.Errorf("set RTS: %w", err)
	}
	if err := p.SetDTR(true); err != nil {
		return fmt.Errorf("set DTR: %w", err)
	}
	return nil
}
