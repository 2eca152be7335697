package device

import (
	"fmt"

	"github.com/tarm/serial"
)

// tarmPort — обёртка над tarm/serial: линии RTS/DTR не управляются.
type tarmPort struct {
	*serial.Port
}

func openTarm(cfg Config) (Port, error) {
	p, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Path,
		Baud:        cfg.Baud,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("serial open %s: %w", cfg.Path, err)
	}
	return tarmPort{p}, nil
}

func (tarmPort) SetRTS(bool) error { return ErrHandshakeUnsupported }
func (tarmPort) SetDTR(bool) error { return ErrHandshakeUnsupported }
