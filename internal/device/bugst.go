package device

import (
	"fmt"

	"go.bug.st/serial"
)

func openBugst(cfg Config) (Port, error) {
	p, err := serial.Open(cfg.Path, &serial.Mode{
		BaudRate: cfg.Baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("serial open %s: %w", cfg.Path, err)
	}
	if err := p.SetReadTimeout(cfg.ReadTimeout); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("serial %s: set read timeout: %w", cfg.Path, err)
	}
	return p, nil
}
