package clocksync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shiwa/timecard-mini/sqw-sync/internal/clockadj"
	"github.com/shiwa/timecard-mini/sqw-sync/internal/config"
	"github.com/shiwa/timecard-mini/sqw-sync/internal/device"
	"github.com/shiwa/timecard-mini/sqw-sync/internal/logger"
)

// ErrOpen — порт не открылся; процесс должен завершиться с кодом 1.
var ErrOpen = errors.New("serial port open failed")

// Deps — внешние зависимости прогона. Пустые поля заменяются реальными.
type Deps struct {
	Clock   clockadj.Port
	Out     io.Writer
	Factory device.Factory
	Hooks   Hooks

	// FlushWindow, если не ноль, заменяет FlushWindow.
	FlushWindow time.Duration
}

// Run выполняет один прогон по конфигу: с портом — синхронизация по SQW,
// без порта — сдвиг часов на sync.offset.
func Run(ctx context.Context, cfg *config.Config, deps Deps) (Stats, error) {
	if deps.Clock == nil {
		deps.Clock = clockadj.NewSystem()
	}
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.Factory == nil {
		deps.Factory = device.DefaultFactory
	}
	out := deps.Out
	port := cfg.Device.Port

	fmt.Fprintf(out, "init: %v\n", cfg.Sync.Init)
	if port != "" {
		fmt.Fprintf(out, "port: %s\n", port)
	} else {
		fmt.Fprintln(out, "port: n/a")
	}
	fmt.Fprintf(out, "offset: %g\n", cfg.Sync.Offset)

	ctrl := NewController(deps.Clock, out)
	ctrl.Hooks = deps.Hooks
	if deps.FlushWindow > 0 {
		ctrl.FlushWindow = deps.FlushWindow
	}
	opt := Options{Init: cfg.Sync.Init, Offset: cfg.Sync.Offset}

	if port == "" {
		err := ctrl.RunOffset(opt)
		return ctrl.Stats(), err
	}

	fmt.Fprintf(out, "Opening port %s.\n", port)
	p, err := device.OpenWith(deps.Factory, device.Config{
		Path:        port,
		Baud:        cfg.Device.Baud,
		Driver:      cfg.Device.Driver,
		ReadTimeout: cfg.ReadTimeout(),
	})
	switch {
	case errors.Is(err, device.ErrHandshakeUnsupported):
		logger.Warn("%s: драйвер %s не управляет RTS/DTR, часть адаптеров не начнёт передачу", port, cfg.Device.Driver)
	case err != nil:
		fmt.Fprintln(out, "Error.")
		return Stats{}, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	fmt.Fprintln(out, "OK.")

	reader := device.NewReader(p)
	err = ctrl.RunSerial(ctx, reader, opt)
	if rerr := reader.LastErr(); rerr != nil {
		logger.Debug("последняя ошибка чтения %s: %v", port, rerr)
	}

	fmt.Fprintf(out, "Closing port %s.\n", port)
	if cerr := p.Close(); cerr != nil {
		logger.Error("close %s: %v", port, cerr)
	}
	return ctrl.Stats(), err
}
