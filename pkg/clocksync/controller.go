// Package clocksync — однократная синхронизация системных часов по меткам SQW
// с последовательного порта, а также режим простого сдвига часов на offset.
package clocksync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shiwa/timecard-mini/sqw-sync/internal/clockadj"
	"github.com/shiwa/timecard-mini/sqw-sync/internal/logger"
	"github.com/shiwa/timecard-mini/sqw-sync/internal/sqw"
)

// Протокол: собрать TotalIterations меток, часы поставить один раз, когда
// счётчик дойдёт до CommitIteration. Метки 6..10 остаются оператору для
// визуальной проверки результата.
const (
	CommitIteration = 5
	TotalIterations = 10
	// FlushWindow — сколько читать и выбрасывать накопленные в порту байты.
	FlushWindow = 2 * time.Second
)

// CharReader — посимвольное чтение порта; ok=false — пустое чтение.
type CharReader interface {
	ReadChar() (c byte, ok bool)
}

// Options — решение оператора.
type Options struct {
	Init   bool    // разрешить установку часов
	Offset float64 // секунды, прибавляются к предсказанному времени
}

// Stats — счётчики одного прогона.
type Stats struct {
	EmptyReads int // пустые чтения (таймаут порта), на всех этапах
	Flushed    int // символов выброшено на этапе flush
	Resynced   int // символов выброшено до первого '\n'
	Lines      int // завершённых строк на этапе сбора
	Records    int // разобранных меток SQW
	Malformed  int // строк с "SQW ", но без десяти цифр
	Commits    int // попыток установки часов
}

// Hooks — необязательные обратные вызовы для наблюдения за прогоном.
type Hooks struct {
	OnEmptyRead func(Stats)
	OnRecord    func(rec sqw.Record, iteration int)
	OnCommit    func(secs float64, err error)
}

// Controller выполняет один прогон синхронизации.
type Controller struct {
	Clock       clockadj.Port
	Out         io.Writer // диагностика для оператора (stdout)
	Hooks       Hooks
	FlushWindow time.Duration

	stats Stats
}

// NewController создаёт контроллер с окном flush по умолчанию.
func NewController(clock clockadj.Port, out io.Writer) *Controller {
	return &Controller{Clock: clock, Out: out, FlushWindow: FlushWindow}
}

// Stats возвращает счётчики последнего прогона.
func (c *Controller) Stats() Stats {
	return c.stats
}

// RunSerial: flush → resync → сбор TotalIterations меток с одной установкой часов.
// Блокируется, пока не придут все метки; прерывается только отменой ctx.
// Порт не закрывает.
func (c *Controller) RunSerial(ctx context.Context, r CharReader, opt Options) error {
	c.stats = Stats{}

	last, lastOK, err := c.flush(ctx, r)
	if err != nil {
		return err
	}
	if !lastOK || last != '\n' {
		if err := c.resync(ctx, r); err != nil {
			return err
		}
	}
	return c.collect(ctx, r, opt)
}

// flush читает и выбрасывает всё, что пришло за FlushWindow по часам Clock.
func (c *Controller) flush(ctx context.Context, r CharReader) (last byte, ok bool, err error) {
	window := c.FlushWindow.Seconds()
	start := c.Clock.Now()
	for c.Clock.Now()-start < window {
		last, ok, err = c.read(ctx, r)
		if err != nil {
			return 0, false, err
		}
		if ok {
			c.stats.Flushed++
		}
	}
	logger.Debug("flush: выброшено %d символов, пустых чтений %d", c.stats.Flushed, c.stats.EmptyReads)
	return last, ok, nil
}

// resync выбрасывает символы до первого '\n' включительно.
func (c *Controller) resync(ctx context.Context, r CharReader) error {
	for {
		ch, ok, err := c.read(ctx, r)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		c.stats.Resynced++
		if ch == '\n' {
			return nil
		}
	}
}

func (c *Controller) collect(ctx context.Context, r CharReader, opt Options) error {
	var (
		lines     sqw.LineReader
		t         uint64 // предсказанная секунда, валидна после первой метки
		i         = 1
		committed bool
	)
	for i <= TotalIterations {
		ch, ok, err := c.read(ctx, r)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		// 'S' — начало очередной метки, т.е. начало секунды t.
		if ch == 'S' {
			if i == CommitIteration && opt.Init && !committed {
				committed = true
				secs := commitValue(t, opt.Offset)
				fmt.Fprintf(c.Out, "Setting time to: %f\n", secs)
				c.commit(secs)
			}
			fmt.Fprintf(c.Out, "Current unix time in secs: %f, i: %d\n", c.Clock.Now(), i)
		}

		line, done := lines.Feed(ch)
		if !done {
			continue
		}
		c.stats.Lines++

		rec, err := sqw.ParseLine(line)
		switch {
		case err == nil:
			t = rec.Predicted()
			i++
			c.stats.Records++
			fmt.Fprintf(c.Out, "%d\n", rec.N)
			if c.Hooks.OnRecord != nil {
				c.Hooks.OnRecord(rec, i)
			}
		case errors.Is(err, sqw.ErrMalformedRecord):
			c.stats.Malformed++
			logger.Warn("%v", err)
			fmt.Fprint(c.Out, line)
		default:
			fmt.Fprint(c.Out, line)
		}
	}
	return nil
}

// commitValue: без offset — ровно t, без лишнего сложения с плавающей точкой.
func commitValue(t uint64, offset float64) float64 {
	if offset != 0 {
		return float64(t) + offset
	}
	return float64(t)
}

// commit устанавливает часы. Ошибка не прерывает прогон: оператор видит
// подсказку, а последующие строки показывают, что часы не изменились.
func (c *Controller) commit(secs float64) {
	c.stats.Commits++
	err := c.Clock.Set(secs)
	if err != nil {
		logger.Error("%v", err)
		if errors.Is(err, clockadj.ErrPermission) {
			fmt.Fprintln(c.Out, clockadj.PermissionHint())
		} else {
			fmt.Fprintf(c.Out, "Setting time failed: %v\n", err)
		}
	}
	if c.Hooks.OnCommit != nil {
		c.Hooks.OnCommit(secs, err)
	}
}

func (c *Controller) read(ctx context.Context, r CharReader) (byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	ch, ok := r.ReadChar()
	if !ok {
		c.stats.EmptyReads++
		if c.Hooks.OnEmptyRead != nil {
			c.Hooks.OnEmptyRead(c.stats)
		}
	}
	return ch, ok, nil
}
