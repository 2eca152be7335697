package clocksync

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/shiwa/timecard-mini/sqw-sync/internal/clockadj"
	"github.com/shiwa/timecard-mini/sqw-sync/internal/device"
)

// emptyRead в сценарии означает пустое чтение (таймаут порта).
const emptyRead = '\x00'

var epoch = time.Unix(1_700_000_000, 0)

// flushJunk: 20 символов съедает flush (20 чтений по 100 мс = 2 с), затем
// обрывок строки для resync.
var flushJunk = strings.Repeat("x", 20) + "partial junk\n"

// scriptReader отдаёт символы сценария; каждое чтение сдвигает часы на step.
type scriptReader struct {
	clock *clockwork.FakeClock
	step  time.Duration
	data  []byte
	pos   int
}

func (s *scriptReader) ReadChar() (byte, bool) {
	s.clock.Advance(s.step)
	if s.pos >= len(s.data) {
		return 0, false
	}
	c := s.data[s.pos]
	s.pos++
	if c == emptyRead {
		return 0, false
	}
	return c, true
}

func (s *scriptReader) remaining() string {
	return string(s.data[s.pos:])
}

// scriptPort — device.Port поверх scriptReader.
type scriptPort struct {
	*scriptReader
	closed      bool
	noHandshake bool
}

func (p *scriptPort) Read(b []byte) (int, error) {
	c, ok := p.ReadChar()
	if !ok {
		return 0, nil
	}
	b[0] = c
	return 1, nil
}

func (p *scriptPort) Close() error { p.closed = true; return nil }

func (p *scriptPort) SetRTS(bool) error {
	if p.noHandshake {
		return device.ErrHandshakeUnsupported
	}
	return nil
}

func (p *scriptPort) SetDTR(bool) error { return p.SetRTS(true) }

type harness struct {
	fc     *clockwork.FakeClock
	clock  *clockadj.Virtual
	reader *scriptReader
	out    *bytes.Buffer
	ctrl   *Controller
}

func newHarness(script string) *harness {
	fc := clockwork.NewFakeClockAt(epoch)
	h := &harness{
		fc:     fc,
		clock:  clockadj.NewVirtual(fc),
		reader: &scriptReader{clock: fc, step: 100 * time.Millisecond, data: []byte(script)},
		out:    &bytes.Buffer{},
	}
	h.ctrl = NewController(h.clock, h.out)
	return h
}

// records — count меток подряд, начиная с секунды from.
func records(from uint64, count int) string {
	var b strings.Builder
	for k := 0; k < count; k++ {
		fmt.Fprintf(&b, "SQW %010d\n", from+uint64(k))
	}
	return b.String()
}
