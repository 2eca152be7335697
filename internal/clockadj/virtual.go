package clockadj

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Virtual — часы, которые сдвигаются только в памяти процесса.
// Используются в режиме dry-run и в тестах: Set не трогает ОС, а запоминает
// разницу с базовыми часами и историю всех установок.
type Virtual struct {
	mu    sync.Mutex
	base  clockwork.Clock
	delta time.Duration
	sets  []float64

	// Fail, если не nil, возвращается из Set (установка не применяется).
	Fail error
}

// NewVirtual создаёт виртуальные часы поверх base (nil — реальное время).
func NewVirtual(base clockwork.Clock) *Virtual {
	if base == nil {
		base = clockwork.NewRealClock()
	}
	return &Virtual{base: base}
}

// Now возвращает время базовых часов со сдвигом.
func (v *Virtual) Now() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return FromTime(v.base.Now().Add(v.delta))
}

// Set запоминает значение и сдвигает виртуальное время.
func (v *Virtual) Set(secs float64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sets = append(v.sets, secs)
	if v.Fail != nil {
		return v.Fail
	}
	v.delta = ToTime(secs).Sub(v.base.Now())
	return nil
}

// Sets возвращает все значения, переданные в Set.
func (v *Virtual) Sets() []float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]float64, len(v.sets))
	copy(out, v.sets)
	return out
}
