package sqw

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// Prefix — признак секундной метки.
	Prefix = "SQW "
	// DigitCount — число цифр после Prefix.
	DigitCount = 10
)

var (
	// ErrNotRecord — строка не является меткой SQW.
	ErrNotRecord = errors.New("not an SQW record")
	// ErrMalformedRecord — строка содержит "SQW ", но за ним нет десяти цифр.
	ErrMalformedRecord = fmt.Errorf("malformed SQW record: %w", ErrNotRecord)
)

// Record — разобранная метка.
type Record struct {
	// N — секунда Unix, сообщённая источником.
	N uint64
	// Digits — десять символов после Prefix как есть.
	Digits string
}

// Predicted возвращает секунду, которая начнётся со следующей меткой: N+1.
// Метка приходит с задержкой в один интервал, поэтому часы ставятся на N+1.
func (r Record) Predicted() uint64 {
	return r.N + 1
}

// ParseLine ищет Prefix в любом месте строки и разбирает ровно DigitCount
// символов после него. Если Prefix нет — ErrNotRecord; если цифр меньше
// десяти или встречается не цифра — ErrMalformedRecord.
func ParseLine(line string) (Record, error) {
	i := strings.Index(line, Prefix)
	if i < 0 {
		return Record{}, ErrNotRecord
	}
	rest := line[i+len(Prefix):]
	if len(rest) < DigitCount {
		return Record{}, fmt.Errorf("%w: %q too short", ErrMalformedRecord, strings.TrimRight(rest, "\r\n"))
	}
	digits := rest[:DigitCount]
	for k := 0; k < len(digits); k++ {
		if digits[k] < '0' || digits[k] > '9' {
			return Record{}, fmt.Errorf("%w: %q", ErrMalformedRecord, digits)
		}
	}
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return Record{N: n, Digits: digits}, nil
}
