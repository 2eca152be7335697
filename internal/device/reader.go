package device

import "io"

// Reader читает порт по одному символу.
type Reader struct {
	r       io.Reader
	buf     [1]byte
	lastErr error
}

// NewReader оборачивает порт (или любой io.Reader).
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// ReadChar читает один символ. ok=false — пустое чтение (таймаут, EOF, сбой
// драйвера): это не ошибка, вызывающий просто повторяет чтение.
func (r *Reader) ReadChar() (c byte, ok bool) {
	n, err := r.r.Read(r.buf[:])
	if n == 1 {
		return r.buf[0], true
	}
	if err != nil && err != io.EOF {
		r.lastErr = err
	}
	return 0, false
}

// LastErr — последняя ошибка чтения, отличная от EOF (для диагностики).
func (r *Reader) LastErr() error {
	return r.lastErr
}
