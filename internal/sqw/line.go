// Package sqw — кадрирование и разбор секундных меток "SQW nnnnnnnnnn".
//
// Источник (GPS/RTC модуль) раз в секунду шлёт ASCII строку вида
//
//	SQW 1609459200\n
//
// где десять цифр — номер секунды Unix, которую модуль только что отметил.
// Любые другие строки (приветствие модуля и т.п.) — просто диагностика.
package sqw

// LineReader накапливает символы до '\n'.
type LineReader struct {
	buf []byte
}

// Feed добавляет символ. На '\n' возвращает всю строку вместе с терминатором
// и очищает буфер, независимо от содержимого строки.
func (l *LineReader) Feed(c byte) (line string, complete bool) {
	l.buf = append(l.buf, c)
	if c != '\n' {
		return "", false
	}
	line = string(l.buf)
	l.buf = l.buf[:0]
	return line, true
}

// Pending — накопленная, но ещё не завершённая часть строки.
func (l *LineReader) Pending() string {
	return string(l.buf)
}

// Reset сбрасывает буфер.
func (l *LineReader) Reset() {
	l.buf = l.buf[:0]
}
