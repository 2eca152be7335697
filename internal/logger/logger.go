// Package logger — единый вывод логов sqw-sync с префиксом и учётом quiet.
//
// Журнал пишется через zerolog в stderr и, если задан файл, дополнительно в
// ротируемый файл (lumberjack). Диагностический протокол (строки SQW, время)
// сюда не попадает: он идёт в stdout через io.Writer контроллера.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Quiet при true отключает информационные сообщения (Info, Debug); Warn и Error выводятся всегда.
var Quiet bool

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).
	With().Timestamp().Str("component", "sqw-sync").Logger()

// Options — куда писать журнал.
type Options struct {
	File  string // путь к файлу журнала; пусто — только stderr
	Debug bool

	// Out заменяет stderr (для тестов).
	Out io.Writer
}

// Init перенастраивает глобальный логгер.
func Init(o Options) {
	out := o.Out
	if out == nil {
		out = zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}
	}
	writers := []io.Writer{out}
	if o.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   o.File,
			MaxSize:    1,
			MaxBackups: 2,
		})
	}
	level := zerolog.InfoLevel
	if o.Debug {
		level = zerolog.DebugLevel
	}
	log = zerolog.New(io.MultiWriter(writers...)).Level(level).
		With().Timestamp().Str("component", "sqw-sync").Logger()
}

// Debug выводит отладочное сообщение, если Quiet == false.
func Debug(format string, args ...interface{}) {
	if Quiet {
		return
	}
	log.Debug().Msg(fmt.Sprintf(format, args...))
}

// Info выводит сообщение, если Quiet == false.
func Info(format string, args ...interface{}) {
	if Quiet {
		return
	}
	log.Info().Msg(fmt.Sprintf(format, args...))
}

// Warn выводит предупреждение всегда.
func Warn(format string, args ...interface{}) {
	log.Warn().Msg(fmt.Sprintf(format, args...))
}

// Error выводит сообщение об ошибке всегда.
func Error(format string, args ...interface{}) {
	log.Error().Msg(fmt.Sprintf(format, args...))
}
