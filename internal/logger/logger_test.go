package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuiet(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Out: &buf})
	defer func() { Quiet = false }()

	Quiet = true
	Info("скрыто %d", 1)
	assert.Empty(t, buf.String())

	Error("ошибка %s", "порта")
	assert.Contains(t, buf.String(), "ошибка порта")
	assert.Contains(t, buf.String(), `"level":"error"`)

	buf.Reset()
	Quiet = false
	Info("видно %d", 2)
	assert.Contains(t, buf.String(), "видно 2")
	assert.Contains(t, buf.String(), `"component":"sqw-sync"`)
}

func TestDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Out: &buf})
	Debug("не видно")
	assert.Empty(t, buf.String())

	Init(Options{Out: &buf, Debug: true})
	Debug("видно")
	assert.Contains(t, buf.String(), "видно")
}
