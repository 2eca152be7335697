package device

import (
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPort struct {
	rts, dtr  bool
	closed    bool
	rtsErr    error
	dtrErr    error
	readChunk []byte
}

func (m *mockPort) Read(p []byte) (int, error) {
	if len(m.readChunk) == 0 {
		return 0, nil
	}
	n := copy(p, m.readChunk)
	m.readChunk = m.readChunk[n:]
	return n, nil
}
func (m *mockPort) Close() error { m.closed = true; return nil }
func (m *mockPort) SetRTS(on bool) error {
	if m.rtsErr != nil {
		return m.rtsErr
	}
	m.rts = on
	return nil
}
func (m *mockPort) SetDTR(on bool) error {
	if m.dtrErr != nil {
		return m.dtrErr
	}
	m.dtr = on
	return nil
}

func TestOpenWith(t *testing.T) {
	t.Run("defaults and handshake", func(t *testing.T) {
		var got Config
		mp := &mockPort{}
		p, err := OpenWith(func(cfg Config) (Port, error) {
			got = cfg
			return mp, nil
		}, Config{Path: "/dev/ttyACM0"})
		require.NoError(t, err)
		assert.Same(t, mp, p)
		assert.Equal(t, DefaultBaud, got.Baud)
		assert.Equal(t, DefaultReadTimeout, got.ReadTimeout)
		assert.True(t, mp.rts, "RTS должен быть поднят")
		assert.True(t, mp.dtr, "DTR должен быть поднят")
	})

	t.Run("handshake unsupported keeps port", func(t *testing.T) {
		mp := &mockPort{rtsErr: ErrHandshakeUnsupported}
		p, err := OpenWith(func(Config) (Port, error) { return mp, nil }, Config{Path: "x"})
		require.ErrorIs(t, err, ErrHandshakeUnsupported)
		assert.NotNil(t, p)
		assert.False(t, mp.closed)
	})

	t.Run("handshake failure closes port", func(t *testing.T) {
		mp := &mockPort{dtrErr: errors.New("ioctl failed")}
		p, err := OpenWith(func(Config) (Port, error) { return mp, nil }, Config{Path: "x"})
		require.Error(t, err)
		assert.Nil(t, p)
		assert.True(t, mp.closed)
		assert.Contains(t, err.Error(), "set DTR")
	})

	t.Run("factory error", func(t *testing.T) {
		_, err := OpenWith(func(Config) (Port, error) { return nil, errors.New("busy") }, Config{Path: "x"})
		require.EqualError(t, err, "busy")
	})
}

func TestDefaultFactory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-tty")

	_, err := DefaultFactory(Config{Path: missing, Driver: "usb"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown serial driver")

	for _, drv := range []string{"", DriverBugst, DriverTarm} {
		_, err := DefaultFactory(Config{Path: missing, Driver: drv, Baud: DefaultBaud, ReadTimeout: time.Millisecond})
		assert.Error(t, err, "driver %q: открытие несуществующего порта должно падать", drv)
	}
}

type errReader struct{ err error }

func (e errReader) Read([]byte) (int, error) { return 0, e.err }

func TestReader_ReadChar(t *testing.T) {
	r := NewReader(&mockPort{readChunk: []byte("SQ")})
	c, ok := r.ReadChar()
	assert.True(t, ok)
	assert.Equal(t, byte('S'), c)
	c, ok = r.ReadChar()
	assert.True(t, ok)
	assert.Equal(t, byte('Q'), c)

	_, ok = r.ReadChar()
	assert.False(t, ok, "пустое чтение")
	assert.NoError(t, r.LastErr())

	eof := NewReader(errReader{io.EOF})
	_, ok = eof.ReadChar()
	assert.False(t, ok)
	assert.NoError(t, eof.LastErr())

	broken := NewReader(errReader{errors.New("device gone")})
	_, ok = broken.ReadChar()
	assert.False(t, ok)
	assert.EqualError(t, broken.LastErr(), "device gone")
}
