package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_Help(t *testing.T) {
	var out bytes.Buffer
	code := execute([]string{"--help"}, &out, afero.NewMemMapFs())
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "--offset")
	assert.Contains(t, out.String(), "-i, --init")
}

func TestExecute_BadFlag(t *testing.T) {
	var out bytes.Buffer
	code := execute([]string{"--offset", "soon"}, &out, afero.NewMemMapFs())
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "error parsing options:")
}

func TestExecute_OpenFailure(t *testing.T) {
	var out bytes.Buffer
	missing := filepath.Join(t.TempDir(), "ttyNONE")
	code := execute([]string{"-p", missing, "--dry-run", "-q"}, &out, afero.NewMemMapFs())
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "Opening port "+missing+".\nError.\n")
}

func TestExecute_OffsetDryRun(t *testing.T) {
	var out bytes.Buffer
	code := execute([]string{"-i", "-o", "5", "--dry-run", "-q"}, &out, afero.NewMemMapFs())
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "init: true\nport: n/a\noffset: 5\n")
	assert.Contains(t, out.String(), "Adjusting time with offset 5.000000")
}

func TestExecute_ObserveOnlyNoOffset(t *testing.T) {
	var out bytes.Buffer
	code := execute([]string{"-q"}, &out, afero.NewMemMapFs())
	assert.Equal(t, 0, code)
	assert.Equal(t, "init: false\nport: n/a\noffset: 0\n", out.String())
}

func TestLoadConfig_FlagsOverride(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "site.yml", []byte(`
device:
  port: /dev/ttyUSB0
  driver: tarm
sync:
  init: true
  offset: 1.5
`), 0o644))

	cmd := newRootCmd(&bytes.Buffer{}, fsys)
	require.NoError(t, cmd.ParseFlags([]string{"-c", "site.yml", "-o", "0", "--driver", "bugst"}))

	var o cliOptions
	o.configPath, _ = cmd.Flags().GetString("config")
	o.offset, _ = cmd.Flags().GetFloat64("offset")
	o.driver, _ = cmd.Flags().GetString("driver")

	cfg, err := loadConfig(cmd, fsys, o)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", cfg.Device.Port, "порт из конфига")
	assert.True(t, cfg.Sync.Init, "init из конфига, флаг не задан")
	assert.Equal(t, 0.0, cfg.Sync.Offset, "явный -o 0 перекрывает конфиг")
	assert.Equal(t, "bugst", cfg.Device.Driver)
}

func TestLoadConfig_InvalidDriver(t *testing.T) {
	cmd := newRootCmd(&bytes.Buffer{}, afero.NewMemMapFs())
	require.NoError(t, cmd.ParseFlags([]string{"--driver", "usb"}))
	_, err := loadConfig(cmd, afero.NewMemMapFs(), cliOptions{driver: "usb"})
	require.Error(t, err)
}

func TestLoadConfig_MissingExplicit(t *testing.T) {
	cmd := newRootCmd(&bytes.Buffer{}, afero.NewMemMapFs())
	_, err := loadConfig(cmd, afero.NewMemMapFs(), cliOptions{configPath: "nope.yml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config:")
}
