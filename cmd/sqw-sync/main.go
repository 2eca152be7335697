// sqw-sync — однократная установка системных часов по секундным меткам
// "SQW nnnnnnnnnn" от GPS/RTC модуля на последовательном порту, либо сдвиг
// часов на заданное число секунд без внешнего устройства.
//
// Использование:
//
//	sqw-sync -p /dev/ttyACM0            — только показать метки и время
//	sudo sqw-sync -i -p /dev/ttyACM0    — установить часы по меткам
//	sudo sqw-sync -i -p COM3 -o 0.25    — то же, со смещением +0.25 с
//	sudo sqw-sync -i -o -3600           — сдвинуть часы на час назад
//
// Установка часов требует root (sudo) или прав Administrator.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/shiwa/timecard-mini/sqw-sync/internal/clockadj"
	"github.com/shiwa/timecard-mini/sqw-sync/internal/config"
	"github.com/shiwa/timecard-mini/sqw-sync/internal/logger"
	"github.com/shiwa/timecard-mini/sqw-sync/internal/ntpcheck"
	"github.com/shiwa/timecard-mini/sqw-sync/pkg/clocksync"
)

type cliOptions struct {
	configPath string
	init       bool
	port       string
	offset     float64
	driver     string
	quiet      bool
	debug      bool
	logFile    string
	ntpServer  string
	dryRun     bool
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, afero.NewOsFs()))
}

func execute(args []string, stdout io.Writer, fsys afero.Fs) int {
	cmd := newRootCmd(stdout, fsys)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		logger.Error("%v", err)
		return 1
	}
	return 0
}

func newRootCmd(stdout io.Writer, fsys afero.Fs) *cobra.Command {
	var o cliOptions
	cmd := &cobra.Command{
		Use:           "sqw-sync",
		Short:         "Установка системных часов по меткам SQW с последовательного порта",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, fsys, o)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, stdout)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		fmt.Fprintf(stdout, "error parsing options: %v\n", err)
		return err
	})

	f := cmd.Flags()
	f.BoolVarP(&o.init, "init", "i", false, "установить часы (без флага — только наблюдение)")
	f.StringVarP(&o.port, "port", "p", "", "последовательный порт источника SQW; пусто — режим только offset")
	f.Float64VarP(&o.offset, "offset", "o", 0, "смещение в секундах, прибавляется к устанавливаемому времени")
	f.StringVarP(&o.configPath, "config", "c", "", "путь к конфигу YAML/TOML (по умолчанию "+config.DefaultPath+")")
	f.StringVar(&o.driver, "driver", "", "драйвер порта: bugst или tarm")
	f.BoolVarP(&o.quiet, "quiet", "q", false, "меньше вывода в журнал")
	f.BoolVar(&o.debug, "debug", false, "отладочный журнал")
	f.StringVar(&o.logFile, "log-file", "", "дополнительно писать журнал в файл")
	f.StringVar(&o.ntpServer, "ntp-check", "", "после синхронизации сверить часы с NTP сервером")
	f.BoolVar(&o.dryRun, "dry-run", false, "ставить виртуальные часы вместо системных")
	return cmd
}

// loadConfig читает конфиг и поверх него применяет явно заданные флаги.
func loadConfig(cmd *cobra.Command, fsys afero.Fs, o cliOptions) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(fsys, o.configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	f := cmd.Flags()
	if f.Changed("init") {
		cfg.Sync.Init = o.init
	}
	if f.Changed("port") {
		cfg.Device.Port = o.port
	}
	if f.Changed("offset") {
		cfg.Sync.Offset = o.offset
	}
	if f.Changed("driver") {
		cfg.Device.Driver = o.driver
	}
	if f.Changed("quiet") {
		cfg.Log.Quiet = o.quiet
	}
	if f.Changed("debug") {
		cfg.Log.Debug = o.debug
	}
	if f.Changed("log-file") {
		cfg.Log.File = o.logFile
	}
	if f.Changed("ntp-check") {
		cfg.Verify.NTPServer = o.ntpServer
	}
	if f.Changed("dry-run") {
		cfg.Sync.DryRun = o.dryRun
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run выполняет прогон с отменой по SIGINT/SIGTERM.
func run(parent context.Context, cfg *config.Config, stdout io.Writer) error {
	logger.Init(logger.Options{File: cfg.Log.File, Debug: cfg.Log.Debug})
	logger.Quiet = cfg.Log.Quiet

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("получен сигнал %v, завершение...", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	var clock clockadj.Port = clockadj.NewSystem()
	if cfg.Sync.DryRun {
		logger.Info("dry-run: системные часы не изменяются")
		clock = clockadj.NewVirtual(nil)
	}

	st, err := clocksync.Run(ctx, cfg, clocksync.Deps{Clock: clock, Out: stdout})
	if err != nil {
		return err
	}
	logger.Debug("итог: меток %d, строк %d, пустых чтений %d, установок %d",
		st.Records, st.Lines, st.EmptyReads, st.Commits)

	if cfg.Verify.NTPServer != "" {
		res, err := ntpcheck.New(cfg.VerifyTimeout()).Check(cfg.Verify.NTPServer)
		if err != nil {
			logger.Warn("%v", err)
			return nil
		}
		fmt.Fprintln(stdout, res)
	}
	return nil
}
