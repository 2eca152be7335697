// Package ntpcheck — однократная сверка часов с NTP сервером после синхронизации.
package ntpcheck

import (
	"fmt"
	"time"

	"github.com/beevik/ntp"
)

// Result — ответ сервера.
type Result struct {
	Server  string
	// Offset — насколько локальные часы отстают от сервера (положительное — отстают).
	Offset  time.Duration
	RTT     time.Duration
	Stratum uint8
}

// QueryFunc — запрос к серверу; подменяется в тестах.
type QueryFunc func(host string, opt ntp.QueryOptions) (*ntp.Response, error)

// Checker выполняет сверку.
type Checker struct {
	Timeout time.Duration
	Query   QueryFunc
}

// New создаёт Checker с реальным клиентом.
func New(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Checker{Timeout: timeout, Query: ntp.QueryWithOptions}
}

// Check запрашивает время у server (host или host:port) и проверяет ответ.
func (c *Checker) Check(server string) (Result, error) {
	resp, err := c.Query(server, ntp.QueryOptions{Timeout: c.Timeout})
	if err != nil {
		return Result{}, fmt.Errorf("ntp %s: %w", server, err)
	}
	if err := resp.Validate(); err != nil {
		return Result{}, fmt.Errorf("ntp %s: invalid response: %w", server, err)
	}
	return Result{
		Server:  server,
		Offset:  resp.ClockOffset,
		RTT:     resp.RTT,
		Stratum: resp.Stratum,
	}, nil
}

// String — строка для диагностического вывода.
func (r Result) String() string {
	return fmt.Sprintf("NTP offset vs %s: %v (rtt %v, stratum %d)", r.Server, r.Offset, r.RTT, r.Stratum)
}
