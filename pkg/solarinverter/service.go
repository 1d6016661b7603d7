package solarinverter

import (
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/goburrow/modbus"
	probing "github.com/prometheus-community/pro-bing"
	"github.com/sirupsen/logrus"

	"github.com/kloodhu/p1_smart_meter/pkg/config"
)

var (
	ErrModbusNotConfigured = fmt.Errorf("modbus not configured") // may be intended
	ErrModbusReadFailed    = fmt.Errorf("modbus read failed")
	ErrModbusNotConnected  = fmt.Errorf("modbus not connected")
)

// activePowerRegister is the inverter's active power holding register.
const activePowerRegister = 32080

// Client reads the solar inverter over modbus TCP. Reads are cached
// for a few seconds to avoid spamming the poor inverter.
type Client struct {
	cfg *config.InterpreterAPIConfig

	mu           sync.Mutex
	lastReadWatt int32
	lastReadTime time.Time
}

func New(cfg *config.InterpreterAPIConfig) *Client {
	return &Client{cfg: cfg}
}

// Configured checks if the modbus configuration is set.
// This feature is optional, empty values as config are acceptable.
func (c *Client) Configured() bool {
	return c.cfg.SolarInverterIp != "" &&
		c.cfg.SolarInverterModbusPort != 0 &&
		c.cfg.WlanConnectionId != ""
}

// ReadActivePower returns the inverter's current production in watts.
func (c *Client) ReadActivePower() (int32, error) {
	if !c.Configured() {
		return 0, ErrModbusNotConfigured
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastReadTime.After(time.Now().Add(-10 * time.Second)) {
		return c.lastReadWatt, nil
	}

	const maxRetries = 3
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			// Try reconnecting on retry attempts
			if err := c.tryReconnect(); err != nil {
				lastErr = fmt.Errorf("reconnect failed on attempt %d: %w", attempt+1, err)
				continue
			}
		}

		// Ping check before attempting modbus connection
		if ok, _, err := ping(c.cfg.SolarInverterIp); !ok || err != nil {
			lastErr = fmt.Errorf("ping failed on attempt %d: %w", attempt+1, err)
			if attempt < maxRetries-1 {
				time.Sleep(2 * time.Second)
			}
			continue
		}

		watt, err := c.readOnce()
		if err != nil {
			lastErr = fmt.Errorf("read power failed on attempt %d: %w", attempt+1, err)
			if attempt < maxRetries-1 {
				time.Sleep(2 * time.Second)
			}
			continue
		}

		c.lastReadWatt = watt
		c.lastReadTime = time.Now()
		return watt, nil
	}

	return 0, errors.Join(ErrModbusReadFailed, lastErr)
}

func (c *Client) readOnce() (int32, error) {
	handler := modbus.NewTCPClientHandler(
		fmt.Sprintf("%s:%d", c.cfg.SolarInverterIp, c.cfg.SolarInverterModbusPort))
	handler.Timeout = 10 * time.Second
	handler.SlaveId = 0
	defer handler.Close()

	if err := handler.Connect(); err != nil {
		return 0, err
	}

	// The 2s delay after connecting causes everything to not implode as much
	time.Sleep(2 * time.Second)
	client := modbus.NewClient(handler)

	result, err := client.ReadHoldingRegisters(activePowerRegister, 2)
	if err != nil {
		return 0, err
	}
	if len(result) < 4 {
		return 0, fmt.Errorf("short register read: %d bytes", len(result))
	}

	return int32(result[0])<<24 | int32(result[1])<<16 | int32(result[2])<<8 | int32(result[3]), nil
}

func (c *Client) tryReconnect() error {
	if !c.Configured() {
		return ErrModbusNotConfigured
	}

	// Check if already connected
	ok, _, err := ping(c.cfg.SolarInverterIp)
	if err != nil {
		return err
	}
	if ok {
		return nil // Already connected, no need to reconnect
	}

	// Try reconnecting to wifi
	logrus.Infof("Bringing wifi connection %s back up", c.cfg.WlanConnectionId)
	cmd := exec.Command("nmcli", "connection", "up", c.cfg.WlanConnectionId)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to bring up wifi connection: %w", err)
	}

	// Wait a bit for the connection to establish
	time.Sleep(5 * time.Second)

	ok, _, err = ping(c.cfg.SolarInverterIp)
	if err != nil {
		return err
	}
	if !ok {
		return ErrModbusNotConnected
	}
	return nil
}

func ping(host string) (bool, time.Duration, error) {
	pinger, err := probing.NewPinger(host)
	if err != nil {
		return false, 0, err
	}

	pinger.Count = 1
	pinger.Timeout = 2 * time.Second
	pinger.SetPrivileged(false) // UDP-based, no root needed

	if err := pinger.Run(); err != nil {
		return false, 0, err
	}

	stats := pinger.Statistics()
	if stats.PacketsRecv > 0 {
		return true, stats.AvgRtt, nil
	}

	return false, 0, fmt.Errorf("no response")
}
