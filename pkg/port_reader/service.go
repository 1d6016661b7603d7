package port_reader

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/jacobsa/go-serial/serial"
	"github.com/sirupsen/logrus"

	"github.com/kloodhu/p1_smart_meter/pkg/telegram"
)

// NewP1Reader initializes a reader for the given serial device. The
// parse options are applied to every telegram, so checksum handling is
// decided once at startup.
func NewP1Reader(device string, baudrate uint, parseOpts telegram.Options) *P1Reader {
	return &P1Reader{
		device:     device,
		baudrate:   baudrate,
		parseOpts:  parseOpts,
		stopSignal: false,
	}
}

// StartReading opens the port and decodes telegrams until stopped.
// Meters emit one telegram per second. Runs in a goroutine;
// handleReading also runs in a goroutine.
func (p *P1Reader) StartReading(
	handleReading func(reading *telegram.Reading),
	handleError func(error),
) {
	p.stopSignal = false

	go func() {
		// Tolerance before we report error.
		consecutiveErrors := 0
		maxErrors := 10
		var lastError error

		if err := p.connect(); err != nil {
			handleError(err)
			return
		}

		for consecutiveErrors < maxErrors {
			if p.stopSignal {
				logrus.Info("Stop signal received, disconnecting")
				p.disconnect()
				return
			}

			raw, err := p.readTelegram()
			if err != nil {
				consecutiveErrors++
				lastError = err
				logrus.Errorf("Error reading telegram (%d/%d): %v", consecutiveErrors, maxErrors, err)
				time.Sleep(time.Second)
				continue
			}

			reading, err := telegram.ParseWithOptions(raw, p.parseOpts)
			if err != nil {
				// a mangled telegram is noise, not a port failure
				logrus.Warnf("Dropping telegram: %v", err)
				continue
			}
			for _, lineErr := range reading.LineErrors {
				logrus.Debugf("Undecoded line: %v", lineErr)
			}

			p.readingMutex.Lock()
			p.latestReading = reading
			p.readingMutex.Unlock()

			go handleReading(reading)
			consecutiveErrors = 0
		}

		logrus.Errorf("Too many consecutive errors (%d), stopping reader: %v", maxErrors, lastError)
		handleError(lastError)
		p.disconnect()
	}()
}

func (p *P1Reader) StopReading() {
	p.stopSignal = true
	p.disconnect()
}

func (p *P1Reader) GetLatestReading() *telegram.Reading {
	p.readingMutex.RLock()
	defer p.readingMutex.RUnlock()
	return p.latestReading
}

// Open the connection to the P1 port.
func (p *P1Reader) connect() error {
	options := serial.OpenOptions{
		PortName:        p.device,
		BaudRate:        p.baudrate,
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
	}

	port, err := serial.Open(options)
	if err != nil {
		return fmt.Errorf("failed to open serial port: %w", err)
	}

	p.serialPort = port
	logrus.Infof("Connected to P1 port on %s", p.device)
	return nil
}

func (p *P1Reader) disconnect() {
	if p.serialPort != nil {
		p.serialPort.Close()
		logrus.Info("Disconnected from P1 port")
	}
}

// readTelegram accumulates serial lines from the '/' start marker
// through the '!' checksum line and returns the full telegram text.
func (p *P1Reader) readTelegram() (string, error) {
	if p.serialPort == nil {
		return "", fmt.Errorf("serial port not connected")
	}

	var buffer strings.Builder
	var inTelegram bool
	reader := bufio.NewReader(p.serialPort)

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}

		if strings.HasPrefix(line, "/") {
			// Start of telegram
			buffer.Reset()
			buffer.WriteString(line)
			inTelegram = true
		} else if inTelegram {
			buffer.WriteString(line)
			if strings.HasPrefix(strings.TrimSpace(line), "!") {
				// End of telegram
				return buffer.String(), nil
			}
		}
	}
}
