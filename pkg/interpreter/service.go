package interpreter

import (
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// StartListener manages the websocket subscription to the interpreter
// API and calls funcToCall for each decoded reading. Reconnects with
// exponential backoff; returns after an interrupt or when the retry
// budget is spent.
func StartListener(host string, funcToCall func(reading *DecodedReading)) {
	const (
		maxRetries     = 10
		baseRetryDelay = 2 * time.Second
		maxRetryDelay  = 60 * time.Second
	)

	u := url.URL{Scheme: "ws", Host: host, Path: "/ws"}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	retryCount := 0

	for {
		select {
		case <-interrupt:
			logrus.Info("Interrupt received, shutting down...")
			return
		default:
			retryDelay := time.Duration(1<<retryCount) * baseRetryDelay
			if retryDelay > maxRetryDelay {
				retryDelay = maxRetryDelay
			}

			if retryCount > 0 {
				logrus.Infof("Retrying connection in %v... (attempt %d/%d)", retryDelay, retryCount+1, maxRetries)
				select {
				case <-time.After(retryDelay):
				case <-interrupt:
					logrus.Info("Interrupt received during retry wait, shutting down...")
					return
				}
			}

			logrus.Infof("Connecting to %s", u.String())

			dialer := websocket.DefaultDialer
			dialer.HandshakeTimeout = 10 * time.Second
			c, _, err := dialer.Dial(u.String(), nil)
			if err != nil {
				logrus.Errorf("Connection failed: %v", err)
				retryCount++
				if retryCount >= maxRetries {
					logrus.Errorf("Max retries (%d) reached. Giving up.", maxRetries)
					return
				}
				continue
			}

			logrus.Info("Connected! Accepting meter readings.")
			retryCount = 0

			connectionBroken := handleConnection(c, interrupt, funcToCall)
			c.Close()

			if !connectionBroken {
				// Clean shutdown requested
				return
			}

			logrus.Warn("Connection lost, will retry...")
		}
	}
}

func handleConnection(
	c *websocket.Conn,
	interrupt chan os.Signal,
	funcToCall func(reading *DecodedReading),
) bool {
	done := make(chan struct{})

	// Readings arrive every second; a silent connection is a dead one.
	c.SetReadDeadline(time.Now().Add(10 * time.Second))

	go func() {
		defer close(done)
		for {
			messageType, message, err := c.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					logrus.Errorf("WebSocket error: %v", err)
				} else {
					logrus.Infof("Connection closed: %v", err)
				}
				return
			}

			c.SetReadDeadline(time.Now().Add(10 * time.Second))

			if messageType == websocket.TextMessage {
				if reading := ReadingFromJsonBytes(message); reading != nil {
					funcToCall(reading)
				} else {
					logrus.Errorf("Failed to parse meter reading: %s", string(message))
				}
			}
		}
	}()

	// Periodic pings keep middleboxes from dropping the connection.
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := c.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
					logrus.Errorf("Failed to send ping: %v", err)
					return
				}
			case <-done:
				return
			}
		}
	}()

	select {
	case <-done:
		// Connection broke
		return true
	case <-interrupt:
		logrus.Info("Interrupt received, closing connection...")

		err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		if err != nil {
			logrus.Errorf("Error sending close message: %v", err)
		}

		select {
		case <-done:
		case <-time.After(time.Second):
		}

		return false
	}
}
