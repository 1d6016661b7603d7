// Interpreter API is responsible for reading the P1 port and broadcasting
// the decoded readings.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/kloodhu/p1_smart_meter/pkg/config"
	"github.com/kloodhu/p1_smart_meter/pkg/interpreter"
	"github.com/kloodhu/p1_smart_meter/pkg/port_reader"
	"github.com/kloodhu/p1_smart_meter/pkg/solarinverter"
	"github.com/kloodhu/p1_smart_meter/pkg/telegram"
)

var p1Reader *port_reader.P1Reader

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// ws clients for broadcasting live readings
var (
	wsClients      = make(map[*websocket.Conn]bool)
	wsClientsMutex = sync.RWMutex{}
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadInterpreterAPIConfig()
	if err != nil {
		logrus.Fatalf("Failed to load interpreter API config: %v", err)
	}

	p1Reader = port_reader.NewP1Reader(
		cfg.SerialDevice,
		cfg.Baudrate,
		telegram.Options{SkipChecksum: cfg.SkipChecksum},
	)

	go p1Reader.StartReading(
		func(reading *telegram.Reading) {
			BroadcastToWebSockets(toWireReading(reading))
		},
		func(err error) {
			if err != nil {
				logrus.Fatalf("Error reading P1 port: %v", err)
			}
		},
	)

	solar := solarinverter.New(cfg)

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		response := map[string]string{
			"message": "P1 Smart Meter API",
			"status":  "running",
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	})

	http.HandleFunc("/latest", func(w http.ResponseWriter, r *http.Request) {
		reading := p1Reader.GetLatestReading()
		w.Header().Set("Content-Type", "application/json")
		if reading == nil {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{
				"error": "No readings available yet",
			})
			return
		}

		json.NewEncoder(w).Encode(toWireReading(reading))
	})

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logrus.Errorf("WebSocket upgrade error: %v", err)
			return
		}

		AddWebSocketClient(conn)

		// Send current reading immediately if available
		if reading := p1Reader.GetLatestReading(); reading != nil {
			conn.WriteMessage(websocket.TextMessage, toWireReading(reading).ToJsonBytes())
		}

		// Keep connection alive
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				RemoveWebSocketClient(conn)
				break
			}
		}
	})

	// May be fast or slow depending on cached response from inverter.
	http.HandleFunc("/solar", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		power, err := solar.ReadActivePower()
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{
				"error": err.Error(),
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]int32{
			"currentProduction": power,
		})
	})

	listener := fmt.Sprintf("%s:%d", cfg.ListenAddress, cfg.ListenPort)

	logrus.Infof("Starting P1 Smart Meter Interpreter API on %s", listener)
	logrus.Fatal(http.ListenAndServe(listener, nil))
}

// toWireReading flattens a decoded telegram into the broadcast model.
func toWireReading(reading *telegram.Reading) *interpreter.DecodedReading {
	return &interpreter.DecodedReading{
		Timestamp: time.Now().Format(time.RFC3339),
		Fields:    reading.Fields(),
	}
}

func BroadcastToWebSockets(reading *interpreter.DecodedReading) {
	wsClientsMutex.RLock()
	clients := make([]*websocket.Conn, 0, len(wsClients))
	for client := range wsClients {
		clients = append(clients, client)
	}
	wsClientsMutex.RUnlock()

	data := reading.ToJsonBytes()
	if data == nil {
		return
	}

	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			RemoveWebSocketClient(client)
		}
	}
}

func AddWebSocketClient(conn *websocket.Conn) {
	wsClientsMutex.Lock()
	wsClients[conn] = true
	wsClientsMutex.Unlock()
}

func RemoveWebSocketClient(conn *websocket.Conn) {
	wsClientsMutex.Lock()
	delete(wsClients, conn)
	wsClientsMutex.Unlock()
	conn.Close()
}
