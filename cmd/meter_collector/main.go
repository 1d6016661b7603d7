// Responsible for storing the data collected from the smart meter.
// Depends on the interpreter API being online.
package main

import (
	"math"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kloodhu/p1_smart_meter/pkg/aggregator"
	"github.com/kloodhu/p1_smart_meter/pkg/config"
	"github.com/kloodhu/p1_smart_meter/pkg/interpreter"
	"github.com/kloodhu/p1_smart_meter/pkg/meterdb"
	"github.com/kloodhu/p1_smart_meter/pkg/telegram"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	meterdb.InitializeDatabase()

	cfg, err := config.LoadMeterCollectorConfig()
	if err != nil {
		logrus.Fatalf("Failed to load meter collector config: %v", err)
	}

	// Env var wins over the config file, for containerized setups.
	host := os.Getenv("INTERPRETER_API_HOST")
	if host == "" {
		host = cfg.InterpreterAPIHost
	}

	stopAggregator := make(chan struct{})
	go aggregator.StartScheduler(stopAggregator)
	defer close(stopAggregator)

	// Subscribe to websocket with revive
	interpreter.StartListener(host, handleMeterReading)
}

// handleMeterReading persists one decoded reading.
func handleMeterReading(reading *interpreter.DecodedReading) {
	fs := telegram.NewFieldSet(reading.Fields)
	now := time.Now().Unix()

	storeLivePower(fs, now)
	storeEnergySnapshot(fs, now)
	storeGas(fs, now)
}

func storeLivePower(fs telegram.FieldSet, now int64) {
	if !fs.Has("power_delivered") && !fs.Has("power_returned") {
		return
	}

	row := &meterdb.LivePowerReading{Timestamp: now}
	if kw, err := fs.Float("power_delivered"); err == nil {
		row.DeliveredW = uint32(math.Round(kw * 1000))
	}
	if kw, err := fs.Float("power_returned"); err == nil {
		row.ReturnedW = uint32(math.Round(kw * 1000))
	}
	if tariff, err := fs.String("electricity_tariff"); err == nil {
		row.Tariff = tariff
	}

	if err := meterdb.InsertLivePowerReading(row); err != nil {
		logrus.Errorf("Failed to store live power reading: %v", err)
	}
}

func storeEnergySnapshot(fs telegram.FieldSet, now int64) {
	if !fs.Has("energy_delivered_tariff1") {
		return
	}

	row := &meterdb.EnergySnapshot{Timestamp: now}
	if kwh, err := fs.Float("energy_delivered_tariff1"); err == nil {
		row.DeliveredTariff1Wh = uint32(math.Round(kwh * 1000))
	}
	if kwh, err := fs.Float("energy_delivered_tariff2"); err == nil {
		row.DeliveredTariff2Wh = uint32(math.Round(kwh * 1000))
	}
	if kwh, err := fs.Float("energy_returned_tariff1"); err == nil {
		row.ReturnedTariff1Wh = uint32(math.Round(kwh * 1000))
	}
	if kwh, err := fs.Float("energy_returned_tariff2"); err == nil {
		row.ReturnedTariff2Wh = uint32(math.Round(kwh * 1000))
	}

	if err := meterdb.InsertEnergySnapshot(row); err != nil {
		logrus.Errorf("Failed to store energy snapshot: %v", err)
	}
}

func storeGas(fs telegram.FieldSet, now int64) {
	m3, err := fs.Float("gas_delivered")
	if err != nil {
		return
	}

	row := &meterdb.GasReading{
		Timestamp: now,
		TotalDM3:  uint32(math.Round(m3 * 1000)),
	}
	if ts, err := fs.String("gas_delivered_timestamp"); err == nil {
		row.MeterTimestamp = ts
	}

	if err := meterdb.InsertGasReading(row); err != nil {
		logrus.Errorf("Failed to store gas reading: %v", err)
	}
}
