// Aggregator rolls live power samples up into hourly and daily
// averages so dashboards never scan the raw sample table.
package aggregator

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kloodhu/p1_smart_meter/pkg/meterdb"
)

// roundToHourStart returns the Unix timestamp of the start of the hour for the given time
func roundToHourStart(t time.Time) int64 {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, time.UTC).Unix()
}

// roundToDayStart returns the Unix timestamp of the start of the day for the given time
func roundToDayStart(t time.Time) int64 {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Unix()
}

func timeframeEnd(tf Timeframe, start int64) int64 {
	switch tf {
	case TimeframeDaily:
		return time.Unix(start, 0).AddDate(0, 0, 1).Unix() - 1
	default:
		return time.Unix(start, 0).Add(time.Hour).Unix() - 1
	}
}

// Aggregate computes the average delivered/returned power over one
// timeframe and upserts the rollup row. An average watt held for one
// hour is exactly its watt-hours, so the hourly rollup stores Wh
// directly; the daily row keeps the same average-based convention.
func Aggregate(tf Timeframe, start int64) error {
	db := meterdb.GetDB()
	end := timeframeEnd(tf, start)

	query := `
		SELECT
			COALESCE(AVG(delivered_w), 0),
			COALESCE(AVG(returned_w), 0),
			COUNT(*)
		FROM live_power_readings
		WHERE timestamp >= ? AND timestamp <= ?
	`

	var avgDelivered, avgReturned float64
	var count uint32
	if err := db.QueryRow(query, start, end).Scan(&avgDelivered, &avgReturned, &count); err != nil {
		return err
	}

	// Nothing sampled in this window
	if count == 0 {
		return nil
	}

	insertQuery := `
		INSERT OR REPLACE INTO ` + tf.table() + `
		(start_time, delivered_wh, returned_wh, sample_count)
		VALUES (?, ?, ?, ?)
	`
	_, err := db.Exec(insertQuery, start, uint32(avgDelivered), uint32(avgReturned), count)
	return err
}

// RunPending recomputes the rollups for the previous hour and, shortly
// after midnight, the previous day.
func RunPending(now time.Time) {
	prevHour := roundToHourStart(now.Add(-time.Hour))
	if err := Aggregate(TimeframeHourly, prevHour); err != nil {
		logrus.Errorf("hourly aggregation failed: %v", err)
	}

	if now.UTC().Hour() == 0 {
		prevDay := roundToDayStart(now.AddDate(0, 0, -1))
		if err := Aggregate(TimeframeDaily, prevDay); err != nil {
			logrus.Errorf("daily aggregation failed: %v", err)
		}
	}
}

// StartScheduler runs RunPending once per hour until stop is closed.
// Call in a goroutine.
func StartScheduler(stop <-chan struct{}) {
	// catch up immediately on startup
	RunPending(time.Now())

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			RunPending(now)
		case <-stop:
			return
		}
	}
}
