package meterdb

// LivePowerReading is one instantaneous power sample. Magnitudes are
// the decoder's fixed-point integers, i.e. W rather than kW.
type LivePowerReading struct {
	Timestamp  int64  `db:"timestamp"`
	DeliveredW uint32 `db:"delivered_w"`
	ReturnedW  uint32 `db:"returned_w"`
	Tariff     string `db:"tariff"`
}

// EnergySnapshot is a point-in-time copy of the cumulative energy
// registers, in Wh.
type EnergySnapshot struct {
	Timestamp          int64  `db:"timestamp"`
	DeliveredTariff1Wh uint32 `db:"delivered_tariff1_wh"`
	DeliveredTariff2Wh uint32 `db:"delivered_tariff2_wh"`
	ReturnedTariff1Wh  uint32 `db:"returned_tariff1_wh"`
	ReturnedTariff2Wh  uint32 `db:"returned_tariff2_wh"`
}

// GasReading is a point-in-time copy of the gas register, in dm3. The
// meter timestamp is kept verbatim because M-Bus slaves report their
// own reading time, which lags the telegram.
type GasReading struct {
	Timestamp      int64  `db:"timestamp"`
	TotalDM3       uint32 `db:"total_dm3"`
	MeterTimestamp string `db:"meter_timestamp"`
}

// AggregateLivePower is one rollup row of live power samples.
type AggregateLivePower struct {
	StartTime   int64  `db:"start_time"`
	DeliveredWh uint32 `db:"delivered_wh"`
	ReturnedWh  uint32 `db:"returned_wh"`
	SampleCount uint32 `db:"sample_count"`
}
