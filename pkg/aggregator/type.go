package aggregator

// Timeframe selects a rollup granularity.
type Timeframe uint8

const (
	TimeframeHourly Timeframe = iota
	TimeframeDaily
)

func (t Timeframe) String() string {
	switch t {
	case TimeframeHourly:
		return "hourly"
	case TimeframeDaily:
		return "daily"
	default:
		return "unknown"
	}
}

func (t Timeframe) table() string {
	switch t {
	case TimeframeDaily:
		return "aggregate_live_power_daily"
	default:
		return "aggregate_live_power_hourly"
	}
}
