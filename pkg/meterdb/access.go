package meterdb

func InsertLivePowerReading(reading *LivePowerReading) error {
	db := GetDB()

	_, err := db.Exec(
		"INSERT INTO live_power_readings (timestamp, delivered_w, returned_w, tariff) "+
			"VALUES (?, ?, ?, ?)",
		reading.Timestamp,
		reading.DeliveredW,
		reading.ReturnedW,
		reading.Tariff,
	)
	return err
}

func InsertEnergySnapshot(snapshot *EnergySnapshot) error {
	db := GetDB()

	_, err := db.Exec(
		"INSERT INTO energy_snapshots "+
			"(timestamp, delivered_tariff1_wh, delivered_tariff2_wh, returned_tariff1_wh, returned_tariff2_wh) "+
			"VALUES (?, ?, ?, ?, ?)",
		snapshot.Timestamp,
		snapshot.DeliveredTariff1Wh,
		snapshot.DeliveredTariff2Wh,
		snapshot.ReturnedTariff1Wh,
		snapshot.ReturnedTariff2Wh,
	)
	return err
}

func InsertGasReading(reading *GasReading) error {
	db := GetDB()

	_, err := db.Exec(
		"INSERT INTO gas_readings (timestamp, total_dm3, meter_timestamp) "+
			"VALUES (?, ?, ?)",
		reading.Timestamp,
		reading.TotalDM3,
		reading.MeterTimestamp,
	)
	return err
}
