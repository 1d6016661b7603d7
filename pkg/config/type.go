package config

// InterpreterAPIConfig drives the daemon that owns the P1 port and
// broadcasts decoded readings.
type InterpreterAPIConfig struct {
	SerialDevice  string `toml:"serial_device"`
	Baudrate      uint   `toml:"baudrate"`
	ListenAddress string `toml:"listen_address"`
	ListenPort    int    `toml:"listen_port"`
	// Telegrams failing their CRC are dropped unless this is set;
	// some DSMR 2.x meters transmit no checksum at all.
	SkipChecksum bool `toml:"skip_checksum"`

	SolarInverterIp         string `toml:"solar_inverter_ip"`
	SolarInverterModbusPort int    `toml:"solar_inverter_modbus_port"`
	// Should be named `preconfigured`
	// Check with `nmcli device status`
	WlanConnectionId string `toml:"wlan_connection_id"`
}

// MeterCollectorConfig drives the daemon that subscribes to the
// interpreter API and persists readings.
type MeterCollectorConfig struct {
	InterpreterAPIHost string `toml:"interpreter_api_host"`
}
