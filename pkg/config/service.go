package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/kloodhu/p1_smart_meter/pkg/pathing"
)

// LoadInterpreterAPIConfig reads the interpreter API config, writing a
// default file first when none exists yet.
func LoadInterpreterAPIConfig() (*InterpreterAPIConfig, error) {
	configPath := filepath.Join(pathing.GetConfigDir(), "interpreter_api.toml")

	// Create default if not exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := &InterpreterAPIConfig{
			SerialDevice:            "/dev/ttyUSB0",
			Baudrate:                115200,
			ListenAddress:           "0.0.0.0",
			ListenPort:              9039,
			SolarInverterIp:         "192.168.200.1",
			SolarInverterModbusPort: 502,
			WlanConnectionId:        "preconfigured", // Check with `nmcli device status`
		}
		if err := writeDefault(configPath, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	var cfg InterpreterAPIConfig
	if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadMeterCollectorConfig reads the collector config, writing a
// default file first when none exists yet.
func LoadMeterCollectorConfig() (*MeterCollectorConfig, error) {
	configPath := filepath.Join(pathing.GetConfigDir(), "meter_collector.toml")

	// Create default if not exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := &MeterCollectorConfig{
			InterpreterAPIHost: "localhost:9039",
		}
		if err := writeDefault(configPath, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	var cfg MeterCollectorConfig
	if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func writeDefault(path string, cfg any) error {
	cfgFile, err := os.Create(path)
	if err != nil {
		return err
	}
	defer cfgFile.Close()
	return toml.NewEncoder(cfgFile).Encode(cfg)
}
