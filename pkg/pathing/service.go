package pathing

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Ensure directories exist on startup
func init() {
	// Directories that must exist:
	dirs := []string{
		GetDataDir(),
	}

	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				logrus.Fatal(err)
			}
		}
	}
}

func GetMeterDbPath() string {
	return filepath.Join(GetDataDir(), "p1-meter.db")
}

func GetDataDir() string {
	return "/var/lib/p1_smart_meter"
}

func GetConfigDir() string {
	return "/etc/p1_smart_meter"
}
