package port_reader

import (
	"io"
	"sync"

	"github.com/kloodhu/p1_smart_meter/pkg/telegram"
)

type P1Reader struct {
	device     string
	baudrate   uint
	parseOpts  telegram.Options
	serialPort io.ReadWriteCloser

	latestReading *telegram.Reading
	readingMutex  sync.RWMutex
	stopSignal    bool
}
