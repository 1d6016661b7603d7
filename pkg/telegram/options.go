package telegram

// Options adjusts telegram-level parsing.
type Options struct {
	// SkipChecksum accepts telegrams without verifying the CRC16
	// trailer. Useful for hand-edited captures and for DSMR 2.x
	// meters, which transmit no checksum at all.
	SkipChecksum bool
}
