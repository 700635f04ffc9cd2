package atapi

import "encoding/binary"

// IdentifyData is a raw IDENTIFY DEVICE response. The device returns 512
// bytes of little-endian 16-bit words; accessors below decode the two words
// the TRIM pipeline cares about.
type IdentifyData []byte

// Word returns the 16-bit identify word at index i, or 0 if the response is
// too short to contain it.
func (d IdentifyData) Word(i int) uint16 {
	off := i * 2
	if off < 0 || off+2 > len(d) {
		return 0
	}
	return binary.LittleEndian.Uint16(d[off : off+2])
}

// TrimSupported reports whether the device advertises the TRIM function of
// DATA SET MANAGEMENT (word 169 bit 0).
func (d IdentifyData) TrimSupported() bool {
	return d.Word(wordDSMSupport)&trimSupportedBit != 0
}

// MaxDSMBlocks returns the maximum number of 512-byte blocks of range
// entries the device accepts per DATA SET MANAGEMENT command (word 105).
// A zero value means the device did not report a limit and TRIM must be
// treated as unsupported.
func (d IdentifyData) MaxDSMBlocks() uint16 {
	return d.Word(wordMaxDSMBlocks)
}
