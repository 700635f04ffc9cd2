package atapi

import (
	"encoding/binary"
	"testing"
)

func identifyPayload(word105, word169 uint16) IdentifyData {
	data := make([]byte, IdentifyDataSize)
	binary.LittleEndian.PutUint16(data[105*2:], word105)
	binary.LittleEndian.PutUint16(data[169*2:], word169)
	return data
}

func TestIdentifyTrimFields(t *testing.T) {
	tests := []struct {
		name         string
		word105      uint16
		word169      uint16
		supported    bool
		maxDSMBlocks uint16
	}{
		{"trim with limit", 8, 0x0001, true, 8},
		{"trim bit clear", 8, 0x0000, false, 8},
		{"other word169 bits only", 8, 0x000E, false, 8},
		{"zero block limit", 0, 0x0001, true, 0},
		{"neither", 0, 0, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := identifyPayload(tt.word105, tt.word169)
			if got := d.TrimSupported(); got != tt.supported {
				t.Errorf("TrimSupported() = %v, want %v", got, tt.supported)
			}
			if got := d.MaxDSMBlocks(); got != tt.maxDSMBlocks {
				t.Errorf("MaxDSMBlocks() = %d, want %d", got, tt.maxDSMBlocks)
			}
		})
	}
}

func TestIdentifyWordBounds(t *testing.T) {
	short := IdentifyData(make([]byte, 100))

	if short.Word(105) != 0 {
		t.Error("Word beyond a short response should read 0")
	}
	if short.TrimSupported() {
		t.Error("short response must not report TRIM support")
	}
	if short.Word(-1) != 0 {
		t.Error("negative word index should read 0")
	}
}

func TestIdentifyWordDecoding(t *testing.T) {
	data := make([]byte, IdentifyDataSize)
	data[210] = 0x34 // word 105, low byte
	data[211] = 0x12

	if got := IdentifyData(data).Word(105); got != 0x1234 {
		t.Errorf("Word(105) = %#x, want 0x1234", got)
	}
}
