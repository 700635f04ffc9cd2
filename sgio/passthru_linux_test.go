//go:build linux

package sgio

import (
	"testing"
	"time"

	trim "github.com/ataio/go-atatrim"
)

func TestBuildCDB16DataIn(t *testing.T) {
	pkt := &trim.Packet{
		Command:  0xEC,
		Count:    1,
		Device:   0xE0,
		Protocol: trim.ProtocolPIODataIn,
		Data:     make([]byte, 512),
		Timeout:  3 * time.Second,
	}

	cdb, dir := buildCDB16(pkt)

	if dir != sgDxferFromDev {
		t.Fatalf("direction = %d, want %d", dir, sgDxferFromDev)
	}
	if cdb[0] != 0x85 {
		t.Errorf("opcode = %#02x, want 0x85", cdb[0])
	}
	if cdb[1] != satProtoPIODataIn<<1 {
		t.Errorf("protocol byte = %#02x, want %#02x", cdb[1], satProtoPIODataIn<<1)
	}
	if cdb[2] != 0x0E {
		t.Errorf("flags byte = %#02x, want 0x0E", cdb[2])
	}
	if cdb[4] != 0 {
		t.Errorf("features = %#02x, want 0", cdb[4])
	}
	if cdb[5] != 0 || cdb[6] != 1 {
		t.Errorf("count bytes = %#02x,%#02x, want 0x00,0x01", cdb[5], cdb[6])
	}
	if cdb[13] != 0xE0 {
		t.Errorf("device = %#02x, want 0xE0", cdb[13])
	}
	if cdb[14] != 0xEC {
		t.Errorf("command = %#02x, want 0xEC", cdb[14])
	}
}

func TestBuildCDB16DataOut(t *testing.T) {
	pkt := &trim.Packet{
		Command:  0x06,
		Features: 0x01,
		Count:    0x0203,
		Device:   0xF0,
		Protocol: trim.ProtocolPIODataOut,
		LBA48:    true,
		Data:     make([]byte, 1024),
	}

	cdb, dir := buildCDB16(pkt)

	if dir != sgDxferToDev {
		t.Fatalf("direction = %d, want %d", dir, sgDxferToDev)
	}
	if want := uint8(satProtoPIODataOut<<1 | satExtend); cdb[1] != want {
		t.Errorf("protocol byte = %#02x, want %#02x", cdb[1], want)
	}
	if cdb[2] != 0x06 {
		t.Errorf("flags byte = %#02x, want 0x06", cdb[2])
	}
	if cdb[4] != 0x01 {
		t.Errorf("features = %#02x, want 0x01", cdb[4])
	}
	if cdb[5] != 0x02 || cdb[6] != 0x03 {
		t.Errorf("count bytes = %#02x,%#02x, want 0x02,0x03", cdb[5], cdb[6])
	}
	if cdb[13] != 0xF0 {
		t.Errorf("device = %#02x, want 0xF0", cdb[13])
	}
}

// A 48-bit command must carry the EXTEND bit: without it the SATL only
// transfers count(7:0), so a 256-block DATA SET MANAGEMENT chunk would reach
// the device as sector count 0.
func TestBuildCDB16ExtendCarriesHighCountByte(t *testing.T) {
	pkt := &trim.Packet{
		Command:  0x06,
		Features: 0x01,
		Count:    256,
		Device:   0xE0,
		Protocol: trim.ProtocolPIODataOut,
		LBA48:    true,
		Data:     make([]byte, 256*512),
	}

	cdb, _ := buildCDB16(pkt)

	if cdb[1]&satExtend == 0 {
		t.Fatalf("EXTEND bit clear: cdb[1] = %#02x", cdb[1])
	}
	if cdb[5] != 0x01 || cdb[6] != 0x00 {
		t.Errorf("count bytes = %#02x,%#02x, want 0x01,0x00", cdb[5], cdb[6])
	}
}

// IDENTIFY DEVICE is a 28-bit command; the EXTEND bit stays clear.
func TestBuildCDB16IdentifyNotExtended(t *testing.T) {
	pkt := &trim.Packet{
		Command:  0xEC,
		Count:    1,
		Device:   0xE0,
		Protocol: trim.ProtocolPIODataIn,
		Data:     make([]byte, 512),
	}

	cdb, _ := buildCDB16(pkt)

	if cdb[1]&satExtend != 0 {
		t.Errorf("EXTEND bit set on a 28-bit command: cdb[1] = %#02x", cdb[1])
	}
}

func TestBuildCDB16NonData(t *testing.T) {
	pkt := &trim.Packet{Command: 0xE7, Protocol: trim.ProtocolNonData}

	cdb, dir := buildCDB16(pkt)

	if dir != sgDxferNone {
		t.Fatalf("direction = %d, want %d", dir, sgDxferNone)
	}
	if cdb[1] != satProtoNonData<<1 {
		t.Errorf("protocol byte = %#02x, want %#02x", cdb[1], satProtoNonData<<1)
	}
	if cdb[2] != 0 {
		t.Errorf("flags byte = %#02x, want 0", cdb[2])
	}
}

func TestFillStatusBlock(t *testing.T) {
	sense := make([]byte, 32)
	sense[0] = 0x72
	sense[8] = senseATAReturn
	sense[9] = 0x0C
	sense[11] = 0x04 // error: ABRT
	sense[12] = 0x00
	sense[13] = 0x05
	sense[21] = 0x51 // status: ERR set

	var sb trim.StatusBlock
	fillStatusBlock(&sb, sense)

	if sb.Error != 0x04 {
		t.Errorf("Error = %#02x, want 0x04", sb.Error)
	}
	if sb.Count != 0x0005 {
		t.Errorf("Count = %#04x, want 0x0005", sb.Count)
	}
	if sb.Status != 0x51 {
		t.Errorf("Status = %#02x, want 0x51", sb.Status)
	}
}

func TestFillStatusBlockIgnoresFixedFormat(t *testing.T) {
	sense := make([]byte, 32)
	sense[0] = 0x70 // fixed format, no ATA return descriptor
	sense[11] = 0xFF

	var sb trim.StatusBlock
	fillStatusBlock(&sb, sense)

	if sb != (trim.StatusBlock{}) {
		t.Errorf("status block modified for fixed-format sense: %+v", sb)
	}
}

func TestFillStatusBlockShortSense(t *testing.T) {
	var sb trim.StatusBlock
	fillStatusBlock(&sb, []byte{0x72, 0x00})

	if sb != (trim.StatusBlock{}) {
		t.Errorf("status block modified for truncated sense: %+v", sb)
	}
}
