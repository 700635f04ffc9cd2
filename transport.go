// Package atatrim erases block ranges on SATA-attached devices by issuing
// DATA SET MANAGEMENT / TRIM through a generic ATA pass-through transport.
//
// The pipeline is synchronous and single-owner: one erase call probes the
// device's TRIM capability, converts the LBA span into the 8-byte range-entry
// wire format, and dispatches the packed range list in transport-sized
// batches. Callers must serialize erase calls per device.
package atatrim

import (
	"time"

	"github.com/ataio/go-atatrim/internal/atapi"
)

// Protocol selects the ATA transport protocol used for a pass-through
// command's data phase.
type Protocol uint8

const (
	// ProtocolNonData issues the command without a data phase.
	ProtocolNonData Protocol = iota
	// ProtocolPIODataIn transfers data from the device to the host.
	ProtocolPIODataIn
	// ProtocolPIODataOut transfers data from the host to the device.
	ProtocolPIODataOut
)

// Addr identifies one device behind an ATA pass-through transport: an HBA
// port and, when the device sits behind a port multiplier, its port there.
// PortMultiplierNone addresses a directly attached device.
type Addr struct {
	Port           uint16
	PortMultiplier uint16
}

// PortMultiplierNone is the port-multiplier value for directly attached devices.
const PortMultiplierNone = 0

// Packet describes one pass-through command: the ATA register values, the
// data-phase buffer and the round-trip timeout. Count is the sector-count
// register; for commands with a data phase it also bounds the transfer in
// 512-byte blocks. LBA48 marks 48-bit commands, whose count register is 16
// bits wide; transports must carry both count bytes for them.
type Packet struct {
	Command  uint8
	Features uint8
	Count    uint16
	Device   uint8
	Protocol Protocol
	LBA48    bool
	Data     []byte
	Timeout  time.Duration
}

// StatusBlock receives the device's ending register values. The dispatcher
// zeroes it before every command so no status leaks between batches.
type StatusBlock struct {
	Status uint8
	Error  uint8
	Count  uint16
}

// Reset clears the status block.
func (s *StatusBlock) Reset() {
	*s = StatusBlock{}
}

// Issuer is the narrow pass-through contract the pipeline depends on. An
// implementation issues one command synchronously, blocking until the device
// completes it or the packet timeout elapses, and fills in the status block.
type Issuer interface {
	PassThru(addr Addr, pkt *Packet, sb *StatusBlock) error

	// IOAlign returns the transport's required data-buffer alignment in
	// bytes; 0 or 1 means none.
	IOAlign() int
}

// Span is an inclusive LBA range. End must be >= Start.
type Span struct {
	Start uint64
	End   uint64
}

// Blocks returns the number of blocks the span covers. Only meaningful for
// valid spans.
func (s Span) Blocks() uint64 {
	return s.End - s.Start + 1
}

// deviceRegister builds the ATA device register for addr: the mandatory
// bits 7..5 plus the port-multiplier port shifted into the low nibble.
func deviceRegister(addr Addr) uint8 {
	return atapi.DeviceRegisterBase | uint8(addr.PortMultiplier)<<atapi.PortMultiplierShift
}
