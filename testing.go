package atatrim

import (
	"encoding/binary"
	"sync"

	"github.com/ataio/go-atatrim/internal/atapi"
)

// IssuedCommand records one pass-through round trip seen by MockIssuer.
type IssuedCommand struct {
	Addr     Addr
	Command  uint8
	Features uint8
	Count    uint16
	Device   uint8
	Protocol Protocol
	LBA48    bool
	Data     []byte // copy of the data-phase payload (out-direction only)
	StatusIn StatusBlock
}

// MockIssuer is a scriptable pass-through transport for testing code built
// on the Issuer interface. It records every command for verification.
type MockIssuer struct {
	mu sync.Mutex

	// Align is returned by IOAlign.
	Align int

	// Identify is copied into the data buffer of IDENTIFY DEVICE commands.
	Identify []byte

	// IdentifyErr fails IDENTIFY DEVICE round trips when non-nil.
	IdentifyErr error

	// FailTrimAt fails the n-th (1-based) DATA SET MANAGEMENT command with
	// TrimErr. Zero never fails.
	FailTrimAt int

	// TrimErr is the error returned by a scripted TRIM failure.
	TrimErr error

	commands []IssuedCommand
	trimSeen int
}

// NewMockIssuer returns a mock whose device supports TRIM with the given
// per-command block limit. maxBlocks of 0 builds an identify payload with
// the capability bit set but no block limit, i.e. an unsupported device.
func NewMockIssuer(maxBlocks uint16) *MockIssuer {
	return &MockIssuer{Identify: IdentifyWithTrim(maxBlocks)}
}

// IdentifyWithTrim builds a 512-byte IDENTIFY DEVICE payload advertising
// TRIM support with the given per-command block limit.
func IdentifyWithTrim(maxBlocks uint16) []byte {
	data := make([]byte, atapi.IdentifyDataSize)
	binary.LittleEndian.PutUint16(data[169*2:], 0x0001)
	binary.LittleEndian.PutUint16(data[105*2:], maxBlocks)
	return data
}

// PassThru implements Issuer
func (m *MockIssuer) PassThru(addr Addr, pkt *Packet, sb *StatusBlock) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := IssuedCommand{
		Addr:     addr,
		Command:  pkt.Command,
		Features: pkt.Features,
		Count:    pkt.Count,
		Device:   pkt.Device,
		Protocol: pkt.Protocol,
		LBA48:    pkt.LBA48,
		StatusIn: *sb,
	}
	if pkt.Protocol == ProtocolPIODataOut {
		rec.Data = append([]byte(nil), pkt.Data...)
	}
	m.commands = append(m.commands, rec)

	// Leave a non-zero ending status behind; callers are expected to reset
	// the status block before reusing it.
	sb.Status = 0x50
	sb.Count = pkt.Count

	switch pkt.Command {
	case atapi.CmdIdentifyDevice:
		if m.IdentifyErr != nil {
			return m.IdentifyErr
		}
		copy(pkt.Data, m.Identify)
		return nil

	case atapi.CmdDataSetManagement:
		m.trimSeen++
		if m.FailTrimAt > 0 && m.trimSeen == m.FailTrimAt {
			return m.TrimErr
		}
		return nil
	}

	return nil
}

// IOAlign implements Issuer
func (m *MockIssuer) IOAlign() int {
	return m.Align
}

// Commands returns a copy of every recorded command.
func (m *MockIssuer) Commands() []IssuedCommand {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]IssuedCommand, len(m.commands))
	copy(out, m.commands)
	return out
}

// TrimCommands returns only the recorded DATA SET MANAGEMENT commands.
func (m *MockIssuer) TrimCommands() []IssuedCommand {
	var out []IssuedCommand
	for _, c := range m.Commands() {
		if c.Command == atapi.CmdDataSetManagement {
			out = append(out, c)
		}
	}
	return out
}

var _ Issuer = (*MockIssuer)(nil)
