// Package atapi holds the ATA command-set constants and wire formats used by
// the TRIM pipeline: IDENTIFY DEVICE field decoding and the DATA SET
// MANAGEMENT LBA range entry layout (ACS-2 §7.10, §4.18.3.2).
package atapi

import "time"

// ATA command opcodes and features.
const (
	// CmdIdentifyDevice is the IDENTIFY DEVICE command (PIO data-in, 512 bytes).
	CmdIdentifyDevice = 0xEC

	// CmdDataSetManagement is the DATA SET MANAGEMENT command.
	CmdDataSetManagement = 0x06

	// FeatureTrim selects the TRIM function of DATA SET MANAGEMENT.
	FeatureTrim = 0x01
)

// Device register layout.
const (
	// DeviceRegisterBase sets the obsolete-but-mandatory bits 7, 6 and 5 of
	// the device register.
	DeviceRegisterBase = 0xE0

	// PortMultiplierShift positions the port-multiplier port number within
	// the device register.
	PortMultiplierShift = 4
)

// Data layout constants.
const (
	// BlockSize is the fixed 512-byte block the DSM range payload is counted in.
	BlockSize = 512

	// IdentifyDataSize is the size of the IDENTIFY DEVICE response.
	IdentifyDataSize = 512

	// RangeEntrySize is the wire size of one LBA range entry.
	RangeEntrySize = 8

	// MaxBlocksPerRange is the largest run length one range entry can carry.
	MaxBlocksPerRange = 0xFFFF

	// MaxLBA is the largest logical block address expressible in the 48-bit
	// LBA field of a range entry.
	MaxLBA = 1<<48 - 1
)

// IDENTIFY DEVICE word indexes.
const (
	// wordMaxDSMBlocks is word 105: maximum number of 512-byte blocks of
	// range entries per DATA SET MANAGEMENT command.
	wordMaxDSMBlocks = 105

	// wordDSMSupport is word 169: DATA SET MANAGEMENT support flags.
	wordDSMSupport = 169

	// trimSupportedBit is bit 0 of word 169.
	trimSupportedBit = 0x0001
)

// CommandTimeout bounds every pass-through round trip, identify and
// deallocate alike.
const CommandTimeout = 3 * time.Second
