//go:build linux

package sgio

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	trim "github.com/ataio/go-atatrim"
)

const (
	sgIO = 0x2285

	sgInfoOKMask = 0x1
	sgInfoOK     = 0x0

	sgDxferNone    = -1
	sgDxferToDev   = -2
	sgDxferFromDev = -3

	// ATA PASS-THROUGH (16), SAT-5 §13.2.4
	scsiATAPassThru16 = 0x85

	// SAT protocol field values
	satProtoNonData    = 3
	satProtoPIODataIn  = 4
	satProtoPIODataOut = 5

	// satExtend is the EXTEND bit of CDB byte 1, set for 48-bit commands.
	satExtend = 0x01

	// senseATAReturn is the descriptor code of the ATA Status Return
	// descriptor within descriptor-format sense data.
	senseATAReturn = 0x09

	maxSenseLen = 32
)

// sgIOHdr mirrors struct sg_io_hdr from <scsi/sg.h> on 64-bit Linux.
type sgIOHdr struct {
	interfaceID    int32
	dxferDirection int32
	cmdLen         uint8
	mxSBLen        uint8
	iovecCount     uint16
	dxferLen       uint32
	dxferp         unsafe.Pointer
	cmdp           unsafe.Pointer
	sbp            unsafe.Pointer
	timeout        uint32 // milliseconds
	flags          uint32
	packID         int32
	usrPtr         unsafe.Pointer
	status         uint8
	maskedStatus   uint8
	msgStatus      uint8
	sbLenWr        uint8
	hostStatus     uint16
	driverStatus   uint16
	resid          int32
	duration       uint32
	info           uint32
}

// buildCDB16 maps a pass-through packet onto the ATA PASS-THROUGH (16) CDB
// and returns it with the matching SG_IO transfer direction.
func buildCDB16(pkt *trim.Packet) ([16]byte, int32) {
	var cdb [16]byte
	cdb[0] = scsiATAPassThru16
	if pkt.LBA48 {
		// EXTEND bit: without it the SATL transfers only count(7:0) and
		// a 16-bit sector count is truncated on the wire.
		cdb[1] = satExtend
	}

	var direction int32 = sgDxferNone
	switch pkt.Protocol {
	case trim.ProtocolPIODataIn:
		cdb[1] |= satProtoPIODataIn << 1
		// t_dir=1 (from device), byt_blok=1, t_length=2 (sector count field)
		cdb[2] = 0x0E
		direction = sgDxferFromDev
	case trim.ProtocolPIODataOut:
		cdb[1] |= satProtoPIODataOut << 1
		// t_dir=0 (to device), byt_blok=1, t_length=2
		cdb[2] = 0x06
		direction = sgDxferToDev
	default:
		cdb[1] |= satProtoNonData << 1
	}

	cdb[4] = pkt.Features
	cdb[5] = uint8(pkt.Count >> 8)
	cdb[6] = uint8(pkt.Count)
	cdb[13] = pkt.Device
	cdb[14] = pkt.Command

	return cdb, direction
}

func (d *Device) ataPassThru16(addr trim.Addr, pkt *trim.Packet, sb *trim.StatusBlock) error {
	cdb, direction := buildCDB16(pkt)

	sense := make([]byte, maxSenseLen)
	hdr := sgIOHdr{
		interfaceID:    'S',
		dxferDirection: direction,
		cmdLen:         uint8(len(cdb)),
		mxSBLen:        maxSenseLen,
		cmdp:           unsafe.Pointer(&cdb[0]),
		sbp:            unsafe.Pointer(&sense[0]),
		timeout:        uint32(pkt.Timeout.Milliseconds()),
	}
	if len(pkt.Data) > 0 {
		hdr.dxferLen = uint32(len(pkt.Data))
		hdr.dxferp = unsafe.Pointer(&pkt.Data[0])
	}

	_, _, errno := unix.Syscall(unix.SYS_IOCTL, d.f.Fd(), sgIO, uintptr(unsafe.Pointer(&hdr)))
	if errno != 0 {
		return trim.WrapError("ATA_PASS_THROUGH", errno)
	}

	if hdr.info&sgInfoOKMask != sgInfoOK {
		fillStatusBlock(sb, sense[:hdr.sbLenWr])
		e := trim.NewPortError("ATA_PASS_THROUGH", int(addr.Port), trim.ErrCodeTransportFailure,
			fmt.Sprintf("command %#02x failed: scsi status %#02x, host %#04x, driver %#04x, ata status %#02x error %#02x",
				pkt.Command, hdr.status, hdr.hostStatus, hdr.driverStatus, sb.Status, sb.Error))
		return e
	}

	return nil
}

// fillStatusBlock extracts the ATA ending registers from the ATA Status
// Return descriptor of descriptor-format sense data, when present.
func fillStatusBlock(sb *trim.StatusBlock, sense []byte) {
	// Descriptor format (0x72/0x73): descriptors start at byte 8.
	if len(sense) < 22 || sense[0]&0x7F != 0x72 && sense[0]&0x7F != 0x73 {
		return
	}
	if sense[8] != senseATAReturn || sense[9] < 0x0C {
		return
	}
	sb.Error = sense[11]
	sb.Count = uint16(sense[12])<<8 | uint16(sense[13])
	sb.Status = sense[21]
}
