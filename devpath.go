package atatrim

import "encoding/binary"

// SegmentType tags the class of one device-path segment. The set is closed:
// classification walks the tags, never the payloads of foreign segments.
type SegmentType uint8

const (
	SegmentHardware  SegmentType = 0x01
	SegmentACPI      SegmentType = 0x02
	SegmentMessaging SegmentType = 0x03
	SegmentMedia     SegmentType = 0x04
)

// SegmentSubType refines a SegmentType. Only messaging subtypes matter here.
type SegmentSubType uint8

const (
	SubTypeUSB  SegmentSubType = 0x05
	SubTypeSATA SegmentSubType = 0x12
	SubTypeNVMe SegmentSubType = 0x17
)

// Segment is one node of a device path: a kind tag plus the node's raw
// addressing payload. Payload layout is defined per (Type, SubType) pair.
type Segment struct {
	Type    SegmentType
	SubType SegmentSubType
	Data    []byte
}

// Path is an ordered sequence of segments from the platform root down to the
// device. It is an opaque handle to everything but the classification code.
type Path []Segment

// Find returns the first segment with the given type and subtype.
func (p Path) Find(t SegmentType, st SegmentSubType) (Segment, bool) {
	for _, seg := range p {
		if seg.Type == t && seg.SubType == st {
			return seg, true
		}
	}
	return Segment{}, false
}

// sataSegmentLen is the payload of a SATA messaging node: HBA port,
// port-multiplier port and LUN, each 16-bit little-endian.
const sataSegmentLen = 6

// SATASegment builds the messaging node addressing a SATA device.
func SATASegment(port, portMultiplier uint16) Segment {
	data := make([]byte, sataSegmentLen)
	binary.LittleEndian.PutUint16(data[0:2], port)
	binary.LittleEndian.PutUint16(data[2:4], portMultiplier)
	// bytes 4..5: LUN, always zero for ATA
	return Segment{Type: SegmentMessaging, SubType: SubTypeSATA, Data: data}
}

// SATAPath is a convenience for paths consisting of just the SATA node, the
// common case when a device handle is opened directly.
func SATAPath(port, portMultiplier uint16) Path {
	return Path{SATASegment(port, portMultiplier)}
}

// SATAAddrFromPath extracts the pass-through address from the path's SATA
// messaging segment. ok is false when the path holds no well-formed SATA
// node, i.e. the device is not of this class.
func SATAAddrFromPath(p Path) (Addr, bool) {
	seg, ok := p.Find(SegmentMessaging, SubTypeSATA)
	if !ok || len(seg.Data) < sataSegmentLen {
		return Addr{}, false
	}
	return Addr{
		Port:           binary.LittleEndian.Uint16(seg.Data[0:2]),
		PortMultiplier: binary.LittleEndian.Uint16(seg.Data[2:4]),
	}, true
}
