package atapi

import (
	"encoding/binary"
	"errors"
)

var (
	// ErrInvertedSpan is returned when a span ends before it starts.
	ErrInvertedSpan = errors.New("atapi: span end precedes start")

	// ErrLBAOverflow is returned when a span reaches beyond 48-bit addressing.
	ErrLBAOverflow = errors.New("atapi: LBA exceeds 48-bit addressing")

	// ErrShortBuffer is returned when a destination buffer cannot hold the
	// encoded range list.
	ErrShortBuffer = errors.New("atapi: buffer too small for range list")
)

// RangeEntry is one DSM LBA range: a 48-bit starting LBA and a run length of
// 1..65535 blocks. On the wire it packs into 8 bytes.
type RangeEntry struct {
	LBA   uint64
	Count uint16
}

// PutRangeEntry encodes e into the first 8 bytes of b: 48-bit LBA
// little-endian in bytes 0..5, 16-bit count in bytes 6..7.
func PutRangeEntry(b []byte, e RangeEntry) {
	_ = b[RangeEntrySize-1]
	binary.LittleEndian.PutUint32(b[0:4], uint32(e.LBA))
	binary.LittleEndian.PutUint16(b[4:6], uint16(e.LBA>>32))
	binary.LittleEndian.PutUint16(b[6:8], e.Count)
}

// GetRangeEntry decodes one range entry from the first 8 bytes of b.
func GetRangeEntry(b []byte) RangeEntry {
	_ = b[RangeEntrySize-1]
	lba := uint64(binary.LittleEndian.Uint32(b[0:4])) |
		uint64(binary.LittleEndian.Uint16(b[4:6]))<<32
	return RangeEntry{
		LBA:   lba,
		Count: binary.LittleEndian.Uint16(b[6:8]),
	}
}

// BuildRangeList converts the inclusive LBA span [start, end] into range
// entries, walking the span in strides of at most 65535 blocks. The result
// is deterministic: entries ascend by LBA, are contiguous, and their counts
// sum to end-start+1.
func BuildRangeList(start, end uint64) ([]RangeEntry, error) {
	if end < start {
		return nil, ErrInvertedSpan
	}
	if end > MaxLBA {
		return nil, ErrLBAOverflow
	}

	entries := make([]RangeEntry, 0, rangeCount(start, end))
	for cur := start; ; cur += MaxBlocksPerRange {
		left := end - cur + 1
		if left > MaxBlocksPerRange {
			left = MaxBlocksPerRange
		}
		entries = append(entries, RangeEntry{LBA: cur, Count: uint16(left)})
		if end-cur < MaxBlocksPerRange {
			break
		}
	}
	return entries, nil
}

// rangeCount is ceil((end-start+1) / MaxBlocksPerRange).
func rangeCount(start, end uint64) uint64 {
	blocks := end - start + 1
	n := blocks / MaxBlocksPerRange
	if blocks%MaxBlocksPerRange != 0 {
		n++
	}
	return n
}

// RangeListBlocks returns the number of 512-byte payload blocks needed to
// carry n range entries: the smallest block multiple that holds them all.
func RangeListBlocks(n int) int {
	bytes := n * RangeEntrySize
	blocks := bytes / BlockSize
	if bytes%BlockSize != 0 {
		blocks++
	}
	return blocks
}

// PackRangeList encodes entries contiguously into dst. Tail bytes past the
// last entry are left untouched; callers hand in zeroed buffers. dst must be
// at least len(entries)*RangeEntrySize bytes.
func PackRangeList(dst []byte, entries []RangeEntry) error {
	if len(dst) < len(entries)*RangeEntrySize {
		return ErrShortBuffer
	}
	for i, e := range entries {
		PutRangeEntry(dst[i*RangeEntrySize:], e)
	}
	return nil
}
