package atapi

import (
	"bytes"
	"errors"
	"testing"
)

// Test the 8-byte wire layout: 48-bit LBA little-endian, 16-bit count.
func TestRangeEntryWireLayout(t *testing.T) {
	var buf [RangeEntrySize]byte
	PutRangeEntry(buf[:], RangeEntry{LBA: 0x0000BA9876543210, Count: 0x1234})

	want := []byte{0x10, 0x32, 0x54, 0x76, 0x98, 0xBA, 0x34, 0x12}
	if !bytes.Equal(buf[:], want) {
		t.Errorf("encoded entry = % x, want % x", buf[:], want)
	}
}

func TestRangeEntryRoundTrip(t *testing.T) {
	tests := []RangeEntry{
		{LBA: 0, Count: 1},
		{LBA: 1, Count: 0xFFFF},
		{LBA: MaxLBA, Count: 1},
		{LBA: 0x123456789ABC, Count: 42},
	}

	for _, e := range tests {
		var buf [RangeEntrySize]byte
		PutRangeEntry(buf[:], e)
		got := GetRangeEntry(buf[:])
		if got != e {
			t.Errorf("round trip = %+v, want %+v", got, e)
		}
	}
}

func TestBuildRangeListBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		start uint64
		end   uint64
		want  []RangeEntry
	}{
		{
			name:  "single block",
			start: 100,
			end:   100,
			want:  []RangeEntry{{LBA: 100, Count: 1}},
		},
		{
			name:  "exactly one full range",
			start: 0,
			end:   65534,
			want:  []RangeEntry{{LBA: 0, Count: 65535}},
		},
		{
			name:  "one block past a full range",
			start: 0,
			end:   65535,
			want:  []RangeEntry{{LBA: 0, Count: 65535}, {LBA: 65535, Count: 1}},
		},
		{
			name:  "exact multiple yields no short tail",
			start: 1000,
			end:   1000 + 2*65535 - 1,
			want:  []RangeEntry{{LBA: 1000, Count: 65535}, {LBA: 1000 + 65535, Count: 65535}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildRangeList(tt.start, tt.end)
			if err != nil {
				t.Fatalf("BuildRangeList failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d entries, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("entry %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// The descriptors must cover the span exactly: ascending, contiguous,
// non-overlapping, run lengths in [1, 65535], counts summing to the span.
func TestBuildRangeListProperties(t *testing.T) {
	spans := []struct{ start, end uint64 }{
		{0, 0},
		{5, 1 << 20},
		{12345, 12345 + 3*65535},
		{1 << 40, 1<<40 + 999999},
		{MaxLBA - 70000, MaxLBA},
	}

	for _, s := range spans {
		entries, err := BuildRangeList(s.start, s.end)
		if err != nil {
			t.Fatalf("BuildRangeList(%d, %d) failed: %v", s.start, s.end, err)
		}

		var sum uint64
		next := s.start
		for i, e := range entries {
			if e.Count == 0 {
				t.Errorf("span [%d,%d] entry %d has zero count", s.start, s.end, i)
			}
			if e.LBA != next {
				t.Errorf("span [%d,%d] entry %d starts at %d, want %d (gap or overlap)",
					s.start, s.end, i, e.LBA, next)
			}
			next = e.LBA + uint64(e.Count)
			sum += uint64(e.Count)
		}

		if want := s.end - s.start + 1; sum != want {
			t.Errorf("span [%d,%d] counts sum to %d, want %d", s.start, s.end, sum, want)
		}
	}
}

// Building twice for the same span must yield byte-identical output.
func TestBuildRangeListDeterministic(t *testing.T) {
	const start, end = 777, 777 + 5*65535 + 13

	a, err := BuildRangeList(start, end)
	if err != nil {
		t.Fatalf("BuildRangeList failed: %v", err)
	}
	b, err := BuildRangeList(start, end)
	if err != nil {
		t.Fatalf("BuildRangeList failed: %v", err)
	}

	bufA := make([]byte, RangeListBlocks(len(a))*BlockSize)
	bufB := make([]byte, RangeListBlocks(len(b))*BlockSize)
	if err := PackRangeList(bufA, a); err != nil {
		t.Fatalf("PackRangeList failed: %v", err)
	}
	if err := PackRangeList(bufB, b); err != nil {
		t.Fatalf("PackRangeList failed: %v", err)
	}

	if !bytes.Equal(bufA, bufB) {
		t.Error("two builds of the same span differ")
	}
}

func TestBuildRangeListRejectsInvertedSpan(t *testing.T) {
	_, err := BuildRangeList(10, 9)
	if !errors.Is(err, ErrInvertedSpan) {
		t.Errorf("BuildRangeList(10, 9) = %v, want ErrInvertedSpan", err)
	}
}

func TestBuildRangeListRejectsLBAOverflow(t *testing.T) {
	_, err := BuildRangeList(0, MaxLBA+1)
	if !errors.Is(err, ErrLBAOverflow) {
		t.Errorf("end beyond 48 bits = %v, want ErrLBAOverflow", err)
	}
}

func TestRangeListBlocks(t *testing.T) {
	tests := []struct {
		entries int
		blocks  int
	}{
		{1, 1},
		{64, 1},  // 64 entries fill one 512-byte block exactly
		{65, 2},
		{128, 2},
		{129, 3},
	}

	for _, tt := range tests {
		if got := RangeListBlocks(tt.entries); got != tt.blocks {
			t.Errorf("RangeListBlocks(%d) = %d, want %d", tt.entries, got, tt.blocks)
		}
	}
}

func TestPackRangeListShortBuffer(t *testing.T) {
	entries := []RangeEntry{{LBA: 0, Count: 1}, {LBA: 1, Count: 1}}
	err := PackRangeList(make([]byte, RangeEntrySize), entries)
	if !errors.Is(err, ErrShortBuffer) {
		t.Errorf("PackRangeList into short buffer = %v, want ErrShortBuffer", err)
	}
}

func TestPackRangeListLeavesZeroTail(t *testing.T) {
	entries, err := BuildRangeList(0, 10)
	if err != nil {
		t.Fatalf("BuildRangeList failed: %v", err)
	}

	buf := make([]byte, RangeListBlocks(len(entries))*BlockSize)
	if err := PackRangeList(buf, entries); err != nil {
		t.Fatalf("PackRangeList failed: %v", err)
	}

	for i := len(entries) * RangeEntrySize; i < len(buf); i++ {
		if buf[i] != 0 {
			t.Fatalf("tail byte %d = %#x, want 0", i, buf[i])
		}
	}
}
