// Package blockbuf allocates the range-list payload buffers handed to the
// pass-through transport. Buffers are zero-filled, optionally aligned for
// issuers that DMA the payload directly, and owned by exactly one erase call.
package blockbuf

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/ncw/directio"
)

// MaxBufferBytes caps a single allocation. A full 48-bit span packs into
// well under this; anything larger indicates a caller bug.
const MaxBufferBytes = 64 << 20

var (
	// ErrInvalidSize is returned for zero or negative allocation requests.
	ErrInvalidSize = errors.New("blockbuf: allocation size must be positive")

	// ErrTooLarge is returned for allocation requests above MaxBufferBytes.
	ErrTooLarge = errors.New("blockbuf: allocation exceeds maximum buffer size")

	// ErrBadAlignment is returned for alignments that are not powers of two.
	ErrBadAlignment = errors.New("blockbuf: alignment must be a power of two")
)

// Buffer is a single-owner payload buffer. Release returns it to the
// allocator; the guard makes release observable and idempotent so every
// exit path of an erase call can be checked.
type Buffer struct {
	data     []byte
	released bool
}

// Alloc returns a zero-filled buffer of size bytes whose base address is a
// multiple of align. align values of 0 or 1 mean no alignment requirement.
func Alloc(size, align int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("blockbuf: %d bytes: %w", size, ErrInvalidSize)
	}
	if size > MaxBufferBytes {
		return nil, fmt.Errorf("blockbuf: %d bytes: %w", size, ErrTooLarge)
	}
	if align < 0 || align&(align-1) != 0 {
		return nil, fmt.Errorf("blockbuf: align %d: %w", align, ErrBadAlignment)
	}

	if align <= 1 {
		return &Buffer{data: make([]byte, size)}, nil
	}

	if align <= directio.AlignSize {
		// directio blocks are aligned to AlignSize, which satisfies any
		// smaller power-of-two alignment.
		return &Buffer{data: directio.AlignedBlock(size)}, nil
	}

	raw := make([]byte, size+align)
	off := 0
	if rem := addressOf(raw) % uintptr(align); rem != 0 {
		off = align - int(rem)
	}
	return &Buffer{data: raw[off : off+size : off+size]}, nil
}

// Bytes returns the backing slice. It must not be used after Release.
func (b *Buffer) Bytes() []byte {
	if b.released {
		return nil
	}
	return b.data
}

// Len returns the buffer size in bytes, 0 once released.
func (b *Buffer) Len() int {
	return len(b.Bytes())
}

// Release drops the buffer. Further calls are no-ops.
func (b *Buffer) Release() {
	b.released = true
	b.data = nil
}

// Released reports whether Release has been called.
func (b *Buffer) Released() bool {
	return b.released
}

func addressOf(b []byte) uintptr {
	return uintptr(unsafe.Pointer(&b[0]))
}
