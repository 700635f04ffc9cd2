package atatrim

import "github.com/ataio/go-atatrim/internal/atapi"

// Re-export constants for public API
const (
	// BlockSize is the 512-byte unit range-list payloads are counted in.
	BlockSize = atapi.BlockSize

	// MaxBlocksPerRange is the largest run length one range entry can carry.
	MaxBlocksPerRange = atapi.MaxBlocksPerRange

	// MaxLBA is the largest address expressible in a range entry.
	MaxLBA = atapi.MaxLBA

	// CommandTimeout bounds every identify and deallocate round trip.
	CommandTimeout = atapi.CommandTimeout
)
