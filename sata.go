package atatrim

import (
	"errors"
	"fmt"

	"github.com/ataio/go-atatrim/internal/atapi"
	"github.com/ataio/go-atatrim/internal/blockbuf"
	"github.com/ataio/go-atatrim/internal/logging"
)

func init() {
	Register(NewSATA())
}

// SATA is the storage backend for SATA-attached devices reached through an
// ATA pass-through issuer. The zero value is not usable; construct with
// NewSATA. One instance is registered at init, further instances only exist
// so callers can attach their own logger or observer.
type SATA struct {
	logger   *logging.Logger
	observer Observer
}

// NewSATA creates a SATA backend with default logging and no metrics.
func NewSATA() *SATA {
	return &SATA{
		logger:   logging.Default(),
		observer: NoopObserver{},
	}
}

// SetLogger replaces the backend's logger.
func (s *SATA) SetLogger(logger *logging.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// SetObserver replaces the backend's command observer.
func (s *SATA) SetObserver(obs Observer) {
	if obs != nil {
		s.observer = obs
	}
}

// Name implements Backend
func (s *SATA) Name() string {
	return "SATA"
}

// Matches implements Backend: a path belongs to this class when it carries a
// well-formed SATA messaging segment.
func (s *SATA) Matches(p Path) bool {
	_, ok := SATAAddrFromPath(p)
	return ok
}

// CheckLogicalUnit implements Backend. This backend serves only the primary
// user-data unit; ATA exposes no auxiliary logical units.
func (s *SATA) CheckLogicalUnit(p Path, lu LogicalUnit) error {
	if lu == LogicalUnitUser {
		return nil
	}
	return NewError("CHECK_LOGICAL_UNIT", ErrCodeNotSupported,
		fmt.Sprintf("logical unit %d not served by SATA backend", lu))
}

// EraseBlocks implements Backend. One call walks
// resolve -> probe -> build -> dispatch, each stage exactly once, no
// retries. A negative probe ends the call with ErrCodeNotSupported before
// any deallocate command is constructed.
func (s *SATA) EraseBlocks(dev *Device, span Span) error {
	// Resolve
	if dev == nil || dev.Issuer == nil {
		return NewError("ERASE_BLOCKS", ErrCodeInvalidParameters, "nil device or issuer")
	}
	addr, ok := SATAAddrFromPath(dev.Path)
	if !ok {
		return NewError("ERASE_BLOCKS", ErrCodeDeviceNotFound,
			"device path has no SATA segment")
	}
	log := s.logger.WithPort(int(addr.Port))

	// Probe; capability is never cached across calls.
	capa, err := probeTrim(dev.Issuer, addr, log, s.observer)
	if err != nil {
		return err
	}
	if !capa.Supported {
		return NewPortError("ERASE_BLOCKS", int(addr.Port), ErrCodeNotSupported,
			"device does not support DATA SET MANAGEMENT / TRIM")
	}

	// Build
	entries, err := atapi.BuildRangeList(span.Start, span.End)
	if err != nil {
		if errors.Is(err, atapi.ErrInvertedSpan) || errors.Is(err, atapi.ErrLBAOverflow) {
			e := NewPortError("BUILD_RANGES", int(addr.Port), ErrCodeInvalidParameters, err.Error())
			e.Inner = err
			return e
		}
		return WrapError("BUILD_RANGES", err)
	}

	nrBlocks := atapi.RangeListBlocks(len(entries))
	buf, err := blockbuf.Alloc(nrBlocks*atapi.BlockSize, dev.Issuer.IOAlign())
	if err != nil {
		e := NewPortError("BUILD_RANGES", int(addr.Port), ErrCodeAllocationFailure, err.Error())
		e.Inner = err
		return e
	}
	if err := atapi.PackRangeList(buf.Bytes(), entries); err != nil {
		buf.Release()
		e := NewPortError("BUILD_RANGES", int(addr.Port), ErrCodeAllocationFailure, err.Error())
		e.Inner = err
		return e
	}

	log.Debug("dispatching TRIM range list",
		"start", span.Start,
		"end", span.End,
		"ranges", len(entries),
		"payload_blocks", nrBlocks,
		"max_blocks_per_cmd", capa.MaxBlocks)

	// Dispatch; dispatchTrim owns the buffer from here.
	return dispatchTrim(dev.Issuer, addr, capa, buf, log, s.observer)
}

var _ Backend = (*SATA)(nil)
