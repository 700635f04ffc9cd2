package atatrim

// LogicalUnit names a device-exposed sub-target within one physical device.
type LogicalUnit int

const (
	// LogicalUnitUser is the primary user-data unit.
	LogicalUnitUser LogicalUnit = iota
	// LogicalUnitFactory is the auxiliary factory/recovery unit.
	LogicalUnitFactory
)

// Device is one resolved storage unit: the classification path that named it
// and the pass-through issuer that reaches it. Immutable for the lifetime of
// an erase call.
type Device struct {
	Path   Path
	Issuer Issuer
}

// Backend is the uniform storage-backend contract a device class exposes to
// the driver-selection layer: classify a handle, vet the logical unit, and
// erase a block span end to end.
type Backend interface {
	// Name returns the human-readable device-class label.
	Name() string

	// Matches reports whether the path belongs to this device class.
	Matches(p Path) bool

	// CheckLogicalUnit reports whether this class serves the requested
	// logical unit on the given device.
	CheckLogicalUnit(p Path, lu LogicalUnit) error

	// EraseBlocks deallocates the inclusive span on the device. A device
	// that cannot TRIM yields ErrCodeNotSupported without any deallocate
	// command being issued; the caller decides whether that is fatal.
	EraseBlocks(dev *Device, span Span) error
}
