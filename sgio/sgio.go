// Package sgio implements the atatrim pass-through issuer on top of the
// Linux SG_IO ioctl, wrapping each ATA command in a SAT ATA PASS-THROUGH (16)
// CDB. The kernel's SCSI generic layer routes the command to the device the
// opened node names, so the pass-through address carried by the packet is
// informational here.
package sgio

import (
	"os"

	trim "github.com/ataio/go-atatrim"
)

// ioAlign is the alignment advertised for data-phase buffers. SG_IO itself
// copies through the kernel, but page-aligned payloads keep HBAs that DMA
// directly happy.
const ioAlign = 4096

// Device is one open SCSI-generic device node acting as an ATA pass-through
// issuer.
type Device struct {
	f    *os.File
	path string
}

// Open opens the device node (e.g. /dev/sda or /dev/sg0) for pass-through.
func Open(path string) (*Device, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, trim.WrapError("OPEN_DEVICE", err)
	}
	return &Device{f: f, path: path}, nil
}

// Path returns the device node this issuer was opened on.
func (d *Device) Path() string {
	return d.path
}

// Close releases the device node.
func (d *Device) Close() error {
	return d.f.Close()
}

// IOAlign implements trim.Issuer
func (d *Device) IOAlign() int {
	return ioAlign
}

// PassThru implements trim.Issuer: one synchronous ATA PASS-THROUGH (16)
// round trip, blocking until the device completes or the packet timeout
// elapses.
func (d *Device) PassThru(addr trim.Addr, pkt *trim.Packet, sb *trim.StatusBlock) error {
	return d.ataPassThru16(addr, pkt, sb)
}

var _ trim.Issuer = (*Device)(nil)
