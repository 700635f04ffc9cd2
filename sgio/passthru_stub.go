//go:build !linux

package sgio

import trim "github.com/ataio/go-atatrim"

func (d *Device) ataPassThru16(addr trim.Addr, pkt *trim.Packet, sb *trim.StatusBlock) error {
	return trim.NewError("ATA_PASS_THROUGH", trim.ErrCodeNotSupported,
		"SG_IO pass-through requires linux")
}
