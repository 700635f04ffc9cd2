package atatrim

import (
	"github.com/ataio/go-atatrim/internal/atapi"
	"github.com/ataio/go-atatrim/internal/logging"
)

// Capability is the outcome of one TRIM capability probe. MaxBlocks is the
// number of 512-byte blocks of range entries the device accepts per
// DATA SET MANAGEMENT command; it is only meaningful when Supported is true.
type Capability struct {
	Supported bool
	MaxBlocks uint16
}

// ProbeTrim issues one IDENTIFY DEVICE command and reports whether the
// device can bulk-deallocate. The probe is advisory: a failed round trip is
// reported as unsupported, never as a hard error. Both the TRIM capability
// bit and a non-zero per-command block limit must be present. Nothing is
// cached; callers re-probe on every erase so hot-plugged or re-enumerated
// devices are never judged by stale capability data.
func ProbeTrim(is Issuer, addr Addr) (Capability, error) {
	return probeTrim(is, addr, logging.Default(), NoopObserver{})
}

func probeTrim(is Issuer, addr Addr, log *logging.Logger, obs Observer) (Capability, error) {
	if is == nil {
		return Capability{}, NewError("IDENTIFY_DEVICE", ErrCodeInvalidParameters, "nil issuer")
	}

	data := make([]byte, atapi.IdentifyDataSize)
	pkt := &Packet{
		Command:  atapi.CmdIdentifyDevice,
		Count:    1,
		Device:   deviceRegister(addr),
		Protocol: ProtocolPIODataIn,
		Data:     data,
		Timeout:  atapi.CommandTimeout,
	}

	var sb StatusBlock
	err := is.PassThru(addr, pkt, &sb)
	obs.ObserveIdentify(err)
	if err != nil {
		log.WithError(err).Debug("identify round trip failed, treating TRIM as unsupported",
			"port", addr.Port)
		return Capability{}, nil
	}

	ident := atapi.IdentifyData(data)
	if !ident.TrimSupported() || ident.MaxDSMBlocks() == 0 {
		log.Debug("device does not support DATA SET MANAGEMENT / TRIM",
			"port", addr.Port,
			"trim_bit", ident.TrimSupported(),
			"max_dsm_blocks", ident.MaxDSMBlocks())
		return Capability{}, nil
	}

	return Capability{Supported: true, MaxBlocks: ident.MaxDSMBlocks()}, nil
}
