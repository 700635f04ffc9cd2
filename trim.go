package atatrim

import (
	"github.com/ataio/go-atatrim/internal/atapi"
	"github.com/ataio/go-atatrim/internal/blockbuf"
	"github.com/ataio/go-atatrim/internal/logging"
)

// dispatchTrim issues the packed range list in batches of at most
// cap.MaxBlocks payload blocks per DATA SET MANAGEMENT command. It takes
// ownership of buf and releases it on every return path. Chunks already
// issued when a later chunk fails are not rolled back; deallocation is
// idempotent and advisory, so a partially trimmed span is an accepted
// outcome of a failed erase.
func dispatchTrim(is Issuer, addr Addr, capa Capability, buf *blockbuf.Buffer, log *logging.Logger, obs Observer) error {
	defer buf.Release()

	if capa.MaxBlocks == 0 {
		return NewPortError("DSM_TRIM", int(addr.Port), ErrCodeInvalidParameters,
			"zero max blocks per command")
	}

	data := buf.Bytes()
	total := len(data) / atapi.BlockSize
	device := deviceRegister(addr)

	var sb StatusBlock
	for issued := 0; issued < total; {
		count := total - issued
		if count > int(capa.MaxBlocks) {
			count = int(capa.MaxBlocks)
		}

		pkt := &Packet{
			Command:  atapi.CmdDataSetManagement,
			Features: atapi.FeatureTrim,
			Count:    uint16(count),
			Device:   device,
			Protocol: ProtocolPIODataOut,
			LBA48:    true,
			Data:     data[issued*atapi.BlockSize : (issued+count)*atapi.BlockSize],
			Timeout:  atapi.CommandTimeout,
		}

		sb.Reset()
		err := is.PassThru(addr, pkt, &sb)
		obs.ObserveTrim(count, err)
		if err != nil {
			log.WithError(err).Error("DATA SET MANAGEMENT command failed",
				"port", addr.Port,
				"issued_blocks", issued,
				"chunk_blocks", count)
			werr := WrapError("DSM_TRIM", err)
			werr.Port = int(addr.Port)
			return werr
		}

		issued += count
	}

	return nil
}
