/*
NAME
  adaptation.go - MPEG-TS adaptation field encoding and decoding.

DESCRIPTION
  See Readme.md

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mts

import (
	"github.com/ausocean/mts/bits"
	"github.com/ausocean/mts/errs"
)

/*
AdaptationField encapsulates the fields of an MPEG-TS adaptation field.
Below is the formatting for reference, following on from octet 4 of the
enclosing packet (the adaptation_field_length byte).

============================================================================
| octet no | bit 0 | bit 1 | bit 2 | bit 3 | bit 4 | bit 5 | bit 6 | bit 7 |
============================================================================
| octet 0  | AFL                                                           |
----------------------------------------------------------------------------
| octet 1  | DI    | RAI   | ESPI  | PCRF  | OPCRF | SPF   | TPDF  | AFEF  |
----------------------------------------------------------------------------
| optional | PCR (48 bits => 6 bytes)                                      |
----------------------------------------------------------------------------
| optional | OPCR (48 bits => 6 bytes)                                     |
----------------------------------------------------------------------------
| optional | SC (splice countdown)                                        |
----------------------------------------------------------------------------
| optional | TPDL, then TPD (variable length)                             |
----------------------------------------------------------------------------
| optional | adaptation extension length, then extension (variable length)|
----------------------------------------------------------------------------
| optional | stuffing bytes (0xFF, variable length)                       |
----------------------------------------------------------------------------
*/
type AdaptationField struct {
	Discontinuity   bool
	RandomAccess    bool
	ESPriority      bool
	PCRFlag         bool
	PCR             uint64 // 33-bit base, see bits.DecodeClock/EncodeClock.
	PCRExt          uint16 // 9-bit extension.
	OPCRFlag        bool
	OPCR            uint64
	OPCRExt         uint16
	SpliceFlag      bool
	SpliceCountdown int8
	PrivateData     []byte // non-nil (even if empty) enables TPDF.
	Extension       []byte // non-nil (even if empty) enables AFEF.
}

// body returns the adaptation field's content following the length byte:
// the flags byte and any optional fields, not including stuffing.
func (af AdaptationField) body() ([]byte, error) {
	flags := boolByte(af.Discontinuity)<<7 | boolByte(af.RandomAccess)<<6 | boolByte(af.ESPriority)<<5 |
		boolByte(af.PCRFlag)<<4 | boolByte(af.OPCRFlag)<<3 | boolByte(af.SpliceFlag)<<2 |
		boolByte(af.PrivateData != nil)<<1 | boolByte(af.Extension != nil)

	out := []byte{flags}
	if af.PCRFlag {
		b, err := bits.EncodeClock(af.PCR, af.PCRExt)
		if err != nil {
			return nil, err
		}
		out = append(out, b[:]...)
	}
	if af.OPCRFlag {
		b, err := bits.EncodeClock(af.OPCR, af.OPCRExt)
		if err != nil {
			return nil, err
		}
		out = append(out, b[:]...)
	}
	if af.SpliceFlag {
		out = append(out, byte(af.SpliceCountdown))
	}
	if af.PrivateData != nil {
		out = append(out, byte(len(af.PrivateData)))
		out = append(out, af.PrivateData...)
	}
	if af.Extension != nil {
		out = append(out, byte(len(af.Extension)))
		out = append(out, af.Extension...)
	}
	return out, nil
}

// Bytes encodes af as a complete adaptation field (length byte included) of
// exactly size bytes, padding any remaining room with 0xFF stuffing. As a
// special case, size == 1 always yields a bare {0x00} length byte (a
// flagless adaptation field used to consume exactly one byte of tail
// space), regardless of af's fields.
func (af AdaptationField) Bytes(size int) ([]byte, error) {
	if size == 1 {
		return []byte{0x00}, nil
	}
	body, err := af.body()
	if err != nil {
		return nil, err
	}
	if size < 1+len(body) {
		return nil, errs.ErrGeneric
	}
	out := make([]byte, size)
	out[0] = byte(size - 1)
	copy(out[1:], body)
	for i := 1 + len(body); i < size; i++ {
		out[i] = 0xFF
	}
	return out, nil
}

// DecodeAdaptationField parses an adaptation field (length byte included)
// from the start of b, returning the parsed field and the number of bytes
// consumed. Trailing stuffing bytes are skipped, not validated.
func DecodeAdaptationField(b []byte) (AdaptationField, int, error) {
	var af AdaptationField
	if len(b) < 1 {
		return af, 0, errs.ErrGeneric
	}
	afl := int(b[0])
	if afl == 0 {
		return af, 1, nil
	}
	if len(b) < 1+afl {
		return af, 0, errs.ErrGeneric
	}

	flags := b[1]
	af.Discontinuity = flags&0x80 != 0
	af.RandomAccess = flags&0x40 != 0
	af.ESPriority = flags&0x20 != 0
	af.PCRFlag = flags&0x10 != 0
	af.OPCRFlag = flags&0x08 != 0
	af.SpliceFlag = flags&0x04 != 0
	tpdf := flags&0x02 != 0
	afef := flags&0x01 != 0

	d := b[2 : 1+afl]
	if af.PCRFlag {
		if len(d) < 6 {
			return af, 0, errs.ErrGeneric
		}
		af.PCR, af.PCRExt = bits.DecodeClock(d[:6])
		d = d[6:]
	}
	if af.OPCRFlag {
		if len(d) < 6 {
			return af, 0, errs.ErrGeneric
		}
		af.OPCR, af.OPCRExt = bits.DecodeClock(d[:6])
		d = d[6:]
	}
	if af.SpliceFlag {
		if len(d) < 1 {
			return af, 0, errs.ErrGeneric
		}
		af.SpliceCountdown = int8(d[0])
		d = d[1:]
	}
	if tpdf {
		if len(d) < 1 {
			return af, 0, errs.ErrGeneric
		}
		n := int(d[0])
		d = d[1:]
		if len(d) < n {
			return af, 0, errs.ErrGeneric
		}
		af.PrivateData = append([]byte(nil), d[:n]...)
		d = d[n:]
	}
	if afef {
		if len(d) < 1 {
			return af, 0, errs.ErrGeneric
		}
		n := int(d[0])
		d = d[1:]
		if len(d) < n {
			return af, 0, errs.ErrGeneric
		}
		af.Extension = append([]byte(nil), d[:n]...)
	}
	return af, 1 + afl, nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
