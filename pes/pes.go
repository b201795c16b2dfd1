/*
NAME
  pes.go - encoding and decoding of PES packet headers.

DESCRIPTION
  See Readme.md

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pes provides encoding and decoding of PES (packetized elementary
// stream) packet headers, as wrapped around H.264/H.265 access units.
package pes

import (
	"github.com/Comcast/gots/v2"

	"github.com/ausocean/mts/bits"
	"github.com/ausocean/mts/errs"
)

// VideoStreamID is the PES stream_id used for a single video elementary
// stream, per ISO/IEC 13818-1 table 2-18 (0b1110_xxxx, stream number 0).
// Note this is distinct from the stream_type values in StreamTypeH264 /
// StreamTypeH265: those identify the elementary stream's coding in the PMT,
// not the PES stream_id, which is fixed for a single video stream.
const VideoStreamID = 0xE0

// PTS/DTS indicator values for the PDI field.
const (
	PDINone      = 0x0
	PDIForbidden = 0x1
	PDIPTSOnly   = 0x2
	PDIPTSAndDTS = 0x3
)

/*
													PES Packet Formatting
============================================================================
| octet no | bit 0 | bit 1 | bit 2 | bit 3 | bit 4 | bit 5 | bit 6 | bit 7 |
============================================================================
| octet 0  | 0x00                                                          |
----------------------------------------------------------------------------
| octet 1  | 0x00                                                          |
----------------------------------------------------------------------------
| octet 2  | 0x01                                                          |
----------------------------------------------------------------------------
| octet 3  | Stream ID (0xE0 for video)                                    |
----------------------------------------------------------------------------
| octet 4  | PES Packet Length (no of bytes in packet after this field)    |
----------------------------------------------------------------------------
| octet 5  | PES Length cont.                                              |
----------------------------------------------------------------------------
| octet 6  | 0x2           |  SC           | Prior | DAI   | Copyr | Copy  |
----------------------------------------------------------------------------
| octet 7  | PDI           | ESCRF | ESRF  | DSMTMF| ACIF  | CRCF  | EF    |
----------------------------------------------------------------------------
| octet 8  | PES Header Length                                             |
----------------------------------------------------------------------------
| optional | PTS / DTS (determined by PDI)                                 |
----------------------------------------------------------------------------
| optional | ESCR (6 bytes, present iff ESCRF)                            |
----------------------------------------------------------------------------
*/

// Header is a PES packet header, sans the access unit data that follows it.
// Of the six optional-header flag bits (ESCRF, ES_rateF, DSM_trick_modeF,
// additional_copy_infoF, CRCF, extensionF) only ESCRF is supported; the
// other five must be zero on decode, per the flags byte layout above.
type Header struct {
	StreamID  byte
	Length    uint16 // 0 means unbounded, only legal for video.
	SC        byte   // Scrambling control; must be 0.
	Priority  bool
	DAI       bool // Data alignment indicator.
	Copyright bool
	Original  bool
	PDI       byte // PTS/DTS indicator.
	PTS       uint64
	DTS       uint64
	ESCRFlag  bool
	ESCR      uint64 // 33-bit base.
	ESCRExt   uint16 // 9-bit extension.
}

// headerLen is the length of the fixed start-code-through-PES-header-length
// prefix (octets 0-8).
const headerLen = 9

// Bytes encodes h and appends it to buf, returning the extended slice. Only
// PDINone/PDIPTSOnly/PDIPTSAndDTS are supported; PDIForbidden is rejected.
func (h Header) Bytes(buf []byte) ([]byte, error) {
	if h.PDI == PDIForbidden {
		return nil, errs.ErrGeneric
	}

	var optLen byte
	switch h.PDI {
	case PDIPTSOnly:
		optLen = 5
	case PDIPTSAndDTS:
		optLen = 10
	}
	if h.ESCRFlag {
		optLen += 6
	}

	buf = append(buf, []byte{
		0x00, 0x00, 0x01,
		h.StreamID,
		byte(h.Length >> 8), byte(h.Length),
		0x80 | h.SC<<4 | boolByte(h.Priority)<<3 | boolByte(h.DAI)<<2 |
			boolByte(h.Copyright)<<1 | boolByte(h.Original),
		h.PDI<<6 | boolByte(h.ESCRFlag)<<5,
		optLen,
	}...)

	switch h.PDI {
	case PDIPTSOnly:
		if h.PTS > bits.MaxPTS {
			return nil, &errs.ValueTooLargeError{Value: h.PTS}
		}
		ptsIdx := len(buf)
		buf = append(buf, make([]byte, 5)...)
		gots.InsertPTS(buf[ptsIdx:], h.PTS)
	case PDIPTSAndDTS:
		ptsDTS, err := bits.EncodePTSDTS(bits.TagPTSWithDTS, h.PTS)
		if err != nil {
			return nil, err
		}
		buf = append(buf, ptsDTS[:]...)
		dts, err := bits.EncodePTSDTS(bits.TagDTS, h.DTS)
		if err != nil {
			return nil, err
		}
		buf = append(buf, dts[:]...)
	}
	if h.ESCRFlag {
		escr, err := bits.EncodeClock(h.ESCR, h.ESCRExt)
		if err != nil {
			return nil, err
		}
		buf = append(buf, escr[:]...)
	}
	return buf, nil
}

// Decode parses a PES header from the start of b, returning the header and
// the number of bytes consumed (the fixed prefix plus PES_header_data).
// Non-zero scrambling control, or any reserved flag bit other than PTS/
// DTS/ESCR (ES_rate, DSM_trick_mode, additional_copy_info, CRC, extension)
// set, is rejected.
func Decode(b []byte) (Header, int, error) {
	var h Header
	if len(b) < headerLen {
		return h, 0, errs.ErrGeneric
	}
	if b[0] != 0x00 || b[1] != 0x00 || b[2] != 0x01 {
		return h, 0, errs.ErrGeneric
	}
	h.StreamID = b[3]
	h.Length = uint16(bits.Uint(b[4:6]))

	if b[6]&0xC0 != 0x80 {
		return h, 0, errs.ErrGeneric
	}
	h.SC = (b[6] >> 4) & 0x03
	if h.SC != 0 {
		return h, 0, errs.ErrGeneric
	}
	h.Priority = b[6]&0x08 != 0
	h.DAI = b[6]&0x04 != 0
	h.Copyright = b[6]&0x02 != 0
	h.Original = b[6]&0x01 != 0

	h.PDI = (b[7] >> 6) & 0x03
	if h.PDI == PDIForbidden {
		return h, 0, errs.ErrGeneric
	}
	h.ESCRFlag = b[7]&0x20 != 0
	if b[7]&0x1F != 0 {
		// ES_rate, DSM_trick_mode, additional_copy_info, CRC and extension
		// flags are all unsupported and must be unset.
		return h, 0, errs.ErrGeneric
	}

	headerDataLen := int(b[8])
	if len(b) < headerLen+headerDataLen {
		return h, 0, errs.ErrGeneric
	}
	opt := b[headerLen : headerLen+headerDataLen]

	switch h.PDI {
	case PDIPTSOnly:
		if len(opt) < 5 {
			return h, 0, errs.ErrGeneric
		}
		pts, err := bits.DecodePTSDTS(opt[:5], bits.TagPTSOnly)
		if err != nil {
			return h, 0, err
		}
		h.PTS = pts
		opt = opt[5:]
	case PDIPTSAndDTS:
		if len(opt) < 10 {
			return h, 0, errs.ErrGeneric
		}
		pts, err := bits.DecodePTSDTS(opt[:5], bits.TagPTSWithDTS)
		if err != nil {
			return h, 0, err
		}
		dts, err := bits.DecodePTSDTS(opt[5:10], bits.TagDTS)
		if err != nil {
			return h, 0, err
		}
		h.PTS = pts
		h.DTS = dts
		opt = opt[10:]
	}
	if h.ESCRFlag {
		if len(opt) < 6 {
			return h, 0, errs.ErrGeneric
		}
		h.ESCR, h.ESCRExt = bits.DecodeClock(opt[:6])
	}
	return h, headerLen + headerDataLen, nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
