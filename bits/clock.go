/*
NAME
  clock.go - PTS/DTS and PCR/ESCR/OPCR clock field codecs.

DESCRIPTION
  See Readme.md

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bits

import "github.com/ausocean/mts/errs"

// Tag values identifying which timestamp(s) a 5-byte PTS/DTS run encodes.
const (
	TagPTSOnly    = 0x2 // 0010: PTS only.
	TagPTSWithDTS = 0x3 // 0011: PTS, followed by a DTS run.
	TagDTS        = 0x1 // 0001: DTS (following a PTS run).
)

// MaxPTS is the largest value a 33-bit PTS/DTS can hold.
const MaxPTS = (1 << 33) - 1

// MaxClock is the largest value a 42-bit (33-bit base * 300 + 9-bit
// extension) PCR/OPCR/ESCR can hold.
const MaxClock = ((1 << 33) - 1) * 300 + 0x1FF

// EncodePTSDTS packs a 33-bit PTS or DTS value into 5 bytes, interleaved
// with the given 4-bit tag and the three mandatory marker bits.
func EncodePTSDTS(tag byte, v uint64) ([5]byte, error) {
	var out [5]byte
	if v > MaxPTS {
		return out, &errs.ValueTooLargeError{Value: v}
	}

	out[0] = tag<<4 | byte((v>>30)&0x7)<<1 | 1

	seg1 := uint16((v >> 15) & 0x7FFF)
	combined1 := seg1<<1 | 1
	out[1] = byte(combined1 >> 8)
	out[2] = byte(combined1)

	seg2 := uint16(v & 0x7FFF)
	combined2 := seg2<<1 | 1
	out[3] = byte(combined2 >> 8)
	out[4] = byte(combined2)

	return out, nil
}

// DecodePTSDTS unpacks a 33-bit PTS/DTS value from 5 bytes, checking that
// the leading 4-bit tag matches wantTag and that all three marker bits are
// set.
func DecodePTSDTS(b []byte, wantTag byte) (uint64, error) {
	gotTag := b[0] >> 4
	if gotTag != wantTag {
		return 0, &errs.MarkerBitError{Mask: uint64(wantTag) << 36}
	}
	if err := CheckMarker(uint64(b[0]), 0); err != nil {
		return 0, err
	}
	seg0 := uint64(b[0]>>1) & 0x7

	combined1 := uint16(b[1])<<8 | uint16(b[2])
	if err := CheckMarker(uint64(combined1), 0); err != nil {
		return 0, err
	}
	seg1 := uint64(combined1 >> 1)

	combined2 := uint16(b[3])<<8 | uint16(b[4])
	if err := CheckMarker(uint64(combined2), 0); err != nil {
		return 0, err
	}
	seg2 := uint64(combined2 >> 1)

	return seg0<<30 | seg1<<15 | seg2, nil
}

// EncodeClock packs a 33-bit base (90 kHz) and 9-bit extension (27 MHz) into
// the 6-byte PCR/OPCR/ESCR field, with the six reserved bits set to 1 as
// required by the wire format.
func EncodeClock(base uint64, ext uint16) ([6]byte, error) {
	var out [6]byte
	if base > (1<<33)-1 {
		return out, &errs.ValueTooLargeError{Value: base}
	}
	if ext > 0x1FF {
		return out, &errs.ValueTooLargeError{Value: uint64(ext)}
	}

	out[0] = byte(base >> 25)
	out[1] = byte(base >> 17)
	out[2] = byte(base >> 9)
	out[3] = byte(base >> 1)
	b0 := byte(base & 1)
	out[4] = b0<<7 | 0x7E | byte((ext>>8)&1)
	out[5] = byte(ext)

	return out, nil
}

// DecodeClock unpacks the 33-bit base and 9-bit extension from a 6-byte
// PCR/OPCR/ESCR field.
func DecodeClock(b []byte) (base uint64, ext uint16) {
	base = uint64(b[0])<<25 | uint64(b[1])<<17 | uint64(b[2])<<9 | uint64(b[3])<<1 | uint64((b[4]>>7)&1)
	ext = uint16(b[4]&1)<<8 | uint16(b[5])
	return base, ext
}

// ClockFromPTS converts a 90 kHz PTS/DTS value to a 27 MHz clock value
// (PCR/ESCR) with a zero extension: multiply base by 300, extension 0.
func ClockFromPTS(pts uint64) (base uint64, ext uint16) {
	return pts * 300, 0
}

// MicrosToPTS converts a microsecond timestamp to a 90 kHz PTS/DTS value.
func MicrosToPTS(us uint64) uint64 {
	return (us * 9) / 100
}

// PTSToMicros converts a 90 kHz PTS/DTS value to microseconds, the inverse
// of MicrosToPTS (up to integer rounding).
func PTSToMicros(raw uint64) uint64 {
	return (raw * 1000000) / 90000
}
