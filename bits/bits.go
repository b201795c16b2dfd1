/*
NAME
  bits.go - bit-packed integer primitives shared by the psi, pes and packet
  codecs.

DESCRIPTION
  See Readme.md

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bits provides the primitive bit-packed encoding used throughout
// the MPEG-TS codec: big-endian integers of arbitrary byte width, marker-bit
// checks, the 33-bit PTS/DTS and 42-bit PCR/ESCR clock fields, and
// CRC-32/MPEG-2.
package bits

import "github.com/ausocean/mts/errs"

// Uint decodes a big-endian unsigned integer from b, whatever its length
// (up to 8 bytes).
func Uint(b []byte) uint64 {
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return v
}

// PutUint encodes v as a big-endian unsigned integer into the first
// len(buf) bytes of buf.
func PutUint(buf []byte, v uint64) {
	for i := len(buf) - 1; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
}

// CheckMarker returns a *errs.MarkerBitError if bit 'pos' (0 = LSB) of v is
// not set. MPEG-TS/PES bitstreams use mandatory '1' marker bits throughout
// to guard against slipping sync; every decoder that consumes one of these
// fields must check it explicitly.
func CheckMarker(v uint64, pos uint) error {
	mask := uint64(1) << pos
	if v&mask == 0 {
		return &errs.MarkerBitError{Mask: mask}
	}
	return nil
}
