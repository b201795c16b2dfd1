/*
NAME
  crc.go - CRC-32/MPEG-2 as used by PSI section trailers.

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

import (
	"hash/crc32"
	"math/bits"
)

// crcTable is the CRC-32/MPEG-2 table: polynomial 0x04C11DB7, unreflected.
// bits.Reverse32 recovers the unreflected polynomial from the stdlib's
// reflected IEEE constant, so we don't need to spell out 0x04C11DB7
// ourselves or hand-maintain a second table.
var crcTable = makeTable(bits.Reverse32(crc32.IEEE))

func makeTable(poly uint32) *crc32.Table {
	var t crc32.Table
	for i := range t {
		crc := uint32(i) << 24
		for j := 0; j < 8; j++ {
			if crc&0x80000000 != 0 {
				crc = (crc << 1) ^ poly
			} else {
				crc <<= 1
			}
		}
		t[i] = crc
	}
	return &t
}

// CRC32MPEG2 computes the CRC-32/MPEG-2 checksum of p: init 0xFFFFFFFF, no
// input/output reflection, no final xor.
func CRC32MPEG2(p []byte) uint32 {
	crc := uint32(0xFFFFFFFF)
	for _, v := range p {
		crc = crcTable[byte(crc>>24)^v] ^ (crc << 8)
	}
	return crc
}
