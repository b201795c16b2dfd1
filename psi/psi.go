/*
NAME
  psi.go - program specific information (PAT/PMT) section codec.

DESCRIPTION
  See Readme.md

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package psi provides encoding and decoding of MPEG-TS program specific
// information: the PAT/PMT section header, syntax section and CRC-32/MPEG-2
// trailer.
package psi

import (
	"github.com/ausocean/mts/bits"
	"github.com/ausocean/mts/errs"
)

// Table IDs.
const (
	TableIDPAT = 0x00
	TableIDPMT = 0x02
)

// MaxSyntaxSectionLen is the largest permitted syntax_section_len.
const MaxSyntaxSectionLen = 1021

// headerLen is the length (in bytes) of the table header's length field
// (table_id + the 2-byte length word), not counting the pointer field.
const headerLen = 3

// syntaxHeaderLen is the length of PsiTableSyntax's fixed fields, before
// table_data: table_id_extension(2) + version/current_next(1) +
// section_number(1) + last_section_number(1).
const syntaxHeaderLen = 5

// crcLen is the length of the trailing CRC-32/MPEG-2.
const crcLen = 4

// Table is one decoded PSI table: a header plus, if present, a syntax
// section and its validated CRC.
type Table struct {
	TableID         byte
	PrivateBit      bool
	SyntaxIndicator bool

	// Syntax section fields. Zero/empty if SyntaxIndicator is false.
	TableIDExt  uint16
	Version     byte
	CurrentNext bool
	Section     byte
	LastSection byte
	TableData   []byte
}

// Section packs a single syntax-bearing table into a PSI section: pointer
// field, table header, syntax section, table data and CRC-32/MPEG-2
// trailer, as spec'd: a 0x00 pointer field followed by the table.
func Section(t Table) ([]byte, error) {
	syntax := make([]byte, syntaxHeaderLen, syntaxHeaderLen+len(t.TableData))
	syntax[0] = byte(t.TableIDExt >> 8)
	syntax[1] = byte(t.TableIDExt)
	syntax[2] = 0xC0 | (t.Version&0x1F)<<1 | boolBit(t.CurrentNext)
	syntax[3] = t.Section
	syntax[4] = t.LastSection
	syntax = append(syntax, t.TableData...)

	sectionLen := len(syntax) + crcLen
	if sectionLen > MaxSyntaxSectionLen {
		return nil, &errs.ValueTooLargeError{Value: uint64(sectionLen)}
	}

	out := make([]byte, 0, 1+headerLen+len(syntax)+crcLen)
	out = append(out, 0x00) // pointer field.
	out = append(out, t.TableID)
	out = append(out, 0x80|privBit(t.PrivateBit)|0x30|byte((sectionLen>>8)&0x03), byte(sectionLen))
	out = append(out, syntax...)

	crc := bits.CRC32MPEG2(out[1:])
	out = append(out, byte(crc>>24), byte(crc>>16), byte(crc>>8), byte(crc))
	return out, nil
}

// DecodeSection parses a single PSI section from b (which begins with the
// pointer field) and validates its CRC-32/MPEG-2 trailer. A non-zero pointer
// field skips that many filler bytes before the table.
func DecodeSection(b []byte) (Table, error) {
	var t Table
	if len(b) < 1+headerLen {
		return t, errs.ErrGeneric
	}
	pointer := b[0]
	b = b[1:]
	if pointer != 0 {
		b = b[pointer:]
	}

	if len(b) == 0 || b[0] == 0xFF {
		// A table_id of 0xFF is stuffing: the table list ends here with
		// nothing in it.
		return t, errs.ErrPsiTableCountZero
	}
	if len(b) < headerLen {
		return t, errs.ErrGeneric
	}
	t.TableID = b[0]
	t.SyntaxIndicator = b[1]&0x80 != 0
	t.PrivateBit = b[1]&0x40 != 0
	sectionLen := int(b[1]&0x03)<<8 | int(b[2])
	if sectionLen > MaxSyntaxSectionLen {
		return t, &errs.ValueTooLargeError{Value: uint64(sectionLen)}
	}

	rest := b[headerLen:]
	if len(rest) < sectionLen {
		return t, errs.ErrGeneric
	}
	section := rest[:sectionLen]

	if !t.SyntaxIndicator {
		return t, nil
	}
	if len(section) < syntaxHeaderLen+crcLen {
		return t, errs.ErrGeneric
	}

	gotCRC := bits.Uint(section[len(section)-crcLen:])
	wantCRC := uint64(bits.CRC32MPEG2(b[:headerLen+sectionLen-crcLen]))
	if gotCRC != wantCRC {
		return t, errs.ErrGeneric
	}

	t.TableIDExt = uint16(bits.Uint(section[0:2]))
	t.Version = (section[2] >> 1) & 0x1F
	t.CurrentNext = section[2]&0x01 != 0
	t.Section = section[3]
	t.LastSection = section[4]
	t.TableData = section[syntaxHeaderLen : len(section)-crcLen]
	return t, nil
}

// Pad right-pads a PSI section with 0xFF stuffing bytes out to size, ready
// to use as a full TS packet payload.
func Pad(section []byte, size int) []byte {
	out := make([]byte, size)
	n := copy(out, section)
	for i := n; i < size; i++ {
		out[i] = 0xFF
	}
	return out
}

func boolBit(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func privBit(b bool) byte {
	if b {
		return 0x40
	}
	return 0
}
