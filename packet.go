/*
NAME
  packet.go - provides a data structure intended to encapsulate the
  properties of an MPEG-TS packet and functions to allow manipulation of
  these packets.

DESCRIPTION
  See Readme.md

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package mts provides MPEG-TS (mts) encoding and decoding, specialised for
// carrying a single H.264/AVC or H.265/HEVC video elementary stream.
package mts

import "github.com/ausocean/mts/errs"

// PacketSize is the fixed size of an MPEG-TS packet.
const PacketSize = 188

// headSize is the size of the fixed 4-byte MPEG-TS packet header.
const headSize = 4

// Reserved PIDs.
const (
	PatPID  uint16 = 0x0000
	NullPID uint16 = 0x1FFF
)

// Adaptation field control values (octet 3, bits 5-4).
const (
	AFCReserved             byte = 0x0
	AFCPayloadOnly          byte = 0x1
	AFCAdaptationOnly       byte = 0x2
	AFCAdaptationAndPayload byte = 0x3
)

/*
Packet encapsulates the fields of an MPEG-TS packet. Below is the
formatting of an MPEG-TS packet for reference.

============================================================================
| octet no | bit 0 | bit 1 | bit 2 | bit 3 | bit 4 | bit 5 | bit 6 | bit 7 |
============================================================================
| octet 0  | sync byte (0x47)                                              |
----------------------------------------------------------------------------
| octet 1  | TEI   | PUSI  | Prior | PID                                   |
----------------------------------------------------------------------------
| octet 2  | PID cont.                                                     |
----------------------------------------------------------------------------
| octet 3  | TSC           | AFC           | CC                            |
----------------------------------------------------------------------------
| optional | adaptation field (variable length, see AdaptationField)       |
----------------------------------------------------------------------------
| optional | payload (variable length)                                     |
----------------------------------------------------------------------------
*/
type Packet struct {
	TEI        bool   // Transport error indicator.
	PUSI       bool   // Payload unit start indicator.
	Priority   bool   // Transport priority indicator.
	PID        uint16 // Packet identifier.
	TSC        byte   // Transport scrambling control.
	AFC        byte   // Adaptation field control.
	CC         byte   // Continuity counter.
	Adaptation *AdaptationField
	Payload    []byte
}

// Bytes encodes p as a single 188-byte TS packet. The caller is responsible
// for sizing Payload (and, if present, Adaptation) so the two sum to
// exactly 184 bytes; Bytes itself only sizes the adaptation field's
// trailing stuffing.
func (p Packet) Bytes() ([]byte, error) {
	switch p.AFC {
	case AFCReserved:
		return nil, errs.ErrGeneric
	case AFCPayloadOnly:
		if p.Adaptation != nil || len(p.Payload) != PacketSize-headSize {
			return nil, errs.ErrGeneric
		}
	case AFCAdaptationOnly:
		if len(p.Payload) != 0 {
			return nil, errs.ErrGeneric
		}
	case AFCAdaptationAndPayload:
		if len(p.Payload) == 0 || len(p.Payload) >= PacketSize-headSize {
			return nil, errs.ErrGeneric
		}
	default:
		return nil, errs.ErrGeneric
	}

	buf := make([]byte, headSize, PacketSize)
	buf[0] = 0x47
	buf[1] = boolByte(p.TEI)<<7 | boolByte(p.PUSI)<<6 | boolByte(p.Priority)<<5 | byte(p.PID>>8)&0x1F
	buf[2] = byte(p.PID)
	buf[3] = p.TSC<<6 | p.AFC<<4 | p.CC&0x0F

	if p.AFC == AFCAdaptationOnly || p.AFC == AFCAdaptationAndPayload {
		af := p.Adaptation
		if af == nil {
			af = &AdaptationField{}
		}
		afSize := PacketSize - headSize - len(p.Payload)
		b, err := af.Bytes(afSize)
		if err != nil {
			return nil, err
		}
		buf = append(buf, b...)
	}
	buf = append(buf, p.Payload...)
	return buf, nil
}

// DecodePacket parses a single 188-byte TS packet from the start of b.
func DecodePacket(b []byte) (Packet, error) {
	var p Packet
	if len(b) < PacketSize {
		return p, errs.ErrGeneric
	}
	if b[0] != 0x47 {
		return p, errs.ErrBadSyncByte
	}

	p.TEI = b[1]&0x80 != 0
	p.PUSI = b[1]&0x40 != 0
	p.Priority = b[1]&0x20 != 0
	p.PID = uint16(b[1]&0x1F)<<8 | uint16(b[2])
	p.TSC = b[3] >> 6
	p.AFC = (b[3] >> 4) & 0x03
	p.CC = b[3] & 0x0F

	if p.AFC == AFCReserved {
		return p, errs.ErrGeneric
	}

	rest := b[headSize:PacketSize]
	if p.AFC == AFCAdaptationOnly || p.AFC == AFCAdaptationAndPayload {
		af, n, err := DecodeAdaptationField(rest)
		if err != nil {
			return p, err
		}
		p.Adaptation = &af
		rest = rest[n:]
	}

	switch p.AFC {
	case AFCPayloadOnly, AFCAdaptationAndPayload:
		p.Payload = append([]byte(nil), rest...)
	case AFCAdaptationOnly:
		if len(rest) != 0 {
			return p, errs.ErrGeneric
		}
	}
	return p, nil
}

// PID returns the packet identifier carried by a raw 188-byte TS packet p.
func PID(p []byte) (uint16, error) {
	if len(p) < PacketSize {
		return 0, errs.ErrGeneric
	}
	return uint16(p[1]&0x1F)<<8 | uint16(p[2]), nil
}

// Payload returns the payload portion of a raw 188-byte TS packet p,
// skipping any adaptation field. Returns errs.ErrGeneric if p carries no
// payload (AFC == AFCAdaptationOnly or AFCReserved).
func Payload(p []byte) ([]byte, error) {
	if len(p) < PacketSize {
		return nil, errs.ErrGeneric
	}
	afc := (p[3] >> 4) & 0x03
	switch afc {
	case AFCPayloadOnly:
		return p[headSize:PacketSize], nil
	case AFCAdaptationAndPayload:
		if len(p) < headSize+1 {
			return nil, errs.ErrGeneric
		}
		off := headSize + 1 + int(p[headSize])
		if off > PacketSize {
			return nil, errs.ErrGeneric
		}
		return p[off:PacketSize], nil
	default:
		return nil, errs.ErrGeneric
	}
}

// FindPid scans d, a clip of whole TS packets, for the first packet with
// the given PID. Returns the packet and its byte offset in d, or -1 and an
// error.
func FindPid(d []byte, pid uint16) ([]byte, int, error) {
	if len(d) < PacketSize {
		return nil, -1, errs.ErrGeneric
	}
	for i := 0; i+PacketSize <= len(d); i += PacketSize {
		p, err := PID(d[i : i+PacketSize])
		if err != nil {
			return nil, -1, err
		}
		if p == pid {
			return d[i : i+PacketSize], i, nil
		}
	}
	return nil, -1, &errs.UnknownPidError{Pid: pid}
}

// FindPat scans d for the first PAT packet.
func FindPat(d []byte) ([]byte, int, error) { return FindPid(d, PatPID) }

// FindPmt scans d for the first packet with the given PMT PID, typically
// learned from a prior FindPat/PAT decode.
func FindPmt(d []byte, pmtPID uint16) ([]byte, int, error) { return FindPid(d, pmtPID) }
