/*
NAME
  errs.go - error taxonomy shared by every layer of the TS codec.

DESCRIPTION
  See Readme.md

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package errs defines the error kinds produced by the TS codec packages.
// Errors are value kinds, not control-flow exceptions: callers are expected
// to inspect them with errors.As/errors.Is and decide locally whether a
// failure is fatal for the current input unit or recoverable.
package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors for kinds that carry no payload.
var (
	// ErrBadSyncByte is returned when a TS packet's first byte isn't 0x47.
	ErrBadSyncByte = errors.New("mts: bad sync byte")

	// ErrPsiTableCountZero is returned when a PSI section contains no
	// tables at all.
	ErrPsiTableCountZero = errors.New("mts: psi table count is zero")

	// ErrGeneric covers malformed data that doesn't warrant a dedicated
	// type: bad lengths (packet, adaptation field, PES header, PSI section),
	// a PSI CRC mismatch, a bad PES start code, and reserved or forbidden
	// field values.
	ErrGeneric = errors.New("mts: malformed data")
)

// ValueTooLargeError is returned when a value exceeds the bit width its
// wire encoding allows (e.g. a PTS above 2^33-1).
type ValueTooLargeError struct {
	Value uint64
}

func (e *ValueTooLargeError) Error() string {
	return fmt.Sprintf("mts: value too large: %d", e.Value)
}

// MarkerBitError is returned when a mandatory '1' marker bit in the
// bitstream is not set. Mask identifies which bit(s) were expected.
type MarkerBitError struct {
	Mask uint64
}

func (e *MarkerBitError) Error() string {
	return fmt.Sprintf("mts: unexpected marker bit, mask %#x", e.Mask)
}

// UnknownPidError reports a PID that could not be found: mts.FindPid returns
// it when no packet in the clip carries the requested PID. The demuxer does
// not return it; packets on PIDs it hasn't learned from PAT/PMT are dropped.
type UnknownPidError struct {
	Pid uint16
}

func (e *UnknownPidError) Error() string {
	return fmt.Sprintf("mts: unknown PID %d", e.Pid)
}

// WrongStreamIDError describes a PES stream_id that doesn't match what was
// expected for the given kind of elementary stream. The demuxer logs it and
// skips that PES instead of returning it.
type WrongStreamIDError struct {
	Audio bool // true if an audio stream_id was expected, false for video.
	ID    byte
}

func (e *WrongStreamIDError) Error() string {
	kind := "video"
	if e.Audio {
		kind = "audio"
	}
	return fmt.Sprintf("mts: not a %s stream_id: %#x", kind, e.ID)
}

// UnsupportedCodecError is returned by the muxer when asked to packetise a
// frame whose codec has no assigned stream_type.
type UnsupportedCodecError struct {
	Codec fmt.Stringer
}

func (e *UnsupportedCodecError) Error() string {
	return fmt.Sprintf("mts: unsupported codec for mux: %s", e.Codec)
}

// Other wraps an error from outside the codec (an upstream reader/writer,
// or caller-supplied data) without losing its type for errors.As/Is.
type Other struct {
	Err error
}

func (e *Other) Error() string { return e.Err.Error() }
func (e *Other) Unwrap() error { return e.Err }
