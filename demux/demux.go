/*
NAME
  demux.go - reassembles MPEG-TS packets pushed incrementally into access
  units.

DESCRIPTION
  See Readme.md

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package demux implements a streaming MPEG-TS demultiplexer, specialised
// for extracting a single H.264/AVC or H.265/HEVC video elementary stream.
// Unlike a whole-clip extractor, Demuxer accepts arbitrary byte chunks and
// emits each access unit as soon as the next one's PES header arrives.
package demux

import (
	"github.com/pkg/errors"

	"github.com/ausocean/mts"
	"github.com/ausocean/mts/bits"
	"github.com/ausocean/mts/errs"
	"github.com/ausocean/mts/pes"
	"github.com/ausocean/mts/psi"
	"github.com/ausocean/utils/logging"
)

// Demuxer reassembles a continuous stream of 188-byte TS packets, written
// incrementally via Write, into complete video access units.
type Demuxer struct {
	pids    *mts.PidTable
	pmtPID  uint16
	onFrame func(mts.Frame)
	log     logging.Logger

	tail []byte // undecoded bytes left over from the previous Write (< mts.PacketSize).

	baseTS uint64 // opaque caller-supplied offset added to pts_us to produce dts_us.

	have   bool // true once the first video PUSI has been seen.
	ignore bool // true while skipping continuations of a non-video PES start.
	acc    []byte
	pts    uint64
	key    bool
	codec  mts.Codec
	vpid   uint16
	vcodec mts.Codec
}

// Option configures a Demuxer.
type Option func(*Demuxer)

// WithLogger sets the logger used for recoverable-error diagnostics.
// Without this option a logging.TestLogger-free no-op is not assumed; a
// logger must be supplied, matching how every other package in this module
// takes one explicitly rather than defaulting silently.
func WithLogger(log logging.Logger) Option {
	return func(d *Demuxer) { d.log = log }
}

// WithBaseTS sets the offset (in microseconds) added to each frame's PTS to
// produce its DTS. Its meaning is caller-defined; the demuxer only adds it.
func WithBaseTS(us uint64) Option {
	return func(d *Demuxer) { d.baseTS = us }
}

// NewDemuxer returns a Demuxer that calls onFrame with each reassembled
// access unit as it completes. onFrame must not retain the Frame's Data
// slice past the call, as it is reused.
func NewDemuxer(onFrame func(mts.Frame), log logging.Logger, options ...Option) *Demuxer {
	d := &Demuxer{
		pids:    mts.NewPidTable(),
		onFrame: onFrame,
		log:     log,
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

// Write accepts an arbitrary chunk of TS bytes, buffering any trailing
// partial packet until more data arrives in a subsequent call. It implements
// io.Writer.
func (d *Demuxer) Write(p []byte) (int, error) {
	n := len(p)
	d.tail = append(d.tail, p...)

	for len(d.tail) >= mts.PacketSize {
		raw := d.tail[:mts.PacketSize]
		d.tail = d.tail[mts.PacketSize:]
		if err := d.handle(raw); err != nil {
			return n, err
		}
	}
	return n, nil
}

// Flush emits any access unit still accumulated, for callers that know no
// more data is coming (end of stream).
func (d *Demuxer) Flush() {
	if d.have && len(d.acc) > 0 {
		d.emit()
	}
	d.have = false
	d.acc = nil
}

func (d *Demuxer) handle(raw []byte) error {
	pkt, err := mts.DecodePacket(raw)
	if err != nil {
		return errors.Wrap(err, "could not decode TS packet")
	}

	switch d.pids.Kind(pkt.PID) {
	case mts.KindPat:
		return d.handlePAT(pkt)
	case mts.KindPmt:
		return d.handlePMT(pkt)
	case mts.KindPes:
		d.handlePES(pkt)
		return nil
	default:
		// An unrecognised PID (private data, a stream we don't carry, or
		// simply one we haven't learned about yet) is not fatal; the
		// packet is simply dropped.
		d.log.Debug("dropping packet with unknown PID", "pid", pkt.PID)
		return nil
	}
}

func (d *Demuxer) handlePAT(pkt mts.Packet) error {
	pat, err := psi.DecodePAT(pkt.Payload)
	if err != nil {
		return errors.Wrap(err, "could not decode PAT")
	}
	for _, e := range pat.Entries {
		d.pids.Set(e.ProgramMapPID, mts.KindPmt)
		d.pmtPID = e.ProgramMapPID
	}
	return nil
}

func (d *Demuxer) handlePMT(pkt mts.Packet) error {
	pmt, err := psi.DecodePMT(pkt.Payload)
	if err != nil {
		return errors.Wrap(err, "could not decode PMT")
	}
	for _, es := range pmt.ESInfo {
		if codec, ok := mts.CodecFromStreamType(es.StreamType); ok {
			d.pids.Set(es.ElementaryPID, mts.KindPes)
			d.vpid = es.ElementaryPID
			d.vcodec = codec
		}
	}
	return nil
}

// handlePES processes one TS packet known to carry PES payload. Malformed
// PES data is recoverable: the access unit in progress is discarded and
// reassembly resynchronises on the next PUSI. A PES start whose stream_id
// isn't the video one sets ignore so its continuations are dropped too,
// without disturbing whatever access unit is already accumulating.
func (d *Demuxer) handlePES(pkt mts.Packet) {
	if !pkt.PUSI {
		if d.ignore || !d.have {
			return
		}
		d.acc = append(d.acc, pkt.Payload...)
		return
	}

	hdr, n, err := pes.Decode(pkt.Payload)
	if err != nil {
		d.log.Debug("discarding malformed PES header, resynchronising", "pid", pkt.PID, "error", err)
		d.have = false
		d.acc = nil
		d.ignore = false
		return
	}

	if hdr.StreamID != pes.VideoStreamID {
		err := &errs.WrongStreamIDError{ID: hdr.StreamID}
		d.log.Debug("ignoring PES start with non-video stream_id", "pid", pkt.PID, "error", err)
		d.ignore = true
		return
	}
	d.ignore = false

	if d.have {
		d.emit()
	}

	d.codec = d.vcodec
	d.pts = bits.PTSToMicros(hdr.PTS)
	d.key = pkt.Adaptation != nil && pkt.Adaptation.RandomAccess
	d.acc = append(d.acc[:0], pkt.Payload[n:]...)
	d.have = true
}

func (d *Demuxer) emit() {
	flags := mts.VideoStream | mts.Encoded | mts.AnnexB
	if d.key {
		flags |= mts.Keyframe
	}
	d.onFrame(&mts.BasicFrame{
		D:    d.acc,
		Ts:   d.pts,
		Dts:  d.pts + d.baseTS,
		Flag: flags,
		Cdc:  d.codec,
	})
}
