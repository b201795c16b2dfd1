/*
NAME
  mux.go - packetises video access units into MPEG-TS.

DESCRIPTION
  See Readme.md

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package mux implements a streaming MPEG-TS multiplexer, specialised for
// carrying a single H.264/AVC or H.265/HEVC video elementary stream.
package mux

import (
	"io"

	"github.com/pkg/errors"

	"github.com/ausocean/mts"
	"github.com/ausocean/mts/bits"
	"github.com/ausocean/mts/errs"
	"github.com/ausocean/mts/pes"
	"github.com/ausocean/mts/psi"
	"github.com/ausocean/utils/logging"
)

// Default program IDs.
const (
	DefaultPMTPID   uint16 = 256
	DefaultVideoPID uint16 = 257
)

// Muxer packetises Frames, writing a PAT, PMT and a stream of PES-wrapped
// TS packets to dst.
type Muxer struct {
	dst io.Writer
	log logging.Logger

	pmtPID   uint16
	videoPID uint16

	// sendAUD is accepted for interface compatibility with callers that
	// expect an Annex B access_unit_delimiter option; this core does not
	// prepend one, since downstream decoders tolerate its absence.
	sendAUD              bool
	paramsOnEachKeyframe bool

	headerSent bool

	cc map[uint16]byte
}

// Option configures a Muxer.
type Option func(*Muxer) error

// WithSendAUD records whether the caller wants an access_unit_delimiter
// sent ahead of each frame. It is accepted but has no effect.
func WithSendAUD(on bool) Option {
	return func(m *Muxer) error {
		m.sendAUD = on
		return nil
	}
}

// WithParamsOnEachKeyframe controls whether the ES-level parameter set
// chunks (SPS/PPS/VPS) are prepended to every keyframe's payload (the
// default), or only when the frame itself reports HasParams. PAT/PMT are
// always sent exactly once, ahead of the first frame, regardless of this
// option.
func WithParamsOnEachKeyframe(on bool) Option {
	return func(m *Muxer) error {
		m.paramsOnEachKeyframe = on
		return nil
	}
}

// WithPIDs overrides the PMT and video elementary stream PIDs.
func WithPIDs(pmtPID, videoPID uint16) Option {
	return func(m *Muxer) error {
		if pmtPID == mts.PatPID || pmtPID == videoPID {
			return errors.New("mux: PMT PID must differ from PAT PID and video PID")
		}
		m.pmtPID = pmtPID
		m.videoPID = videoPID
		return nil
	}
}

// NewMuxer returns a Muxer that writes to dst.
func NewMuxer(dst io.Writer, log logging.Logger, options ...Option) (*Muxer, error) {
	m := &Muxer{
		dst:                  dst,
		log:                  log,
		pmtPID:               DefaultPMTPID,
		videoPID:             DefaultVideoPID,
		paramsOnEachKeyframe: true,
		cc:                   map[uint16]byte{},
	}
	for _, opt := range options {
		if err := opt(m); err != nil {
			return nil, errors.Wrap(err, "mux: option failed")
		}
	}
	m.cc[mts.PatPID] = 0
	m.cc[m.pmtPID] = 0
	m.cc[m.videoPID] = 0
	return m, nil
}

// WriteFrame packetises and writes one access unit. The PAT and PMT are
// sent once, ahead of the first frame; paramsOnEachKeyframe instead governs
// whether SPS/PPS/VPS params are prepended to the ES payload of each
// keyframe (see appendChunks). A codec with no assigned stream_type is an
// error that leaves header_sent unchanged.
func (m *Muxer) WriteFrame(f mts.Frame) error {
	st, ok := f.Codec().StreamType()
	if !ok {
		return &errs.UnsupportedCodecError{Codec: f.Codec()}
	}

	if !m.headerSent {
		if err := m.writeHeader(st); err != nil {
			return errors.Wrap(err, "mux: could not write PSI header")
		}
		m.headerSent = true
	}

	return m.writePES(f, f.Flags().Has(mts.Keyframe))
}

func (m *Muxer) writeHeader(streamType byte) error {
	patBytes, err := psi.EncodePAT(psi.PAT{
		TransportStreamID: 1,
		Entries:           []psi.PATEntry{{ProgramNum: 1, ProgramMapPID: m.pmtPID}},
	})
	if err != nil {
		return err
	}
	if err := m.writePSIPacket(mts.PatPID, patBytes); err != nil {
		return err
	}

	pmtBytes, err := psi.EncodePMT(psi.PMT{
		ProgramNum: 1,
		PCRPID:     m.videoPID,
		ESInfo:     []psi.ESInfo{{StreamType: streamType, ElementaryPID: m.videoPID}},
	})
	if err != nil {
		return err
	}
	return m.writePSIPacket(m.pmtPID, pmtBytes)
}

// writePSIPacket wraps a PSI section (already pointer-field-prefixed, not
// yet padded) into a single TS packet. The PAT/PMT's continuity counter is
// never incremented and stays independent of the video stream's counter;
// each of these packets is sent only once, ahead of the first frame.
func (m *Muxer) writePSIPacket(pid uint16, section []byte) error {
	payload := psi.Pad(section, mts.PacketSize-4)
	pkt := mts.Packet{
		PUSI:    true,
		PID:     pid,
		AFC:     mts.AFCPayloadOnly,
		CC:      m.cc[pid],
		Payload: payload,
	}
	b, err := pkt.Bytes()
	if err != nil {
		return err
	}
	_, err = m.dst.Write(b)
	return err
}

// writePES fragments f's access unit across one or more TS packets, with a
// single PES header on the first packet.
func (m *Muxer) writePES(f mts.Frame, keyframe bool) error {
	rawPTS := bits.MicrosToPTS(f.PTS())
	if rawPTS > bits.MaxPTS {
		return &errs.ValueTooLargeError{Value: rawPTS}
	}

	hdr := pes.Header{
		StreamID: pes.VideoStreamID,
		PDI:      pes.PDIPTSOnly,
		PTS:      rawPTS,
	}
	payload, err := hdr.Bytes(nil)
	if err != nil {
		return err
	}
	payload = appendChunks(payload, f, keyframe, m.paramsOnEachKeyframe)

	first := true
	for len(payload) > 0 {
		afc := mts.AFCPayloadOnly
		var af *mts.AdaptationField
		if first && keyframe {
			afc = mts.AFCAdaptationAndPayload
			base, ext := bits.ClockFromPTS(rawPTS)
			af = &mts.AdaptationField{RandomAccess: true, PCRFlag: true, PCR: base, PCRExt: ext}
		}

		afMin := 0
		if af != nil {
			afMin = minAdaptationSize(af)
		}
		capacity := mts.PacketSize - 4 - afMin

		var chunk []byte
		if len(payload) >= capacity {
			chunk = payload[:capacity]
		} else {
			// The whole remainder fits: this is the frame's last packet.
			// Packet.Bytes sizes the adaptation field to fill whatever
			// room chunk doesn't use, so an empty adaptation field here
			// is enough to request that stuffing.
			chunk = payload
			if af == nil {
				af = &mts.AdaptationField{}
				afc = mts.AFCAdaptationAndPayload
			}
		}
		payload = payload[len(chunk):]

		pkt := mts.Packet{
			PUSI:       first,
			PID:        m.videoPID,
			AFC:        afc,
			CC:         m.cc[m.videoPID],
			Adaptation: af,
			Payload:    chunk,
		}
		b, err := pkt.Bytes()
		if err != nil {
			return err
		}
		if _, err := m.dst.Write(b); err != nil {
			return err
		}
		m.cc[m.videoPID] = (m.cc[m.videoPID] + 1) & 0x0F
		first = false
	}
	return nil
}

// appendChunks builds the ES payload for f: its parameter sets, included
// according to onEachKeyframe (true: whenever f is a keyframe; false: only
// when f.HasParams() says so), followed by its access unit chunks. Each
// chunk is prefixed with an Annex B start code unless f already carries one.
func appendChunks(buf []byte, f mts.Frame, keyframe, onEachKeyframe bool) []byte {
	needStartCode := !f.Flags().Has(mts.AnnexB)

	includeParams := f.HasParams()
	if onEachKeyframe {
		includeParams = keyframe
	}
	if includeParams {
		for _, p := range f.Params() {
			if needStartCode {
				buf = append(buf, 0x00, 0x00, 0x01)
			}
			buf = append(buf, p...)
		}
	}
	for _, u := range f.Units() {
		if needStartCode {
			buf = append(buf, 0x00, 0x00, 0x01)
		}
		buf = append(buf, u...)
	}
	return buf
}

// minAdaptationSize returns the smallest adaptation field size (length byte
// included) that can hold af's mandatory fields.
func minAdaptationSize(af *mts.AdaptationField) int {
	size := 2 // length byte + flags byte.
	if af.PCRFlag {
		size += 6
	}
	if af.OPCRFlag {
		size += 6
	}
	if af.SpliceFlag {
		size++
	}
	if af.PrivateData != nil {
		size += 1 + len(af.PrivateData)
	}
	if af.Extension != nil {
		size += 1 + len(af.Extension)
	}
	return size
}
