package mts

// FrameFlag describes properties of a video access unit carried to or from
// the codec.
type FrameFlag uint32

const (
	// AnnexB indicates the frame's NAL units are Annex B start-code
	// delimited, rather than length-prefixed.
	AnnexB FrameFlag = 1 << iota
	// Keyframe indicates the frame is a random access point (IDR/CRA).
	Keyframe
	// VideoStream indicates the frame belongs to the video elementary
	// stream (as opposed to some other stream kind, reserved for future
	// use).
	VideoStream
	// Encoded indicates the frame's Data is already in its wire coding
	// (AVC/HEVC bitstream), not raw pixels.
	Encoded
)

// Has reports whether f has every bit set in x.
func (f FrameFlag) Has(x FrameFlag) bool { return f&x == x }

// Frame is a single access unit and its associated metadata, as consumed by
// Muxer.WriteFrame. PTS (and, for a demuxed Frame, DTS) are in microseconds;
// the codec converts to and from the wire's 90 kHz ticks at the boundary.
//
// Params and Units are kept separate, rather than pre-joined, so the muxer
// can decide whether to prepend the parameter set chunks (SPS/PPS for AVC,
// VPS/SPS/PPS for HEVC) ahead of a given frame: see HasParams and
// WithParamsOnEachKeyframe. Data returns the whole access unit as a single
// blob for callers that don't need that distinction, such as a demuxer's
// output.
type Frame interface {
	Data() []byte
	PTS() uint64
	Flags() FrameFlag
	Codec() Codec
	HasParams() bool
	Params() [][]byte
	Units() [][]byte
}

// BasicFrame is a concrete Frame, as produced by Demuxer when it reassembles
// a complete access unit from PES packets. Reassembly yields a single
// Annex-B blob with no parameter/unit boundary, so HasParams is always false
// and Units is a single chunk holding all of D. Dts is pts_us plus the
// demuxer's configured base offset (demux.WithBaseTS); no B-frame support
// means this is never independently extracted from the stream.
type BasicFrame struct {
	D    []byte
	Ts   uint64
	Dts  uint64
	Flag FrameFlag
	Cdc  Codec
}

func (f *BasicFrame) Data() []byte     { return f.D }
func (f *BasicFrame) PTS() uint64      { return f.Ts }
func (f *BasicFrame) DTS() uint64      { return f.Dts }
func (f *BasicFrame) Flags() FrameFlag { return f.Flag }
func (f *BasicFrame) Codec() Codec     { return f.Cdc }
func (f *BasicFrame) HasParams() bool  { return false }
func (f *BasicFrame) Params() [][]byte { return nil }
func (f *BasicFrame) Units() [][]byte  { return [][]byte{f.D} }
