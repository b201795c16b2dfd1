package mts

// Codec identifies the coding of a video elementary stream.
type Codec int

const (
	AVC Codec = iota + 1
	HEVC
)

func (c Codec) String() string {
	switch c {
	case AVC:
		return "AVC"
	case HEVC:
		return "HEVC"
	default:
		return "unknown codec"
	}
}

// Stream type values, as used in PMT ES_info, per ISO/IEC 13818-1 table
// 2-34 and Rec. ITU-T H.222.0.
const (
	StreamTypeH264 byte = 0x1B
	StreamTypeH265 byte = 0x24
)

// StreamType returns the PMT stream_type for c, and false if c has no
// assigned stream_type.
func (c Codec) StreamType() (byte, bool) {
	switch c {
	case AVC:
		return StreamTypeH264, true
	case HEVC:
		return StreamTypeH265, true
	default:
		return 0, false
	}
}

// CodecFromStreamType is the inverse of Codec.StreamType.
func CodecFromStreamType(st byte) (Codec, bool) {
	switch st {
	case StreamTypeH264:
		return AVC, true
	case StreamTypeH265:
		return HEVC, true
	default:
		return 0, false
	}
}
