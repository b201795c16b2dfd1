package psi

import "github.com/ausocean/mts/errs"

// Descriptor is a generic tag/length/data descriptor as found in PMT
// program_info and ES loops. The core never interprets descriptor content;
// it's opaque payload passed through verbatim.
type Descriptor struct {
	Tag  byte
	Data []byte
}

// Bytes encodes d as tag, length, data.
func (d Descriptor) Bytes() []byte {
	out := make([]byte, 2, 2+len(d.Data))
	out[0] = d.Tag
	out[1] = byte(len(d.Data))
	return append(out, d.Data...)
}

// encodeDescriptors concatenates the wire form of every descriptor in ds.
func encodeDescriptors(ds []Descriptor) []byte {
	var out []byte
	for _, d := range ds {
		out = append(out, d.Bytes()...)
	}
	return out
}

// decodeDescriptors parses a tightly-packed run of descriptors from b.
func decodeDescriptors(b []byte) ([]Descriptor, error) {
	var out []Descriptor
	for len(b) > 0 {
		if len(b) < 2 {
			return nil, errs.ErrGeneric
		}
		n := int(b[1])
		if len(b) < 2+n {
			return nil, errs.ErrGeneric
		}
		out = append(out, Descriptor{Tag: b[0], Data: append([]byte(nil), b[2:2+n]...)})
		b = b[2+n:]
	}
	return out, nil
}
