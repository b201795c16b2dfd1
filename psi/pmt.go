package psi

import (
	"github.com/ausocean/mts/bits"
	"github.com/ausocean/mts/errs"
)

// NoPCRPID is the PCR_PID value meaning "this program has no PCR".
const NoPCRPID = 0x1FFF

// ESInfo describes one elementary stream carried by a program: its
// stream_type, elementary PID and any stream descriptors.
type ESInfo struct {
	StreamType    byte
	ElementaryPID uint16 // 13 bits.
	Descriptors   []Descriptor
}

// PMT is a decoded program map table: the elementary streams that make up
// one program, and where to find the program clock reference.
type PMT struct {
	ProgramNum  uint16
	Version     byte
	PCRPID      uint16 // 13 bits; NoPCRPID if absent.
	ProgramInfo []Descriptor
	ESInfo      []ESInfo
}

// EncodePMT builds a complete PMT section (pointer field through CRC), not
// yet padded to a packet payload; use Pad for that.
func EncodePMT(pmt PMT) ([]byte, error) {
	progInfo := encodeDescriptors(pmt.ProgramInfo)

	data := make([]byte, 0, 4+len(progInfo))
	data = append(data,
		0xE0|byte(pmt.PCRPID>>8), byte(pmt.PCRPID),
		0xF0|byte(len(progInfo)>>8), byte(len(progInfo)),
	)
	data = append(data, progInfo...)

	for _, es := range pmt.ESInfo {
		esDesc := encodeDescriptors(es.Descriptors)
		data = append(data,
			es.StreamType,
			0xE0|byte(es.ElementaryPID>>8), byte(es.ElementaryPID),
			0xF0|byte(len(esDesc)>>8), byte(len(esDesc)),
		)
		data = append(data, esDesc...)
	}

	return Section(Table{
		TableID:         TableIDPMT,
		SyntaxIndicator: true,
		TableIDExt:      pmt.ProgramNum,
		Version:         pmt.Version,
		CurrentNext:     true,
		TableData:       data,
	})
}

// DecodePMT parses a PMT section, including its 0x00 pointer field and CRC
// trailer.
func DecodePMT(b []byte) (PMT, error) {
	t, err := DecodeSection(b)
	if err != nil {
		return PMT{}, err
	}

	d := t.TableData
	if len(d) < 4 {
		return PMT{}, errs.ErrGeneric
	}
	pmt := PMT{
		ProgramNum: t.TableIDExt,
		Version:    t.Version,
		PCRPID:     uint16(bits.Uint(d[0:2])) & 0x1FFF,
	}
	progInfoLen := int(bits.Uint(d[2:4])) & 0x0FFF
	d = d[4:]
	if len(d) < progInfoLen {
		return PMT{}, errs.ErrGeneric
	}
	pmt.ProgramInfo, err = decodeDescriptors(d[:progInfoLen])
	if err != nil {
		return PMT{}, err
	}
	d = d[progInfoLen:]

	for len(d) > 0 {
		if len(d) < 5 {
			return PMT{}, errs.ErrGeneric
		}
		streamType := d[0]
		esPID := uint16(bits.Uint(d[1:3])) & 0x1FFF
		esInfoLen := int(bits.Uint(d[3:5])) & 0x0FFF
		d = d[5:]
		if len(d) < esInfoLen {
			return PMT{}, errs.ErrGeneric
		}
		descs, err := decodeDescriptors(d[:esInfoLen])
		if err != nil {
			return PMT{}, err
		}
		pmt.ESInfo = append(pmt.ESInfo, ESInfo{
			StreamType:    streamType,
			ElementaryPID: esPID,
			Descriptors:   descs,
		})
		d = d[esInfoLen:]
	}
	return pmt, nil
}
