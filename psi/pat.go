package psi

import "github.com/ausocean/mts/bits"

// PATEntry is one program_number -> PID mapping carried by a PAT.
type PATEntry struct {
	ProgramNum    uint16
	ProgramMapPID uint16 // 13 bits.
}

// PAT is a decoded program association table: the list of programs carried
// by this transport stream and which PID to find each one's PMT on.
type PAT struct {
	TransportStreamID uint16
	Version           byte
	Entries           []PATEntry
}

// EncodePAT builds a complete PAT section (pointer field through CRC), not
// yet padded to a packet payload; use Pad for that.
func EncodePAT(pat PAT) ([]byte, error) {
	data := make([]byte, 0, 4*len(pat.Entries))
	for _, e := range pat.Entries {
		data = append(data,
			byte(e.ProgramNum>>8), byte(e.ProgramNum),
			0xE0|byte(e.ProgramMapPID>>8), byte(e.ProgramMapPID),
		)
	}
	return Section(Table{
		TableID:         TableIDPAT,
		SyntaxIndicator: true,
		TableIDExt:      pat.TransportStreamID,
		Version:         pat.Version,
		CurrentNext:     true,
		TableData:       data,
	})
}

// DecodePAT parses a PAT section, including its 0x00 pointer field and CRC
// trailer. Trailing 0xFF stuffing bytes (a short TS packet payload) are
// tolerated.
func DecodePAT(b []byte) (PAT, error) {
	t, err := DecodeSection(b)
	if err != nil {
		return PAT{}, err
	}

	pat := PAT{
		TransportStreamID: t.TableIDExt,
		Version:           t.Version,
	}
	for i := 0; i+4 <= len(t.TableData); i += 4 {
		pat.Entries = append(pat.Entries, PATEntry{
			ProgramNum:    uint16(bits.Uint(t.TableData[i : i+2])),
			ProgramMapPID: uint16(bits.Uint(t.TableData[i+2:i+4])) & 0x1FFF,
		})
	}
	return pat, nil
}
