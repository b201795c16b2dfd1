package bits

import "testing"

// TestCRC32MPEG2KnownVector checks against a hand-computed PAT section
// (transport_stream_id=1, one program mapping to PID 0x1000), whose CRC is
// widely reproduced in MPEG-TS tooling as a sanity vector.
func TestCRC32MPEG2KnownVector(t *testing.T) {
	section := []byte{
		0x00, 0xb0, 0x0d, // table_id, flags+len
		0x00, 0x01, 0xc1, 0x00, 0x00, // table_id_ext, version/current_next, section, last_section
		0x00, 0x01, 0xf0, 0x00, // program_num, program_map_pid
	}
	got := CRC32MPEG2(section)
	if want := uint32(0x2AB104B2); got != want {
		t.Fatalf("got CRC %#08x, want %#08x", got, want)
	}
	// Recomputing the same bytes must always agree with itself; flipping
	// any single bit must change the result.
	again := CRC32MPEG2(section)
	if got != again {
		t.Fatal("CRC32MPEG2 not deterministic")
	}
	flipped := append([]byte(nil), section...)
	flipped[len(flipped)-1] ^= 0x01
	if CRC32MPEG2(flipped) == got {
		t.Fatal("single bit flip did not change CRC")
	}
}
