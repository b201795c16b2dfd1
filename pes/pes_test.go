package pes

import (
	"bytes"
	"testing"
)

func TestHeaderPTSOnlyRoundTrip(t *testing.T) {
	h := Header{StreamID: VideoStreamID, PDI: PDIPTSOnly, PTS: 90000}
	b, err := h.Bytes(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != headerLen+5 {
		t.Fatalf("got len %d, want %d", len(b), headerLen+5)
	}

	got, n, err := Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(b) {
		t.Errorf("got consumed %d, want %d", n, len(b))
	}
	if got.StreamID != VideoStreamID || got.PDI != PDIPTSOnly || got.PTS != 90000 {
		t.Errorf("got %+v", got)
	}
}

func TestHeaderPTSAndDTSRoundTrip(t *testing.T) {
	h := Header{StreamID: VideoStreamID, PDI: PDIPTSAndDTS, PTS: 180000, DTS: 90000}
	b, err := h.Bytes(nil)
	if err != nil {
		t.Fatal(err)
	}
	got, _, err := Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if got.PTS != 180000 || got.DTS != 90000 {
		t.Errorf("got PTS=%d DTS=%d, want 180000/90000", got.PTS, got.DTS)
	}
}

func TestHeaderAppendsToExistingBuffer(t *testing.T) {
	prefix := []byte{0xAA, 0xBB}
	h := Header{StreamID: VideoStreamID, PDI: PDINone}
	b, err := h.Bytes(append([]byte(nil), prefix...))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(b, prefix) {
		t.Errorf("got %x, want prefix %x", b, prefix)
	}
	got, n, err := Decode(b[len(prefix):])
	if err != nil {
		t.Fatal(err)
	}
	if n != headerLen || got.PDI != PDINone {
		t.Errorf("got %+v, n=%d", got, n)
	}
}

func TestHeaderESCRRoundTrip(t *testing.T) {
	h := Header{StreamID: VideoStreamID, PDI: PDIPTSOnly, PTS: 90000, ESCRFlag: true, ESCR: 12345, ESCRExt: 7}
	b, err := h.Bytes(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != headerLen+5+6 {
		t.Fatalf("got len %d, want %d", len(b), headerLen+5+6)
	}

	got, n, err := Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(b) {
		t.Errorf("got consumed %d, want %d", n, len(b))
	}
	if !got.ESCRFlag || got.ESCR != 12345 || got.ESCRExt != 7 {
		t.Errorf("got %+v", got)
	}
	if got.PTS != 90000 {
		t.Errorf("got PTS %d, want 90000", got.PTS)
	}
}

func TestDecodeRejectsNonZeroScrambling(t *testing.T) {
	h := Header{StreamID: VideoStreamID, PDI: PDINone}
	b, err := h.Bytes(nil)
	if err != nil {
		t.Fatal(err)
	}
	b[6] |= 0x20 // Set scrambling_control to a non-zero value.
	if _, _, err := Decode(b); err == nil {
		t.Fatal("expected error for non-zero scrambling control")
	}
}

func TestDecodeRejectsReservedFlagBits(t *testing.T) {
	h := Header{StreamID: VideoStreamID, PDI: PDINone}
	b, err := h.Bytes(nil)
	if err != nil {
		t.Fatal(err)
	}
	b[7] |= 0x10 // Set ES_rate_flag, which this codec never supports.
	if _, _, err := Decode(b); err == nil {
		t.Fatal("expected error for a reserved/unsupported flag bit")
	}
}

func TestHeaderForbiddenPDIRejected(t *testing.T) {
	h := Header{StreamID: VideoStreamID, PDI: PDIForbidden}
	if _, err := h.Bytes(nil); err == nil {
		t.Fatal("expected error for PDIForbidden")
	}
}

func TestDecodeBadStartCode(t *testing.T) {
	b := []byte{0x00, 0x00, 0x00, VideoStreamID, 0, 0, 0x80, 0, 0}
	if _, _, err := Decode(b); err == nil {
		t.Fatal("expected error for bad start code")
	}
}

func TestDecodeShortInput(t *testing.T) {
	if _, _, err := Decode([]byte{0x00, 0x00, 0x01}); err == nil {
		t.Fatal("expected error for truncated header")
	}
}
