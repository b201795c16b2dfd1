package bits

import (
	"testing"

	"github.com/ausocean/mts/errs"
)

func TestPTSDTSRoundTrip(t *testing.T) {
	for _, tag := range []byte{TagPTSOnly, TagPTSWithDTS, TagDTS} {
		for _, v := range []uint64{0, 1, 12345, MaxPTS} {
			buf, err := EncodePTSDTS(tag, v)
			if err != nil {
				t.Fatalf("tag %#x, v %d: unexpected encode error: %v", tag, v, err)
			}
			got, err := DecodePTSDTS(buf[:], tag)
			if err != nil {
				t.Fatalf("tag %#x, v %d: unexpected decode error: %v", tag, v, err)
			}
			if got != v {
				t.Errorf("tag %#x: got %d, want %d", tag, got, v)
			}
		}
	}
}

func TestPTSDTSOverflow(t *testing.T) {
	_, err := EncodePTSDTS(TagPTSOnly, MaxPTS+1)
	if _, ok := err.(*errs.ValueTooLargeError); !ok {
		t.Fatalf("expected *errs.ValueTooLargeError, got %v", err)
	}
}

func TestDecodePTSDTSWrongTag(t *testing.T) {
	buf, err := EncodePTSDTS(TagPTSOnly, 12345)
	if err != nil {
		t.Fatal(err)
	}
	_, err = DecodePTSDTS(buf[:], TagDTS)
	if err == nil {
		t.Fatal("expected error decoding with mismatched tag")
	}
}

func TestDecodePTSDTSMissingMarker(t *testing.T) {
	buf, err := EncodePTSDTS(TagPTSOnly, 12345)
	if err != nil {
		t.Fatal(err)
	}
	buf[4] &^= 1 // clear the final marker bit.
	_, err = DecodePTSDTS(buf[:], TagPTSOnly)
	if _, ok := err.(*errs.MarkerBitError); !ok {
		t.Fatalf("expected *errs.MarkerBitError, got %v", err)
	}
}

func TestClockRoundTrip(t *testing.T) {
	cases := []struct {
		base uint64
		ext  uint16
	}{
		{0, 0},
		{12345, 42},
		{(1 << 33) - 1, 0x1FF},
	}
	for _, c := range cases {
		buf, err := EncodeClock(c.base, c.ext)
		if err != nil {
			t.Fatalf("base %d ext %d: unexpected error: %v", c.base, c.ext, err)
		}
		// The six reserved bits must be emitted as 1s.
		if buf[4]&0x7E != 0x7E {
			t.Errorf("reserved bits not all 1: %08b", buf[4])
		}
		gotBase, gotExt := DecodeClock(buf[:])
		if gotBase != c.base || gotExt != c.ext {
			t.Errorf("got base %d ext %d, want base %d ext %d", gotBase, gotExt, c.base, c.ext)
		}
	}
}

func TestClockFromPTS(t *testing.T) {
	base, ext := ClockFromPTS(1000)
	if base != 300000 || ext != 0 {
		t.Errorf("got base %d ext %d, want base 300000 ext 0", base, ext)
	}
}
