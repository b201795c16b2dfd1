package mts

import (
	"bytes"
	"testing"

	"github.com/ausocean/mts/bits"
)

func TestAdaptationFieldPCRRoundTrip(t *testing.T) {
	base, ext := bits.ClockFromPTS(90000)
	af := AdaptationField{
		Discontinuity: true,
		RandomAccess:  true,
		PCRFlag:       true,
		PCR:           base,
		PCRExt:        ext,
	}
	b, err := af.Bytes(8)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != 8 {
		t.Fatalf("got len %d, want 8", len(b))
	}
	if b[0] != 7 {
		t.Errorf("got AFL %d, want 7", b[0])
	}

	got, n, err := DecodeAdaptationField(b)
	if err != nil {
		t.Fatal(err)
	}
	if n != 8 {
		t.Errorf("got consumed %d, want 8", n)
	}
	if !got.Discontinuity || !got.RandomAccess || !got.PCRFlag || got.PCR != base || got.PCRExt != ext {
		t.Errorf("got %+v", got)
	}
}

func TestAdaptationFieldSingleByteStuffing(t *testing.T) {
	af := AdaptationField{}
	b, err := af.Bytes(1)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b, []byte{0x00}) {
		t.Errorf("got % x, want [00]", b)
	}
	got, n, err := DecodeAdaptationField(b)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 || got.PCRFlag {
		t.Errorf("got %+v, n=%d", got, n)
	}
}

func TestAdaptationFieldStuffingFill(t *testing.T) {
	af := AdaptationField{}
	b, err := af.Bytes(10)
	if err != nil {
		t.Fatal(err)
	}
	if b[0] != 9 {
		t.Errorf("got AFL %d, want 9", b[0])
	}
	for i := 2; i < 10; i++ {
		if b[i] != 0xFF {
			t.Errorf("byte %d not stuffing: %#x", i, b[i])
		}
	}
}

func TestAdaptationFieldTooSmall(t *testing.T) {
	af := AdaptationField{PCRFlag: true}
	if _, err := af.Bytes(3); err == nil {
		t.Fatal("expected error: adaptation field too small for PCR")
	}
}

func TestAdaptationFieldPrivateDataRoundTrip(t *testing.T) {
	af := AdaptationField{PrivateData: []byte{0x01, 0x02, 0x03}}
	b, err := af.Bytes(6)
	if err != nil {
		t.Fatal(err)
	}
	got, n, err := DecodeAdaptationField(b)
	if err != nil {
		t.Fatal(err)
	}
	if n != 6 || !bytes.Equal(got.PrivateData, af.PrivateData) {
		t.Errorf("got %+v, n=%d", got, n)
	}
}
