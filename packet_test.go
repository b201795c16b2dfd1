package mts

import (
	"bytes"
	"testing"

	"github.com/ausocean/mts/bits"
)

func TestPacketPayloadOnlyRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB}, PacketSize-headSize)
	p := Packet{
		PUSI:    true,
		PID:     256,
		AFC:     AFCPayloadOnly,
		CC:      3,
		Payload: payload,
	}
	b, err := p.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != PacketSize {
		t.Fatalf("got len %d, want %d", len(b), PacketSize)
	}
	if b[0] != 0x47 {
		t.Fatalf("bad sync byte: %#x", b[0])
	}

	got, err := DecodePacket(b)
	if err != nil {
		t.Fatal(err)
	}
	if got.PID != p.PID || got.PUSI != p.PUSI || got.CC != p.CC || got.AFC != p.AFC {
		t.Errorf("got %+v, want PID=%d PUSI=%v CC=%d AFC=%d", got, p.PID, p.PUSI, p.CC, p.AFC)
	}
	if !bytes.Equal(got.Payload, payload) {
		t.Errorf("payload mismatch")
	}
}

func TestPacketAdaptationAndPayloadRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte{0x11}, 100)
	base, ext := bits.ClockFromPTS(12345)
	p := Packet{
		PUSI: true,
		PID:  256,
		AFC:  AFCAdaptationAndPayload,
		CC:   1,
		Adaptation: &AdaptationField{
			RandomAccess: true,
			PCRFlag:      true,
			PCR:          base,
			PCRExt:       ext,
		},
		Payload: payload,
	}
	b, err := p.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != PacketSize {
		t.Fatalf("got len %d, want %d", len(b), PacketSize)
	}

	got, err := DecodePacket(b)
	if err != nil {
		t.Fatal(err)
	}
	if got.Adaptation == nil || !got.Adaptation.PCRFlag || got.Adaptation.PCR != base || got.Adaptation.PCRExt != ext {
		t.Errorf("adaptation field mismatch: %+v", got.Adaptation)
	}
	if !bytes.Equal(got.Payload, payload) {
		t.Errorf("payload mismatch")
	}
}

func TestPacketBadSyncByte(t *testing.T) {
	b := make([]byte, PacketSize)
	b[0] = 0x00
	_, err := DecodePacket(b)
	if err == nil {
		t.Fatal("expected bad sync byte error")
	}
}

func TestPacketReservedAFC(t *testing.T) {
	p := Packet{PID: 0, AFC: AFCReserved}
	if _, err := p.Bytes(); err == nil {
		t.Fatal("expected error for reserved AFC")
	}
}

func TestFindPid(t *testing.T) {
	pkt1, _ := Packet{PID: 10, AFC: AFCPayloadOnly, Payload: bytes.Repeat([]byte{0}, PacketSize - headSize)}.Bytes()
	pkt2, _ := Packet{PID: 20, AFC: AFCPayloadOnly, Payload: bytes.Repeat([]byte{0}, PacketSize - headSize)}.Bytes()
	clip := append(append([]byte{}, pkt1...), pkt2...)

	got, idx, err := FindPid(clip, 20)
	if err != nil {
		t.Fatal(err)
	}
	if idx != PacketSize {
		t.Errorf("got idx %d, want %d", idx, PacketSize)
	}
	if !bytes.Equal(got, pkt2) {
		t.Error("FindPid returned wrong packet")
	}

	_, _, err = FindPid(clip, 99)
	if err == nil {
		t.Fatal("expected error for unknown PID")
	}
}
