package bits

import "testing"

func TestUintRoundTrip(t *testing.T) {
	cases := []struct {
		width int
		v     uint64
	}{
		{3, 0x010203},
		{4, 0xAABBCCDD},
		{5, 0x0102030405},
		{6, 0x0A0B0C0D0E0F},
	}
	for _, c := range cases {
		buf := make([]byte, c.width)
		PutUint(buf, c.v)
		got := Uint(buf)
		if got != c.v {
			t.Errorf("width %d: got %#x, want %#x", c.width, got, c.v)
		}
	}
}

func TestCheckMarker(t *testing.T) {
	if err := CheckMarker(0x1, 0); err != nil {
		t.Errorf("unexpected error for set bit: %v", err)
	}
	if err := CheckMarker(0x0, 0); err == nil {
		t.Error("expected error for unset marker bit")
	}
}
