package serialize

import (
	"bytes"
	"testing"
)

func TestWriteVbn(t *testing.T) {
	tests := []struct {
		value int64
		want  []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{-1, []byte{0x7f}},
		{63, []byte{0x3f}},
		{-64, []byte{0x40}},
		{64, []byte{0xc0, 0x00}},
		{-65, []byte{0xbf, 0x7f}},
		{127, []byte{0xff, 0x00}},
		{128, []byte{0x80, 0x01}},
	}
	for _, tt := range tests {
		got := writeVbn(nil, tt.value)
		if !bytes.Equal(got, tt.want) {
			t.Errorf("writeVbn(%d) = % x, want % x", tt.value, got, tt.want)
		}
	}
}

func TestWriteVbnAppends(t *testing.T) {
	buf := writeVbn(nil, 1)
	buf = writeVbn(buf, -1)
	want := []byte{0x01, 0x7f}
	if !bytes.Equal(buf, want) {
		t.Errorf("writeVbn sequence = % x, want % x", buf, want)
	}
}

func TestWriteFloatBits(t *testing.T) {
	got := writeFloatBits(nil, 0x0102030405060708, 64)
	want := []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}
	if !bytes.Equal(got, want) {
		t.Errorf("writeFloatBits(64) = % x, want % x", got, want)
	}

	got32 := writeFloatBits(nil, 0x0000000041280000, 32)
	want32 := []byte{0x00, 0x00, 0x28, 0x41}
	if !bytes.Equal(got32, want32) {
		t.Errorf("writeFloatBits(32) = % x, want % x", got32, want32)
	}
}
