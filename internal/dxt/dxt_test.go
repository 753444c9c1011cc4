package dxt

import (
	"encoding/binary"
	"image/color"
	"testing"
)

func colorBlock(color1, color2 uint16, indices uint32) []byte {
	block := make([]byte, 8)
	binary.LittleEndian.PutUint16(block[0:], color1)
	binary.LittleEndian.PutUint16(block[2:], color2)
	binary.LittleEndian.PutUint32(block[4:], indices)
	return block
}

func TestExpand565(t *testing.T) {
	tests := []struct {
		value    uint16
		expected color.NRGBA
	}{
		{0xF800, color.NRGBA{R: 0xFF, A: 0xFF}},
		{0x07E0, color.NRGBA{G: 0xFF, A: 0xFF}},
		{0x001F, color.NRGBA{B: 0xFF, A: 0xFF}},
		{0x0000, color.NRGBA{A: 0xFF}},
		{0xFFFF, color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}},
	}

	for _, test := range tests {
		if got := expand565(test.value); got != test.expected {
			t.Fatalf("0x%04X: got %v expected %v", test.value, got, test.expected)
		}
	}
}

func TestDecodeDXT1(t *testing.T) {
	// Indices 0, 1, 2, 3 on the first row, 1 everywhere else.
	indices := uint32(0x55555500) | 0<<0 | 1<<2 | 2<<4 | 3<<6
	img, err := Decode(DXT1, colorBlock(0xFFFF, 0x0000, indices), 4, 4)
	if err != nil {
		t.Fatal(err)
	}

	expected := []color.NRGBA{
		{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
		{A: 0xFF},
		{R: 0xAA, G: 0xAA, B: 0xAA, A: 0xFF},
		{R: 0x55, G: 0x55, B: 0x55, A: 0xFF},
	}
	for x, want := range expected {
		if got := img.NRGBAAt(x, 0); got != want {
			t.Fatalf("pixel %v: got %v expected %v", x, got, want)
		}
	}
	if got := img.NRGBAAt(2, 3); got != expected[1] {
		t.Fatalf("pixel (2, 3): got %v expected %v", got, expected[1])
	}
}

func TestDecodeDXT1Transparent(t *testing.T) {
	img, err := Decode(DXT1, colorBlock(0x0000, 0xFFFF, 0xFFFFFFFF), 4, 4)
	if err != nil {
		t.Fatal(err)
	}

	if got := img.NRGBAAt(1, 1); got != (color.NRGBA{}) {
		t.Fatalf("got %v expected transparent black", got)
	}
}

func TestDecodeDXT3(t *testing.T) {
	data := make([]byte, 16)
	binary.LittleEndian.PutUint64(data, 0xFEDCBA9876543210)
	copy(data[8:], colorBlock(0xF800, 0xF800, 0))

	img, err := Decode(DXT3, data, 4, 4)
	if err != nil {
		t.Fatal(err)
	}

	if got := img.NRGBAAt(0, 0).A; got != 0x00 {
		t.Fatalf("pixel 0 alpha: got 0x%02X expected 0x00", got)
	}
	if got := img.NRGBAAt(1, 0).A; got != 0x11 {
		t.Fatalf("pixel 1 alpha: got 0x%02X expected 0x11", got)
	}
	if got := img.NRGBAAt(3, 3).A; got != 0xFF {
		t.Fatalf("pixel 15 alpha: got 0x%02X expected 0xFF", got)
	}
	if got := img.NRGBAAt(3, 3).R; got != 0xFF {
		t.Fatalf("pixel 15 red: got 0x%02X expected 0xFF", got)
	}
}

func TestDecodeDXT5(t *testing.T) {
	// Endpoints 0xFF and 0x00, first pixel index 0, second index 1, the
	// rest index 7.
	var alpha uint64 = 0xFF | 0x00<<8
	alpha |= uint64(0) << 16
	alpha |= uint64(1) << 19
	for i := 2; i < 16; i++ {
		alpha |= uint64(7) << (16 + 3*i)
	}

	data := make([]byte, 16)
	binary.LittleEndian.PutUint64(data, alpha)
	copy(data[8:], colorBlock(0x07E0, 0x07E0, 0))

	img, err := Decode(DXT5, data, 4, 4)
	if err != nil {
		t.Fatal(err)
	}

	for x, want := range []uint8{0xFF, 0x00, 0x24, 0x24} {
		if got := img.NRGBAAt(x, 0).A; got != want {
			t.Fatalf("pixel %v alpha: got 0x%02X expected 0x%02X", x, got, want)
		}
	}
}

func TestInterpolatedAlphasSixValueMode(t *testing.T) {
	var alphas [16]uint8
	// Endpoints 0x00 and 0xFF, indices 6 then 7.
	interpolatedAlphas(&alphas, 0xFF00|uint64(6)<<16|uint64(7)<<19)

	if alphas[0] != 0x00 || alphas[1] != 0xFF {
		t.Fatalf("got 0x%02X 0x%02X expected 0x00 0xFF", alphas[0], alphas[1])
	}
}

func TestDecodeClipsEdgeBlocks(t *testing.T) {
	data := append(colorBlock(0xF800, 0xF800, 0), colorBlock(0x001F, 0x001F, 0)...)

	img, err := Decode(DXT1, data, 5, 3)
	if err != nil {
		t.Fatal(err)
	}

	if bounds := img.Bounds(); bounds.Dx() != 5 || bounds.Dy() != 3 {
		t.Fatalf("got bounds %v", bounds)
	}
	if got := img.NRGBAAt(4, 2); got != (color.NRGBA{B: 0xFF, A: 0xFF}) {
		t.Fatalf("got %v expected blue", got)
	}
}

func TestDecodeDataTooSmall(t *testing.T) {
	if _, err := Decode(DXT5, make([]byte, 16), 8, 4); err == nil {
		t.Fatal("expected an error")
	}
}

func TestCompressionString(t *testing.T) {
	if DXT3.String() != "DXT3" || DXT1.BlockSize() != 8 || DXT5.BlockSize() != 16 {
		t.Fatal("unexpected compression names or sizes")
	}
}
