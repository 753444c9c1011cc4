package huffman_test

import (
	"errors"
	"testing"

	"github.com/ptolstoi/gw2inflate/internal/bitstream"
	"github.com/ptolstoi/gw2inflate/internal/bitstream/bitstreamtest"
	"github.com/ptolstoi/gw2inflate/internal/huffman"
	"github.com/ptolstoi/gw2inflate/internal/huffman/huffmantest"
	"github.com/ptolstoi/gw2inflate/internal/inflateerr"
)

// Every byte value coded on 8 bits.
func flatRows() []huffman.DictionaryRow {
	symbols := make([]uint16, 256)
	for i := range symbols {
		symbols[i] = uint16(i)
	}
	return []huffman.DictionaryRow{{Bits: 8, Symbols: symbols}}
}

// Lengths 1 to 11 for one symbol each and 12 for two, a complete code with
// codes longer than the hash.
func deepRows() []huffman.DictionaryRow {
	var rows []huffman.DictionaryRow
	for bits := uint8(1); bits <= 11; bits++ {
		rows = append(rows, huffman.DictionaryRow{Bits: bits, Symbols: []uint16{uint16(bits) * 10}})
	}
	return append(rows, huffman.DictionaryRow{Bits: 12, Symbols: []uint16{200, 201}})
}

func decodeAll(t *testing.T, tree *huffman.Tree, input []byte, count int) []uint16 {
	t.Helper()

	reader := bitstream.NewReader(input)

	decoded := make([]uint16, 0, count)
	for i := 0; i < count; i++ {
		symbol, err := tree.ReadCode(reader)
		if err != nil {
			t.Fatalf("symbol %v: %v", i, err)
		}
		decoded = append(decoded, symbol)
	}
	return decoded
}

func checkRoundTrip(t *testing.T, rows []huffman.DictionaryRow, symbols []uint16) {
	t.Helper()

	tree, err := huffman.NewDictionary(rows)
	if err != nil {
		t.Fatal(err)
	}

	encoder := huffmantest.NewEncoder(rows)
	writer := bitstreamtest.NewWriter()
	for _, symbol := range symbols {
		encoder.Write(writer, symbol)
	}
	input := writer.Bytes()
	if err := writer.Err(); err != nil {
		t.Fatal(err)
	}

	decoded := decodeAll(t, tree, input, len(symbols))
	for i := range symbols {
		if decoded[i] != symbols[i] {
			t.Fatalf("symbol %v: got 0x%X expected 0x%X", i, decoded[i], symbols[i])
		}
	}
}

func TestFlatDictionaryRoundTrip(t *testing.T) {
	checkRoundTrip(t, flatRows(), []uint16{0x00, 0xFF, 0x41, 0x80, 0x7F, 0x01})
}

func TestLongCodesRoundTrip(t *testing.T) {
	checkRoundTrip(t, deepRows(), []uint16{10, 200, 110, 90, 201, 20, 100, 80, 10, 10, 201})
}

func TestLastRegisteredSymbolGetsHighestCode(t *testing.T) {
	rows := []huffman.DictionaryRow{{Bits: 1, Symbols: []uint16{7, 9}}}

	tree, err := huffman.NewDictionary(rows)
	if err != nil {
		t.Fatal(err)
	}

	// 1 then 0
	decoded := decodeAll(t, tree, bitstreamtest.NewWriter().WriteBits(0x2, 2).Bytes(), 2)
	if decoded[0] != 9 || decoded[1] != 7 {
		t.Fatalf("got %v expected [9 7]", decoded)
	}
}

func TestEmptyTree(t *testing.T) {
	tree, err := huffman.NewTree(&huffman.CodeLengths{})
	if err != nil {
		t.Fatal(err)
	}
	if !tree.IsEmpty() {
		t.Fatal("expected an empty tree")
	}

	reader := bitstream.NewReader(bitstreamtest.NewWriter().WriteWord(0).Bytes())
	if _, err := tree.ReadCode(reader); !errors.Is(err, inflateerr.ErrEmptyTree) {
		t.Fatalf("expected ErrEmptyTree, got %v", err)
	}
}

func TestOverSubscribedTree(t *testing.T) {
	var lengths huffman.CodeLengths
	for _, symbol := range []uint16{1, 2, 3} {
		if err := lengths.Add(1, symbol); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := huffman.NewTree(&lengths); !errors.Is(err, inflateerr.ErrInvalidTree) {
		t.Fatalf("expected ErrInvalidTree, got %v", err)
	}
}

func TestOverSubscribedLongCodes(t *testing.T) {
	var lengths huffman.CodeLengths
	if err := lengths.Add(1, 1); err != nil {
		t.Fatal(err)
	}
	if err := lengths.Add(1, 2); err != nil {
		t.Fatal(err)
	}
	if err := lengths.Add(10, 3); err != nil {
		t.Fatal(err)
	}

	if _, err := huffman.NewTree(&lengths); !errors.Is(err, inflateerr.ErrInvalidTree) {
		t.Fatalf("expected ErrInvalidTree, got %v", err)
	}
}

func TestIncompleteTreeInvalidCode(t *testing.T) {
	// Only code 11 exists, on 2 bits, and a 12-bit code below it.
	var lengths huffman.CodeLengths
	if err := lengths.Add(2, 5); err != nil {
		t.Fatal(err)
	}
	if err := lengths.Add(12, 6); err != nil {
		t.Fatal(err)
	}

	tree, err := huffman.NewTree(&lengths)
	if err != nil {
		t.Fatal(err)
	}

	reader := bitstream.NewReader(bitstreamtest.NewWriter().WriteWord(0).WriteWord(0).Bytes())
	if _, err := tree.ReadCode(reader); !errors.Is(err, inflateerr.ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}
}

func TestAddRejectsOutOfRange(t *testing.T) {
	var lengths huffman.CodeLengths

	if err := lengths.Add(huffman.MaxCodeBitsLength, 1); err == nil {
		t.Fatal("expected an error for the code length")
	}
	if err := lengths.Add(3, huffman.MaxSymbolValue); err == nil {
		t.Fatal("expected an error for the symbol")
	}
}

func writeTree(numberOfSymbols int, lengths map[uint16]uint8) *bitstreamtest.Writer {
	writer := bitstreamtest.NewWriter()
	huffmantest.WriteTree(writer, huffmantest.NewEncoder(flatRows()), numberOfSymbols, lengths)
	return writer
}

func TestParseTree(t *testing.T) {
	// Incomplete on purpose, some codes are longer than the hash.
	lengths := map[uint16]uint8{0: 2, 3: 2, 4: 3, 100: 3, 150: 9, 151: 9, 200: 4, 285: 4}
	lengths[201] = 5
	lengths[202] = 6
	lengths[203] = 7
	lengths[204] = 8
	lengths[205] = 9

	dictionary, err := huffman.NewDictionary(flatRows())
	if err != nil {
		t.Fatal(err)
	}

	symbols := []uint16{285, 0, 151, 3, 205, 100, 4, 150, 204, 203, 202, 201, 200}

	writer := writeTree(286, lengths)
	encoder := huffmantest.FromLengths(lengths)
	for _, symbol := range symbols {
		encoder.Write(writer, symbol)
	}
	input := writer.Bytes()

	reader := bitstream.NewReader(input)

	var tree huffman.Tree
	if err := huffman.ParseTree(reader, dictionary, &tree); err != nil {
		t.Fatal(err)
	}

	for i, expected := range symbols {
		symbol, err := tree.ReadCode(reader)
		if err != nil {
			t.Fatalf("symbol %v: %v", i, err)
		}
		if symbol != expected {
			t.Fatalf("symbol %v: got %v expected %v", i, symbol, expected)
		}
	}
}

func TestParseTreeSymbolCountLimit(t *testing.T) {
	dictionary, err := huffman.NewDictionary(flatRows())
	if err != nil {
		t.Fatal(err)
	}

	lengths := map[uint16]uint8{0: 1, 1: 1}

	var tree huffman.Tree
	reader := bitstream.NewReader(writeTree(int(huffman.MaxSymbolValue), lengths).Bytes())
	if err := huffman.ParseTree(reader, dictionary, &tree); err != nil {
		t.Fatalf("%v symbols: %v", huffman.MaxSymbolValue, err)
	}

	reader = bitstream.NewReader(bitstreamtest.NewWriter().WriteBits(uint64(huffman.MaxSymbolValue)+1, 16).Bytes())
	if err := huffman.ParseTree(reader, dictionary, &tree); !errors.Is(err, inflateerr.ErrTooManySymbols) {
		t.Fatalf("expected ErrTooManySymbols, got %v", err)
	}
}

func TestParseTreeRunPastFirstSymbol(t *testing.T) {
	dictionary, err := huffman.NewDictionary(flatRows())
	if err != nil {
		t.Fatal(err)
	}

	// 2 symbols, then a run of 3 codes of 1 bit.
	writer := bitstreamtest.NewWriter().WriteBits(2, 16)
	huffmantest.NewEncoder(flatRows()).Write(writer, 2<<5|1)

	var tree huffman.Tree
	reader := bitstream.NewReader(writer.Bytes())
	if err := huffman.ParseTree(reader, dictionary, &tree); !errors.Is(err, inflateerr.ErrTooManySymbols) {
		t.Fatalf("expected ErrTooManySymbols, got %v", err)
	}
}

func TestParseTreeEmpty(t *testing.T) {
	dictionary, err := huffman.NewDictionary(flatRows())
	if err != nil {
		t.Fatal(err)
	}

	var tree huffman.Tree
	reader := bitstream.NewReader(bitstreamtest.NewWriter().WriteBits(0, 16).Bytes())
	if err := huffman.ParseTree(reader, dictionary, &tree); err != nil {
		t.Fatal(err)
	}
	if !tree.IsEmpty() {
		t.Fatal("expected an empty tree")
	}
}

func TestParseTreeTruncated(t *testing.T) {
	dictionary, err := huffman.NewDictionary(flatRows())
	if err != nil {
		t.Fatal(err)
	}

	var tree huffman.Tree
	reader := bitstream.NewReader(bitstreamtest.NewWriter().WriteBits(200, 16).Bytes())
	if err := huffman.ParseTree(reader, dictionary, &tree); !errors.Is(err, inflateerr.ErrTruncatedInput) {
		t.Fatalf("expected ErrTruncatedInput, got %v", err)
	}
}
