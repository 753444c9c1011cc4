package textureInflater

import (
	"sync"

	"github.com/ptolstoi/gw2inflate/internal/huffman"
)

// Each code of this tree is a run length minus one of pixel blocks sharing
// the same outcome.
var dictionaryRows = []huffman.DictionaryRow{
	{Bits: 1, Symbols: []uint16{0x00}},
	{Bits: 2, Symbols: []uint16{0x11}},
	{Bits: 6, Symbols: []uint16{
		0x10, 0x0F, 0x0E, 0x0D, 0x0C, 0x0B, 0x0A, 0x09,
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01,
	}},
}

var (
	dictionaryOnce sync.Once
	dictionaryTree *huffman.Tree
	dictionaryErr  error
)

func dictionary() (*huffman.Tree, error) {
	dictionaryOnce.Do(func() {
		dictionaryTree, dictionaryErr = huffman.NewDictionary(dictionaryRows)
	})
	return dictionaryTree, dictionaryErr
}
