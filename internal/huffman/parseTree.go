package huffman

import (
	"fmt"

	"github.com/ptolstoi/gw2inflate/internal/bitstream"
	"github.com/ptolstoi/gw2inflate/internal/inflateerr"
)

// ParseTree reads a dynamic tree header from reader and builds it into tree.
// The header is a 16-bit symbol count followed by codes of dictionary, each
// holding a code length in its low 5 bits and a repeat count minus one in the
// remaining bits. Symbols are assigned from the highest index down; a code
// length of 0 skips the repeated symbols.
func ParseTree(reader *bitstream.Reader, dictionary *Tree, tree *Tree) error {
	numberOfSymbols, err := reader.TakeBits(16)
	if err != nil {
		return err
	}

	if numberOfSymbols > uint32(MaxSymbolValue) {
		return fmt.Errorf("%w: %v > %v", inflateerr.ErrTooManySymbols, numberOfSymbols, MaxSymbolValue)
	}

	var lengths CodeLengths

	remainingSymbols := int(numberOfSymbols) - 1

	for remainingSymbols > -1 {
		code, err := dictionary.ReadCode(reader)
		if err != nil {
			return err
		}

		codeNumberOfBits := uint8(code & 0x1F)
		codeNumberOfSymbols := int(code>>5) + 1

		if codeNumberOfBits == 0 {
			remainingSymbols -= codeNumberOfSymbols
			continue
		}

		for ; codeNumberOfSymbols > 0; codeNumberOfSymbols-- {
			if remainingSymbols < 0 {
				return fmt.Errorf("%w: run of %v bits codes overflows the symbol count %v",
					inflateerr.ErrTooManySymbols, codeNumberOfBits, numberOfSymbols)
			}

			if err := lengths.Add(codeNumberOfBits, uint16(remainingSymbols)); err != nil {
				return err
			}
			remainingSymbols--
		}
	}

	return tree.Build(&lengths)
}
