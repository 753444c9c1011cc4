package textureInflater

// decodeConstantAlpha reads one alpha byte and assigns it, or full
// transparency, to runs of blocks.
func (state *inflaterState) decodeConstantAlpha() error {
	alphaValueByte, err := state.reader.TakeBits(8)
	if err != nil {
		return err
	}

	// Both endpoints of the alpha block, all indices on the first one
	alphaValue := uint64(alphaValueByte) | uint64(alphaValueByte)<<8

	var pixelBlockPos uint32

	for pixelBlockPos < state.fullFormat.NbPixelBlocks {
		code, err := state.dictionaryTree.ReadCode(state.reader)
		if err != nil {
			return err
		}
		runLength := uint32(code) + 1

		if err := state.reader.NeedBits(2); err != nil {
			return err
		}
		isSet := state.reader.ReadBits(1) != 0
		if err := state.reader.DropBits(1); err != nil {
			return err
		}

		// Only consumed when the run is set
		isNotNull := state.reader.ReadBits(1) != 0

		if isSet {
			if err := state.reader.DropBits(1); err != nil {
				return err
			}

			value := alphaValue
			if !isNotNull {
				value = 0
			}

			state.applyConstantAlpha(pixelBlockPos, state.runEnd(pixelBlockPos, runLength), value)
		}

		pixelBlockPos += runLength
	}

	return nil
}

func (state *inflaterState) applyConstantAlpha(pixelBlockPos uint32, end uint32, value uint64) {
	for ; pixelBlockPos < end; pixelBlockPos++ {
		offset := state.fullFormat.BytesPerPixelBlock * pixelBlockPos

		state.putComponent(offset, value, state.fullFormat.BytesPerComponent)
		state.alphaBitMap[pixelBlockPos] = true
	}
}
