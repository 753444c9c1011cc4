package textureInflater

const (
	plainColorMarker uint32 = 0xFF000000

	plainColorWhite     uint64 = 0x00000000FFFEFFFF
	plainColorBlackAlt  uint64 = 0xAAAAAAAA00000000
	plainColorBlackBoth uint64 = 0x5555555500000001
)

// decodePlainColor reads one 24-bit color and assigns it to runs of blocks.
func (state *inflaterState) decodePlainColor() error {
	colorValueBits, err := state.reader.TakeBits(24)
	if err != nil {
		return err
	}

	colorValue := state.plainColorValue(colorValueBits)

	var pixelBlockPos uint32

	for pixelBlockPos < state.fullFormat.NbPixelBlocks {
		runLength, isSet, err := state.readRun()
		if err != nil {
			return err
		}

		if isSet {
			state.applyPlainColor(pixelBlockPos, state.runEnd(pixelBlockPos, runLength), colorValue)
		}

		pixelBlockPos += runLength
	}

	return nil
}

// plainColorValue maps the two reserved encodings to interpolation endpoint
// pairs and keeps any other value as is.
func (state *inflaterState) plainColorValue(colorValueBits uint32) uint64 {
	switch plainColorMarker | colorValueBits {
	case 0xFFFFFFFF:
		return plainColorWhite
	case plainColorMarker:
		if state.fullFormat.Flags&FfSingleBlock != 0 {
			return plainColorBlackAlt
		}
		return plainColorBlackBoth
	default:
		return uint64(colorValueBits)
	}
}

func (state *inflaterState) applyPlainColor(pixelBlockPos uint32, end uint32, value uint64) {
	for ; pixelBlockPos < end; pixelBlockPos++ {
		state.putComponent(state.colorOffset(pixelBlockPos), value, state.fullFormat.BytesPerComponent)
		state.colorBitMap[pixelBlockPos] = true
	}
}
