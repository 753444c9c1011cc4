package textureInflater

import "encoding/binary"

// decodeAlternateColor marks runs of blocks as fully described by a fixed
// interpolation pattern, covering both alpha and color.
func (state *inflaterState) decodeAlternateColor() error {
	var pixelBlockPos uint32

	for pixelBlockPos < state.fullFormat.NbPixelBlocks {
		runLength, isSet, err := state.readRun()
		if err != nil {
			return err
		}

		if isSet {
			state.applyAlternateColor(pixelBlockPos, state.runEnd(pixelBlockPos, runLength))
		}

		pixelBlockPos += runLength
	}

	return nil
}

func (state *inflaterState) applyAlternateColor(pixelBlockPos uint32, end uint32) {
	for ; pixelBlockPos < end; pixelBlockPos++ {
		if state.colorBitMap[pixelBlockPos] {
			continue
		}

		offset := state.fullFormat.BytesPerPixelBlock * pixelBlockPos
		if uint64(offset)+8 > uint64(len(state.output)) {
			return
		}

		binary.LittleEndian.PutUint16(state.output[offset:], 0xFFFE)
		binary.LittleEndian.PutUint16(state.output[offset+2:], 0xFFFF)
		binary.LittleEndian.PutUint32(state.output[offset+4:], 0xFFFFFFFF)

		state.alphaBitMap[pixelBlockPos] = true
		state.colorBitMap[pixelBlockPos] = true
	}
}
