// Package inflate decodes the compressed payloads stored in Guild Wars 2
// archives.
//
// DatFileBuffer handles generic compressed entries, TextureFileBuffer the
// Huffman coded pixel data of texture files. Both are safe for concurrent
// use. Failures are reported with the Err* values below and can be tested
// with errors.Is.
package inflate

import (
	"image"

	"github.com/ptolstoi/gw2inflate/internal/datInflater"
	"github.com/ptolstoi/gw2inflate/internal/inflateerr"
	"github.com/ptolstoi/gw2inflate/internal/textureInflater"
)

var (
	ErrTruncatedInput       = inflateerr.ErrTruncatedInput
	ErrEmptyTree            = inflateerr.ErrEmptyTree
	ErrTooManySymbols       = inflateerr.ErrTooManySymbols
	ErrInvalidCode          = inflateerr.ErrInvalidCode
	ErrInvalidTree          = inflateerr.ErrInvalidTree
	ErrInvalidLengthCode    = inflateerr.ErrInvalidLengthCode
	ErrInvalidOffsetCode    = inflateerr.ErrInvalidOffsetCode
	ErrInvalidBackReference = inflateerr.ErrInvalidBackReference
	ErrUnknownFormat        = inflateerr.ErrUnknownFormat

	ErrNullInput              = inflateerr.ErrNullInput
	ErrInconsistentOutputArgs = inflateerr.ErrInconsistentOutputArgs
	ErrOutputTooSmall         = inflateerr.ErrOutputTooSmall
)

// TextureFormat describes the block layout of a decoded texture.
type TextureFormat = textureInflater.FullFormat

// DatFileBuffer decodes a compressed archive entry.
//
// outputSize caps the decoded size; 0 leaves it to the size announced by the
// input. When output is not nil the data is decoded into it, outputSize must
// then be set and not exceed len(output).
func DatFileBuffer(input []byte, output []byte, outputSize uint32) ([]byte, error) {
	return datInflater.Inflate(input, output, outputSize)
}

// TextureFileBuffer decodes the pixel blocks of a texture file.
//
// outputSize, when not 0, must be at least the size derived from the texture
// dimensions. When output is not nil the data is decoded into it.
func TextureFileBuffer(input []byte, output []byte, outputSize uint32) ([]byte, TextureFormat, error) {
	return textureInflater.Inflate(input, output, outputSize)
}

// TextureImage decodes a DXT1 to DXT5 texture file and renders it.
func TextureImage(input []byte) (image.Image, error) {
	return textureInflater.InflateImage(input)
}
