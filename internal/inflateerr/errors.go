// Package inflateerr holds the error kinds shared by the inflaters.
package inflateerr

import "errors"

var (
	ErrTruncatedInput = errors.New("reached end of input while fetching bits")
	ErrEmptyTree      = errors.New("trying to read code from an empty huffman tree")
	ErrTooManySymbols = errors.New("too many symbols to decode")
	ErrInvalidCode    = errors.New("bit pattern matches no huffman code")
	ErrInvalidTree    = errors.New("code lengths over-subscribe the code space")

	ErrInvalidLengthCode    = errors.New("invalid value for write size code")
	ErrInvalidOffsetCode    = errors.New("invalid value for write offset code")
	ErrInvalidBackReference = errors.New("back reference points before start of output")

	ErrUnknownFormat = errors.New("unknown texture format")

	ErrNullInput              = errors.New("input buffer is null")
	ErrInconsistentOutputArgs = errors.New("output buffer is not null and output size is not defined")
	ErrOutputTooSmall         = errors.New("output buffer is too small")
)
