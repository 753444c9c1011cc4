// Package filetype guesses the kind of an inflated archive entry from its
// leading magic number.
package filetype

import "bytes"

type FileType string

const (
	Unknown FileType = "unknown"

	TextureATEX FileType = "ATEX"
	TextureATTX FileType = "ATTX"
	TextureATEC FileType = "ATEC"
	TextureATEP FileType = "ATEP"
	TextureATEU FileType = "ATEU"
	TextureATET FileType = "ATET"

	PackFile FileType = "PF"
	DDS      FileType = "DDS"
	PNG      FileType = "PNG"
	JPEG     FileType = "JPEG"
	RIFF     FileType = "RIFF"
	OGG      FileType = "OGG"
	Strings  FileType = "strs"
	ASND     FileType = "asnd"
)

var magics = []struct {
	magic    []byte
	fileType FileType
}{
	{[]byte("ATEX"), TextureATEX},
	{[]byte("ATTX"), TextureATTX},
	{[]byte("ATEC"), TextureATEC},
	{[]byte("ATEP"), TextureATEP},
	{[]byte("ATEU"), TextureATEU},
	{[]byte("ATET"), TextureATET},
	{[]byte("DDS "), DDS},
	{[]byte("\x89PNG"), PNG},
	{[]byte("\xFF\xD8\xFF"), JPEG},
	{[]byte("RIFF"), RIFF},
	{[]byte("OggS"), OGG},
	{[]byte("strs"), Strings},
	{[]byte("asnd"), ASND},
	{[]byte("PF"), PackFile},
}

// Deduce returns the type announced by the first bytes of buf.
func Deduce(buf []byte) FileType {
	for _, m := range magics {
		if bytes.HasPrefix(buf, m.magic) {
			return m.fileType
		}
	}
	return Unknown
}

// IsTexture reports whether fileType is one of the texture containers whose
// payload is read by the texture inflater.
func IsTexture(fileType FileType) bool {
	switch fileType {
	case TextureATEX, TextureATTX, TextureATEC, TextureATEP, TextureATEU, TextureATET:
		return true
	}
	return false
}

// Extension is the file name extension used when writing fileType to disk.
func Extension(fileType FileType) string {
	switch fileType {
	case Unknown:
		return ".bin"
	case PackFile:
		return ".pf"
	case DDS:
		return ".dds"
	case PNG:
		return ".png"
	case JPEG:
		return ".jpg"
	case RIFF:
		return ".wav"
	case OGG:
		return ".ogg"
	case Strings:
		return ".strs"
	case ASND:
		return ".asnd"
	}
	return "." + string(fileType)
}
