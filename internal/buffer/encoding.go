package buffer

import (
	"bytes"

	"golang.org/x/text/encoding/unicode"
)

type sourceEncoding int

const (
	encodingUTF8 sourceEncoding = iota
	encodingUTF8BOM
	encodingUTF16LE
	encodingUTF16BE
)

// detectEncoding probes the first bytes of a source for a Unicode BOM.
// Anything without a recognizable BOM is treated as UTF-8.
func detectEncoding(sample []byte) sourceEncoding {
	switch {
	case bytes.HasPrefix(sample, []byte{0xEF, 0xBB, 0xBF}):
		return encodingUTF8BOM
	case bytes.HasPrefix(sample, []byte{0xFF, 0xFE}):
		return encodingUTF16LE
	case bytes.HasPrefix(sample, []byte{0xFE, 0xFF}):
		return encodingUTF16BE
	default:
		return encodingUTF8
	}
}

// decodeChunk converts one raw chunk into UTF-8 according to enc. UTF-16
// chunks arrive with an even length; the reader holds back odd tails.
func decodeChunk(enc sourceEncoding, raw []byte) ([]byte, error) {
	switch enc {
	case encodingUTF16LE:
		decoder := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
		return decoder.Bytes(raw)
	case encodingUTF16BE:
		decoder := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
		return decoder.Bytes(raw)
	default:
		return raw, nil
	}
}
