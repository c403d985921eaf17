package scan

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// The core analyzes decoded character sequences, so every byte source goes
// through here first. The heuristics are deliberately modest: BOM-sniffed
// UTF-16, UTF-8 as-is, Latin-1 as the last resort for legacy text files.

// DecodeText converts raw file bytes into UTF-8 text.
func DecodeText(data []byte) string {
	// UTF-16 byte order marks
	if len(data) >= 2 {
		if data[0] == 0xFF && data[1] == 0xFE {
			if s, ok := decodeUTF16(data, unicode.LittleEndian); ok {
				return s
			}
		}
		if data[0] == 0xFE && data[1] == 0xFF {
			if s, ok := decodeUTF16(data, unicode.BigEndian); ok {
				return s
			}
		}
	}

	// UTF-8 BOM
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	if utf8.Valid(data) {
		return string(data)
	}

	// Latin-1 fallback: every byte decodes, so this cannot fail.
	if s, err := charmap.ISO8859_1.NewDecoder().String(string(data)); err == nil {
		return s
	}
	return string(data)
}

// decodeUTF16 decodes BOM-prefixed UTF-16 bytes in the given byte order.
func decodeUTF16(data []byte, endianness unicode.Endianness) (string, bool) {
	dec := unicode.UTF16(endianness, unicode.ExpectBOM).NewDecoder()
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", false
	}
	return string(out), true
}

// decodeUTF16Heuristic decodes UTF-16 without a BOM when the byte pattern
// looks like little-endian text (ASCII bytes interleaved with zeros), as in
// legacy .doc text streams. Returns false when the pattern does not hold.
func decodeUTF16Heuristic(data []byte) (string, bool) {
	if len(data) < 4 || len(data)%2 != 0 {
		return "", false
	}
	zeros := 0
	for i := 1; i < len(data) && i < 512; i += 2 {
		if data[i] == 0 {
			zeros++
		}
	}
	sampled := len(data) / 2
	if sampled > 256 {
		sampled = 256
	}
	if zeros*4 < sampled*3 { // under 75% of odd bytes zero
		return "", false
	}
	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", false
	}
	return string(out), true
}
