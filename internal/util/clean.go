package util

import (
	"bytes"
	"errors"
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
)

const maxBinaryCheckBytes = 512

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrBinaryInput is returned for input that looks like a binary file.
var ErrBinaryInput = errors.New("input looks like binary data")

var charReplacer = strings.NewReplacer(
	"\u2018", "'", "\u2019", "'", "\u201C", "\"", "\u201D", "\"",
	"\u2013", "-", "\u2014", "--", "\u2026", "...", "\u00a0", " ",
)

// IsLikelyBinary reports whether data contains a NUL byte in its first 512 bytes.
func IsLikelyBinary(data []byte) bool {
	if len(data) > maxBinaryCheckBytes {
		data = data[:maxBinaryCheckBytes]
	}
	return bytes.IndexByte(data, 0) >= 0
}

// CleanText turns raw memory input into prompt-safe text: the UTF-8 BOM is
// dropped, invalid sequences become U+FFFD, typographic punctuation is folded
// to ASCII and surrounding whitespace is trimmed. src names the input in logs.
func CleanText(data []byte, src string) (string, error) {
	if IsLikelyBinary(data) {
		return "", ErrBinaryInput
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	if !utf8.Valid(data) {
		log.Warnf("%s contains invalid UTF-8, replacing invalid characters", src)
		data = bytes.ToValidUTF8(data, []byte(string(utf8.RuneError)))
	}

	return strings.TrimSpace(charReplacer.Replace(string(data))), nil
}
