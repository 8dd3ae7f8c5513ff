package extraction

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"docshelf/internal/services"
)

type encodingCandidate struct {
	name   string
	decode func([]byte) (string, error)
}

// Candidates are attempted in order; a decode failure advances to the next.
// UTF-8 first, then the two legacy single-byte encodings the documents in the
// wild tend to use.
var encodingCandidates = []encodingCandidate{
	{name: "utf-8", decode: decodeUTF8},
	{name: "latin-1", decode: decodeCharmapFunc(charmap.ISO8859_1)},
	{name: "windows-1252", decode: decodeCharmapFunc(charmap.Windows1252)},
}

func extractPlainText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", services.Wrap(services.ErrNotFound, "extraction", "read text", "Failed to read text file", err)
	}

	var lastErr error
	for _, candidate := range encodingCandidates {
		text, err := candidate.decode(data)
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", candidate.name, err)
			continue
		}
		return text, nil
	}
	return "", services.Wrap(services.ErrEncoding, "extraction", "decode text", "All candidate encodings failed", lastErr)
}

func decodeUTF8(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.New("invalid byte sequence")
	}
	return string(data), nil
}

func decodeCharmapFunc(cm *charmap.Charmap) func([]byte) (string, error) {
	return func(data []byte) (string, error) {
		decoded, err := cm.NewDecoder().Bytes(data)
		if err != nil {
			return "", err
		}
		return string(decoded), nil
	}
}
