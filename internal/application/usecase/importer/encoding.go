// Package importer contains the CSV ledger ingestion pipeline: encoding
// normalization, journal parsing, classification, dedup hashing, and the
// preview/commit use cases.
package importer

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	domainerror "github.com/team-mirai-volunteer/marumie-backend/internal/domain/error"
)

// Supported charset names for ImportConfig.DefaultCharset.
const (
	CharsetUTF8     = "utf-8"
	CharsetShiftJIS = "shift_jis"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// EncodingNormalizer converts uploaded byte buffers into canonical UTF-8 text.
type EncodingNormalizer struct {
	defaultCharset string
}

// NewEncodingNormalizer creates a normalizer with the given fallback charset.
// An empty charset defaults to Shift-JIS, matching the Money Forward export.
func NewEncodingNormalizer(defaultCharset string) *EncodingNormalizer {
	if defaultCharset == "" {
		defaultCharset = CharsetShiftJIS
	}
	return &EncodingNormalizer{defaultCharset: defaultCharset}
}

// Normalize decodes buf into a UTF-8 string. A UTF-8 BOM pins the charset;
// otherwise valid UTF-8 content is taken as-is and anything else is decoded
// under the configured default charset. It fails with a coded
// ErrUndecodableFile when no candidate charset applies.
func (n *EncodingNormalizer) Normalize(buf []byte) (string, error) {
	if len(buf) == 0 {
		return "", domainerror.NewImportError(
			domainerror.ErrCodeEmptyUpload,
			"uploaded file is empty",
			domainerror.ErrEmptyUpload,
		)
	}

	if bytes.HasPrefix(buf, utf8BOM) {
		body := buf[len(utf8BOM):]
		if !utf8.Valid(body) {
			return "", undecodable("file has a UTF-8 BOM but is not valid UTF-8")
		}
		return string(body), nil
	}

	if utf8.Valid(buf) {
		return string(buf), nil
	}

	switch n.defaultCharset {
	case CharsetShiftJIS:
		decoded, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), buf)
		if err != nil {
			return "", undecodable("file is not valid Shift-JIS")
		}
		text := string(decoded)
		if strings.ContainsRune(text, utf8.RuneError) {
			return "", undecodable("file contains bytes invalid under Shift-JIS")
		}
		return text, nil
	case CharsetUTF8:
		// UTF-8 already failed validation above.
		return "", undecodable("file is not valid UTF-8")
	default:
		return "", undecodable("unsupported default charset " + n.defaultCharset)
	}
}

func undecodable(message string) error {
	return domainerror.NewImportError(
		domainerror.ErrCodeUndecodableFile,
		message,
		domainerror.ErrUndecodableFile,
	)
}
