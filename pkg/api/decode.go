package api

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/gogits/chardet"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/gsy-tools/gsy/pkg/util/console"
)

// DecodeJSON unmarshals data into v, working around the two defects the upstream
// responses are known to carry: stray ASCII control characters inside string values,
// and bodies in a legacy charset rather than UTF-8.
//
// The charset check has to happen before the first Unmarshal: encoding/json does not
// reject invalid UTF-8 in string values, it silently replaces the bytes with U+FFFD,
// so a Latin-1 body would otherwise decode "successfully" with mangled text.
func DecodeJSON(data []byte, v interface{}) error {
	if !utf8.Valid(data) {
		if decoded, ok := transcode(data); ok {
			data = decoded
		}
	}

	err := json.Unmarshal(data, v)
	if err == nil {
		return nil
	}
	console.Debugf("JSON decode error: %s", err)

	if jsonErr := json.Unmarshal(stripControlChars(data), v); jsonErr == nil {
		return nil
	}
	return err
}

// stripControlChars removes ASCII control characters except tab, LF and CR.
func stripControlChars(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for _, b := range data {
		if b < 0x20 && b != '\t' && b != '\n' && b != '\r' {
			continue
		}
		out = append(out, b)
	}
	return out
}

// transcode sniffs the charset of data and converts it to UTF-8.
func transcode(data []byte) ([]byte, bool) {
	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || result.Charset == "" {
		return nil, false
	}
	enc, err := htmlindex.Get(strings.ToLower(result.Charset))
	if err != nil {
		console.Debugf("Unknown charset %q in response", result.Charset)
		return nil, false
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, false
	}
	console.Debugf("Transcoded response from %s", result.Charset)
	return decoded, true
}
