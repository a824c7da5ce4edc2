package pkginstrument

import (
	"bytes"
	"encoding/json"
	"unicode/utf8"

	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkglog"
)

// Unserializable replaces a value that could not be encoded for the log.
const Unserializable = "[unserializable]"

const maxLoggedDataBytes = 64 * 1024

//nolint:gochecknoglobals // constant JSON literal
var unserializableJSON = json.RawMessage(`"` + Unserializable + `"`)

func serializeArgs(args []any) string {
	parts := make([]json.RawMessage, len(args))
	for i, arg := range args {
		parts[i] = encodeValue(arg)
	}

	//nolint:errcheck // every part is valid JSON
	data, _ := json.Marshal(parts)
	return truncate(data)
}

func serializeValue(v any) string {
	return truncate(encodeValue(v))
}

// encodeValue never fails: values json cannot encode (cycles, channels,
// functions, panicking marshalers) become the Unserializable placeholder.
func encodeValue(v any) (out json.RawMessage) {
	defer func() {
		if rvr := recover(); rvr != nil {
			out = unserializableJSON
		}
	}()

	if err, ok := v.(error); ok && err != nil {
		v = err.Error()
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return unserializableJSON
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return raw
	}

	masked, err := json.Marshal(pkglog.MaskData(decoded))
	if err != nil {
		return raw
	}
	return masked
}

// truncate cuts data to maxLoggedDataBytes on a rune boundary.
func truncate(data []byte) string {
	if len(data) <= maxLoggedDataBytes {
		return string(data)
	}

	cut := maxLoggedDataBytes
	for cut > 0 && !utf8.RuneStart(data[cut]) {
		cut--
	}
	return string(data[:cut]) + "...(truncated)"
}
