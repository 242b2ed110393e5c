package llm

import (
	"encoding/json"
	"errors"
	"strings"

	"resumeforge/internal/shared/apperr"
)

// DecodeObject unmarshals generator output into v, which must be a JSON object.
// Failures are KindMalformed.
func DecodeObject(op, text string, v any) error {
	trimmed := strings.TrimSpace(StripFences(text))
	if !strings.HasPrefix(trimmed, "{") {
		return apperr.E(apperr.KindMalformed, op, errors.New("response is not a JSON object"))
	}
	if err := json.Unmarshal([]byte(trimmed), v); err != nil {
		return apperr.E(apperr.KindMalformed, op, err)
	}
	return nil
}

// ErrorPayload builds the structured {"error": "..."} object that stands in
// for an expected payload when a call could not produce one.
func ErrorPayload(err error) json.RawMessage {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	b, _ := json.Marshal(map[string]string{"error": msg})
	return b
}
