package request

import (
	"bytes"
	"encoding/json"

	"cng-slot-booking/internal/domain/token"
)

// ScannedCode accepts what scanners send for tokenCode: a plain string (raw code,
// JSON envelope text or legacy QR text) or an inline JSON envelope object.
type ScannedCode struct {
	payload token.ScanPayload
}

func (s *ScannedCode) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		s.payload = token.DecodePayload(string(trimmed))
		return nil
	}

	var str string
	if err := json.Unmarshal(trimmed, &str); err != nil {
		// numbers and other scalars still reach the format check
		s.payload = token.DecodePayload(string(trimmed))
		return nil
	}
	s.payload = token.DecodePayload(str)
	return nil
}

func (s ScannedCode) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.payload.Code)
}

func (s ScannedCode) Code() string {
	return s.payload.Code
}

func (s ScannedCode) Kind() token.PayloadKind {
	return s.payload.Kind
}

func NewScannedCode(raw string) ScannedCode {
	return ScannedCode{payload: token.DecodePayload(raw)}
}

type RedeemTokenRequest struct {
	TokenCode ScannedCode `json:"tokenCode"`
	PumpID    string      `json:"pumpId"`
}
