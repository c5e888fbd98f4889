package token

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// LegacyPayloadPrefix marks the colon separated QR text issued before the JSON envelope.
const LegacyPayloadPrefix = "CNG_TOKEN:"

type PayloadKind int

const (
	PayloadRaw PayloadKind = iota
	PayloadEnvelope
	PayloadLegacy
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadEnvelope:
		return "envelope"
	case PayloadLegacy:
		return "legacy"
	default:
		return "raw"
	}
}

type envelope struct {
	TokenCode string `json:"tokenCode"`
	BookingID string `json:"bookingId,omitempty"`
}

// ScanPayload is whatever a scanner or a keyboard handed in, resolved to a code candidate.
// The candidate is not validated here.
type ScanPayload struct {
	Kind      PayloadKind
	Code      string
	BookingID string
}

func EncodePayload(code Code, bookingID uuid.UUID) string {
	b, err := json.Marshal(envelope{TokenCode: code.String(), BookingID: bookingID.String()})
	if err != nil {
		// marshalling two strings cannot fail
		return code.String()
	}
	return string(b)
}

func DecodePayload(raw string) ScanPayload {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "{") {
		var env envelope
		if err := json.Unmarshal([]byte(s), &env); err == nil && env.TokenCode != "" {
			return ScanPayload{Kind: PayloadEnvelope, Code: strings.TrimSpace(env.TokenCode), BookingID: env.BookingID}
		}
		return ScanPayload{Kind: PayloadRaw, Code: s}
	}

	if strings.HasPrefix(strings.ToUpper(s), LegacyPayloadPrefix) {
		parts := strings.SplitN(s[len(LegacyPayloadPrefix):], ":", 2)
		p := ScanPayload{Kind: PayloadLegacy, Code: strings.TrimSpace(parts[0])}
		if len(parts) == 2 {
			p.BookingID = strings.TrimSpace(parts[1])
		}
		return p
	}

	return ScanPayload{Kind: PayloadRaw, Code: s}
}
