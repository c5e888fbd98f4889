package scan

import (
	"time"

	"github.com/google/uuid"
)

// Attempt is one audit row. TokenID is nil when the code never resolved to a token.
type Attempt struct {
	ID        uuid.UUID
	TokenID   *uuid.UUID
	PumpID    uuid.UUID
	ScannedBy uuid.UUID
	Result    Result
	TokenCode string
	ScannedAt time.Time
}

func NewAttempt(tokenID *uuid.UUID, pumpID, scannedBy uuid.UUID, result Result, tokenCode string, at time.Time) Attempt {
	return Attempt{
		ID:        uuid.New(),
		TokenID:   tokenID,
		PumpID:    pumpID,
		ScannedBy: scannedBy,
		Result:    result,
		TokenCode: tokenCode,
		ScannedAt: at,
	}
}
