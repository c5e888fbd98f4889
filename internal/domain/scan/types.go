package scan

// Result is the outcome tag stored with every scan attempt.
type Result string

const (
	ResultSuccess          Result = "success"
	ResultInvalidFormat    Result = "invalid_format"
	ResultUnauthorizedPump Result = "unauthorized_pump"
	ResultNotFound         Result = "not_found"
	ResultWrongPump        Result = "wrong_pump"
	ResultAlreadyUsed      Result = "already_used"
	ResultExpired          Result = "expired"
	ResultTooEarly         Result = "too_early"
	ResultRaceCondition    Result = "race_condition"
)

func (r Result) String() string {
	return string(r)
}

func (r Result) IsValid() bool {
	switch r {
	case ResultSuccess, ResultInvalidFormat, ResultUnauthorizedPump, ResultNotFound,
		ResultWrongPump, ResultAlreadyUsed, ResultExpired, ResultTooEarly, ResultRaceCondition:
		return true
	default:
		return false
	}
}

func (r Result) IsSuccess() bool {
	return r == ResultSuccess
}

// Message is what staff see on the scanner.
func (r Result) Message() string {
	switch r {
	case ResultSuccess:
		return "Token verified successfully"
	case ResultInvalidFormat:
		return "Invalid token format"
	case ResultUnauthorizedPump:
		return "Not authorized for this pump"
	case ResultNotFound:
		return "Token not found"
	case ResultWrongPump:
		return "Token not valid for this pump"
	case ResultAlreadyUsed:
		return "Token already used"
	case ResultExpired:
		return "Token has expired"
	case ResultTooEarly:
		return "Token not yet valid"
	case ResultRaceCondition:
		return "Token already used or expired"
	default:
		return "Unknown result"
	}
}
