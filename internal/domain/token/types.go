package token

type Status string

const (
	StatusValid   Status = "valid"
	StatusUsed    Status = "used"
	StatusExpired Status = "expired"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusValid, StatusUsed, StatusExpired:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusUsed || s == StatusExpired
}

// CanTransitionTo: valid -> used | expired, nothing leaves a terminal state.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusValid && next.IsTerminal()
}

func NewStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}
