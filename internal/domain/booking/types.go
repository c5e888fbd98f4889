package booking

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

func NewStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

type ConfirmationStatus string

const (
	ConfirmationPending   ConfirmationStatus = "pending"
	ConfirmationComing    ConfirmationStatus = "coming"
	ConfirmationNotComing ConfirmationStatus = "not_coming"
)

func (c ConfirmationStatus) String() string {
	return string(c)
}

func (c ConfirmationStatus) IsValid() bool {
	switch c {
	case ConfirmationPending, ConfirmationComing, ConfirmationNotComing:
		return true
	default:
		return false
	}
}

// NewConfirmationStatus maps an empty string to nil (no answer recorded).
func NewConfirmationStatus(s string) (*ConfirmationStatus, error) {
	if s == "" {
		return nil, nil
	}
	c := ConfirmationStatus(s)
	if !c.IsValid() {
		return nil, ErrInvalidConfirmation
	}
	return &c, nil
}
