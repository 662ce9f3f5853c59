package domain

// Kind is the closed set of booking variants. An appointment occupies a
// provider for a patient visit; a block reserves provider time with no
// patient attached.
type Kind string

const (
	KindAppointment Kind = "appointment"
	KindBlock       Kind = "block"
)

// IsValid reports whether k is a known booking kind.
func (k Kind) IsValid() bool {
	return k == KindAppointment || k == KindBlock
}

// Status is the workflow status shown on the schedule appointments tab.
type Status string

const (
	StatusPending   Status = "pending"
	StatusArrived   Status = "arrived"
	StatusInLobby   Status = "in_lobby"
	StatusInRoom    Status = "in_room"
	StatusSeen      Status = "seen"
	StatusNoShow    Status = "no_show"
	StatusCancelled Status = "cancelled"
	StatusTentative Status = "tentative"
)

// IsValid reports whether s is a known workflow status.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusArrived, StatusInLobby, StatusInRoom,
		StatusSeen, StatusNoShow, StatusCancelled, StatusTentative:
		return true
	}
	return false
}

// IntakeStatus tracks whether the patient intake form was submitted.
type IntakeStatus string

const (
	IntakeNotSubmitted IntakeStatus = "not_submitted"
	IntakeSubmitted    IntakeStatus = "submitted"
)
