package form

import "github.com/couchcryptid/cep-lookup/internal/domain"

// Phase is the form's position in its request cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseAwaitingResponse
	PhaseError
	PhaseSuccess
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	case PhaseAwaitingResponse:
		return "awaiting_response"
	case PhaseError:
		return "error"
	case PhaseSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// State is what the rendering layer reads. At most one of Error and Address
// is non-nil.
type State struct {
	Input   string
	Error   *string
	Loading bool
	Address *domain.Address
	Phase   Phase
}

// clone returns a copy that shares no pointers with s.
func (s State) clone() State {
	out := s
	if s.Error != nil {
		msg := *s.Error
		out.Error = &msg
	}
	if s.Address != nil {
		addr := *s.Address
		out.Address = &addr
	}
	return out
}
