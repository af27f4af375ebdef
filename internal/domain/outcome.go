package domain

import (
	"errors"
	"time"
)

// User-facing messages. The form is Portuguese-only.
const (
	MsgInvalidFormat = "CEP inválido. Formato correto: 12345-678 ou 12345678."
	MsgNotFound      = "CEP não encontrado."
)

// OutcomeKind enumerates the ways a submit can resolve.
type OutcomeKind int

const (
	OutcomeFormatError OutcomeKind = iota
	OutcomeNotFound
	OutcomeTransportError
	OutcomeSuccess
)

var outcomeNames = map[OutcomeKind]string{
	OutcomeFormatError:    "format_error",
	OutcomeNotFound:       "not_found",
	OutcomeTransportError: "transport_error",
	OutcomeSuccess:        "success",
}

func (k OutcomeKind) String() string {
	if s, ok := outcomeNames[k]; ok {
		return s
	}
	return "unknown"
}

// Outcome is the result of one submit. Address is set only for
// OutcomeSuccess; Message is set for every other kind.
type Outcome struct {
	Kind    OutcomeKind
	Address *Address
	Message string
}

// Failed reports whether the outcome carries a user-facing error message.
func (o Outcome) Failed() bool {
	return o.Kind != OutcomeSuccess
}

// FormatErrorOutcome is the outcome for input rejected before any lookup.
func FormatErrorOutcome() Outcome {
	return Outcome{Kind: OutcomeFormatError, Message: MsgInvalidFormat}
}

// ClassifyLookup maps the return values of AddressLookup.Lookup to an Outcome.
// Transport failures keep the underlying error text as their message.
func ClassifyLookup(addr Address, err error) Outcome {
	switch {
	case err == nil:
		return Outcome{Kind: OutcomeSuccess, Address: &addr}
	case errors.Is(err, ErrNotFound):
		return Outcome{Kind: OutcomeNotFound, Message: MsgNotFound}
	default:
		return Outcome{Kind: OutcomeTransportError, Message: err.Error()}
	}
}

// LookupEvent describes one completed request cycle. It is what the event
// sink publishes downstream.
type LookupEvent struct {
	ID          string        `json:"id"`
	Input       string        `json:"input"`
	CEP         string        `json:"cep,omitempty"` // normalized digits, empty on format errors
	Outcome     string        `json:"outcome"`
	Address     *Address      `json:"address,omitempty"`
	Message     string        `json:"message,omitempty"`
	RequestedAt time.Time     `json:"requested_at"`
	Duration    time.Duration `json:"duration_ns"`
}
