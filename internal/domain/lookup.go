package domain

import (
	"context"
	"errors"
)

// ErrNotFound is returned by an AddressLookup when the service reports the
// code as unknown.
var ErrNotFound = errors.New("cep not found")

// Address is the four-field record resolved for a CEP.
type Address struct {
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"` // two-letter UF code
}

// AddressLookup resolves normalized CEP digits to an address.
type AddressLookup interface {
	// Lookup returns ErrNotFound (possibly wrapped) for unknown codes and any
	// other error for transport or decoding failures.
	Lookup(ctx context.Context, digits string) (Address, error)
}
