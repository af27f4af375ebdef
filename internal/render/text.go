// Package render draws form state for terminals.
package render

import (
	"fmt"
	"io"

	"github.com/couchcryptid/cep-lookup/internal/form"
)

// Result block labels, in display order.
const (
	LabelStreet       = "Logradouro"
	LabelNeighborhood = "Bairro"
	LabelCity         = "Cidade"
	LabelState        = "Estado"
)

// BusyText is shown while a lookup is in flight.
const BusyText = "Consultando..."

// Text writes the visible part of s: the busy line, the error line, or the
// four-line result block. Idle and validating states render nothing.
func Text(w io.Writer, s form.State) error {
	var err error
	switch {
	case s.Phase == form.PhaseValidating:
	case s.Loading:
		_, err = fmt.Fprintln(w, BusyText)
	case s.Error != nil:
		_, err = fmt.Fprintf(w, "Erro: %s\n", *s.Error)
	case s.Address != nil:
		_, err = fmt.Fprintf(w, "%s: %s\n%s: %s\n%s: %s\n%s: %s\n",
			LabelStreet, s.Address.Street,
			LabelNeighborhood, s.Address.Neighborhood,
			LabelCity, s.Address.City,
			LabelState, s.Address.State,
		)
	}
	return err
}
