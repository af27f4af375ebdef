package render

import (
	"bytes"
	"testing"

	"github.com/couchcryptid/cep-lookup/internal/domain"
	"github.com/couchcryptid/cep-lookup/internal/form"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText_Result(t *testing.T) {
	var buf bytes.Buffer
	err := Text(&buf, form.State{
		Phase: form.PhaseSuccess,
		Address: &domain.Address{
			Street:       "Avenida Paulista",
			Neighborhood: "Bela Vista",
			City:         "São Paulo",
			State:        "SP",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Logradouro: Avenida Paulista\nBairro: Bela Vista\nCidade: São Paulo\nEstado: SP\n", buf.String())
}

func TestText_Error(t *testing.T) {
	msg := domain.MsgNotFound
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, form.State{Phase: form.PhaseError, Error: &msg}))

	assert.Equal(t, "Erro: CEP não encontrado.\n", buf.String())
}

func TestText_Loading(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, form.State{Phase: form.PhaseAwaitingResponse, Loading: true}))

	assert.Equal(t, BusyText+"\n", buf.String())
}

func TestText_IdleRendersNothing(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, form.State{}))
	require.NoError(t, Text(&buf, form.State{Phase: form.PhaseValidating, Input: "123"}))

	assert.Empty(t, buf.String())
}
