// Package domain models Brazilian postal code (CEP) lookups.
//
// # CEP Format
//
// A CEP (Código de Endereçamento Postal) is eight digits. It is commonly
// written with a hyphen after the fifth digit:
//
//	"01310-930"  or  "01310930"
//
// Accepted input is exactly five digits, an optional hyphen, then exactly
// three digits (see [CEPPattern]). Nothing else is accepted: no surrounding
// whitespace, no dots ("01.310-930"), no partial codes. Valid input is
// normalized to the eight bare digits by [NormalizeCEP] before it is sent
// upstream, so "12345-678" and "12345678" produce the identical request.
//
// # Lookup Service
//
// Addresses are resolved by the public ViaCEP API:
//
//	GET https://viacep.com.br/ws/{digits}/json/
//
// A known code returns the address fields (field names are Portuguese):
//
//	logradouro  →  Street        e.g. "Avenida Paulista"
//	bairro      →  Neighborhood  e.g. "Bela Vista"
//	localidade  →  City          e.g. "São Paulo"
//	uf          →  State         two-letter code, e.g. "SP"
//
// An unknown but well-formed code returns a body with "erro": true and no
// address fields. Implementations of [AddressLookup] report that case as
// [ErrNotFound].
//
// # Outcomes
//
// Every submit resolves to exactly one [Outcome]:
//
//	FormatError     input rejected locally, no network call made
//	NotFound        lookup service reported the code as unknown
//	TransportError  network failure, bad status, or undecodable body
//	Success         address resolved
//
// The first three surface to the user as a single message string; none is
// retried and none is fatal.
package domain
