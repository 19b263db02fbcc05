package extraction

import (
	"regexp"

	"github.com/ondesc/backend/internal/domain/entity"
)

// Validated field names, as reported to API clients.
const (
	FieldAccountID      = "uc"
	FieldReferenceMonth = "mesReferencia"
	FieldName           = "cliente.nome"
	FieldAddress        = "cliente.endereco"
	FieldPostalCode     = "cliente.cep"
	FieldCity           = "cliente.cidade"
	FieldState          = "cliente.estado"
	FieldTaxID          = "cliente.documento"
)

var (
	validAccountID      = regexp.MustCompile(`^\d{8,15}$`)
	validReferenceMonth = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{4}$`)
	validPostalCode     = regexp.MustCompile(`^\d{5}-\d{3}$`)
	validState          = regexp.MustCompile(`^[A-Z]{2}$`)
)

// Validate checks the extracted customer record and lists every problem found.
// An empty result means the record is complete.
func Validate(record entity.CustomerRecord) []entity.ValidationIssue {
	var issues []entity.ValidationIssue
	add := func(field, message string) {
		issues = append(issues, entity.ValidationIssue{Field: field, Message: message})
	}

	switch {
	case record.AccountID == "":
		add(FieldAccountID, "UC não encontrada")
	case !validAccountID.MatchString(record.AccountID):
		add(FieldAccountID, "UC inválida (esperado 8 a 15 dígitos)")
	}

	switch {
	case record.ReferenceMonth == "":
		add(FieldReferenceMonth, "Mês de referência não encontrado")
	case !validReferenceMonth.MatchString(record.ReferenceMonth):
		add(FieldReferenceMonth, "Formato inválido (MM/YYYY)")
	}

	customer := record.Customer

	if customer.Name == "" {
		add(FieldName, "Nome do cliente não encontrado")
	}

	if customer.Address == "" {
		add(FieldAddress, "Endereço não encontrado")
	}

	switch {
	case customer.PostalCode == "":
		add(FieldPostalCode, "CEP não encontrado")
	case !validPostalCode.MatchString(customer.PostalCode):
		add(FieldPostalCode, "CEP inválido")
	}

	if customer.City == "" {
		add(FieldCity, "Cidade não encontrada")
	}

	switch {
	case customer.State == "":
		add(FieldState, "Estado não encontrado")
	case !validState.MatchString(customer.State):
		add(FieldState, "UF inválida")
	}

	if customer.TaxID.Value == "" {
		add(FieldTaxID, "CPF ou CNPJ não encontrado")
	}

	return issues
}
