// Package entity defines the core business entities for the domain layer.
package entity

// InvoiceLineItem represents one row of the utility invoice item table.
// Credits such as injected energy carry negative Quantity and Value.
type InvoiceLineItem struct {
	Description string
	Unit        string
	Quantity    float64
	UnitPrice   float64
	Value       float64
}

// TaxIDKind identifies which Brazilian tax document was found.
type TaxIDKind string

const (
	TaxIDKindIndividual TaxIDKind = "individual" // CPF
	TaxIDKindCompany    TaxIDKind = "company"    // CNPJ
)

// TaxID is the customer's tax document as printed on the invoice (possibly masked).
type TaxID struct {
	Kind  TaxIDKind
	Value string
}

// Customer holds the customer block recovered from the invoice.
type Customer struct {
	Name       string
	Address    string
	PostalCode string // NNNNN-NNN
	City       string
	State      string // two-letter UF
	TaxID      TaxID
}

// CustomerRecord is the account metadata recovered from one invoice text.
// Missing fields are empty strings; completeness is checked by validation.
type CustomerRecord struct {
	AccountID      string // UC (unidade consumidora)
	ReferenceMonth string // MM/YYYY
	DueDate        string // DD/MM/YYYY
	Customer       Customer
}

// ValidationIssue describes a problem with one extracted customer field.
type ValidationIssue struct {
	Field   string
	Message string
}

// IssueLevel is the severity of an issue reported to API clients.
type IssueLevel string

const (
	IssueLevelCritical IssueLevel = "critical"
	IssueLevelWarning  IssueLevel = "warning"
)

// Issue is a field-level problem surfaced by the service layer.
type Issue struct {
	Field   string
	Message string
	Level   IssueLevel
}

// SplitIssues separates critical issues from warnings, preserving order.
func SplitIssues(issues []Issue) (critical, warning []Issue) {
	for _, issue := range issues {
		if issue.Level == IssueLevelCritical {
			critical = append(critical, issue)
		} else {
			warning = append(warning, issue)
		}
	}
	return critical, warning
}

// HasCritical reports whether any issue is critical.
func HasCritical(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Level == IssueLevelCritical {
			return true
		}
	}
	return false
}
