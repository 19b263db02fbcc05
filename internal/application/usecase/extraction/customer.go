package extraction

import (
	"regexp"
	"strings"

	"github.com/ondesc/backend/internal/domain/entity"
)

// lineRule matches a whole line, optionally constrained by its neighbours.
type lineRule struct {
	pattern *regexp.Regexp
	prev    *regexp.Regexp // previous line must match, when set
	next    *regexp.Regexp // next line must match, when set
	reject  string         // line must not contain, when set
}

func (r lineRule) find(lines []string) string {
	for i, line := range lines {
		if !r.pattern.MatchString(line) {
			continue
		}
		if r.reject != "" && strings.Contains(line, r.reject) {
			continue
		}
		if r.prev != nil && !r.prev.MatchString(lineAt(lines, i-1)) {
			continue
		}
		if r.next != nil && !r.next.MatchString(lineAt(lines, i+1)) {
			continue
		}
		return line
	}
	return ""
}

// textRule captures one group of the first match anywhere in the text.
type textRule struct {
	pattern *regexp.Regexp
	group   int
}

func (r textRule) find(text string) string {
	match := r.pattern.FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[r.group])
}

// continuationRule reads a labeled line and appends the following line unless
// it starts another labeled field.
type continuationRule struct {
	label string
	stop  *regexp.Regexp
}

func (r continuationRule) find(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if !strings.HasPrefix(line, r.label) {
			continue
		}
		value := strings.TrimSpace(strings.Replace(line, r.label, "", 1))
		if next := lineAt(lines, i+1); next != "" && !r.stop.MatchString(next) {
			value += " " + strings.TrimSpace(next)
		}
		return value
	}
	return ""
}

// taxIDRule captures a tax document of a given kind.
type taxIDRule struct {
	kind    entity.TaxIDKind
	pattern *regexp.Regexp
}

var (
	accountLine = regexp.MustCompile(`^\d{8,15}$`)
	dateLike    = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)
	monthLike   = regexp.MustCompile(`\d{2}/\d{4}`)

	// Ordered by preference; the first rule that finds a line wins.
	accountIDRules = []lineRule{
		{pattern: accountLine, prev: dateLike, next: monthLike},
		{pattern: accountLine, reject: "UC "},
	}

	// The reference month is glued to the due date and the currency marker in the flattened text.
	referenceMonthRule = textRule{
		pattern: regexp.MustCompile(`\b((?:0[1-9]|1[0-2])/\d{4})\d{2}/\d{2}/\d{4}R\$`),
		group:   1,
	}
	dueDateRule = textRule{
		pattern: regexp.MustCompile(`(?:0[1-9]|1[0-2])/\d{4}(\d{2}/\d{2}/\d{4})R\$`),
		group:   1,
	}

	nameRule       = textRule{pattern: regexp.MustCompile(`Nome:\s*(.+)`), group: 1}
	postalCodeRule = textRule{pattern: regexp.MustCompile(`CEP:\s*(\d{5}-\d{3})`), group: 1}
	cityStateRule  = regexp.MustCompile(`Cidade:\s*(.+?)\s*-\s*Estado:\s*([A-Z]{2})`)

	addressRule = continuationRule{
		label: "Endereço:",
		stop:  regexp.MustCompile(`^(CEP|Cidade|CPF|Nome):`),
	}

	taxIDRules = []taxIDRule{
		{kind: entity.TaxIDKindIndividual, pattern: regexp.MustCompile(`CPF:\s*([*.\d-]+)`)},
		{kind: entity.TaxIDKindCompany, pattern: regexp.MustCompile(`CNPJ:\s*([\d./-]+)`)},
	}
)

// ExtractCustomer recovers account and customer fields from invoice text.
// It never fails: fields that are not found are left empty.
func ExtractCustomer(rawText string) entity.CustomerRecord {
	text := Normalize(rawText)
	lines := nonEmptyLines(text)

	city, state := extractCityState(text)

	return entity.CustomerRecord{
		AccountID:      extractAccountID(lines),
		ReferenceMonth: referenceMonthRule.find(text),
		DueDate:        dueDateRule.find(text),
		Customer: entity.Customer{
			Name:       nameRule.find(text),
			Address:    addressRule.find(text),
			PostalCode: postalCodeRule.find(text),
			City:       city,
			State:      state,
			TaxID:      extractTaxID(text),
		},
	}
}

func extractAccountID(lines []string) string {
	for _, rule := range accountIDRules {
		if id := rule.find(lines); id != "" {
			return id
		}
	}
	return ""
}

func extractCityState(text string) (string, string) {
	match := cityStateRule.FindStringSubmatch(text)
	if match == nil {
		return "", ""
	}
	return strings.TrimSpace(match[1]), strings.TrimSpace(match[2])
}

func extractTaxID(text string) entity.TaxID {
	for _, rule := range taxIDRules {
		if match := rule.pattern.FindStringSubmatch(text); match != nil {
			return entity.TaxID{Kind: rule.kind, Value: strings.TrimSpace(match[1])}
		}
	}
	return entity.TaxID{Kind: entity.TaxIDKindIndividual}
}

func lineAt(lines []string, i int) string {
	if i < 0 || i >= len(lines) {
		return ""
	}
	return lines[i]
}
