package valueobject

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	domainerror "github.com/ondesc/backend/internal/domain/error"
)

const brDateLayout = "02/01/2006"

var dueDayPattern = regexp.MustCompile(`^\d{1,2}$`)

// ParseBRDate parses a calendar-valid DD/MM/YYYY date.
func ParseBRDate(value string) (time.Time, bool) {
	if !brDatePattern.MatchString(value) {
		return time.Time{}, false
	}
	t, err := time.Parse(brDateLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatBRDate formats t as DD/MM/YYYY.
func FormatBRDate(t time.Time) string {
	return t.Format(brDateLayout)
}

// ResolveDueDate applies a client due-date configuration to the utility due date.
//
// An empty config keeps the utility date. A full DD/MM/YYYY config is used as is.
// A day-of-month config is clamped to the month length and moves to the following
// month when it would fall before the utility due date.
func ResolveDueDate(config, utilityDueDate string) (string, error) {
	config = strings.TrimSpace(config)
	if config == "" {
		return utilityDueDate, nil
	}

	if _, ok := ParseBRDate(config); ok {
		return config, nil
	}

	if !dueDayPattern.MatchString(config) {
		return "", dueDateError("Data de vencimento configurada no cliente é inválida (use dia 1-31 ou dd/MM/yyyy).")
	}

	day, _ := strconv.Atoi(config)
	if day < 1 || day > 31 {
		return "", dueDateError("Dia de vencimento configurado no cliente é inválido (permitido 1 a 31).")
	}

	base, ok := ParseBRDate(utilityDueDate)
	if !ok {
		return "", dueDateError("Vencimento da fatura COPEL inválido para calcular novo vencimento.")
	}

	resolved := dateWithFixedDay(base.Year(), base.Month(), day)
	if resolved.Before(base) {
		next := time.Date(base.Year(), base.Month()+1, 1, 0, 0, 0, 0, time.UTC)
		resolved = dateWithFixedDay(next.Year(), next.Month(), day)
	}

	return FormatBRDate(resolved), nil
}

// ValidateDueDateConfig checks a client due-date configuration without resolving it.
func ValidateDueDateConfig(config string) error {
	config = strings.TrimSpace(config)
	if config == "" {
		return nil
	}
	if _, ok := ParseBRDate(config); ok {
		return nil
	}
	if !dueDayPattern.MatchString(config) {
		return dueDateError("Data de vencimento configurada no cliente é inválida (use dia 1-31 ou dd/MM/yyyy).")
	}
	if day, _ := strconv.Atoi(config); day < 1 || day > 31 {
		return dueDateError("Dia de vencimento configurado no cliente é inválido (permitido 1 a 31).")
	}
	return nil
}

func dateWithFixedDay(year int, month time.Month, day int) time.Time {
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func dueDateError(message string) error {
	return domainerror.NewClientError(domainerror.ErrCodeInvalidDueDateConfig, message, domainerror.ErrInvalidDueDateConfig)
}
