package valueobject

import (
	"errors"
	"testing"

	domainerror "github.com/ondesc/backend/internal/domain/error"
)

func TestResolveDueDate(t *testing.T) {
	tests := []struct {
		name     string
		config   string
		base     string
		expected string
		wantErr  bool
	}{
		{name: "empty config keeps utility date", config: "", base: "15/03/2026", expected: "15/03/2026"},
		{name: "blank config keeps utility date", config: "   ", base: "15/03/2026", expected: "15/03/2026"},
		{name: "explicit date wins", config: "10/04/2026", base: "15/03/2026", expected: "10/04/2026"},
		{name: "day after utility date", config: "20", base: "15/03/2026", expected: "20/03/2026"},
		{name: "same day as utility date", config: "15", base: "15/03/2026", expected: "15/03/2026"},
		{name: "day before utility date rolls over", config: "10", base: "15/03/2026", expected: "10/04/2026"},
		{name: "single digit day", config: "5", base: "31/01/2026", expected: "05/02/2026"},
		{name: "clamped to february", config: "31", base: "15/02/2026", expected: "28/02/2026"},
		{name: "clamped to thirty day month", config: "31", base: "15/04/2026", expected: "30/04/2026"},
		{name: "rolls over year", config: "5", base: "31/12/2026", expected: "05/01/2027"},
		{name: "impossible calendar date", config: "31/02/2026", base: "15/03/2026", wantErr: true},
		{name: "text config", config: "dez", base: "15/03/2026", wantErr: true},
		{name: "day out of range", config: "32", base: "15/03/2026", wantErr: true},
		{name: "day zero", config: "0", base: "15/03/2026", wantErr: true},
		{name: "missing utility date", config: "10", base: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveDueDate(tt.config, tt.base)
			if tt.wantErr {
				if !errors.Is(err, domainerror.ErrInvalidDueDateConfig) {
					t.Fatalf("expected ErrInvalidDueDateConfig, got %v", err)
				}
				var clientErr *domainerror.ClientError
				if !errors.As(err, &clientErr) || clientErr.Code != domainerror.ErrCodeInvalidDueDateConfig {
					t.Fatalf("expected ClientError with due date code, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestValidateDueDateConfig(t *testing.T) {
	for _, valid := range []string{"", "1", "31", "10/02/2026"} {
		if err := ValidateDueDateConfig(valid); err != nil {
			t.Errorf("expected %q to be valid, got %v", valid, err)
		}
	}
	for _, invalid := range []string{"0", "32", "100", "x", "30/02/2026"} {
		if err := ValidateDueDateConfig(invalid); err == nil {
			t.Errorf("expected %q to be invalid", invalid)
		}
	}
}
