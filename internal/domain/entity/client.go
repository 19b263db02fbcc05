package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ClientStatus represents the billing status of a client.
type ClientStatus string

const (
	ClientStatusPending         ClientStatus = "PENDENTE"
	ClientStatusAwaitingPayment ClientStatus = "AGUARD. PAG."
	ClientStatusPaid            ClientStatus = "PAGO"
)

// NormalizeClientStatus maps free-form status text to a known status, defaulting to pending.
func NormalizeClientStatus(value string) ClientStatus {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case string(ClientStatusPaid):
		return ClientStatusPaid
	case string(ClientStatusAwaitingPayment):
		return ClientStatusAwaitingPayment
	default:
		return ClientStatusPending
	}
}

// Client represents a solar compensation customer and their billing overrides.
type Client struct {
	ID            uuid.UUID
	Name          string
	AccountID     string   // UC
	Phone         string
	Tariff        *float64 // fixed tariff override, R$/kWh
	Percent       *float64 // target discount override, 12..15
	DueDateConfig string   // day of month ("10") or full date ("10/02/2026")
	Status        ClientStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewClient creates a new Client entity in the pending status.
func NewClient(name, accountID, phone string, tariff, percent *float64, dueDateConfig string) *Client {
	now := time.Now().UTC()

	return &Client{
		ID:            uuid.New(),
		Name:          name,
		AccountID:     accountID,
		Phone:         phone,
		Tariff:        tariff,
		Percent:       percent,
		DueDateConfig: strings.TrimSpace(dueDateConfig),
		Status:        ClientStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
