package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ondesc/backend/internal/domain/entity"
	domainerror "github.com/ondesc/backend/internal/domain/error"
	"github.com/ondesc/backend/internal/integration/persistence/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&model.ClientModel{}, &model.MonthlyCalculationModel{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestClientRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewClientRepository(newTestDB(t))

	tariff := 0.6
	maria := entity.NewClient("Maria Souza", "87654321", "", &tariff, nil, "10")
	joao := entity.NewClient("Joao Silva", "12345678", "41999990000", nil, nil, "")

	for _, c := range []*entity.Client{maria, joao} {
		if err := repo.Create(ctx, c); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	t.Run("find by id", func(t *testing.T) {
		got, err := repo.FindByID(ctx, maria.ID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if got.Name != "Maria Souza" || got.AccountID != "87654321" {
			t.Errorf("FindByID() = %+v", got)
		}
		if got.Tariff == nil || *got.Tariff != 0.6 {
			t.Errorf("Tariff = %v, want 0.6", got.Tariff)
		}
		if got.Percent != nil {
			t.Errorf("Percent = %v, want nil", *got.Percent)
		}
		if got.Status != entity.ClientStatusPending {
			t.Errorf("Status = %q, want %q", got.Status, entity.ClientStatusPending)
		}
	})

	t.Run("find by id not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		if !errors.Is(err, domainerror.ErrClientNotFound) {
			t.Errorf("FindByID() error = %v, want ErrClientNotFound", err)
		}
	})

	t.Run("find by account id", func(t *testing.T) {
		got, err := repo.FindByAccountID(ctx, "12345678")
		if err != nil {
			t.Fatalf("FindByAccountID() error = %v", err)
		}
		if got == nil || got.ID != joao.ID {
			t.Errorf("FindByAccountID() = %+v, want %s", got, joao.ID)
		}

		missing, err := repo.FindByAccountID(ctx, "00000000")
		if err != nil || missing != nil {
			t.Errorf("FindByAccountID(missing) = %+v, %v, want nil, nil", missing, err)
		}
	})

	t.Run("list ordered by name", func(t *testing.T) {
		got, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(got) != 2 || got[0].Name != "Joao Silva" || got[1].Name != "Maria Souza" {
			t.Errorf("List() order = %v", names(got))
		}
	})

	t.Run("update status", func(t *testing.T) {
		joao.Status = entity.ClientStatusPaid
		if err := repo.Update(ctx, joao); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		got, err := repo.FindByID(ctx, joao.ID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if got.Status != entity.ClientStatusPaid {
			t.Errorf("Status = %q, want %q", got.Status, entity.ClientStatusPaid)
		}
	})
}

func TestCalculationRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	clients := NewClientRepository(db)
	repo := NewCalculationRepository(db)

	c := entity.NewClient("Joao Silva", "12345678", "", nil, nil, "")
	if err := clients.Create(ctx, c); err != nil {
		t.Fatalf("Create(client) error = %v", err)
	}

	calc := entity.NewMonthlyCalculation(c.ID, "2026-03", "texto da fatura", "fatura.pdf")
	if err := repo.Create(ctx, calc); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	older := entity.NewMonthlyCalculation(c.ID, "2026-02", "texto antigo", "")
	if err := repo.Create(ctx, older); err != nil {
		t.Fatalf("Create(older) error = %v", err)
	}

	t.Run("uploaded calculation has no result", func(t *testing.T) {
		got, err := repo.FindByClientAndMonth(ctx, c.ID, "2026-03")
		if err != nil {
			t.Fatalf("FindByClientAndMonth() error = %v", err)
		}
		if got == nil {
			t.Fatal("FindByClientAndMonth() = nil")
		}
		if got.Stage != entity.CalculationStageUploaded || got.Result != nil {
			t.Errorf("got stage %q result %+v", got.Stage, got.Result)
		}
		if got.InvoiceText != "texto da fatura" || got.SourceFilename != "fatura.pdf" {
			t.Errorf("got text %q file %q", got.InvoiceText, got.SourceFilename)
		}
	})

	t.Run("missing month", func(t *testing.T) {
		got, err := repo.FindByClientAndMonth(ctx, c.ID, "2025-12")
		if err != nil || got != nil {
			t.Errorf("FindByClientAndMonth() = %+v, %v, want nil, nil", got, err)
		}
	})

	t.Run("calculated round trip", func(t *testing.T) {
		target := 13.5
		result := &entity.CalculationResult{
			Items: []entity.InvoiceLineItem{
				{Description: "ENERGIA ELET CONSUMO", Unit: "kWh", Quantity: 100, UnitPrice: 0.8, Value: 80},
				{Description: "ENERGIA INJ. BAND. VERDE", Unit: "kWh", Quantity: 60, UnitPrice: 0.5, Value: -30},
			},
			EnergyInjectedKwh: 60,
			BaselineValue:     80,
			GrossInvoiceTotal: 50,
			NewInvoiceValue:   31.8,
			DiscountAmount:    -1.8,
			TotalPayable:      81.8,
			DiscountPercent:   -2.25,
			Mode:              entity.CalculationModeTarget,
			ResolvedTariff:    0.6,
			TargetPercent:     &target,
			SearchIterations:  7,
		}
		record := entity.CustomerRecord{AccountID: "12345678", ReferenceMonth: "03/2026", DueDate: "15/04/2026"}
		calc.MarkCalculated(record, result, []string{"cliente.cep"})

		if err := repo.Update(ctx, calc); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		got, err := repo.FindByClientAndMonth(ctx, c.ID, "2026-03")
		if err != nil {
			t.Fatalf("FindByClientAndMonth() error = %v", err)
		}
		if !got.IsCalculated() || got.Result == nil {
			t.Fatalf("got stage %q result %+v", got.Stage, got.Result)
		}
		if len(got.Result.Items) != 2 || got.Result.Items[1].Value != -30 {
			t.Errorf("Items = %+v", got.Result.Items)
		}
		if got.Result.Mode != entity.CalculationModeTarget || got.Result.ResolvedTariff != 0.6 {
			t.Errorf("Result = %+v", got.Result)
		}
		if got.Result.TargetPercent == nil || *got.Result.TargetPercent != 13.5 {
			t.Errorf("TargetPercent = %v", got.Result.TargetPercent)
		}
		if got.DueDate != "15/04/2026" || got.AccountID != "12345678" {
			t.Errorf("record = %q %q", got.DueDate, got.AccountID)
		}
		if len(got.WarningFields) != 1 || got.WarningFields[0] != "cliente.cep" {
			t.Errorf("WarningFields = %v", got.WarningFields)
		}
	})

	t.Run("list newest first", func(t *testing.T) {
		got, err := repo.ListByClient(ctx, c.ID)
		if err != nil {
			t.Fatalf("ListByClient() error = %v", err)
		}
		if len(got) != 2 || got[0].RefMonth != "2026-03" || got[1].RefMonth != "2026-02" {
			t.Errorf("ListByClient() = %d items", len(got))
		}
	})

	t.Run("month is unique per client", func(t *testing.T) {
		dup := entity.NewMonthlyCalculation(c.ID, "2026-03", "outro", "")
		dup.CreatedAt = time.Now().UTC()
		if err := repo.Create(ctx, dup); err == nil {
			t.Error("Create() duplicate month succeeded, want error")
		}
	})
}

func names(clients []*entity.Client) []string {
	out := make([]string, len(clients))
	for i, c := range clients {
		out[i] = c.Name
	}
	return out
}
