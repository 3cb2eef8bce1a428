package payment

import (
	"testing"
	"time"

	"github.com/dukerupert/society/internal/apperr"
	"github.com/dukerupert/society/internal/model"
)

func money(m model.Money) *model.Money { return &m }

func status(s model.PaymentStatus) *model.PaymentStatus { return &s }

func strPtr(s string) *string { return &s }

var today = time.Date(2024, 1, 20, 10, 30, 0, 0, time.UTC)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		amount, paid model.Money
		want         model.PaymentStatus
	}{
		{model.Units(5000), model.Units(5000), model.PaymentPaid},
		{model.Units(5000), model.Units(6000), model.PaymentPaid},
		{model.Units(5000), model.Units(2000), model.PaymentPartial},
		{model.Units(5000), 1, model.PaymentPartial},
		{model.Units(5000), 0, model.PaymentPending},
		{0, 0, model.PaymentPaid},
		{model.Units(-10), 0, model.PaymentPaid},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.amount, tt.paid); got != tt.want {
			t.Errorf("StatusFor(%s, %s) = %q, want %q", tt.amount, tt.paid, got, tt.want)
		}
	}
}

func TestApplyPaidThenPartial(t *testing.T) {
	p := model.Payment{ID: 1, House: "A-1", Amount: model.Units(5000), Status: model.PaymentPending}

	paid, err := Apply(p, model.PaymentUpdate{AmountPaid: money(model.Units(5000))}, today)
	if err != nil {
		t.Fatalf("apply full payment: %v", err)
	}
	if paid.Status != model.PaymentPaid {
		t.Errorf("status = %q, want %q", paid.Status, model.PaymentPaid)
	}
	if paid.PaidDate == nil || *paid.PaidDate != "2024-01-20" {
		t.Fatalf("paidDate = %v, want 2024-01-20", paid.PaidDate)
	}

	later := today.AddDate(0, 0, 3)
	partial, err := Apply(paid, model.PaymentUpdate{AmountPaid: money(model.Units(2000))}, later)
	if err != nil {
		t.Fatalf("apply correction: %v", err)
	}
	if partial.Status != model.PaymentPartial {
		t.Errorf("status = %q, want %q", partial.Status, model.PaymentPartial)
	}
	if partial.PaidDate == nil || *partial.PaidDate != "2024-01-20" {
		t.Errorf("paidDate = %v, want unchanged 2024-01-20", partial.PaidDate)
	}
}

func TestApplyZeroIsPending(t *testing.T) {
	p := model.Payment{Amount: model.Units(1000), AmountPaid: model.Units(400), Status: model.PaymentPartial}

	got, err := Apply(p, model.PaymentUpdate{AmountPaid: money(0)}, today)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got.Status != model.PaymentPending {
		t.Errorf("status = %q, want %q", got.Status, model.PaymentPending)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	p := model.Payment{Amount: model.Units(1000), Status: model.PaymentPending}
	for _, paid := range []model.Money{0, 1, model.Units(999), model.Units(1000), model.Units(1500)} {
		upd := model.PaymentUpdate{AmountPaid: money(paid)}
		first, err := Apply(p, upd, today)
		if err != nil {
			t.Fatalf("first apply: %v", err)
		}
		second, err := Apply(first, upd, today)
		if err != nil {
			t.Fatalf("second apply: %v", err)
		}
		if first.Status != second.Status {
			t.Errorf("amountPaid %s: status %q then %q", paid, first.Status, second.Status)
		}
	}
}

func TestApplyRejectsNegativeAmountPaid(t *testing.T) {
	p := model.Payment{Amount: model.Units(1000), AmountPaid: model.Units(200), Status: model.PaymentPartial}

	got, err := Apply(p, model.PaymentUpdate{AmountPaid: money(model.Units(-5))}, today)
	if err == nil {
		t.Fatal("expected error for negative amountPaid")
	}
	if k := apperr.KindOf(err); k != apperr.KindInvalidAmount {
		t.Errorf("kind = %q, want %q", k, apperr.KindInvalidAmount)
	}
	if got.Status != model.PaymentPartial || got.AmountPaid != model.Units(200) {
		t.Errorf("existing payment should be returned unchanged, got %+v", got)
	}
}

func TestApplyExplicitOverdue(t *testing.T) {
	p := model.Payment{Amount: model.Units(1000), AmountPaid: model.Units(300), Status: model.PaymentPartial}

	got, err := Apply(p, model.PaymentUpdate{Status: status(model.PaymentOverdue)}, today)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got.Status != model.PaymentOverdue {
		t.Errorf("status = %q, want %q", got.Status, model.PaymentOverdue)
	}
	if got.AmountPaid != model.Units(300) {
		t.Errorf("amountPaid = %s, want 300.00", got.AmountPaid)
	}
}

func TestApplyAmountPaidOverridesStatus(t *testing.T) {
	p := model.Payment{Amount: model.Units(1000), Status: model.PaymentPending}

	got, err := Apply(p, model.PaymentUpdate{
		AmountPaid: money(model.Units(1000)),
		Status:     status(model.PaymentOverdue),
	}, today)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got.Status != model.PaymentPaid {
		t.Errorf("status = %q, want %q", got.Status, model.PaymentPaid)
	}
}

func TestApplyRejectsUnknownStatus(t *testing.T) {
	p := model.Payment{Amount: model.Units(1000), Status: model.PaymentPending}

	_, err := Apply(p, model.PaymentUpdate{Status: status("cancelled")}, today)
	if !apperr.IsValidation(err) {
		t.Errorf("err = %v, want validation error", err)
	}
}

func TestApplyUsesUpdatedAmount(t *testing.T) {
	p := model.Payment{Amount: model.Units(1000), Status: model.PaymentPending}

	got, err := Apply(p, model.PaymentUpdate{
		Amount:     money(model.Units(2000)),
		AmountPaid: money(model.Units(1000)),
	}, today)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got.Status != model.PaymentPartial {
		t.Errorf("status = %q, want %q", got.Status, model.PaymentPartial)
	}
}

func TestApplyLatePayment(t *testing.T) {
	p := model.Payment{Amount: model.Units(1000), Status: model.PaymentPending}

	early := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	got, _ := Apply(p, model.PaymentUpdate{AmountPaid: money(model.Units(1000))}, early)
	if got.LatePayment {
		t.Error("payment on the 10th should not be late")
	}

	late := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)
	got, _ = Apply(p, model.PaymentUpdate{AmountPaid: money(model.Units(1000))}, late)
	if !got.LatePayment {
		t.Error("payment on the 16th should be late")
	}

	notLate := false
	got, _ = Apply(p, model.PaymentUpdate{AmountPaid: money(model.Units(1000)), LatePayment: &notLate}, late)
	if got.LatePayment {
		t.Error("explicit latePayment=false should win")
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	p := model.Payment{Amount: model.Units(1000), Status: model.PaymentPending, Remarks: strPtr("first")}

	_, err := Apply(p, model.PaymentUpdate{AmountPaid: money(model.Units(1000)), Remarks: strPtr("second")}, today)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if p.Status != model.PaymentPending || p.PaidDate != nil || *p.Remarks != "first" {
		t.Errorf("input was modified: %+v", p)
	}
}

func TestPrepare(t *testing.T) {
	c := model.PaymentCreate{
		House:        "A-1",
		Owner:        "Asha",
		Amount:       model.Units(3000),
		AmountPaid:   model.Units(3000),
		FromMonthRaw: strPtr("2024-01"),
		ToMonthRaw:   strPtr("2024-03"),
		DueDate:      "2024-01-05",
	}

	got, err := Prepare(c, today)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if got.Month != "January 2024" {
		t.Errorf("month = %q, want %q", got.Month, "January 2024")
	}
	if got.MonthsCount != 3 {
		t.Errorf("monthsCount = %d, want 3", got.MonthsCount)
	}
	if got.MonthRange == nil || *got.MonthRange != "January 2024 – March 2024" {
		t.Errorf("monthRange = %v", got.MonthRange)
	}
	if got.Status != model.PaymentPaid {
		t.Errorf("status = %q, want %q", got.Status, model.PaymentPaid)
	}
	if got.PaidDate == nil || *got.PaidDate != "2024-01-20" {
		t.Errorf("paidDate = %v, want 2024-01-20", got.PaidDate)
	}
}

func TestPrepareKeepsExplicitPaidDate(t *testing.T) {
	c := model.PaymentCreate{
		House: "A-1", Month: "January 2024", DueDate: "2024-01-05",
		Amount: model.Units(100), AmountPaid: model.Units(100), PaidDate: strPtr("2024-01-03"),
	}
	got, err := Prepare(c, today)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if *got.PaidDate != "2024-01-03" {
		t.Errorf("paidDate = %q, want 2024-01-03", *got.PaidDate)
	}
}

func TestPrepareValidation(t *testing.T) {
	tests := []struct {
		name string
		c    model.PaymentCreate
		kind apperr.Kind
	}{
		{"missing house", model.PaymentCreate{Month: "January 2024", DueDate: "2024-01-05"}, apperr.KindValidation},
		{"missing month", model.PaymentCreate{House: "A-1", DueDate: "2024-01-05"}, apperr.KindValidation},
		{"bad due date", model.PaymentCreate{House: "A-1", Month: "January 2024", DueDate: "05/01/2024"}, apperr.KindValidation},
		{"negative paid", model.PaymentCreate{House: "A-1", Month: "January 2024", DueDate: "2024-01-05", AmountPaid: -1}, apperr.KindInvalidAmount},
		{"bad raw month", model.PaymentCreate{House: "A-1", DueDate: "2024-01-05", FromMonthRaw: strPtr("Jan")}, apperr.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Prepare(tt.c, today)
			if k := apperr.KindOf(err); err == nil || k != tt.kind {
				t.Errorf("err = %v, want kind %q", err, tt.kind)
			}
		})
	}
}
