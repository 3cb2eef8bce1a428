package summary

import (
	"strings"
	"time"

	"github.com/dukerupert/society/internal/model"
)

// Dashboard is the overview of the whole society.
type Dashboard struct {
	Houses            HouseSummary       `json:"houses"`
	Payments          PaymentSummary     `json:"payments"`
	Expenditures      ExpenditureSummary `json:"expenditures"`
	Members           int                `json:"members"`
	Vehicles          int                `json:"vehicles"`
	Month             string             `json:"month"`
	PendingHouses     int                `json:"pendingHouses"`
	ExpensesThisMonth int                `json:"expensesThisMonth"`
}

// BuildDashboard combines every summary with figures for the month
// containing now. month is the billing label for that month.
func BuildDashboard(houses []model.House, payments []model.Payment, expenditures []model.Expenditure, members, vehicles int, month string, now time.Time) Dashboard {
	return Dashboard{
		Houses:            Houses(houses),
		Payments:          Payments(payments),
		Expenditures:      Expenditures(expenditures, payments),
		Members:           members,
		Vehicles:          vehicles,
		Month:             month,
		PendingHouses:     PendingHouses(payments, month, now),
		ExpensesThisMonth: ExpensesInMonth(expenditures, now),
	}
}

// PendingHouses counts distinct houses with an unsettled bill covering the
// month of now. A bill covers a month when it is billed for it or when the
// month falls inside its from/to span, ends included.
func PendingHouses(payments []model.Payment, month string, now time.Time) int {
	key := now.Format(rawMonthLayout)
	seen := make(map[string]struct{})
	for _, p := range payments {
		if p.Status == model.PaymentPaid {
			continue
		}
		if p.Month != month && !spans(p, key) {
			continue
		}
		seen[p.House] = struct{}{}
	}
	return len(seen)
}

const (
	rawMonthLayout   = "2006-01"
	monthLabelLayout = "January 2006"
)

// spans reports whether key ("YYYY-MM") lies in p's billing span. The raw
// months are used when stored; otherwise the range label is parsed.
func spans(p model.Payment, key string) bool {
	from, to, ok := span(p)
	return ok && from <= key && key <= to
}

func span(p model.Payment) (string, string, bool) {
	if p.FromMonthRaw != nil && p.ToMonthRaw != nil {
		from, err1 := time.Parse(rawMonthLayout, *p.FromMonthRaw)
		to, err2 := time.Parse(rawMonthLayout, *p.ToMonthRaw)
		if err1 == nil && err2 == nil {
			return from.Format(rawMonthLayout), to.Format(rawMonthLayout), true
		}
	}
	if p.MonthRange == nil {
		return "", "", false
	}
	fromLabel, toLabel, found := strings.Cut(*p.MonthRange, " – ")
	if !found {
		return "", "", false
	}
	from, err1 := time.Parse(monthLabelLayout, strings.TrimSpace(fromLabel))
	to, err2 := time.Parse(monthLabelLayout, strings.TrimSpace(toLabel))
	if err1 != nil || err2 != nil {
		return "", "", false
	}
	return from.Format(rawMonthLayout), to.Format(rawMonthLayout), true
}

// ExpensesInMonth counts expenditures dated in the calendar month of now.
func ExpensesInMonth(expenditures []model.Expenditure, now time.Time) int {
	prefix := now.Format("2006-01-")
	n := 0
	for _, e := range expenditures {
		if strings.HasPrefix(e.Date, prefix) {
			n++
		}
	}
	return n
}
