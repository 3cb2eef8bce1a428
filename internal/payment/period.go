package payment

import (
	"fmt"
	"time"

	"github.com/dukerupert/society/internal/apperr"
	"github.com/dukerupert/society/internal/model"
)

const (
	rawMonthLayout   = "2006-01"
	monthLabelLayout = "January 2006"
)

// Period is a billing span of whole months.
type Period struct {
	FromLabel   string
	ToLabel     string
	RangeLabel  string
	MonthsCount int
}

// MonthLabel renders t as a billing month label, e.g. "January 2024".
func MonthLabel(t time.Time) string {
	return t.Format(monthLabelLayout)
}

// ParsePeriod builds a Period from two "YYYY-MM" months, both inclusive.
// A span that ends before it starts counts as a single month.
func ParsePeriod(fromRaw, toRaw string) (Period, error) {
	from, err := time.Parse(rawMonthLayout, fromRaw)
	if err != nil {
		return Period{}, apperr.Validation("fromMonthRaw must be YYYY-MM")
	}
	to, err := time.Parse(rawMonthLayout, toRaw)
	if err != nil {
		return Period{}, apperr.Validation("toMonthRaw must be YYYY-MM")
	}

	months := (to.Year()-from.Year())*12 + int(to.Month()-from.Month()) + 1
	if months < 1 {
		months = 1
	}

	p := Period{
		FromLabel:   MonthLabel(from),
		ToLabel:     MonthLabel(to),
		MonthsCount: months,
	}
	if months == 1 {
		p.RangeLabel = p.FromLabel
	} else {
		p.RangeLabel = fmt.Sprintf("%s – %s", p.FromLabel, p.ToLabel)
	}
	return p, nil
}

// DueDate returns the 5th of t's month as YYYY-MM-DD.
func DueDate(t time.Time) string {
	return model.FormatDate(time.Date(t.Year(), t.Month(), dueDay, 0, 0, 0, 0, t.Location()))
}

const dueDay = 5
