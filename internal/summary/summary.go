// Package summary computes the derived statistics shown next to record lists.
// Every function is pure and order independent.
package summary

import (
	"math/big"

	"github.com/dukerupert/society/internal/model"
)

type HouseSummary struct {
	Total    int `json:"total"`
	Occupied int `json:"occupied"`
	Vacant   int `json:"vacant"`
}

// Houses counts houses by status. Houses under maintenance are part of Total
// but of neither bucket, so Occupied+Vacant can be less than Total.
func Houses(houses []model.House) HouseSummary {
	s := HouseSummary{Total: len(houses)}
	for _, h := range houses {
		switch h.Status {
		case model.HouseOccupied:
			s.Occupied++
		case model.HouseVacant:
			s.Vacant++
		}
	}
	return s
}

type PaymentSummary struct {
	Total          model.Money `json:"total"`
	Collected      model.Money `json:"collected"`
	Pending        model.Money `json:"pending"`
	Overdue        model.Money `json:"overdue"`
	CollectionRate float64     `json:"collectionRate"`
}

func Payments(payments []model.Payment) PaymentSummary {
	var s PaymentSummary
	for _, p := range payments {
		s.Total += p.Amount
		switch {
		case p.Status == model.PaymentPaid:
			s.Collected += p.AmountPaid
		case p.Status.Outstanding():
			s.Pending += p.Balance()
		case p.Status == model.PaymentOverdue:
			s.Overdue += p.Balance()
		}
	}
	s.CollectionRate = CollectionRate(s.Collected, s.Total)
	return s
}

// CollectionRate returns collected/total as a percentage rounded half-up to
// two decimals, or 0 when total is not positive.
func CollectionRate(collected, total model.Money) float64 {
	if total <= 0 {
		return 0
	}
	// basis points, rounded half away from zero; big.Int keeps
	// collected*10000 exact for any int64 amount
	num := new(big.Int).Mul(big.NewInt(int64(collected)), big.NewInt(10000))
	den := big.NewInt(int64(total))
	bp, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	if rem.Abs(rem).Lsh(rem, 1).Cmp(den) >= 0 {
		if num.Sign() < 0 {
			bp.Sub(bp, big.NewInt(1))
		} else {
			bp.Add(bp, big.NewInt(1))
		}
	}
	rate, _ := new(big.Float).SetInt(bp).Float64()
	return rate / 100
}

type ExpenditureSummary struct {
	TotalExpenditure  model.Money            `json:"totalExpenditure"`
	TotalCollection   model.Money            `json:"totalCollection"`
	RemainingBalance  model.Money            `json:"remainingBalance"`
	CategoryBreakdown map[string]model.Money `json:"categoryBreakdown"`
}

// Expenditures totals spending per category and sets it against the money
// collected from fully paid bills. RemainingBalance may be negative.
func Expenditures(expenditures []model.Expenditure, payments []model.Payment) ExpenditureSummary {
	s := ExpenditureSummary{CategoryBreakdown: make(map[string]model.Money)}
	for _, e := range expenditures {
		s.TotalExpenditure += e.Amount
		s.CategoryBreakdown[e.Category] += e.Amount
	}
	for _, p := range payments {
		if p.Status == model.PaymentPaid {
			s.TotalCollection += p.AmountPaid
		}
	}
	s.RemainingBalance = s.TotalCollection - s.TotalExpenditure
	return s
}
