package handler

import (
	"encoding/json"
	"net/http"
	"testing"
)

type expenditureSummaryBody struct {
	TotalExpenditure  json.Number            `json:"totalExpenditure"`
	TotalCollection   json.Number            `json:"totalCollection"`
	RemainingBalance  json.Number            `json:"remainingBalance"`
	CategoryBreakdown map[string]json.Number `json:"categoryBreakdown"`
}

func TestExpenditureListSummary(t *testing.T) {
	env := setupHandlers(t)

	for _, body := range []string{
		`{"title":"Guards","category":"Security","amount":1000,"paymentMode":"Bank","date":"2024-01-10"}`,
		`{"title":"Sweeping","category":"Cleaning","amount":500,"paymentMode":"Cash","date":"2024-01-11"}`,
	} {
		if rec := call(env.expenditures.Create, "POST", "/api/expenditures", "", body); rec.Code != http.StatusCreated {
			t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
		}
	}
	p := createPayment(t, env, `{"house":"A-1","amount":3000,"month":"January 2024","dueDate":"2024-01-05"}`)
	updatePayment(t, env, p.ID, `{"amountPaid":3000}`)

	rec := call(env.expenditures.List, "GET", "/api/expenditures", "", "")
	var body struct {
		List    []map[string]any       `json:"list"`
		Summary expenditureSummaryBody `json:"summary"`
	}
	decodeBody(t, rec, &body)

	if len(body.List) != 2 {
		t.Fatalf("list has %d entries, want 2", len(body.List))
	}
	s := body.Summary
	if s.TotalExpenditure != "1500.00" || s.TotalCollection != "3000.00" || s.RemainingBalance != "1500.00" {
		t.Errorf("summary = %+v", s)
	}
	if len(s.CategoryBreakdown) != 2 || s.CategoryBreakdown["Security"] != "1000.00" || s.CategoryBreakdown["Cleaning"] != "500.00" {
		t.Errorf("categoryBreakdown = %v", s.CategoryBreakdown)
	}
}

func TestExpenditureRejectsNegativeAmount(t *testing.T) {
	env := setupHandlers(t)

	rec := call(env.expenditures.Create, "POST", "/api/expenditures", "", `{"title":"Refund","category":"Other","amount":-1,"paymentMode":"Cash","date":"2024-01-10"}`)
	assertError(t, rec, http.StatusBadRequest, "invalid_amount")
}

func TestExpenditureUpdateAndDelete(t *testing.T) {
	env := setupHandlers(t)

	rec := call(env.expenditures.Create, "POST", "/api/expenditures", "", `{"title":"Bulbs","category":"Repairs","amount":250,"paymentMode":"Cash","date":"2024-01-03","attachmentName":"bill.png","attachmentData":"iVBORw0KGgo="}`)
	var e struct {
		ID             int64       `json:"id"`
		Amount         json.Number `json:"amount"`
		AttachmentData *string     `json:"attachmentData"`
	}
	decodeBody(t, rec, &e)
	if e.AttachmentData == nil || *e.AttachmentData != "iVBORw0KGgo=" {
		t.Errorf("attachmentData = %v, want passthrough", e.AttachmentData)
	}

	id := jsonID(e.ID)
	rec = call(env.expenditures.Update, "PUT", "/api/expenditures/"+id, id, `{"amount":"275.5"}`)
	decodeBody(t, rec, &e)
	if e.Amount != "275.50" {
		t.Errorf("amount = %q, want 275.50", e.Amount)
	}

	rec = call(env.expenditures.Delete, "DELETE", "/api/expenditures/"+id, id, "")
	if rec.Code != http.StatusOK {
		t.Errorf("delete status = %d", rec.Code)
	}
	assertError(t, call(env.expenditures.Get, "GET", "/api/expenditures/"+id, id, ""), http.StatusNotFound, "not_found")
}

func TestExpenditureListDegradesOnStoreFailure(t *testing.T) {
	env := setupHandlers(t)
	env.db.Close()

	rec := call(env.expenditures.List, "GET", "/api/expenditures", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var body struct {
		List    []map[string]any       `json:"list"`
		Summary expenditureSummaryBody `json:"summary"`
	}
	decodeBody(t, rec, &body)
	if body.List == nil || len(body.List) != 0 || body.Summary.TotalExpenditure != "0.00" {
		t.Errorf("body = %+v", body)
	}
}
