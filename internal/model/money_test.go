package model

import (
	"encoding/json"
	"testing"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in  string
		out Money
		ok  bool
	}{
		{"1", 100, true},
		{"1000", 100000, true},
		{"1.5", 150, true},
		{"1.23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true},
		{"1.004", 100, true},
		{".5", 50, true},
		{" 2.50 ", 250, true},
		{"0", 0, true},
		{"-20", -2000, true},
		{"-0.125", -13, true},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"1e3", 100000, true},
		{"1.5E2", 15000, true},
		{"25e-1", 250, true},
		{"1.005e0", 101, true},
		{"-1.25E+1", -1250, true},
		{"5e-3", 1, true},
		{"4e-3", 0, true},
		{"1e-50", 0, true},
		{"1e", 0, false},
		{"e5", 0, false},
		{"1e99", 0, false},
		{"", 0, false},
		{"-", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Errorf("ParseMoney(%q) = %d, %v; want %d", tc.in, got, err, tc.out)
			}
		} else if err == nil {
			t.Errorf("ParseMoney(%q) expected error", tc.in)
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := map[Money]string{
		0:      "0.00",
		5:      "0.05",
		150000: "1500.00",
		-2050:  "-20.50",
	}
	for m, want := range cases {
		if got := m.String(); got != want {
			t.Errorf("Money(%d).String() = %q, want %q", int64(m), got, want)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	var p struct {
		Amount Money `json:"amount"`
		Paid   Money `json:"paid"`
	}
	if err := json.Unmarshal([]byte(`{"amount": 5000, "paid": "1250.5"}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Amount != Units(5000) {
		t.Errorf("amount = %d, want %d", p.Amount, Units(5000))
	}
	if p.Paid != 125050 {
		t.Errorf("paid = %d, want 125050", p.Paid)
	}

	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"amount":5000.00,"paid":1250.50}` {
		t.Errorf("json = %s", out)
	}
}

func TestMoneyJSONExponent(t *testing.T) {
	var p struct {
		Amount     Money `json:"amount"`
		AmountPaid Money `json:"amountPaid"`
	}
	if err := json.Unmarshal([]byte(`{"amount": 1e3, "amountPaid": 1.5E2}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Amount != Units(1000) || p.AmountPaid != Units(150) {
		t.Errorf("amount, amountPaid = %s, %s; want 1000.00, 150.00", p.Amount, p.AmountPaid)
	}
}

func TestMoneyJSONRejectsGarbage(t *testing.T) {
	var m Money
	if err := json.Unmarshal([]byte(`"ten"`), &m); err == nil {
		t.Error("expected error for non-numeric amount")
	}
}
