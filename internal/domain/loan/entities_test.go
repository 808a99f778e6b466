package loan

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseRepaymentAmount_RejectsNonPositiveAndGarbage(t *testing.T) {
	for _, raw := range []string{"0", "-5", "abc", "", "  ", "NaN", "Inf", "1e400"} {
		if _, err := ParseRepaymentAmount(raw); !errors.Is(err, ErrInvalidRepayment) {
			t.Fatalf("ParseRepaymentAmount(%q) err = %v, want ErrInvalidRepayment", raw, err)
		}
	}
}

func TestParseRepaymentAmount_Accepts(t *testing.T) {
	cases := map[string]float64{"25": 25, " 10.5 ": 10.5, "0.01": 0.01}
	for raw, want := range cases {
		got, err := ParseRepaymentAmount(raw)
		if err != nil {
			t.Fatalf("ParseRepaymentAmount(%q) err: %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseRepaymentAmount(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestDisplayName_FallsBackToBorrowerID(t *testing.T) {
	if got := (Loan{BorrowerID: 3}).DisplayName(); got != "Borrower #3" {
		t.Fatalf("DisplayName = %q", got)
	}
	if got := (Loan{BorrowerID: 3, BorrowerName: "Jane"}).DisplayName(); got != "Jane" {
		t.Fatalf("DisplayName = %q", got)
	}
}

func TestCurrencyOr(t *testing.T) {
	if got := (Loan{}).CurrencyOr(DefaultCurrency); got != "USD" {
		t.Fatalf("CurrencyOr = %q, want USD", got)
	}
	if got := (Loan{Currency: "EUR"}).CurrencyOr(DefaultCurrency); got != "EUR" {
		t.Fatalf("CurrencyOr = %q, want EUR", got)
	}
}

func TestActive(t *testing.T) {
	cases := map[Status]bool{"": true, StatusActive: true, "PAID": false}
	for st, want := range cases {
		if got := (Loan{Status: st}).Active(); got != want {
			t.Fatalf("Active(%q) = %v, want %v", st, got, want)
		}
	}
}

func TestFormInput_ParsesNumbers(t *testing.T) {
	in := Form{BorrowerID: "3", Amount: "100.5", Currency: "USD", DateLent: "2024-01-15"}.Input()
	if in.BorrowerID == nil || *in.BorrowerID != 3 {
		t.Fatalf("BorrowerID = %v", in.BorrowerID)
	}
	if in.Amount == nil || *in.Amount != 100.5 {
		t.Fatalf("Amount = %v", in.Amount)
	}
	b, _ := json.Marshal(in)
	want := `{"borrowerId":3,"amount":100.5,"currency":"USD","dateLent":"2024-01-15"}`
	if string(b) != want {
		t.Fatalf("json = %s, want %s", b, want)
	}
}

func TestFormInput_UnparsableBecomesNull(t *testing.T) {
	in := Form{BorrowerID: "", Amount: "lots", DateLent: "2024-01-15"}.Input()
	if in.BorrowerID != nil || in.Amount != nil {
		t.Fatalf("want nil numbers, got %+v", in)
	}
	b, _ := json.Marshal(in)
	want := `{"borrowerId":null,"amount":null,"currency":"","dateLent":"2024-01-15"}`
	if string(b) != want {
		t.Fatalf("json = %s, want %s", b, want)
	}
}

func TestLoan_UnmarshalNumericAmount(t *testing.T) {
	var l Loan
	raw := `{"id":7,"borrowerId":3,"amount":100.5,"dateLent":"2024-01-15","dueDate":"2024-02-15"}`
	if err := json.Unmarshal([]byte(raw), &l); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if l.Amount.String() != "100.5" || l.DueDate != "2024-02-15" || l.Currency != "" {
		t.Fatalf("unexpected loan: %+v", l)
	}
}
