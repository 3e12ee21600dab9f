package domain

import (
	"errors"
	"math"
	"testing"
)

func TestParseSide(t *testing.T) {
	cases := []struct {
		in   string
		want Side
	}{
		{"buy", SideBuy},
		{"bUy", SideBuy},
		{"sell", SideSell},
		{"seLl", SideSell},
	}
	for _, c := range cases {
		got, err := ParseSide(c.in)
		if err != nil {
			t.Errorf("ParseSide(%q): unexpected error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseSide(%q) = %s, want %s", c.in, got, c.want)
		}
	}

	if _, err := ParseSide("wrong"); !errors.Is(err, ErrInvalidSide) {
		t.Errorf("ParseSide(wrong): expected ErrInvalidSide, got %v", err)
	}
}

func TestRequiredFunds_SellNeedsNone(t *testing.T) {
	o := Order{Price: 10, Amount: 5, Side: SideSell, Signer: "BOB"}

	_, needed, err := o.RequiredFunds()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if needed {
		t.Error("sell orders must not require funds")
	}
}

func TestRequiredFunds_BuyIsProduct(t *testing.T) {
	o := Order{Price: 10, Amount: 5, Side: SideBuy, Signer: "BOB"}

	required, needed, err := o.RequiredFunds()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !needed {
		t.Fatal("buy orders must require funds")
	}
	if required != 50 {
		t.Errorf("required = %d, want 50", required)
	}
}

func TestRequiredFunds_BuyOverflow(t *testing.T) {
	o := Order{Price: math.MaxUint64, Amount: 2, Side: SideBuy, Signer: "BOB"}

	_, _, err := o.RequiredFunds()
	if !errors.Is(err, ErrOverflow) {
		t.Errorf("expected ErrOverflow, got %v", err)
	}
}

func TestIntoPartial(t *testing.T) {
	o := Order{Price: 10, Amount: 5, Side: SideBuy, Signer: "BOB"}

	po := o.IntoPartial(7)
	want := PartialOrder{Price: 10, Amount: 5, Remaining: 5, Side: SideBuy, Signer: "BOB", Ordinal: 7}
	if po != want {
		t.Errorf("IntoPartial = %+v, want %+v", po, want)
	}
}
