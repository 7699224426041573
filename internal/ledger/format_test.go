package ledger

import (
	"strings"
	"testing"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "R$ 0,00"},
		{7.5, "R$ 7,50"},
		{12.345, "R$ 12,35"},
		{1234.5, "R$ 1234,50"},
	}

	for _, tt := range tests {
		if got := FormatMoney(tt.amount); got != tt.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFormatBalanceNoDebits(t *testing.T) {
	msg := FormatBalance("Ana", &Balance{MemberID: 1})
	if !strings.Contains(msg, "não tem débitos") {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestFormatBalancePaidOff(t *testing.T) {
	msg := FormatBalance("Ana", &Balance{MemberID: 1, TotalDebits: 30, TotalPayments: 30, Outstanding: 0})
	if !strings.Contains(msg, "em dia") {
		t.Fatalf("unexpected message: %q", msg)
	}
	if !strings.Contains(msg, "R$ 30,00") {
		t.Fatalf("message must show lifetime payments: %q", msg)
	}
	if strings.Contains(msg, "Pendente") {
		t.Fatalf("paid-off message must not mention a pending amount: %q", msg)
	}
}

func TestFormatBalanceOutstanding(t *testing.T) {
	msg := FormatBalance("Ana", &Balance{MemberID: 1, TotalDebits: 42.5, TotalPayments: 10, Outstanding: 32.5})
	for _, want := range []string{"R$ 42,50", "R$ 10,00", "R$ 32,50"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q missing %q", msg, want)
		}
	}
}
