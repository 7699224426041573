package ledger

import (
	"fmt"
	"strings"
)

// FormatMoney renders an amount in Brazilian currency notation with two
// decimals ("R$ 12,50")
func FormatMoney(amount float64) string {
	return "R$ " + strings.Replace(fmt.Sprintf("%.2f", amount), ".", ",", 1)
}

// FormatBalance composes the WhatsApp balance reply. Three shapes: no
// debits ever, fully paid off, or an outstanding amount.
func FormatBalance(name string, b *Balance) string {
	if b.TotalDebits == 0 && b.TotalPayments == 0 {
		return fmt.Sprintf("%s, você ainda não tem débitos registrados! 🎉", name)
	}

	if b.Outstanding <= 0 {
		return fmt.Sprintf("%s, você está em dia! ✅\n💰 Total pago: %s", name, FormatMoney(b.TotalPayments))
	}

	return fmt.Sprintf("%s, seu saldo:\n💸 Débitos: %s\n💰 Pagamentos: %s\n⚠️ Pendente: %s",
		name,
		FormatMoney(b.TotalDebits),
		FormatMoney(b.TotalPayments),
		FormatMoney(b.Outstanding))
}
