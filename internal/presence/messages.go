package presence

import (
	"fmt"
	"strings"

	"github.com/cajurona/backend/internal/group"
	"github.com/cajurona/backend/internal/ledger"
)

const (
	msgNoTrips     = "Desculpe, não encontrei viagens para os dias informados. 😕"
	msgNoTripToday = "Não encontrei viagem de ida para hoje. 😕"
	msgNobodyYet   = "Ninguém confirmou presença para hoje ainda. 🤷"
)

func confirmReply(days []string, totalDebited float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ Presença confirmada para: %s", strings.Join(days, ", "))
	if totalDebited > 0 {
		fmt.Fprintf(&b, "\n💰 Total debitado: %s", ledger.FormatMoney(totalDebited))
	}
	return b.String()
}

func cancelReply(cancelled, blocked []string, totalRefunded float64, windowMinutes int) string {
	var sections []string

	if len(cancelled) > 0 {
		s := fmt.Sprintf("❌ Presença cancelada para: %s", strings.Join(cancelled, ", "))
		if totalRefunded > 0 {
			s += fmt.Sprintf("\n💰 Total estornado: %s", ledger.FormatMoney(totalRefunded))
		}
		sections = append(sections, s)
	}

	if len(blocked) > 0 {
		sections = append(sections, fmt.Sprintf(
			"⚠️ Não foi possível cancelar %s: o prazo de cancelamento é de %d minutos antes da saída.",
			strings.Join(blocked, ", "), windowMinutes))
	}

	if len(sections) == 0 {
		return msgNoTrips
	}
	return strings.Join(sections, "\n")
}

func delayReply(name, arrival string) string {
	return fmt.Sprintf("⏰ Atraso registrado, %s! Chegada prevista: %s", name, arrival)
}

func statusReply(date string, confirmed, delayed []*StatusEntry, g *group.Group) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 Status de hoje (%s):", date)

	if len(confirmed) > 0 {
		fmt.Fprintf(&b, "\n✅ Confirmados (%d):", len(confirmed))
		for _, e := range confirmed {
			fmt.Fprintf(&b, "\n  • %s", e.Name)
		}
	}

	if len(delayed) > 0 {
		fmt.Fprintf(&b, "\n⏰ Atrasados (%d):", len(delayed))
		for _, e := range delayed {
			arrival := "?"
			if e.ArrivalTime != nil {
				arrival = *e.ArrivalTime
			}
			fmt.Fprintf(&b, "\n  • %s (chega %s)", e.Name, arrival)
		}
	}

	// per-person share only makes sense under weekly pricing
	headcount := len(confirmed) + len(delayed)
	if g.PricingModel == group.PricingWeekly && g.WeeklyPrice != nil && *g.WeeklyPrice > 0 && headcount > 0 {
		fmt.Fprintf(&b, "\n💰 Valor por pessoa: %s", ledger.FormatMoney(*g.WeeklyPrice/float64(headcount)))
	}

	return b.String()
}
