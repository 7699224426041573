package intent

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const baseConfidence = 0.8

// Departure baseline assumed when the sender writes "chego HH:MM".
// TODO: read the group's configured departure time instead of assuming 07:00
const baselineDepartureMinutes = 7 * 60

var (
	reMinutes = regexp.MustCompile(`(?i)(\d{1,3})\s*min(utos?)?\b`)
	reArrival = regexp.MustCompile(`(?i)chego\s+(?:[àa]s?\s+)?(\d{1,2})[:h](\d{2})`)
)

// Classify maps free message text to a structured Intent. It is total:
// every input, including the empty string, yields a valid Intent.
func Classify(text string) Intent {
	return classifyAt(text, time.Now())
}

func classifyAt(text string, now time.Time) Intent {
	unknown := Intent{Action: ActionDesconhecido, Days: []string{}}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return unknown
	}

	for _, r := range rules {
		if !r.match(trimmed) {
			continue
		}

		result := Intent{Action: r.action}
		result.Days = ExtractDays(trimmed, now)
		if r.action == ActionAtraso {
			result.Minutes = extractDelayMinutes(trimmed)
		}

		confidence := baseConfidence
		if len(result.Days) > 0 {
			confidence += 0.1
		}
		if r.action == ActionAtraso && result.Minutes != nil {
			confidence += 0.1
		}
		if confidence > 1.0 {
			confidence = 1.0
		}
		result.Confidence = confidence

		// confirmations and cancellations without an explicit day apply to today
		if len(result.Days) == 0 {
			if r.action == ActionConfirmar || r.action == ActionCancelar {
				result.Days = []string{TokenToday}
			} else {
				result.Days = []string{}
			}
		}

		return result
	}

	return unknown
}

// extractDelayMinutes reads either an explicit "N min" amount or a
// "chego HH:MM" arrival compared against the departure baseline. The
// arrival form is only accepted when the difference is strictly between
// 0 and 120 minutes.
func extractDelayMinutes(text string) *int {
	if m := reMinutes.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return &n
		}
	}

	if m := reArrival.FindStringSubmatch(text); m != nil {
		hours, _ := strconv.Atoi(m[1])
		mins, _ := strconv.Atoi(m[2])
		diff := hours*60 + mins - baselineDepartureMinutes
		if diff > 0 && diff < 120 {
			return &diff
		}
	}

	return nil
}
