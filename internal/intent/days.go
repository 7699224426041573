package intent

import (
	"regexp"
	"strings"
	"time"
)

// Weekday follows the Sunday=0 convention. Both the classifier and the
// onboarding day scan share this single mapping.
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// TokenToday is the placeholder day token meaning "the current date"
const TokenToday = "hoje"

// AllDayTokens lists the five ride-day tokens in week order
var AllDayTokens = []string{"seg", "ter", "qua", "qui", "sex"}

var weekdayTokens = map[Weekday]string{
	Monday:    "seg",
	Tuesday:   "ter",
	Wednesday: "qua",
	Thursday:  "qui",
	Friday:    "sex",
}

var tokenWeekdays = map[string]Weekday{
	"seg": Monday,
	"ter": Tuesday,
	"qua": Wednesday,
	"qui": Thursday,
	"sex": Friday,
}

var dayNames = map[string]string{
	"hoje": "hoje",
	"seg":  "segunda",
	"ter":  "terça",
	"qua":  "quarta",
	"qui":  "quinta",
	"sex":  "sexta",
}

// every recognized weekday spelling, pt and en; hyphenated forms like
// "segunda-feira" split into words, so the bare name is enough
var mentionTokens = map[string]string{
	"seg": "seg", "segunda": "seg", "monday": "seg", "mon": "seg",
	"ter": "ter", "terça": "ter", "terca": "ter", "tuesday": "ter", "tue": "ter",
	"qua": "qua", "quarta": "qua", "wednesday": "qua", "wed": "qua",
	"qui": "qui", "quinta": "qui", "thursday": "qui", "thu": "qui",
	"sex": "sex", "sexta": "sex", "friday": "sex", "fri": "sex",
}

var (
	reAllWeek = regexp.MustCompile(`(?i)semana\s+toda|todos\s+os\s+dias|a\s+semana\s+inteira`)

	// mentions are matched word by word: RE2's \b is ASCII-only, so a
	// boundary assertion after a word ending in an accented letter
	// ("amanhã") never fires
	reWord = regexp.MustCompile(`[\p{L}]+`)
)

// ExtractDays scans free text for day references and returns canonical
// tokens, deduplicated in first-seen order. "semana toda" (and variants)
// short-circuits to all five weekdays. "hoje"/"amanhã" only produce a
// token when they land on Mon–Fri; weekends are silently dropped.
func ExtractDays(text string, now time.Time) []string {
	if reAllWeek.MatchString(text) {
		out := make([]string, len(AllDayTokens))
		copy(out, AllDayTokens)
		return out
	}
	return scanMentions(text, now, true)
}

// LiteralDays is the onboarding variant of ExtractDays: only named
// weekdays are recognized, never "hoje" or "amanhã".
func LiteralDays(text string) []string {
	return scanMentions(text, time.Time{}, false)
}

func scanMentions(text string, now time.Time, relative bool) []string {
	var out []string
	seen := make(map[string]bool)
	for _, w := range reWord.FindAllString(strings.ToLower(text), -1) {
		tok, ok := tokenForWord(w, now, relative)
		if !ok || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

func tokenForWord(word string, now time.Time, relative bool) (string, bool) {
	switch word {
	case "hoje":
		if !relative {
			return "", false
		}
		tok, ok := weekdayTokens[Weekday(now.Weekday())]
		return tok, ok
	case "amanhã", "amanha":
		if !relative {
			return "", false
		}
		tomorrow := now.AddDate(0, 0, 1)
		tok, ok := weekdayTokens[Weekday(tomorrow.Weekday())]
		return tok, ok
	}
	tok, ok := mentionTokens[word]
	return tok, ok
}

// ResolveDate maps a day token to a concrete calendar date: "hoje" is the
// current date, a weekday token is its soonest occurrence on or after
// today (never more than 7 days ahead).
func ResolveDate(token string, now time.Time) (time.Time, bool) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if token == TokenToday {
		return today, true
	}
	wd, ok := tokenWeekdays[token]
	if !ok {
		return time.Time{}, false
	}
	for i := 0; i < 7; i++ {
		d := today.AddDate(0, 0, i)
		if Weekday(d.Weekday()) == wd {
			return d, true
		}
	}
	return time.Time{}, false
}

// DayName returns the human-readable name for a day token ("seg" → "segunda")
func DayName(token string) string {
	if name, ok := dayNames[token]; ok {
		return name
	}
	return token
}
