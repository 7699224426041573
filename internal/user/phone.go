package user

import "regexp"

var nonDigits = regexp.MustCompile(`\D`)

// PhoneCandidates generates every plausible stored format for a raw phone
// string so lookups succeed whether the number was saved with or without
// the Brazilian country code or formatting punctuation. Order is stable;
// duplicates are removed.
func PhoneCandidates(raw string) []string {
	digits := nonDigits.ReplaceAllString(raw, "")
	if digits == "" {
		return nil
	}

	var candidates []string
	seen := make(map[string]bool)
	add := func(c string) {
		if c == "" || seen[c] {
			return
		}
		seen[c] = true
		candidates = append(candidates, c)
	}

	add(digits)
	if len(digits) >= 12 && digits[:2] == "55" {
		national := digits[2:]
		add(national)
		add("+" + digits)
	} else {
		add("55" + digits)
		add("+55" + digits)
	}

	return candidates
}
