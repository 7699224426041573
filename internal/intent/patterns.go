package intent

import "regexp"

var (
	reConfirm = regexp.MustCompile(`(?i)\bvou\b|\bconfirmo\b|confirmad[oa]|t[ôo] dentro|\bbora\b|pode contar comigo|\bpartiu\b`)
	reCancel  = regexp.MustCompile(`(?i)n[ãa]o vou|n[ãa]o posso ir|cancela|desisto|fico de fora|n[ãa]o conte comigo`)
	reDelay   = regexp.MustCompile(`(?i)atras(o|ad[oa]|ar)|vou demorar|\d{1,3}\s*min(utos?)?\b|chego\s+(?:[àa]s?\s+)?\d{1,2}[:h]\d{2}`)
	reStatus  = regexp.MustCompile(`(?i)quem vai|\bstatus\b|\blista\b|quem confirmou`)
	reBalance = regexp.MustCompile(`(?i)quanto devo|\bsaldo\b|\bdevendo\b|\bpendente\b|minha conta`)
	reHelp    = regexp.MustCompile(`(?i)\bajuda\b|\bmenu\b|\bcomandos\b|como funciona`)

	// greetings match against the whole trimmed string, never a substring
	reGreeting = regexp.MustCompile(`(?i)^(oi+|ol[áa]|bom dia|boa tarde|boa noite|e a[íi]|eai+|opa|salve)[!. ]*$`)

	// guards for the confirmation rule: RE2 has no lookaround, so negation
	// ("não vou") and delay context ("vou atrasar") are excluded explicitly
	reNegated    = regexp.MustCompile(`(?i)n[ãa]o\s+(vou|posso|conte)`)
	reDelayGuard = regexp.MustCompile(`(?i)atras|demorar|chego\s`)
)

// rule pairs an action with the predicate that recognizes it
type rule struct {
	action Action
	match  func(string) bool
}

func matches(re *regexp.Regexp) func(string) bool {
	return re.MatchString
}

// rules is the classification priority: evaluated top to bottom, first
// match wins. The order is part of the contract and must not change.
var rules = []rule{
	{ActionConfirmar, func(s string) bool {
		return reConfirm.MatchString(s) && !reNegated.MatchString(s) && !reDelayGuard.MatchString(s)
	}},
	{ActionCancelar, matches(reCancel)},
	{ActionAtraso, matches(reDelay)},
	{ActionStatus, matches(reStatus)},
	{ActionSaldo, matches(reBalance)},
	{ActionAjuda, matches(reHelp)},
	{ActionSaudacao, matches(reGreeting)},
}
