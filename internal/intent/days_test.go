package intent

import (
	"testing"
	"time"
)

func TestResolveDate(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  time.Time
		ok    bool
	}{
		{"hoje", TokenToday, time.Date(2026, 3, 4, 0, 0, 0, 0, time.Local), true},
		{"same weekday resolves to today", "qua", time.Date(2026, 3, 4, 0, 0, 0, 0, time.Local), true},
		{"later this week", "sex", time.Date(2026, 3, 6, 0, 0, 0, 0, time.Local), true},
		{"wraps into next week", "seg", time.Date(2026, 3, 9, 0, 0, 0, 0, time.Local), true},
		{"unknown token", "dom", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveDate(tt.token, wednesday)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Fatalf("date = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractDaysEnglishAliases(t *testing.T) {
	got := ExtractDays("going mon and friday", wednesday)
	want := []string{"seg", "sex"}
	if len(got) != len(want) {
		t.Fatalf("days = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("days = %v, want %v", got, want)
		}
	}
}

func TestExtractDaysAccentedWords(t *testing.T) {
	// accented spellings must behave exactly like their plain forms
	tests := []struct {
		text string
		want []string
	}{
		{"amanhã", []string{"qui"}},
		{"não vou amanhã", []string{"qui"}},
		{"amanha", []string{"qui"}},
		{"vou terça", []string{"ter"}},
		{"vou terça-feira e sexta", []string{"ter", "sex"}},
	}

	for _, tt := range tests {
		got := ExtractDays(tt.text, wednesday)
		if len(got) != len(tt.want) {
			t.Fatalf("ExtractDays(%q) = %v, want %v", tt.text, got, tt.want)
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Fatalf("ExtractDays(%q) = %v, want %v", tt.text, got, tt.want)
			}
		}
	}
}

func TestExtractDaysTomorrowOnFridayIsDropped(t *testing.T) {
	// 2026-03-06 is a Friday; "amanhã" lands on Saturday and produces nothing
	friday := time.Date(2026, 3, 6, 10, 0, 0, 0, time.Local)
	if got := ExtractDays("amanhã", friday); len(got) != 0 {
		t.Fatalf("days = %v, want none", got)
	}
}

func TestLiteralDaysIgnoresRelativeWords(t *testing.T) {
	got := LiteralDays("sou o João, vou hoje, segunda e quarta")
	want := []string{"seg", "qua"}
	if len(got) != len(want) {
		t.Fatalf("days = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("days = %v, want %v", got, want)
		}
	}
}

func TestDayName(t *testing.T) {
	if DayName("ter") != "terça" {
		t.Fatalf("DayName(ter) = %q", DayName("ter"))
	}
	if DayName("hoje") != "hoje" {
		t.Fatalf("DayName(hoje) = %q", DayName("hoje"))
	}
}
