package user

import "testing"

func TestPhoneCandidates(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "with country code",
			raw:  "5583999990000",
			want: []string{"5583999990000", "83999990000", "+5583999990000"},
		},
		{
			name: "without country code",
			raw:  "83999990000",
			want: []string{"83999990000", "5583999990000", "+5583999990000"},
		},
		{
			name: "formatted national number",
			raw:  "(83) 99999-0000",
			want: []string{"83999990000", "5583999990000", "+5583999990000"},
		},
		{
			name: "e164 with plus",
			raw:  "+55 83 99999-0000",
			want: []string{"5583999990000", "83999990000", "+5583999990000"},
		},
		{
			name: "empty",
			raw:  "abc",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PhoneCandidates(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("candidates = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("candidates = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestPhoneCandidatesEquivalentInputs(t *testing.T) {
	// the same number in different formats must produce overlapping candidate sets
	a := PhoneCandidates("+55 (83) 99999-0000")
	b := PhoneCandidates("83 99999 0000")

	inA := make(map[string]bool)
	for _, c := range a {
		inA[c] = true
	}
	overlap := false
	for _, c := range b {
		if inA[c] {
			overlap = true
			break
		}
	}
	if !overlap {
		t.Fatalf("no overlap between %v and %v", a, b)
	}
}
