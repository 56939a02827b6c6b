package genres

import "testing"

func TestFindParentGenre(t *testing.T) {
	tests := []struct {
		name  string
		genre string
		want  string
	}{
		{"Exact Child", "shoegaze", "rock"},
		{"Exact Parent", "pop", "pop"},
		{"Indie Rock Is Rock", "indie rock", "rock"},
		{"Parent Name Substring", "swedish pop", "pop"},
		{"Child Substring", "deep house", "house"},
		{"Case Insensitive", "Deep House", "house"},
		{"Whitespace Trimmed", "  techno  ", "house"},
		{"Unknown Falls Through", "xyzzy-core", "other"},
		{"Empty String", "", "other"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FindParentGenre(tc.genre); got != tc.want {
				t.Errorf("FindParentGenre(%q) = %q, want %q", tc.genre, got, tc.want)
			}
		})
	}

	t.Run("Total Over Arbitrary Strings", func(t *testing.T) {
		inputs := []string{"!!!", "1234", "zzz zzz zzz", "𝄞 music", "n/a"}
		for _, input := range inputs {
			if got := FindParentGenre(input); got == "" {
				t.Errorf("FindParentGenre(%q) returned empty string", input)
			}
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			if got := FindParentGenre("experimental ambient folk"); got != FindParentGenre("experimental ambient folk") {
				t.Fatalf("nondeterministic classification: %q", got)
			}
		}
	})

	t.Run("Every Child Maps To Its Parent", func(t *testing.T) {
		for _, parent := range Parents() {
			for _, child := range taxonomy[parent] {
				if got := FindParentGenre(child); got != parent {
					t.Errorf("FindParentGenre(%q) = %q, want %q", child, got, parent)
				}
			}
		}
	})
}
