package round

import "testing"

func TestNormalize(t *testing.T) {
	collapse := Normalizer{Whitespace: CollapseWhitespace}
	strip := Normalizer{Whitespace: StripWhitespace}

	cases := []struct {
		name string
		n    Normalizer
		in   string
		want string
	}{
		{"lowercase", collapse, "China", "china"},
		{"punctuation", collapse, "  PARIS!! ", "paris"},
		{"underscore", collapse, "new_york", "newyork"},
		{"collapse runs", collapse, "united \t  states", "united states"},
		{"strip runs", strip, "united \t  states", "unitedstates"},
		{"diacritics", collapse, "Côte d'Ivoire", "cote divoire"},
		{"diacritics strip", strip, "Côte d'Ivoire", "cotedivoire"},
		{"digits kept", collapse, "Blink-182", "blink182"},
		{"fullwidth", collapse, "ＵＳＡ", "usa"},
		{"only symbols", collapse, "?!-_", ""},
		{"only spaces", collapse, "   ", ""},
		{"empty", strip, "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.n.Normalize(tc.in); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Côte d'Ivoire", "  São   Tomé & Príncipe ", "İstanbul", "DR Congo", "Guinea-Bissau",
		"ÅLAND___islands", "x́y", "ＵＳＡ", "Ⅻ", "straße", "", "\t\n",
	}
	for _, n := range []Normalizer{{Whitespace: CollapseWhitespace}, {Whitespace: StripWhitespace}} {
		for _, in := range inputs {
			once := n.Normalize(in)
			if twice := n.Normalize(once); twice != once {
				t.Errorf("%s: Normalize not idempotent for %q: %q then %q", n.Whitespace, in, once, twice)
			}
		}
	}
}

func TestMatchIgnoresCaseAndPunctuation(t *testing.T) {
	// Under the strip policy apostrophes and spaces vanish on both sides.
	n := Normalizer{Whitespace: StripWhitespace}
	if n.Normalize("Côte d'Ivoire") != n.Normalize("cote d ivoire") {
		t.Fatalf("expected %q and %q to match", "Côte d'Ivoire", "cote d ivoire")
	}
	c := Normalizer{Whitespace: CollapseWhitespace}
	if c.Normalize("Côte d'Ivoire") != c.Normalize("COTE DIVOIRE!") {
		t.Fatalf("expected collapse policy to match case and punctuation variants")
	}
}

func TestParseWhitespacePolicy(t *testing.T) {
	cases := map[string]WhitespacePolicy{"": CollapseWhitespace, "collapse": CollapseWhitespace, "STRIP": StripWhitespace}
	for in, want := range cases {
		got, err := ParseWhitespacePolicy(in)
		if err != nil || got != want {
			t.Errorf("ParseWhitespacePolicy(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseWhitespacePolicy("squash"); err == nil {
		t.Error("expected error for unknown policy")
	}
}
