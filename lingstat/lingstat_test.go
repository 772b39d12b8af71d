package lingstat

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Hello, world!", []string{"hello", "world"}},
		{"don't stop", []string{"don't", "stop"}},
		{"one  two\nthree", []string{"one", "two", "three"}},
		{"123 456", nil},
		{"", nil},
	}
	for _, tt := range tests {
		got := Tokenize(tt.in)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	r := Analyze("")
	if r.CharCount != 0 || r.WordCount != 0 {
		t.Fatalf("expected zero counts, got chars=%d words=%d", r.CharCount, r.WordCount)
	}
	b := r.Stats.SentenceLengthBuckets
	if b.UpTo5+b.SixTo10+b.ElevenTo15+b.SixteenTo25+b.Over25 != 0 {
		t.Fatal("expected empty buckets")
	}
	// No division by zero anywhere.
	if r.Stats.PosRatios.Nouns != 0 || r.Stats.PosRatios.Dialogue != 0 {
		t.Fatalf("expected zero ratios, got %+v", r.Stats.PosRatios)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	text := `The manuscript had been rejected twice. She read it again, slowly.
"Why does the ending feel rushed?" he asked. The development of the
argument showed a commitment to clarity and originality.`

	a := Analyze(text)
	b := Analyze(text)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("Analyze is not deterministic for identical input")
	}
}

func TestSentenceLengthBuckets(t *testing.T) {
	// One short (3 tokens), one mid (7 tokens), one long (27 tokens).
	text := "Go home now. The dog barked at the mailman twice. " +
		"When the rain finally stopped falling over the quiet grey town the " +
		"children ran outside to look for the puddles they had been promised all week long."
	r := Analyze(text)
	b := r.Stats.SentenceLengthBuckets
	if b.UpTo5 != 1 {
		t.Errorf("UpTo5 = %d, want 1", b.UpTo5)
	}
	if b.SixTo10 != 1 {
		t.Errorf("SixTo10 = %d, want 1", b.SixTo10)
	}
	if b.Over25 != 1 {
		t.Errorf("Over25 = %d, want 1", b.Over25)
	}
}

func TestPronounProfileOverlap(t *testing.T) {
	r := Analyze("They told them their story. I saw you.")
	p := r.Stats.PronounProfile

	// "they", "them", "their" count in third person, plural, and neutral.
	if p.ThirdPerson != 3 {
		t.Errorf("ThirdPerson = %d, want 3", p.ThirdPerson)
	}
	if p.Plural != 3 {
		t.Errorf("Plural = %d, want 3", p.Plural)
	}
	if p.GenderNeutral != 3 {
		t.Errorf("GenderNeutral = %d, want 3", p.GenderNeutral)
	}
	if p.FirstPerson != 1 {
		t.Errorf("FirstPerson = %d, want 1", p.FirstPerson)
	}
	if p.SecondPerson != 1 {
		t.Errorf("SecondPerson = %d, want 1", p.SecondPerson)
	}
}

func TestPassiveVoiceSignals(t *testing.T) {
	text := "The letter had been opened before. The cake will be baked quickly. " +
		"The door had been painted red. The window had been cleaned. The floor had been mopped."
	r := Analyze(text)
	s := r.Stats.PassiveVoiceSignals
	if s.Count != 5 {
		t.Errorf("passive count = %d, want 5", s.Count)
	}
	if len(s.Examples) != maxPassiveExamples {
		t.Errorf("examples = %d, want %d (capped)", len(s.Examples), maxPassiveExamples)
	}
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	s := strings.Repeat("é", exampleMaxLen+10)
	got := truncate(s, exampleMaxLen)
	if !utf8.ValidString(got) {
		t.Fatalf("truncate produced invalid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != exampleMaxLen {
		t.Errorf("rune count = %d, want %d", n, exampleMaxLen)
	}
	if short := "café"; truncate(short, exampleMaxLen) != short {
		t.Errorf("short strings must pass through unchanged")
	}
}

func TestNominalizationSignals(t *testing.T) {
	text := "The development of the government regulation caused agitation. " +
		"Its brightness and absence drew commitment and publicity."
	r := Analyze(text)
	s := r.Stats.NominalizationSignals
	if s.Count < 5 {
		t.Errorf("nominalization count = %d, want >= 5", s.Count)
	}
	// Examples capped at 4 total, max 2 per sentence.
	if len(s.Examples) > maxNominalizationExamples {
		t.Errorf("examples = %d, want <= %d", len(s.Examples), maxNominalizationExamples)
	}
}

func TestRatiosClamped(t *testing.T) {
	r := Analyze(`"Running" "jumped" "eating" "looked" "swimming"`)
	ratios := []float64{
		r.Stats.PosRatios.Nouns,
		r.Stats.PosRatios.Verbs,
		r.Stats.PosRatios.Adjectives,
		r.Stats.PosRatios.Adverbs,
		r.Stats.PosRatios.Dialogue,
	}
	for i, v := range ratios {
		if v < 0 || v > 1 {
			t.Errorf("ratio %d = %f out of [0,1]", i, v)
		}
	}
}

func TestReadingEaseRange(t *testing.T) {
	tests := []string{
		"See the dog run. See it go.",
		"Notwithstanding the incomprehensibility of institutional determinism, probabilistic considerations predominate.",
	}
	for _, text := range tests {
		r := Analyze(text)
		if r.Stats.ReadingEase < 0 || r.Stats.ReadingEase > 100 {
			t.Errorf("ReadingEase(%q) = %f out of [0,100]", text, r.Stats.ReadingEase)
		}
	}
	simple := Analyze("See the dog run. See it go.").Stats.ReadingEase
	dense := Analyze("Notwithstanding the incomprehensibility of institutional determinism, probabilistic considerations predominate.").Stats.ReadingEase
	if simple <= dense {
		t.Errorf("expected simple text (%f) to score higher than dense text (%f)", simple, dense)
	}
}
