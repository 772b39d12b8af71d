// Package lingstat computes deterministic linguistic statistics from raw
// manuscript text: sentence length distribution, pronoun usage, rough
// part-of-speech ratios from suffix patterns, and passive-voice /
// nominalization signals.
//
// Everything here is pure and regex-driven. Given identical input the
// output is identical; empty input yields zeroed buckets. The numbers are
// deliberately cheap approximations — they feed an LLM prompt as reference
// material, not a linguistics paper.
package lingstat

import (
	"math"
	"regexp"
	"strings"
)

// PosRatios holds word-count-normalized part-of-speech approximations.
// All values are clamped to [0,1].
type PosRatios struct {
	Nouns      float64 `json:"nouns"`
	Verbs      float64 `json:"verbs"`
	Adjectives float64 `json:"adjectives"`
	Adverbs    float64 `json:"adverbs"`
	Dialogue   float64 `json:"dialogue"`
}

// SentenceLengthBuckets counts sentences by token length.
type SentenceLengthBuckets struct {
	UpTo5       int `json:"upTo5"`
	SixTo10     int `json:"sixTo10"`
	ElevenTo15  int `json:"elevenTo15"`
	SixteenTo25 int `json:"sixteenTo25"`
	Over25      int `json:"over25"`
}

// PronounProfile counts pronoun hits per category. A token may count
// toward several categories ("they" is third person, plural, and
// gender neutral).
type PronounProfile struct {
	FirstPerson   int `json:"firstPerson"`
	SecondPerson  int `json:"secondPerson"`
	ThirdPerson   int `json:"thirdPerson"`
	Plural        int `json:"plural"`
	GenderNeutral int `json:"genderNeutral"`
}

// Signals is a heuristic count with a few captured examples. The count is
// uncapped; examples are capped by the caller-visible limits below.
type Signals struct {
	Count    int      `json:"count"`
	Examples []string `json:"examples"`
}

// LanguageStats is the full statistics record shared with the analysis
// response and the model prompts.
type LanguageStats struct {
	PosRatios             PosRatios             `json:"posRatios"`
	SentenceLengthBuckets SentenceLengthBuckets `json:"sentenceLengthBuckets"`
	PronounProfile        PronounProfile        `json:"pronounProfile"`
	NominalizationSignals Signals               `json:"nominalizationSignals"`
	PassiveVoiceSignals   Signals               `json:"passiveVoiceSignals"`
	ReadingEase           float64               `json:"readingEase,omitempty"`
}

// Result bundles the stats with the raw counts the response needs.
type Result struct {
	CharCount int
	WordCount int
	Stats     LanguageStats
}

const (
	maxPassiveExamples        = 3
	maxNominalizationExamples = 4
	exampleMaxLen             = 140
)

var (
	tokenSplitRe     = regexp.MustCompile(`[^a-zA-Z']+`)
	sentenceSplitRe  = regexp.MustCompile(`[.!?]+`)
	passiveRe        = regexp.MustCompile(`(?i)be(en)?\s+[a-z]+ed\b`)
	nominalizationRe = regexp.MustCompile(`(?i)\b\w+(tion|ment|ness|ance|ence|ity)\b`)
	nounSuffixRe     = regexp.MustCompile(`\b\w+(tion|ment|ness|ity|ance|ence|ship|ism)\b`)
	verbSuffixRe     = regexp.MustCompile(`\b\w+(ing|ed)\b`)
	adjSuffixRe      = regexp.MustCompile(`\b\w+(ous|ive|ful|less|able|ible|al|ary)\b`)
	quoteRe          = regexp.MustCompile("[\"“”]")
)

var pronounSets = map[string][]string{
	"firstPerson":   {"i", "me", "my", "mine", "we", "us", "our", "ours"},
	"secondPerson":  {"you", "your", "yours"},
	"thirdPerson":   {"he", "she", "him", "her", "his", "hers", "they", "them", "their", "theirs"},
	"plural":        {"we", "us", "our", "ours", "they", "them", "their", "theirs"},
	"genderNeutral": {"they", "them", "their", "theirs"},
}

// Analyze computes statistics for text. Pure and infallible: bad input
// degrades to zeroed counts, never to an error.
func Analyze(text string) Result {
	words := Tokenize(text)
	wordCount := len(words)
	sentences := splitSentences(text)

	var buckets SentenceLengthBuckets
	for _, s := range sentences {
		n := len(Tokenize(s))
		switch {
		case n <= 5:
			buckets.UpTo5++
		case n <= 10:
			buckets.SixTo10++
		case n <= 15:
			buckets.ElevenTo15++
		case n <= 25:
			buckets.SixteenTo25++
		default:
			buckets.Over25++
		}
	}

	pronouns := countPronouns(words)
	nominalization, passive := detectSignals(sentences)

	denomWords := float64(max(wordCount, 1))
	denomSentences := float64(max(len(sentences), 1))

	ratios := PosRatios{
		Nouns:      clamp01(countMatching(words, nounSuffixRe) / denomWords),
		Verbs:      clamp01(countMatching(words, verbSuffixRe) / denomWords),
		Adjectives: clamp01(countMatching(words, adjSuffixRe) / denomWords),
		Adverbs:    clamp01(countSuffix(words, "ly") / denomWords),
		Dialogue:   clamp01(float64(len(quoteRe.FindAllString(text, -1))) / denomSentences),
	}

	return Result{
		CharCount: len(text),
		WordCount: wordCount,
		Stats: LanguageStats{
			PosRatios:             ratios,
			SentenceLengthBuckets: buckets,
			PronounProfile:        pronouns,
			NominalizationSignals: nominalization,
			PassiveVoiceSignals:   passive,
			ReadingEase:           readingEase(words, len(sentences)),
		},
	}
}

// Tokenize lower-cases text and splits on runs of anything that is not a
// letter or apostrophe, dropping empty tokens.
func Tokenize(text string) []string {
	parts := tokenSplitRe.Split(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

func splitSentences(text string) []string {
	parts := sentenceSplitRe.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

func countPronouns(words []string) PronounProfile {
	sets := make(map[string]map[string]bool, len(pronounSets))
	for cat, list := range pronounSets {
		m := make(map[string]bool, len(list))
		for _, w := range list {
			m[w] = true
		}
		sets[cat] = m
	}

	var p PronounProfile
	for _, w := range words {
		if sets["firstPerson"][w] {
			p.FirstPerson++
		}
		if sets["secondPerson"][w] {
			p.SecondPerson++
		}
		if sets["thirdPerson"][w] {
			p.ThirdPerson++
		}
		if sets["plural"][w] {
			p.Plural++
		}
		if sets["genderNeutral"][w] {
			p.GenderNeutral++
		}
	}
	return p
}

func detectSignals(sentences []string) (nominalization, passive Signals) {
	nominalization.Examples = []string{}
	passive.Examples = []string{}

	for _, sentence := range sentences {
		trimmed := strings.TrimSpace(sentence)

		if passiveRe.MatchString(trimmed) {
			passive.Count++
			if len(passive.Examples) < maxPassiveExamples {
				passive.Examples = append(passive.Examples, truncate(trimmed, exampleMaxLen))
			}
		}

		matches := nominalizationRe.FindAllString(trimmed, -1)
		if len(matches) > 0 {
			nominalization.Count += len(matches)
			// Keep at most two per sentence so one dense sentence cannot
			// fill the whole example list.
			for i, m := range matches {
				if i >= 2 {
					break
				}
				if len(nominalization.Examples) < maxNominalizationExamples {
					nominalization.Examples = append(nominalization.Examples, m)
				}
			}
		}
	}
	return nominalization, passive
}

func countMatching(words []string, re *regexp.Regexp) float64 {
	n := 0
	for _, w := range words {
		if re.MatchString(w) {
			n++
		}
	}
	return float64(n)
}

func countSuffix(words []string, suffix string) float64 {
	n := 0
	for _, w := range words {
		if strings.HasSuffix(w, suffix) {
			n++
		}
	}
	return float64(n)
}

// readingEase is a Flesch-style approximation clamped to [0,100].
// Syllables are estimated from vowel groups.
func readingEase(words []string, sentenceCount int) float64 {
	if len(words) == 0 {
		return 0
	}
	syllables := 0
	for _, w := range words {
		syllables += syllableEstimate(w)
	}
	wordsPerSentence := float64(len(words)) / float64(max(sentenceCount, 1))
	syllablesPerWord := float64(syllables) / float64(len(words))
	score := 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord
	return math.Round(clamp(score, 0, 100)*10) / 10
}

func syllableEstimate(word string) int {
	groups := 0
	inGroup := false
	for _, r := range word {
		if strings.ContainsRune("aeiouy", r) {
			if !inGroup {
				groups++
				inGroup = true
			}
		} else {
			inGroup = false
		}
	}
	return max(groups, 1)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func clamp01(v float64) float64 { return clamp(v, 0, 1) }

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
