package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/foliograph/inkscore/lingstat"
)

// Model output is treated as hostile input: fences stripped, shapes
// coerced, unknown keys dropped, and every hole filled with a
// deterministic fallback.

var fenceRe = regexp.MustCompile("(?i)```(?:json)?")

// parseModelJSON recovers a JSON object from raw model text. Code fences
// are stripped; the substring from the first '{' to the last '}' is the
// candidate when one exists.
func parseModelJSON(raw string) (map[string]any, error) {
	cleaned := strings.TrimSpace(fenceRe.ReplaceAllString(raw, ""))
	candidate := cleaned
	if start := strings.Index(cleaned, "{"); start >= 0 {
		if end := strings.LastIndex(cleaned, "}"); end > start {
			candidate = cleaned[start : end+1]
		}
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(candidate), &out); err != nil {
		return nil, fmt.Errorf("analysis: parse model JSON: %w", err)
	}
	return out, nil
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// asNumber coerces a value to float64, NaN when it cannot.
func asNumber(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return f
		}
	}
	return math.NaN()
}

func clampScore(v, lo, hi float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

const maxEvidenceTextLen = 360

// cleanEvidence validates model-supplied snippets: empty text and unknown
// axis keys are dropped, text is capped, and missing ids are minted.
func cleanEvidence(raw any) []EvidenceSnippet {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	var out []EvidenceSnippet
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		text := asString(m["text"])
		if r := []rune(text); len(r) > maxEvidenceTextLen {
			text = string(r[:maxEvidenceTextLen])
		}
		if text == "" {
			continue
		}
		key := AxisKey(asString(m["axisKey"]))
		if !validAxisKey(key) {
			continue
		}
		id := asString(m["id"])
		if id == "" {
			id = uuid.NewString()
		}
		out = append(out, EvidenceSnippet{
			ID:        id,
			AxisKey:   key,
			StartChar: intOrZero(m["startChar"]),
			EndChar:   intOrZero(m["endChar"]),
			Text:      text,
			Note:      asString(m["note"]),
		})
	}
	return out
}

func intOrZero(v any) int {
	n := asNumber(v)
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return int(n)
}

const (
	fallbackBaseScore  = 3.2
	fallbackConfidence = 0.35
	defaultConfidence  = 0.4
)

// fallbackSpider produces a deterministic six-axis score set around a
// base score: every third axis nudged up, the rest down.
func fallbackSpider(mode Mode, baseScore float64) []SpiderAxisScore {
	axes := axisMeta[mode]
	out := make([]SpiderAxisScore, len(axes))
	for i, a := range axes {
		delta := -0.2
		if i%3 == 0 {
			delta = 0.3
		}
		out[i] = SpiderAxisScore{
			Key:        a.Key,
			Label:      a.Label,
			Score:      clampScore(baseScore+delta, 0, 5),
			Confidence: fallbackConfidence,
		}
	}
	return out
}

// cleanSpider validates a model-supplied spiderByMode value. A mode's
// scores survive only when every taxonomy axis arrives exactly once and
// well-formed; anything short of that is replaced wholesale by the
// fallback set. Surviving axes are emitted in taxonomy order regardless
// of the order the model returned them.
func cleanSpider(raw any, fallbackScore float64) SpiderByMode {
	byMode, _ := raw.(map[string]any)

	ensure := func(mode Mode) []SpiderAxisScore {
		axes := axisMeta[mode]
		items, _ := byMode[string(mode)].([]any)
		seen := make(map[AxisKey]SpiderAxisScore, len(axes))
		for _, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			key := AxisKey(asString(m["key"]))
			metaLabel := modeAxisLabel(mode, key)
			if metaLabel == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				return fallbackSpider(mode, fallbackScore)
			}
			label := metaLabel
			if v, present := m["label"]; present && v != nil {
				label = asString(v)
			}
			confidence := defaultConfidence
			if v, present := m["confidence"]; present && v != nil {
				confidence = asNumber(v)
			}
			seen[key] = SpiderAxisScore{
				Key:        key,
				Label:      label,
				Score:      clampScore(asNumber(m["score"]), 0, 5),
				Confidence: clampScore(confidence, 0, 1),
			}
		}
		if len(seen) != len(axes) {
			return fallbackSpider(mode, fallbackScore)
		}
		out := make([]SpiderAxisScore, len(axes))
		for i, a := range axes {
			out[i] = seen[a.Key]
		}
		return out
	}

	return SpiderByMode{
		Editorial:      ensure(ModeEditorial),
		GenreFit:       ensure(ModeGenreFit),
		MarketNextWeek: ensure(ModeMarketNextWeek),
	}
}

// safeStringArray coerces a value to a string slice, dropping nothing:
// non-array input yields an empty slice.
func safeStringArray(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, asString(item))
	}
	return out
}

// fallbackSummary is the canned prose used when scoring produced nothing.
func fallbackSummary() Summary {
	return Summary{
		Synopsis:          []string{"No synopsis available. Provide at least a few paragraphs to enable summarization."},
		Comps:             []string{"Add comparable titles to position this manuscript."},
		RedFlags:          []string{"Limited evidence; provide more pages for stronger signal."},
		MarketPositioning: []string{"Insufficient data to recommend positioning."},
	}
}

// partialStats mirrors LanguageStats with every group optional, so a
// model reply can override groups it actually supplied and no more.
type partialStats struct {
	PosRatios             *lingstat.PosRatios             `json:"posRatios"`
	SentenceLengthBuckets *lingstat.SentenceLengthBuckets `json:"sentenceLengthBuckets"`
	PronounProfile        *lingstat.PronounProfile        `json:"pronounProfile"`
	NominalizationSignals *lingstat.Signals               `json:"nominalizationSignals"`
	PassiveVoiceSignals   *lingstat.Signals               `json:"passiveVoiceSignals"`
	ReadingEase           *float64                        `json:"readingEase"`
}

// decodePartialStats re-reads a generic languageStats value into typed
// groups. Returns nil when the value is absent or unusable.
func decodePartialStats(v any) *partialStats {
	if v == nil {
		return nil
	}
	buf, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out partialStats
	if err := json.Unmarshal(buf, &out); err != nil {
		return nil
	}
	return &out
}

// mergeLanguageStats overlays model-supplied stat groups on the locally
// computed baseline. Groups the model omitted keep their local values.
func mergeLanguageStats(local lingstat.LanguageStats, extracted *partialStats) lingstat.LanguageStats {
	if extracted == nil {
		return local
	}
	merged := local
	if extracted.PosRatios != nil {
		merged.PosRatios = *extracted.PosRatios
	}
	if extracted.SentenceLengthBuckets != nil {
		merged.SentenceLengthBuckets = *extracted.SentenceLengthBuckets
	}
	if extracted.PronounProfile != nil {
		merged.PronounProfile = *extracted.PronounProfile
	}
	if extracted.NominalizationSignals != nil {
		merged.NominalizationSignals = *extracted.NominalizationSignals
	}
	if extracted.PassiveVoiceSignals != nil {
		merged.PassiveVoiceSignals = *extracted.PassiveVoiceSignals
	}
	if extracted.ReadingEase != nil {
		merged.ReadingEase = *extracted.ReadingEase
	}
	return merged
}

// truncateText caps text at limit runes.
func truncateText(text string, limit int) string {
	r := []rune(text)
	if len(r) <= limit {
		return text
	}
	return string(r[:limit])
}

// pickTitle guesses a display title: the first non-empty line of the
// manuscript, the file name, or a placeholder, capped at 140 characters.
func pickTitle(text, fileName string) string {
	title := ""
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			title = line
			break
		}
	}
	if title == "" {
		title = fileName
	}
	if title == "" {
		title = "Untitled manuscript"
	}
	if r := []rune(title); len(r) > 140 {
		title = string(r[:140])
	}
	return title
}
