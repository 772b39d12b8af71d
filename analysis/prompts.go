package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/foliograph/inkscore/lingstat"
)

// pdfExtractionPrompt accompanies an inline PDF payload.
const pdfExtractionPrompt = "Extract plain text from this PDF. Return only the text content. No markdown."

// buildExtractionPrompt asks the model for evidence snippets plus its own
// read of the language stats, as strict JSON.
func buildExtractionPrompt(text string, snippetCount int, stats lingstat.LanguageStats) string {
	keys := AllAxisKeys()
	keyNames := make([]string, len(keys))
	for i, k := range keys {
		keyNames[i] = string(k)
	}

	buckets, _ := json.Marshal(stats.SentenceLengthBuckets)
	pronouns, _ := json.Marshal(stats.PronounProfile)
	ratios, _ := json.Marshal(stats.PosRatios)

	return fmt.Sprintf(`
You are a production-grade text extractor for publishing editors.
Return STRICT JSON only. No prose, no code fences.

TASKS:
1) Provide evidence snippets tied to the provided axis keys. Each snippet should be concrete (max 320 chars) and include a short note on why it matters.
2) Provide a compact languageStats object.

Output JSON shape:
{
  "evidenceIndex": [
    {
      "id": "string",
      "axisKey": "AxisKey from list",
      "startChar": 0,
      "endChar": 0,
      "text": "verbatim snippet",
      "note": "why this snippet matters for that axis"
    }
  ],
  "languageStats": {
    "posRatios": {
      "nouns": 0,
      "verbs": 0,
      "adjectives": 0,
      "adverbs": 0,
      "dialogue": 0
    },
    "sentenceLengthBuckets": {
      "upTo5": 0,
      "sixTo10": 0,
      "elevenTo15": 0,
      "sixteenTo25": 0,
      "over25": 0
    },
    "pronounProfile": {
      "firstPerson": 0,
      "secondPerson": 0,
      "thirdPerson": 0,
      "plural": 0,
      "genderNeutral": 0
    },
    "nominalizationSignals": {
      "count": 0,
      "examples": ["string", "string"]
    },
    "passiveVoiceSignals": {
      "count": 0,
      "examples": ["string"]
    },
    "readingEase": 0
  }
}

Constraints:
- Keep exactly %d snippets total (spread across axes when possible).
- Use axisKey from this list only: %s.
- Do NOT include markdown or extra keys.

Base text (truncate/clean as needed):
%s

Pre-computed stats (for reference, keep JSON lean):
- sentenceLengthBuckets: %s
- pronounProfile: %s
- posRatios: %s
`, snippetCount, strings.Join(keyNames, ", "), text, buckets, pronouns, ratios)
}

// axisDefsJSON renders the full axis taxonomy for the scoring prompt.
func axisDefsJSON() string {
	defs := struct {
		Editorial      []Axis `json:"editorial"`
		GenreFit       []Axis `json:"genreFit"`
		MarketNextWeek []Axis `json:"marketNextWeek"`
	}{
		Editorial:      axisMeta[ModeEditorial],
		GenreFit:       axisMeta[ModeGenreFit],
		MarketNextWeek: axisMeta[ModeMarketNextWeek],
	}
	out, _ := json.MarshalIndent(defs, "", "  ")
	return string(out)
}

// buildScoringPrompt asks the model to score all three radar modes and
// produce the prose summary, as strict JSON.
func buildScoringPrompt(textSample, detectedGenre, detectedSubgenre string, subgenreCandidates []string, statsSummary lingstat.LanguageStats) string {
	summary, _ := json.Marshal(statsSummary)

	options := strings.Join(subgenreCandidates, ", ")
	if options == "" {
		options = "[]"
	}

	return fmt.Sprintf(`
You are an editorial scoring system. Return STRICT JSON only. No prose, no code fences.

Score three radar modes: editorial, genreFit, marketNextWeek. For each axis, produce score 0-5 and confidence 0-1 with the exact labels/keys below. Also provide synopsis, comps, redFlags, and marketPositioning arrays.

Axis definitions:
%s

Output JSON shape:
{
  "spiderByMode": {
    "editorial": [{ "key": "narrativeMomentum", "label": "...", "score": 0-5, "confidence": 0-1 }],
    "genreFit": [{ "key": "genreTropes", "label": "...", "score": 0-5, "confidence": 0-1 }],
    "marketNextWeek": [{ "key": "hookStrength", "label": "...", "score": 0-5, "confidence": 0-1 }]
  },
  "detectedGenre": "string",
  "detectedSubgenre": "string",
  "subgenreCandidates": ["string"],
  "highlights": { "strengths": ["string"], "risks": ["string"] },
  "llmSummary": {
    "synopsis": ["string"],
    "comps": ["string"],
    "redFlags": ["string"],
    "marketPositioning": ["string"]
  }
}

Constraints:
- Keep labels in English.
- Scores must be numbers 0-5; confidence 0-1.
- If unsure about subgenre, pick the closest and still populate subgenreCandidates.

Detected genre hint: %s
Detected subgenre hint: %s
Subgenre options: %s
Language stats summary: %s

Text sample (trimmed to ~3k chars):
%s
`, axisDefsJSON(), detectedGenre, detectedSubgenre, options, summary, textSample)
}
