package analysis

import "github.com/foliograph/inkscore/lingstat"

// SchemaVersion tags the report wire format.
const SchemaVersion = "1.0"

// SpiderAxisScore is one scored radar axis.
type SpiderAxisScore struct {
	Key        AxisKey `json:"key"`
	Label      string  `json:"label"`
	Score      float64 `json:"score"`      // 0-5
	Confidence float64 `json:"confidence"` // 0-1
}

// SpiderByMode groups axis scores per radar mode. Each slice holds
// exactly six entries.
type SpiderByMode struct {
	Editorial      []SpiderAxisScore `json:"editorial"`
	GenreFit       []SpiderAxisScore `json:"genreFit"`
	MarketNextWeek []SpiderAxisScore `json:"marketNextWeek"`
}

// EvidenceSnippet ties a verbatim passage to a radar axis.
type EvidenceSnippet struct {
	ID        string  `json:"id"`
	AxisKey   AxisKey `json:"axisKey"`
	StartChar int     `json:"startChar"`
	EndChar   int     `json:"endChar"`
	Text      string  `json:"text"`
	Note      string  `json:"note"`
}

// Highlights carries free-form strengths and risks from scoring.
type Highlights struct {
	Strengths []string `json:"strengths"`
	Risks     []string `json:"risks"`
}

// Summary is the prose portion of a report.
type Summary struct {
	Synopsis          []string `json:"synopsis"`
	Comps             []string `json:"comps"`
	RedFlags          []string `json:"redFlags"`
	MarketPositioning []string `json:"marketPositioning"`
}

// Report is the full analysis result for one manuscript upload.
type Report struct {
	SchemaVersion      string                 `json:"schemaVersion"`
	FileName           string                 `json:"fileName"`
	TitleGuess         string                 `json:"titleGuess"`
	DetectedGenre      string                 `json:"detectedGenre"`
	DetectedSubgenre   string                 `json:"detectedSubgenre"`
	SubgenreCandidates []string               `json:"subgenreCandidates"`
	WordCount          int                    `json:"wordCount"`
	CharCount          int                    `json:"charCount"`
	SpiderByMode       SpiderByMode           `json:"spiderByMode"`
	Highlights         Highlights             `json:"highlights"`
	LanguageStats      lingstat.LanguageStats `json:"languageStats"`
	EvidenceIndex      []EvidenceSnippet      `json:"evidenceIndex"`
	Summary            Summary                `json:"llmSummary"`
}
