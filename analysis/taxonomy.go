package analysis

// Mode names one of the three radar charts a manuscript is scored on.
type Mode string

const (
	ModeEditorial      Mode = "editorial"
	ModeGenreFit       Mode = "genreFit"
	ModeMarketNextWeek Mode = "marketNextWeek"
)

// Modes lists the scoring modes in response order.
var Modes = []Mode{ModeEditorial, ModeGenreFit, ModeMarketNextWeek}

// AxisKey identifies a single radar axis. Keys are unique across modes.
type AxisKey string

const (
	AxisNarrativeMomentum AxisKey = "narrativeMomentum"
	AxisCharacterVoice    AxisKey = "characterVoice"
	AxisPacingControl     AxisKey = "pacingControl"
	AxisClarity           AxisKey = "clarity"
	AxisOriginality       AxisKey = "originality"
	AxisThemeCohesion     AxisKey = "themeCohesion"

	AxisGenreTropes    AxisKey = "genreTropes"
	AxisReaderPromise  AxisKey = "readerPromise"
	AxisVoiceMatch     AxisKey = "voiceMatch"
	AxisStructureFit   AxisKey = "structureFit"
	AxisPOVConsistency AxisKey = "povConsistency"
	AxisAgeCategoryFit AxisKey = "ageCategoryFit"

	AxisHookStrength     AxisKey = "hookStrength"
	AxisPackagingClarity AxisKey = "packagingClarity"
	AxisCompsFit         AxisKey = "compsFit"
	AxisRetention        AxisKey = "retention"
	AxisShareability     AxisKey = "shareability"
	AxisSpeedToShelf     AxisKey = "speedToShelf"
)

// Axis pairs a key with its reader-facing label.
type Axis struct {
	Key   AxisKey `json:"key"`
	Label string  `json:"label"`
}

// axisMeta fixes each mode's six axes and their labels. Order matters:
// fallback scores and prompt text both follow it.
var axisMeta = map[Mode][]Axis{
	ModeEditorial: {
		{Key: AxisNarrativeMomentum, Label: "Narrative momentum"},
		{Key: AxisCharacterVoice, Label: "Character voice consistency"},
		{Key: AxisPacingControl, Label: "Pacing control"},
		{Key: AxisClarity, Label: "Line-level clarity"},
		{Key: AxisOriginality, Label: "Originality"},
		{Key: AxisThemeCohesion, Label: "Theme cohesion"},
	},
	ModeGenreFit: {
		{Key: AxisGenreTropes, Label: "Use of genre tropes"},
		{Key: AxisReaderPromise, Label: "Reader promise"},
		{Key: AxisVoiceMatch, Label: "Voice matches genre"},
		{Key: AxisStructureFit, Label: "Structure fit"},
		{Key: AxisPOVConsistency, Label: "POV consistency"},
		{Key: AxisAgeCategoryFit, Label: "Age/category fit"},
	},
	ModeMarketNextWeek: {
		{Key: AxisHookStrength, Label: "Hook strength"},
		{Key: AxisPackagingClarity, Label: "Packaging clarity"},
		{Key: AxisCompsFit, Label: "Comparable titles fit"},
		{Key: AxisRetention, Label: "Reader retention signals"},
		{Key: AxisShareability, Label: "Shareability"},
		{Key: AxisSpeedToShelf, Label: "Speed to shelf"},
	},
}

// ModeAxes returns the axes for a mode, in canonical order.
func ModeAxes(mode Mode) []Axis {
	return axisMeta[mode]
}

// AllAxisKeys returns every axis key across all modes, in mode order.
func AllAxisKeys() []AxisKey {
	keys := make([]AxisKey, 0, 18)
	for _, mode := range Modes {
		for _, a := range axisMeta[mode] {
			keys = append(keys, a.Key)
		}
	}
	return keys
}

// validAxisKey reports whether key belongs to any mode.
func validAxisKey(key AxisKey) bool {
	for _, mode := range Modes {
		for _, a := range axisMeta[mode] {
			if a.Key == key {
				return true
			}
		}
	}
	return false
}

// modeAxisLabel returns the canonical label for a key within a mode, or ""
// when the key is not one of the mode's axes.
func modeAxisLabel(mode Mode, key AxisKey) string {
	for _, a := range axisMeta[mode] {
		if a.Key == key {
			return a.Label
		}
	}
	return ""
}
