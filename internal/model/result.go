package model

// Insight flags
const (
	InsightEmotional  = "emotion-triggered"
	InsightRestraint  = "restraint-rebound"
	InsightImpulsive  = "impulsive"
	InsightHabitual   = "habitual"
	InsightNight      = "night-eating"
	InsightTrueHunger = "physiological-hunger"
)

// Red flags
const (
	RedFlagPurging        = "purging-detected"
	RedFlagSeekEvaluation = "seek-evaluation"
)

// Subtype overrides
const (
	SubtypeDietaryRebound     = "Dietary-Rebound / Physiological"
	SubtypeRestraintEmotional = "Restraint-Triggered Emotional"
)

// Result is the classification of a single submission. It is never persisted.
type Result struct {
	QuestionnaireID  string               `json:"questionnaireId"`
	Scores           map[Category]float64 `json:"scores"` // E, R, I, H, N, T
	LossOfControl    float64              `json:"lossOfControl"`
	Distress         float64              `json:"distress"`
	Purge            float64              `json:"purge"`
	Frequency        Frequency            `json:"frequency"`
	ProbableDisorder bool                 `json:"probableDisorder"`
	PrimarySubtype   string               `json:"primarySubtype"`
	SecondarySubtype string               `json:"secondarySubtype"`
	InsightFlags     []string             `json:"insightFlags"`
	RedFlags         []string             `json:"redFlags"`
}

// HasInsight reports whether flag was emitted
func (r *Result) HasInsight(flag string) bool {
	return contains(r.InsightFlags, flag)
}

// HasRedFlag reports whether flag was emitted
func (r *Result) HasRedFlag(flag string) bool {
	return contains(r.RedFlags, flag)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
