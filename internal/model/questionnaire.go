package model

// Category is a scoring tag attached to a questionnaire item
type Category string

const (
	CategoryLossOfControl Category = "L"   // Core loss-of-control items
	CategoryEmotional     Category = "E"   // Emotion-triggered eating
	CategoryRestraint     Category = "R"   // Restraint / rebound after dieting
	CategoryTrueHunger    Category = "T"   // Physiological hunger
	CategoryImpulsive     Category = "I"   // Cue-driven, impulsive eating
	CategoryHabitual      Category = "H"   // Routine, mindless eating
	CategoryNight         Category = "N"   // Night eating
	CategoryPurge         Category = "RED" // Compensatory / purge behaviour
)

// SubtypeCategories is the fixed ranking order used for subtypes and tie-breaks
var SubtypeCategories = []Category{
	CategoryEmotional,
	CategoryRestraint,
	CategoryImpulsive,
	CategoryHabitual,
	CategoryNight,
	CategoryTrueHunger,
}

// AllCategories lists every tag an item may carry
var AllCategories = []Category{
	CategoryLossOfControl,
	CategoryEmotional,
	CategoryRestraint,
	CategoryTrueHunger,
	CategoryImpulsive,
	CategoryHabitual,
	CategoryNight,
	CategoryPurge,
}

var categoryLabels = map[Category]string{
	CategoryLossOfControl: "Loss of Control",
	CategoryEmotional:     "Emotional",
	CategoryRestraint:     "Restraint/Rebound",
	CategoryTrueHunger:    "True-Hunger",
	CategoryImpulsive:     "Impulsive",
	CategoryHabitual:      "Habitual",
	CategoryNight:         "Night",
	CategoryPurge:         "Purge",
}

// Label returns the human readable subtype name
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// Valid reports whether c is a known tag
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Item is one fixed questionnaire statement
type Item struct {
	ID        string     `json:"id" yaml:"id"`
	Statement string     `json:"statement" yaml:"statement"`
	Tags      []Category `json:"tags" yaml:"tags"`         // an item may count toward several categories
	Distress  bool       `json:"distress" yaml:"distress"` // distress / interference item
}

// HasTag reports whether the item counts toward category c
func (it Item) HasTag(c Category) bool {
	for _, t := range it.Tags {
		if t == c {
			return true
		}
	}
	return false
}

// Questionnaire is an ordered, immutable item table
type Questionnaire struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Intro string `json:"intro,omitempty" yaml:"intro"`
	Items []Item `json:"items" yaml:"items"`
}

// Scale is a 4-point ordinal answer
type Scale int

const (
	ScaleNever     Scale = 1
	ScaleSometimes Scale = 2
	ScaleOften     Scale = 3
	ScaleAlways    Scale = 4
)

// ScaleOption is a selectable answer for form rendering
type ScaleOption struct {
	Value Scale  `json:"value"`
	Label string `json:"label"`
}

// ScaleOptions lists the answer scale in ascending order
var ScaleOptions = []ScaleOption{
	{Value: ScaleNever, Label: "Never"},
	{Value: ScaleSometimes, Label: "Sometimes"},
	{Value: ScaleOften, Label: "Often"},
	{Value: ScaleAlways, Label: "Always"},
}

// Valid reports whether s is within 1..4
func (s Scale) Valid() bool {
	return s >= ScaleNever && s <= ScaleAlways
}

// Frequency is the self-reported episode frequency bin
type Frequency string

const (
	FrequencyRare     Frequency = "rare"     // less than once a month
	FrequencyMonthly  Frequency = "monthly"  // 1-3 times a month
	FrequencyWeekly   Frequency = "weekly"   // about once a week
	FrequencyFrequent Frequency = "frequent" // several times a week
)

// FrequencyOption is a selectable frequency bin for form rendering
type FrequencyOption struct {
	Value Frequency `json:"value"`
	Label string    `json:"label"`
}

// FrequencyOptions lists the bins from lowest to highest
var FrequencyOptions = []FrequencyOption{
	{Value: FrequencyRare, Label: "Less than once a month"},
	{Value: FrequencyMonthly, Label: "1-3 times a month"},
	{Value: FrequencyWeekly, Label: "About once a week"},
	{Value: FrequencyFrequent, Label: "Several times a week"},
}

// Valid reports whether f is a known bin
func (f Frequency) Valid() bool {
	for _, o := range FrequencyOptions {
		if o.Value == f {
			return true
		}
	}
	return false
}

// IsLowest reports whether f is the lowest bin
func (f Frequency) IsLowest() bool {
	return f == FrequencyOptions[0].Value
}

// Label returns the display text for f
func (f Frequency) Label() string {
	for _, o := range FrequencyOptions {
		if o.Value == f {
			return o.Label
		}
	}
	return string(f)
}
