// Package scoring maps questionnaire answers to category means, a
// disorder-likelihood flag and a behavioural subtype.
package scoring

import (
	"errors"
	"fmt"
	"sort"

	"eatprofile/internal/model"
	"eatprofile/internal/questionnaire"

	"github.com/montanaflynn/stats"
)

// ErrInvalidInput is returned when a submission is incomplete or out of range
var ErrInvalidInput = errors.New("invalid input")

// threshold is the "Often" boundary used by every rule
const threshold = 3.0

var insightFlags = map[model.Category]string{
	model.CategoryEmotional:  model.InsightEmotional,
	model.CategoryRestraint:  model.InsightRestraint,
	model.CategoryImpulsive:  model.InsightImpulsive,
	model.CategoryHabitual:   model.InsightHabitual,
	model.CategoryNight:      model.InsightNight,
	model.CategoryTrueHunger: model.InsightTrueHunger,
}

// Engine classifies submissions against one questionnaire.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	q     *model.Questionnaire
	index map[string]int
}

// NewEngine validates q and returns an engine bound to it
func NewEngine(q *model.Questionnaire) (*Engine, error) {
	if err := questionnaire.Validate(q); err != nil {
		return nil, err
	}
	index := make(map[string]int, len(q.Items))
	for i, it := range q.Items {
		index[it.ID] = i
	}
	return &Engine{q: q, index: index}, nil
}

// Questionnaire returns the table the engine scores against
func (e *Engine) Questionnaire() *model.Questionnaire {
	return e.q
}

// Classify scores one submission. Every item must be answered exactly once.
func (e *Engine) Classify(answers []model.Answer, freq model.Frequency) (*model.Result, error) {
	scores, err := e.collect(answers, freq)
	if err != nil {
		return nil, err
	}

	means := make(map[model.Category]float64, len(model.SubtypeCategories))
	for _, c := range model.SubtypeCategories {
		m, err := e.mean(scores, func(it model.Item) bool { return it.HasTag(c) })
		if err != nil {
			return nil, err
		}
		means[c] = m
	}

	loc, err := e.mean(scores, func(it model.Item) bool { return it.HasTag(model.CategoryLossOfControl) })
	if err != nil {
		return nil, err
	}
	distress, err := e.mean(scores, func(it model.Item) bool { return it.Distress })
	if err != nil {
		return nil, err
	}
	purge, err := e.mean(scores, func(it model.Item) bool { return it.HasTag(model.CategoryPurge) })
	if err != nil {
		return nil, err
	}

	res := &model.Result{
		QuestionnaireID:  e.q.ID,
		Scores:           means,
		LossOfControl:    loc,
		Distress:         distress,
		Purge:            purge,
		Frequency:        freq,
		ProbableDisorder: loc >= threshold && distress >= threshold && !freq.IsLowest(),
		InsightFlags:     []string{},
		RedFlags:         []string{},
	}

	ranked := Rank(means)
	res.PrimarySubtype = ranked[0].Label()
	res.SecondarySubtype = ranked[1].Label()

	r := means[model.CategoryRestraint]
	switch {
	case r >= threshold && means[model.CategoryTrueHunger] >= threshold && loc < threshold:
		res.PrimarySubtype = model.SubtypeDietaryRebound
	case r >= threshold && means[model.CategoryEmotional] >= threshold:
		res.PrimarySubtype = model.SubtypeRestraintEmotional
	}

	for _, c := range model.SubtypeCategories {
		if means[c] < threshold {
			continue
		}
		// Physiological framing is dropped when the disorder flag is set.
		if c == model.CategoryTrueHunger && res.ProbableDisorder {
			continue
		}
		res.InsightFlags = append(res.InsightFlags, insightFlags[c])
	}

	if purge >= threshold {
		res.RedFlags = append(res.RedFlags, model.RedFlagPurging)
	}
	if distress >= threshold && loc >= threshold {
		res.RedFlags = append(res.RedFlags, model.RedFlagSeekEvaluation)
	}

	return res, nil
}

// Rank orders the subtype categories by score, highest first. Equal scores
// keep the fixed category order.
func Rank(means map[model.Category]float64) []model.Category {
	ranked := append([]model.Category{}, model.SubtypeCategories...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return means[ranked[i]] > means[ranked[j]]
	})
	return ranked
}

// collect validates answers and returns scores in item order
func (e *Engine) collect(answers []model.Answer, freq model.Frequency) ([]float64, error) {
	if freq == "" {
		return nil, fmt.Errorf("%w: frequency is required", ErrInvalidInput)
	}
	if !freq.Valid() {
		return nil, fmt.Errorf("%w: unknown frequency %q", ErrInvalidInput, freq)
	}

	scores := make([]float64, len(e.q.Items))
	answered := make([]bool, len(e.q.Items))
	for _, a := range answers {
		i, ok := e.index[a.ItemID]
		if !ok {
			return nil, fmt.Errorf("%w: unknown item %q", ErrInvalidInput, a.ItemID)
		}
		if answered[i] {
			return nil, fmt.Errorf("%w: item %q answered twice", ErrInvalidInput, a.ItemID)
		}
		if !a.Score.Valid() {
			return nil, fmt.Errorf("%w: item %q score %d out of range 1-4", ErrInvalidInput, a.ItemID, a.Score)
		}
		answered[i] = true
		scores[i] = float64(a.Score)
	}

	for i, ok := range answered {
		if !ok {
			return nil, fmt.Errorf("%w: item %q is missing", ErrInvalidInput, e.q.Items[i].ID)
		}
	}
	return scores, nil
}

func (e *Engine) mean(scores []float64, match func(model.Item) bool) (float64, error) {
	var data stats.Float64Data
	for i, it := range e.q.Items {
		if match(it) {
			data = append(data, scores[i])
		}
	}
	return stats.Mean(data)
}
