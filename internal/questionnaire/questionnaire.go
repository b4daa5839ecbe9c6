// Package questionnaire loads and validates the assessment item table.
package questionnaire

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"eatprofile/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultTable []byte

// ErrInvalidTable is returned when an item table fails validation
var ErrInvalidTable = errors.New("invalid questionnaire table")

// scoredCategories must each have at least one item
var scoredCategories = append(append([]model.Category{}, model.SubtypeCategories...),
	model.CategoryLossOfControl, model.CategoryPurge)

// Default returns the embedded 30-item questionnaire
func Default() (*model.Questionnaire, error) {
	return Parse(defaultTable)
}

// Load reads a questionnaire from path, or the embedded default when path is empty
func Load(path string) (*model.Questionnaire, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questionnaire %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML item table and validates it
func Parse(data []byte) (*model.Questionnaire, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var q model.Questionnaire
	if err := dec.Decode(&q); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}
	if err := Validate(&q); err != nil {
		return nil, err
	}
	return &q, nil
}

// Validate checks the table invariants the scoring engine relies on:
// unique ids, known tags, and at least one item per scored category and
// at least one distress item.
func Validate(q *model.Questionnaire) error {
	if q == nil || len(q.Items) == 0 {
		return fmt.Errorf("%w: no items", ErrInvalidTable)
	}

	seen := make(map[string]bool, len(q.Items))
	counts := make(map[model.Category]int)
	distress := 0

	for i, it := range q.Items {
		if it.ID == "" {
			return fmt.Errorf("%w: item %d has no id", ErrInvalidTable, i+1)
		}
		if seen[it.ID] {
			return fmt.Errorf("%w: duplicate item id %q", ErrInvalidTable, it.ID)
		}
		seen[it.ID] = true
		if it.Statement == "" {
			return fmt.Errorf("%w: item %q has no statement", ErrInvalidTable, it.ID)
		}
		if len(it.Tags) == 0 && !it.Distress {
			return fmt.Errorf("%w: item %q is not scored", ErrInvalidTable, it.ID)
		}
		for _, tag := range it.Tags {
			if !tag.Valid() {
				return fmt.Errorf("%w: item %q has unknown tag %q", ErrInvalidTable, it.ID, tag)
			}
			counts[tag]++
		}
		if it.Distress {
			distress++
		}
	}

	for _, c := range scoredCategories {
		if counts[c] == 0 {
			return fmt.Errorf("%w: no items tagged %s", ErrInvalidTable, c)
		}
	}
	if distress == 0 {
		return fmt.Errorf("%w: no distress items", ErrInvalidTable)
	}
	return nil
}

// Form is the public shape a form collector renders
type Form struct {
	ID          string                  `json:"id"`
	Title       string                  `json:"title"`
	Intro       string                  `json:"intro,omitempty"`
	Items       []FormItem              `json:"items"`
	Scale       []model.ScaleOption     `json:"scale"`
	Frequencies []model.FrequencyOption `json:"frequencies"`
}

// FormItem hides scoring tags from respondents
type FormItem struct {
	ID        string `json:"id"`
	Statement string `json:"statement"`
}

// ToForm strips scoring metadata from q
func ToForm(q *model.Questionnaire) Form {
	items := make([]FormItem, len(q.Items))
	for i, it := range q.Items {
		items[i] = FormItem{ID: it.ID, Statement: it.Statement}
	}
	return Form{
		ID:          q.ID,
		Title:       q.Title,
		Intro:       q.Intro,
		Items:       items,
		Scale:       model.ScaleOptions,
		Frequencies: model.FrequencyOptions,
	}
}
