package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"eatprofile/internal/model"
	"eatprofile/internal/questionnaire"
	"eatprofile/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAnswers(t *testing.T, score model.Scale, freq model.Frequency, drop int) string {
	t.Helper()
	q, err := questionnaire.Default()
	require.NoError(t, err)

	sub := model.Submission{Frequency: freq}
	for _, it := range q.Items[drop:] {
		sub.Answers = append(sub.Answers, model.Answer{ItemID: it.ID, Score: score})
	}
	data, err := json.Marshal(sub)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "answers.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestClassifyCmd(t *testing.T) {
	path := writeAnswers(t, model.ScaleAlways, model.FrequencyFrequent, 0)

	out, err := run(t, "classify", "--answers", path)
	require.NoError(t, err)

	var res model.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.ProbableDisorder)
	assert.Equal(t, model.SubtypeRestraintEmotional, res.PrimarySubtype)
}

func TestClassifyCmd_MissingItem(t *testing.T) {
	path := writeAnswers(t, model.ScaleNever, model.FrequencyRare, 1)

	_, err := run(t, "classify", "--answers", path)
	assert.ErrorIs(t, err, scoring.ErrInvalidInput)
}

func TestRenderCmd(t *testing.T) {
	path := writeAnswers(t, model.ScaleNever, model.FrequencyRare, 0)

	out, err := run(t, "render", "--answers", path)
	require.NoError(t, err)
	assert.Contains(t, out, "# Eating Profile Self-Assessment")
	assert.Contains(t, out, "Mild or situational overeating")

	out, err = run(t, "render", "--answers", path, "--html")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1")
}

func TestCheckTableCmd(t *testing.T) {
	good := filepath.Join(t.TempDir(), "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`id: mini
items:
  - {id: a, statement: a, tags: [L, E, R, I, H, N, T, RED], distress: true}
`), 0o644))

	out, err := run(t, "check-table", good)
	require.NoError(t, err)
	assert.Contains(t, out, "mini: 1 items OK")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("id: bad\nitems:\n  - {id: a, statement: a, tags: [L]}\n"), 0o644))
	_, err = run(t, "check-table", bad)
	assert.ErrorIs(t, err, questionnaire.ErrInvalidTable)
}
