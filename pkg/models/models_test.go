package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/kiranshivaraju/cancerscan/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerdictFor(t *testing.T) {
	pos := models.VerdictFor(true)
	assert.Equal(t, "Cancer", pos.Result)
	assert.Equal(t, "Segera periksa ke dokter!", pos.Suggestion)

	neg := models.VerdictFor(false)
	assert.Equal(t, "Non-cancer", neg.Result)
	assert.Equal(t, "Penyakit kanker tidak terdeteksi.", neg.Suggestion)
}

func TestFormatCreatedAt(t *testing.T) {
	loc := time.FixedZone("WIB", 7*60*60)
	ts := time.Date(2024, 5, 1, 17, 4, 5, 123456789, loc)

	assert.Equal(t, "2024-05-01T10:04:05.123Z", models.FormatCreatedAt(ts))
}

func TestFormatCreatedAt_ZeroMillis(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 4, 5, 0, time.UTC)
	assert.Equal(t, "2024-05-01T10:04:05.000Z", models.FormatCreatedAt(ts))
}

func TestPrediction_JSONFieldNames(t *testing.T) {
	p := models.Prediction{
		ID:         "abc",
		Result:     models.ResultCancer,
		Suggestion: models.SuggestionCancer,
		CreatedAt:  "2024-05-01T10:04:05.000Z",
	}
	b, err := json.Marshal(p)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Len(t, m, 4)
	assert.Equal(t, "abc", m["id"])
	assert.Equal(t, "Cancer", m["result"])
	assert.Equal(t, "Segera periksa ke dokter!", m["suggestion"])
	assert.Equal(t, "2024-05-01T10:04:05.000Z", m["createdAt"])
}
