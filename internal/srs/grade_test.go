package srs_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkotas/flashdeck/internal/srs"
)

func TestParseGrade(t *testing.T) {
	for name, want := range map[string]srs.Grade{
		"again": srs.Again,
		"hard":  srs.Hard,
		"good":  srs.Good,
		"easy":  srs.Easy,
	} {
		g, err := srs.ParseGrade(name)
		require.NoError(t, err)
		assert.Equal(t, want, g)
		assert.Equal(t, name, g.String())
	}

	_, err := srs.ParseGrade("perfect")
	assert.Error(t, err)
}

func TestGradeJSON(t *testing.T) {
	data, err := json.Marshal(srs.Good)
	require.NoError(t, err)
	assert.Equal(t, `"good"`, string(data))

	var g srs.Grade
	require.NoError(t, json.Unmarshal([]byte(`"again"`), &g))
	assert.Equal(t, srs.Again, g)

	assert.Error(t, json.Unmarshal([]byte(`"bogus"`), &g))
	assert.Error(t, json.Unmarshal([]byte(`3`), &g))

	_, err = json.Marshal(srs.Grade(99))
	assert.Error(t, err)
}

func TestStatusRoundTrip(t *testing.T) {
	for _, s := range []srs.Status{srs.StatusNew, srs.StatusLearning, srs.StatusReview, srs.StatusRelearning} {
		parsed, err := srs.ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := srs.ParseStatus("suspended")
	assert.Error(t, err)
}
