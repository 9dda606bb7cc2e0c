package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerResult_Constructors(t *testing.T) {
	noData := NoData("nothing loaded")
	assert.Equal(t, OutcomeNoData, noData.Outcome)
	assert.NotNil(t, noData.Sources)
	assert.False(t, noData.Success())

	noMatch := NoMatch("no match", []Citation{{SourceName: "a"}}, 3)
	assert.Equal(t, OutcomeNoMatch, noMatch.Outcome)
	assert.Equal(t, 3, noMatch.DocumentsSearched)
	assert.Zero(t, noMatch.RelevantDocuments)

	failed := ModelError("sorry", ErrorKindQuota, errors.New("status 429"), 4, 2)
	assert.Equal(t, OutcomeModelError, failed.Outcome)
	assert.Equal(t, ErrorKindQuota, failed.ErrorKind)
	assert.Equal(t, "status 429", failed.Error)
	assert.Empty(t, failed.Sources)
	assert.False(t, failed.Success())

	answered := Answered("R65000", []Citation{{SourceName: "uct.pdf"}}, 4, 1)
	assert.True(t, answered.Success())
	assert.Equal(t, ErrorKindNone, answered.ErrorKind)
}

func TestAnswerResult_MarshalJSON(t *testing.T) {
	r := Answered("R65000", nil, 4, 1)
	r.QueryID = "q-1"

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "R65000", got["answer"])
	assert.Equal(t, true, got["success"])
	assert.Equal(t, "answered", got["outcome"])
	assert.Equal(t, []any{}, got["sources"])
	assert.EqualValues(t, 4, got["documentsSearched"])
	assert.EqualValues(t, 1, got["relevantDocuments"])
	assert.Equal(t, "q-1", got["queryId"])
	assert.NotContains(t, got, "errorKind")
	assert.NotContains(t, got, "error")
}

func TestAnswerOutcome_String(t *testing.T) {
	assert.Equal(t, "no_data", OutcomeNoData.String())
	assert.Equal(t, "no_match", OutcomeNoMatch.String())
	assert.Equal(t, "model_error", OutcomeModelError.String())
	assert.Equal(t, "answered", OutcomeAnswered.String())
	assert.Equal(t, "unknown", AnswerOutcome(42).String())
}
