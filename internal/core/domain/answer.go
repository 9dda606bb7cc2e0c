package domain

import "encoding/json"

// AnswerOutcome tags which state a question ended in.
type AnswerOutcome int

const (
	// OutcomeNoData means the store holds no documents.
	OutcomeNoData AnswerOutcome = iota

	// OutcomeNoMatch means no stored document scored above zero.
	OutcomeNoMatch

	// OutcomeModelError means the completion model failed or timed out.
	OutcomeModelError

	// OutcomeAnswered means the completion model produced an answer.
	OutcomeAnswered
)

// String returns the string representation.
func (o AnswerOutcome) String() string {
	switch o {
	case OutcomeNoData:
		return "no_data"
	case OutcomeNoMatch:
		return "no_match"
	case OutcomeModelError:
		return "model_error"
	case OutcomeAnswered:
		return "answered"
	default:
		return "unknown"
	}
}

// ErrorKind classifies completion-model failures for callers that map them to statuses.
type ErrorKind string

// Error kinds.
const (
	ErrorKindNone          ErrorKind = ""
	ErrorKindTimeout       ErrorKind = "timeout"
	ErrorKindConnectivity  ErrorKind = "connectivity"
	ErrorKindQuota         ErrorKind = "quota"
	ErrorKindNotConfigured ErrorKind = "not_configured"
	ErrorKindUnknown       ErrorKind = "unknown"
)

// Citation points the reader at a source backing an answer.
type Citation struct {
	SourceName  string `json:"sourceName"`
	DisplayName string `json:"displayName"`
	Excerpt     string `json:"excerpt"`
}

// AnswerResult is the per-query output contract.
// Build it with NoData, NoMatch, ModelError or Answered and switch on Outcome.
type AnswerResult struct {
	Outcome           AnswerOutcome
	Answer            string
	Sources           []Citation
	DocumentsSearched int
	RelevantDocuments int

	// ErrorKind and Error are set only for OutcomeModelError.
	ErrorKind ErrorKind
	Error     string

	// QueryID correlates log lines for one question.
	QueryID string
}

// Success is true only when the model answered.
func (r AnswerResult) Success() bool {
	return r.Outcome == OutcomeAnswered
}

// NoData builds the result for an empty store.
func NoData(answer string) AnswerResult {
	return AnswerResult{
		Outcome: OutcomeNoData,
		Answer:  answer,
		Sources: []Citation{},
	}
}

// NoMatch builds the result for a query no document matched.
func NoMatch(answer string, sources []Citation, searched int) AnswerResult {
	return AnswerResult{
		Outcome:           OutcomeNoMatch,
		Answer:            answer,
		Sources:           sources,
		DocumentsSearched: searched,
	}
}

// ModelError builds the result for a failed completion.
func ModelError(answer string, kind ErrorKind, err error, searched, relevant int) AnswerResult {
	r := AnswerResult{
		Outcome:           OutcomeModelError,
		Answer:            answer,
		Sources:           []Citation{},
		DocumentsSearched: searched,
		RelevantDocuments: relevant,
		ErrorKind:         kind,
	}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// Answered builds the result for a successful completion.
func Answered(answer string, sources []Citation, searched, relevant int) AnswerResult {
	return AnswerResult{
		Outcome:           OutcomeAnswered,
		Answer:            answer,
		Sources:           sources,
		DocumentsSearched: searched,
		RelevantDocuments: relevant,
	}
}

// answerResultJSON is the wire shape of AnswerResult.
type answerResultJSON struct {
	Answer            string     `json:"answer"`
	Sources           []Citation `json:"sources"`
	DocumentsSearched int        `json:"documentsSearched"`
	RelevantDocuments int        `json:"relevantDocuments"`
	Success           bool       `json:"success"`
	Outcome           string     `json:"outcome"`
	ErrorKind         ErrorKind  `json:"errorKind,omitempty"`
	Error             string     `json:"error,omitempty"`
	QueryID           string     `json:"queryId,omitempty"`
}

// MarshalJSON renders the result with an explicit success flag.
func (r AnswerResult) MarshalJSON() ([]byte, error) {
	sources := r.Sources
	if sources == nil {
		sources = []Citation{}
	}
	return json.Marshal(answerResultJSON{
		Answer:            r.Answer,
		Sources:           sources,
		DocumentsSearched: r.DocumentsSearched,
		RelevantDocuments: r.RelevantDocuments,
		Success:           r.Success(),
		Outcome:           r.Outcome.String(),
		ErrorKind:         r.ErrorKind,
		Error:             r.Error,
		QueryID:           r.QueryID,
	})
}
