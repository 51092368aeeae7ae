package models

const (
	ResultCancer    = "Cancer"
	ResultNonCancer = "Non-cancer"

	SuggestionCancer    = "Segera periksa ke dokter!"
	SuggestionNonCancer = "Penyakit kanker tidak terdeteksi."
)

// Verdict is a (result, suggestion) pair. The two fields always travel
// together so a record can never mix them.
type Verdict struct {
	Result     string
	Suggestion string
}

var (
	verdictCancer    = Verdict{Result: ResultCancer, Suggestion: SuggestionCancer}
	verdictNonCancer = Verdict{Result: ResultNonCancer, Suggestion: SuggestionNonCancer}
)

// VerdictFor returns the fixed verdict for a classification decision.
func VerdictFor(positive bool) Verdict {
	if positive {
		return verdictCancer
	}
	return verdictNonCancer
}
