// Package ingest defines the shared result types for batch ingestion of
// external market data.
package ingest

// Outcome classifies what the store did with a single normalized row.
type Outcome int

const (
	// OutcomeInserted means no record existed for the row's identity.
	OutcomeInserted Outcome = iota
	// OutcomeUpdated means an existing record held different values.
	OutcomeUpdated
	// OutcomeSkipped means an identical record was already stored.
	OutcomeSkipped
)

// RowFailure records a row that could not be ingested, with the reason.
// Failed rows count as skipped; they never abort the batch.
type RowFailure struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Summary is the result of one batch ingestion call.
type Summary struct {
	Inserted int          `json:"inserted"`
	Updated  int          `json:"updated"`
	Skipped  int          `json:"skipped"`
	Failures []RowFailure `json:"failures,omitempty"`
}

// Record tallies a single row outcome.
func (s *Summary) Record(o Outcome) {
	switch o {
	case OutcomeInserted:
		s.Inserted++
	case OutcomeUpdated:
		s.Updated++
	case OutcomeSkipped:
		s.Skipped++
	}
}

// Fail records a malformed row: counted as skipped, reason preserved.
func (s *Summary) Fail(index int, reason string) {
	s.Skipped++
	s.Failures = append(s.Failures, RowFailure{Index: index, Reason: reason})
}

// Total returns the number of rows accounted for.
func (s Summary) Total() int {
	return s.Inserted + s.Updated + s.Skipped
}
