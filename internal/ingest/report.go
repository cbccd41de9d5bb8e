package ingest

// ItemError records one item that failed during a run without aborting it.
type ItemError struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Report is the outcome of one ingestion run. Duplicates count as Skipped,
// not as errors.
type Report struct {
	Added   int         `json:"added"`
	Skipped int         `json:"skipped"`
	Errors  []ItemError `json:"errors"`
}

func (r *Report) addError(id string, err error) {
	r.Errors = append(r.Errors, ItemError{ID: id, Message: err.Error()})
}
