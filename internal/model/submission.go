package model

// SubmissionRecord is one row of the append-only submission ledger
type SubmissionRecord struct {
	Timestamp string
	StudentID string
	Title     string
	GivenName string
	Surname   string
	Program   string
}

// Row returns the record in ledger column order
func (r SubmissionRecord) Row() []string {
	return []string{r.Timestamp, r.StudentID, r.Title, r.GivenName, r.Surname, r.Program}
}
