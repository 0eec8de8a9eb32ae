package model

// StudentIdentity is a directory row keyed by StudentID
type StudentIdentity struct {
	StudentID string
	Title     string
	GivenName string
	Surname   string
}
