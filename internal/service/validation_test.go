package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSubmission(t *testing.T) {
	valid := Submission{StudentID: "S1001", Title: "Mr.", Name: "Somchai", Surname: "Jaidee", Program: "Science"}
	assert.NoError(t, ValidateSubmission(valid))

	err := ValidateSubmission(Submission{StudentID: "S1001", Title: "  ", Name: "Somchai"})
	require.Error(t, err)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, []string{"program", "surname", "title"}, vErr.Fields)
	assert.Contains(t, err.Error(), "program")
}

func TestValidateSubmission_AllMissing(t *testing.T) {
	var vErr *ValidationError
	require.True(t, errors.As(ValidateSubmission(Submission{}), &vErr))
	assert.Equal(t, []string{"name", "program", "studentId", "surname", "title"}, vErr.Fields)
}
