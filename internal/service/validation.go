package service

import (
	"fmt"
	"sort"

	"github.com/xeipuuv/gojsonschema"
)

// Submission is what a caller sends to confirm a program choice
type Submission struct {
	StudentID string `json:"studentId"`
	Title     string `json:"title"`
	Name      string `json:"name"`
	Surname   string `json:"surname"`
	Program   string `json:"program"`
}

var submissionSchema = mustSchema(`{
	"type": "object",
	"required": ["studentId", "title", "name", "surname", "program"],
	"properties": {
		"studentId": {"type": "string", "pattern": "\\S"},
		"title":     {"type": "string", "pattern": "\\S"},
		"name":      {"type": "string", "pattern": "\\S"},
		"surname":   {"type": "string", "pattern": "\\S"},
		"program":   {"type": "string", "pattern": "\\S"}
	}
}`)

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("invalid submission schema: %v", err))
	}
	return schema
}

// ValidateSubmission rejects blank fields before any store call is made
func ValidateSubmission(sub Submission) error {
	result, err := submissionSchema.Validate(gojsonschema.NewGoLoader(sub))
	if err != nil {
		return fmt.Errorf("failed to validate submission: %w", err)
	}
	if result.Valid() {
		return nil
	}

	seen := make(map[string]bool)
	var fields []string
	for _, e := range result.Errors() {
		field := e.Field()
		if e.Type() == "required" {
			if p, ok := e.Details()["property"].(string); ok {
				field = p
			}
		}
		if !seen[field] {
			seen[field] = true
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)
	return &ValidationError{Fields: fields}
}
