package types

import "fmt"

// InputError represents a malformed query or configuration, rejected before any work starts
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("input error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("input error: %s", e.Message)
}

// DataGapError represents missing candidate data. It is recorded on the result, never fatal.
type DataGapError struct {
	CandidateID string
	Field       string
	Message     string
}

func (e *DataGapError) Error() string {
	return fmt.Sprintf("data gap for candidate %s in %s: %s", e.CandidateID, e.Field, e.Message)
}

// DependencyError represents a failure of an external collaborator such as the embedding provider
type DependencyError struct {
	Dependency string
	Message    string
	Cause      error
}

func (e *DependencyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s dependency failed: %s: %v", e.Dependency, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s dependency failed: %s", e.Dependency, e.Message)
}

func (e *DependencyError) Unwrap() error {
	return e.Cause
}

// ConsistencyError represents a corrupted snapshot detected during rebuild or load
type ConsistencyError struct {
	Message string
	Cause   error
}

func (e *ConsistencyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("consistency error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("consistency error: %s", e.Message)
}

func (e *ConsistencyError) Unwrap() error {
	return e.Cause
}
