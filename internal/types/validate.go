package types

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// validate caches struct metadata and is safe for concurrent use
var validate = validator.New()

// ValidateStruct runs the struct tag validation and reports the first failure as an InputError
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		msg := fmt.Sprintf("failed on '%s'", fe.Tag())
		if fe.Param() != "" {
			msg = fmt.Sprintf("failed on '%s=%s'", fe.Tag(), fe.Param())
		}
		return &InputError{Field: fe.Namespace(), Message: msg}
	}
	return &InputError{Message: err.Error()}
}

// Validate checks the query shape: skills must be non-empty tokens, required years must be
// finite and non-negative and every vector must be finite.
func (q *JobQuery) Validate() error {
	if err := ValidateStruct(q); err != nil {
		return err
	}
	for skill, years := range q.RequiredYears {
		if years < 0 || math.IsNaN(years) || math.IsInf(years, 0) {
			return &InputError{Field: "required_years." + skill, Message: "must be a non-negative number"}
		}
	}
	if !finite(q.Embedding) {
		return &InputError{Field: "embedding", Message: "must contain only finite values"}
	}
	for name, v := range q.SectionEmbeddings {
		if !finite(v) {
			return &InputError{Field: "section_embeddings." + name, Message: "must contain only finite values"}
		}
	}
	return nil
}

// Validate checks the candidate shape
func (c *Candidate) Validate() error {
	if err := ValidateStruct(c); err != nil {
		return err
	}
	for _, w := range c.WorkHistory {
		if w.End != nil && w.End.Before(w.Start) {
			return &InputError{Field: "work_history", Message: fmt.Sprintf("candidate %s has an interval ending before it starts", c.ID)}
		}
	}
	return nil
}

func finite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
