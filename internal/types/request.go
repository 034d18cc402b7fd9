package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// RoadmapRequest holds the three inputs interpolated into the roadmap prompt.
type RoadmapRequest struct {
	Company        string `json:"company" validate:"required,notblank"`
	Role           string `json:"role" validate:"required,notblank"`
	JobDescription string `json:"job_description" validate:"required,notblank"`
}

// Validate validates the RoadmapRequest using the validator.
func (r *RoadmapRequest) Validate() error {
	validate := validator.New()
	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return err
	}
	return validate.Struct(r)
}

// Variables returns the request as template variables keyed by placeholder name.
func (r *RoadmapRequest) Variables() map[string]string {
	return map[string]string{
		"Company":        r.Company,
		"Role":           r.Role,
		"JobDescription": r.JobDescription,
	}
}
