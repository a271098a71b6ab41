package models

import (
	"strconv"
	"strings"

	dErrors "genescreen/pkg/domain-errors"
)

// SubmitRequest carries raw user input for a new screening. Numeric fields
// arrive as strings and are validated before anything touches the network.
type SubmitRequest struct {
	Name        string `json:"name"`
	DiseaseCode string `json:"diseaseCode"`
	RiskLevel   string `json:"riskLevel"`
}

// SubmitInput is a validated submission.
type SubmitInput struct {
	Name        string
	DiseaseCode int
	RiskLevel   int
}

// Parse validates presence and ranges. It fails fast with a bad-request code;
// no network call is made on invalid input.
func (r SubmitRequest) Parse() (*SubmitInput, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "screening name is required")
	}

	diseaseCode, err := strconv.Atoi(strings.TrimSpace(r.DiseaseCode))
	if err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "disease code must be an integer")
	}
	if diseaseCode < MinDiseaseCode || diseaseCode > MaxDiseaseCode {
		return nil, dErrors.New(dErrors.CodeBadRequest, "disease code must be between 1 and 100")
	}

	riskLevel, err := strconv.Atoi(strings.TrimSpace(r.RiskLevel))
	if err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "risk level must be an integer")
	}
	if riskLevel < 1 || riskLevel > 10 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "risk level must be between 1 and 10")
	}

	return &SubmitInput{Name: name, DiseaseCode: diseaseCode, RiskLevel: riskLevel}, nil
}
