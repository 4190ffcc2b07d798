package diagnosis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"medscan/internal/domain"
	"medscan/internal/parser"
	"medscan/internal/port"
)

// maxAttempts is the number of completion attempts before the fallback
// diagnosis is returned. Retries are immediate, no backoff.
const maxAttempts = 2

// requiredKeys must all be present in the AI reply for it to be accepted.
var requiredKeys = []string{
	"risk_assessment",
	"potential_conditions",
	"recommendations",
	"follow_up_tests",
	"red_flags",
	"summary",
}

// Generator produces AI-driven diagnosis insights from a parsed report.
type Generator struct {
	completer port.Completer
}

// NewGenerator creates a Generator backed by the given completion provider.
func NewGenerator(completer port.Completer) *Generator {
	return &Generator{completer: completer}
}

// Generate is total: after maxAttempts failed completions it returns the
// conservative fallback diagnosis.
func (g *Generator) Generate(ctx context.Context, report *domain.ParsedReport) *domain.Diagnosis {
	prompt := BuildDiagnosisPrompt(report)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		raw, err := g.completer.Complete(ctx, prompt)
		if err != nil {
			log.Printf("diagnosis.Generate: attempt %d - completion error: %v", attempt, err)
			continue
		}

		diag, err := decodeDiagnosis(parser.CleanJSONResponse(raw))
		if err != nil {
			log.Printf("diagnosis.Generate: attempt %d - %v", attempt, err)
			continue
		}

		log.Printf("diagnosis.Generate: analyzed comprehensive report on attempt %d", attempt)
		return diag
	}

	log.Printf("diagnosis.Generate: all %d attempts failed, using fallback diagnosis", maxAttempts)
	return fallbackDiagnosis()
}

func decodeDiagnosis(cleaned string) (*domain.Diagnosis, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("JSON decode error: %w", err)
	}

	for _, key := range requiredKeys {
		if _, ok := raw[key]; !ok {
			return nil, fmt.Errorf("invalid structure: missing key %q", key)
		}
	}

	var diag domain.Diagnosis
	if err := json.Unmarshal([]byte(cleaned), &diag); err != nil {
		return nil, fmt.Errorf("JSON decode error: %w", err)
	}

	normalize(&diag)
	return &diag, nil
}

// normalize guarantees non-nil list fields.
func normalize(diag *domain.Diagnosis) {
	if diag.RiskAssessment.RiskFactors == nil {
		diag.RiskAssessment.RiskFactors = []string{}
	}
	if diag.PotentialConditions == nil {
		diag.PotentialConditions = []domain.PotentialCondition{}
	}
	if diag.Recommendations == nil {
		diag.Recommendations = []domain.Recommendation{}
	}
	if diag.FollowUpTests == nil {
		diag.FollowUpTests = []string{}
	}
	if diag.RedFlags == nil {
		diag.RedFlags = []string{}
	}
	if diag.PositiveFindings == nil {
		diag.PositiveFindings = []string{}
	}
}

// fallbackDiagnosis is the conservative stand-in when AI analysis fails:
// every risk reads moderate and the only recommendation is to see a
// professional.
func fallbackDiagnosis() *domain.Diagnosis {
	return &domain.Diagnosis{
		RiskAssessment: domain.RiskAssessment{
			OverallRisk:        domain.RiskModerate,
			CardiovascularRisk: domain.RiskModerate,
			DiabetesRisk:       domain.RiskModerate,
			RiskFactors:        []string{"Unable to complete automated risk assessment"},
		},
		PotentialConditions: []domain.PotentialCondition{},
		Recommendations: []domain.Recommendation{
			{
				Category:       "medical",
				Recommendation: "Consult with healthcare provider for proper interpretation",
				Priority:       domain.PriorityHigh,
				Rationale:      "Professional medical interpretation required",
			},
		},
		FollowUpTests:    []string{},
		RedFlags:         []string{},
		PositiveFindings: []string{},
		Summary:          "Automated analysis could not be completed. Please consult with a qualified healthcare professional for proper interpretation of these comprehensive lab results.",
	}
}
