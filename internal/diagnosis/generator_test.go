package diagnosis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"medscan/internal/domain"
	"medscan/mocks"
)

const validDiagnosisJSON = `{
	"risk_assessment": {
		"overall_risk": "high",
		"cardiovascular_risk": "moderate",
		"diabetes_risk": "high",
		"risk_factors": ["elevated HbA1c"]
	},
	"potential_conditions": [
		{"condition": "Type 2 Diabetes", "probability": "high", "supporting_evidence": ["HbA1c 7.1"], "description": "Glycemic control outside target"}
	],
	"recommendations": [
		{"category": "medical", "recommendation": "Endocrinology referral", "priority": "high", "rationale": "Confirmed hyperglycemia"}
	],
	"follow_up_tests": ["Fasting insulin"],
	"red_flags": [],
	"positive_findings": ["Normal renal function"],
	"summary": "Findings consistent with diabetes; follow up promptly."
}`

func sampleReport() *domain.ParsedReport {
	return &domain.ParsedReport{
		PatientInfo: domain.PatientInfo{Name: "Mr. Arjun Rao"},
		TestCategories: []domain.TestCategory{
			{Category: "HbA1c", Tests: []domain.TestResult{
				{TestName: "HbA1c", Value: "7.1", Status: domain.TestStatusHigh},
			}},
		},
		AbnormalFindings: []string{"HbA1c elevated"},
		CriticalValues:   []string{},
	}
}

func TestGenerate_Success(t *testing.T) {
	completer := new(mocks.MockCompleter)
	completer.On("Complete", mock.Anything, mock.Anything).Return(validDiagnosisJSON, nil).Once()

	diag := NewGenerator(completer).Generate(context.Background(), sampleReport())

	assert.Equal(t, domain.RiskHigh, diag.RiskAssessment.OverallRisk)
	require.Len(t, diag.PotentialConditions, 1)
	assert.Equal(t, "Type 2 Diabetes", diag.PotentialConditions[0].Condition)
	assert.NotNil(t, diag.RedFlags)
	completer.AssertExpectations(t)
}

func TestGenerate_RetriesOnceThenSucceeds(t *testing.T) {
	completer := new(mocks.MockCompleter)
	completer.On("Complete", mock.Anything, mock.Anything).
		Return(`{"risk_assessment": {}}`, nil).Once()
	completer.On("Complete", mock.Anything, mock.Anything).
		Return(validDiagnosisJSON, nil).Once()

	diag := NewGenerator(completer).Generate(context.Background(), sampleReport())
	assert.Equal(t, domain.RiskHigh, diag.RiskAssessment.OverallRisk)
	completer.AssertExpectations(t)
}

func TestGenerate_ExhaustionFallsBack(t *testing.T) {
	completer := new(mocks.MockCompleter)
	completer.On("Complete", mock.Anything, mock.Anything).
		Return("", errors.New("timeout")).Times(2)

	diag := NewGenerator(completer).Generate(context.Background(), sampleReport())

	assert.Equal(t, domain.RiskModerate, diag.RiskAssessment.OverallRisk)
	assert.Equal(t, domain.RiskModerate, diag.RiskAssessment.CardiovascularRisk)
	assert.Equal(t, domain.RiskModerate, diag.RiskAssessment.DiabetesRisk)
	assert.Equal(t, []string{"Unable to complete automated risk assessment"}, diag.RiskAssessment.RiskFactors)
	require.Len(t, diag.Recommendations, 1)
	assert.Equal(t, domain.PriorityHigh, diag.Recommendations[0].Priority)
	assert.Empty(t, diag.PotentialConditions)
	assert.Contains(t, diag.Summary, "Automated analysis could not be completed")
	completer.AssertExpectations(t)
}

func TestDecodeDiagnosis_MissingKeyRejected(t *testing.T) {
	_, err := decodeDiagnosis(`{"risk_assessment": {}, "potential_conditions": [], "recommendations": [], "follow_up_tests": [], "red_flags": []}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "summary")
}
