package diagnosis

import (
	"encoding/json"
	"fmt"

	"medscan/internal/domain"
)

const diagnosisPromptTemplate = `As a medical AI assistant, analyze these comprehensive lab results and provide detailed insights:

%s

Provide analysis in the following JSON format:
{
    "risk_assessment": {
        "overall_risk": "low/moderate/high",
        "cardiovascular_risk": "low/moderate/high",
        "diabetes_risk": "low/moderate/high",
        "risk_factors": ["list identified risk factors"]
    },
    "potential_conditions": [
        {
            "condition": "condition name",
            "probability": "low/moderate/high",
            "supporting_evidence": ["specific test results that support this"],
            "description": "brief clinical explanation"
        }
    ],
    "recommendations": [
        {
            "category": "lifestyle/dietary/medical/follow-up",
            "recommendation": "specific actionable recommendation",
            "priority": "low/medium/high",
            "rationale": "why this recommendation is important"
        }
    ],
    "follow_up_tests": [
        "suggested additional tests with rationale"
    ],
    "red_flags": [
        "critical findings requiring immediate medical attention"
    ],
    "positive_findings": [
        "normal or good results worth highlighting"
    ],
    "summary": "A comprehensive overall assessment summary including key findings and next steps"
}

Consider:
- HbA1c levels for diabetes assessment
- Lipid profile for cardiovascular risk
- Liver and kidney function markers
- Vitamin levels and deficiencies
- Blood count abnormalities
- Thyroid function

Important: Only return valid JSON, include disclaimer about professional medical consultation`

// BuildDiagnosisPrompt serializes the parsed report into the fixed-schema
// diagnosis prompt.
func BuildDiagnosisPrompt(report *domain.ParsedReport) string {
	serialized, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		serialized = []byte("{}")
	}
	return fmt.Sprintf(diagnosisPromptTemplate, serialized)
}
