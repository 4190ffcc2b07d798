package parser

import "fmt"

// reportPromptTemplate is the fixed-schema extraction prompt. The model is
// instructed to answer with JSON only; sanitation still handles fenced or
// prose-wrapped replies.
const reportPromptTemplate = `Analyze this medical report text and extract structured information. This appears to be a comprehensive lab report.

Text to analyze:
%s

Please provide a JSON response with exactly this structure:
{
    "patient_info": {
        "name": "patient name if available, otherwise 'Not specified'",
        "age": "age if available, otherwise 'Not specified'",
        "gender": "gender if available, otherwise 'Not specified'",
        "report_date": "date if available, otherwise 'Not specified'",
        "lab_number": "lab number if available, otherwise 'Not specified'"
    },
    "test_categories": [
        {
            "category": "test category name (e.g., 'Complete Blood Count', 'Liver Function', 'Lipid Profile')",
            "tests": [
                {
                    "test_name": "name of test",
                    "value": "measured value",
                    "unit": "unit of measurement",
                    "reference_range": "normal range",
                    "status": "normal/abnormal/high/low/borderline"
                }
            ]
        }
    ],
    "abnormal_findings": [
        "list of abnormal test results with brief description"
    ],
    "critical_values": [
        "list of any critical or extremely abnormal values"
    ]
}

Important guidelines:
- Look for common lab categories like CBC, Liver Panel, Kidney Panel, Lipid Screen, Thyroid Profile, HbA1c, Vitamins
- Pay attention to numerical values and their units
- Compare values to reference ranges when provided
- If no test results are found, include an empty array for test_categories
- Always include all required fields even if empty or "Not specified"
- Only return valid JSON, no additional text or explanations`

// BuildReportPrompt returns the extraction prompt for the given report text.
func BuildReportPrompt(text string) string {
	return fmt.Sprintf(reportPromptTemplate, text)
}
