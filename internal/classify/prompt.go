// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"bytes"
	"text/template"
	"time"
)

// classificationPromptTmpl instructs the provider to return a single JSON
// object with exactly six fields. The current calendar date is embedded so
// time-relative claims are judged correctly.
var classificationPromptTmpl = template.Must(template.New("classification").Parse(`Analyze the following content for misinformation, bias, and truthfulness as of {{.Date}}. Provide a response in JSON format with the following structure:
{
    "category": "Misinformation|Partially Misinformation|Truthful|Biased",
    "truthful_percentage": number,
    "misinformation_percentage": number,
    "bias_percentage": number,
    "bias_type": "Leftist/Communist|Right-wing/Conservative|Neutral",
    "reasoning": "Detailed explanation of the analysis, considering credible sources and social media sentiment. Assign high misinformation (around 90%) if claims lack definitive evidence, such as video or firsthand reports. Evaluate bias based on X post sentiment, noting left-leaning or right-leaning criticism."
}
Ensure percentages sum to 100. Content to analyze: {{.Input}}`))

// renderPrompt executes the classification prompt template for the given
// canonical input and date.
func renderPrompt(input string, now time.Time) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Date  string
		Input string
	}{
		Date:  now.Format("January 2, 2006"),
		Input: input,
	}
	if err := classificationPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
