// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package articles

import (
	"bytes"
	"text/template"
	"time"
)

// searchPromptTmpl is sent to the search-capable provider. It asks for
// verified X posts alongside news articles and pins social-post URLs to the
// canonical per-post address format.
var searchPromptTmpl = template.Must(template.New("search").Parse(`Search for up to 10 credible news articles or posts from verified X users (e.g., journalists, news outlets) related to the following claim, as of {{.Date}}. Focus on events from the past 30 days up to {{.Date}}. Return a JSON array of items with fields: title (string), url (string, use https://x.com/username/status/post_id for X posts), publication (string, or 'X' for posts), date (YYYY-MM-DD), author (string, or username for X posts). If no credible sources are found, return an empty array. Exclude speculative or unverified sources. Claim: {{.Input}}`))

// fallbackPromptTmpl is sent to the fallback provider, which has no live
// search mode and no X post access.
var fallbackPromptTmpl = template.Must(template.New("fallback").Parse(`Search for up to 10 credible news articles related to the following claim, as of {{.Date}}. Focus on events from the past 30 days up to {{.Date}}. Return a JSON array of items with fields: title (string), url (string), publication (string), date (YYYY-MM-DD), author (string). If no credible sources are found, return an empty array. Exclude speculative or unverified sources. Claim: {{.Input}}`))

// renderPrompt executes tmpl for the given claim, embedding the current
// calendar date so the rolling 30-day window ends now.
func renderPrompt(tmpl *template.Template, input string, now time.Time) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Date  string
		Input string
	}{
		Date:  now.Format("January 2, 2006"),
		Input: input,
	}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
