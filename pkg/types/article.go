// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Article is one supporting news source returned by a search provider.
// All five fields are required; items missing any field are discarded
// during ingestion rather than stored partially filled.
type Article struct {
	Title       string `json:"title" yaml:"title"`
	URL         string `json:"url" yaml:"url"`
	Publication string `json:"publication" yaml:"publication"`
	Date        string `json:"date" yaml:"date"` // YYYY-MM-DD
	Author      string `json:"author" yaml:"author"`
}
