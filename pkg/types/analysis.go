// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared across dealio stages.
package types

// Category is the overall verdict assigned to a piece of content.
type Category string

const (
	CategoryMisinformation Category = "Misinformation"
	CategoryPartially      Category = "Partially Misinformation"
	CategoryTruthful       Category = "Truthful"
	CategoryBiased         Category = "Biased"
)

// BiasType labels the political lean detected in the content.
type BiasType string

const (
	BiasLeftist   BiasType = "Leftist/Communist"
	BiasRightWing BiasType = "Right-wing/Conservative"
	BiasNeutral   BiasType = "Neutral"
)

// ClassificationResult is the validated verdict returned by the
// classification provider. The three percentages always sum to 100;
// payloads that violate this are rejected during validation and never
// reach this type.
type ClassificationResult struct {
	Category                 Category `json:"category" yaml:"category"`
	TruthfulPercentage       int      `json:"truthful_percentage" yaml:"truthful_percentage"`
	MisinformationPercentage int      `json:"misinformation_percentage" yaml:"misinformation_percentage"`
	BiasPercentage           int      `json:"bias_percentage" yaml:"bias_percentage"`
	BiasType                 BiasType `json:"bias_type" yaml:"bias_type"`
	Reasoning                string   `json:"reasoning" yaml:"reasoning"`
}

// PieData is the percentage triple rendered as a chart by the frontend.
type PieData struct {
	Truthful       int `json:"truthful" yaml:"truthful"`
	Misinformation int `json:"misinformation" yaml:"misinformation"`
	Bias           int `json:"bias" yaml:"bias"`
}

// AggregatedResponse is the only entity that crosses the system boundary.
// It is assembled fresh per request; only its sub-parts are cached.
type AggregatedResponse struct {
	Analysis              *ClassificationResult `json:"analysis" yaml:"analysis"`
	Articles              []Article             `json:"articles" yaml:"articles"`
	SupplementaryArticles []Article             `json:"supplementary_articles" yaml:"supplementary_articles"`
	PieData               PieData               `json:"pie_data" yaml:"pie_data"`
}
