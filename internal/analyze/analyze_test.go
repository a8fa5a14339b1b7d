// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/markzm/dealio/internal/articles"
	"github.com/markzm/dealio/internal/provider"
	"github.com/markzm/dealio/pkg/types"
)

// --- mocks ---

type mockExtractor struct {
	text  string
	err   error
	calls int
}

func (m *mockExtractor) Extract(_ context.Context, _ string) (string, error) {
	m.calls++
	return m.text, m.err
}

type mockClassifier struct {
	result   *types.ClassificationResult
	err      error
	calls    int
	gotInput string
}

func (m *mockClassifier) Classify(_ context.Context, input string) (*types.ClassificationResult, error) {
	m.calls++
	m.gotInput = input
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type mockFinder struct {
	found []types.Article
	calls int
}

func (m *mockFinder) Name() string { return "mock" }

func (m *mockFinder) Find(_ context.Context, _ string) []types.Article {
	m.calls++
	return m.found
}

func elvisResult() *types.ClassificationResult {
	return &types.ClassificationResult{
		Category:                 types.CategoryMisinformation,
		TruthfulPercentage:       5,
		MisinformationPercentage: 90,
		BiasPercentage:           5,
		BiasType:                 types.BiasNeutral,
		Reasoning:                "No credible evidence supports the claim.",
	}
}

func bothKeys() Keys {
	return Keys{ClassificationAPIKey: "sk-test", SearchAPIKey: "xai-test"}
}

func asUserError(t *testing.T, err error) *UserError {
	t.Helper()
	var ue *UserError
	if !errors.As(err, &ue) {
		t.Fatalf("error = %v, want *UserError", err)
	}
	return ue
}

// --- state machine ---

func TestAnalyzeBothFieldsEmpty(t *testing.T) {
	a := New(bothKeys(), &mockExtractor{}, &mockClassifier{}, nil, nil)

	_, err := a.Analyze(context.Background(), "", "")
	ue := asUserError(t, err)
	if !strings.Contains(ue.Message, "at least one field") {
		t.Errorf("message = %q", ue.Message)
	}
}

func TestAnalyzeNoKeysConfigured(t *testing.T) {
	classifier := &mockClassifier{result: elvisResult()}
	a := New(Keys{}, &mockExtractor{}, classifier, nil, nil)

	_, err := a.Analyze(context.Background(), "", "some rumor")
	ue := asUserError(t, err)
	if !strings.Contains(ue.Message, "API key") {
		t.Errorf("message = %q", ue.Message)
	}
	if classifier.calls != 0 {
		t.Error("classification must not run without credentials")
	}
}

func TestAnalyzeClassificationKeyRequired(t *testing.T) {
	classifier := &mockClassifier{result: elvisResult()}
	a := New(Keys{SearchAPIKey: "xai-only"}, &mockExtractor{}, classifier, nil, nil)

	_, err := a.Analyze(context.Background(), "", "some rumor")
	asUserError(t, err)
	if classifier.calls != 0 {
		t.Error("classification must not run without its API key")
	}
}

func TestAnalyzeRumorOnlySkipsExtractor(t *testing.T) {
	extractor := &mockExtractor{}
	classifier := &mockClassifier{result: elvisResult()}
	a := New(bothKeys(), extractor, classifier, nil, nil)

	_, err := a.Analyze(context.Background(), "", "I heard Elvis is alive")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if extractor.calls != 0 {
		t.Error("extractor must not run for a rumor-only request")
	}
	if classifier.gotInput != "I heard Elvis is alive" {
		t.Errorf("classifier input = %q", classifier.gotInput)
	}
}

func TestAnalyzeURLTakesPrecedenceOverRumor(t *testing.T) {
	extractor := &mockExtractor{text: "extracted article text"}
	classifier := &mockClassifier{result: elvisResult()}
	a := New(bothKeys(), extractor, classifier, nil, nil)

	_, err := a.Analyze(context.Background(), "https://example.com/story", "ignored rumor")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if classifier.gotInput != "extracted article text" {
		t.Errorf("classifier input = %q, want the extracted text", classifier.gotInput)
	}
}

func TestAnalyzeExtractionFailureIsTerminalDespiteRumor(t *testing.T) {
	extractor := &mockExtractor{err: errors.New("failed to fetch URL content: connection timed out")}
	classifier := &mockClassifier{result: elvisResult()}
	finder := &mockFinder{found: []types.Article{{Title: "A"}}}
	a := New(bothKeys(), extractor, classifier, []articles.Finder{finder}, nil)

	_, err := a.Analyze(context.Background(), "https://dead.example.com", "a perfectly good rumor")
	ue := asUserError(t, err)
	if !strings.Contains(ue.Message, "failed to fetch URL content") {
		t.Errorf("message = %q, want the extraction failure verbatim", ue.Message)
	}
	if classifier.calls != 0 {
		t.Error("classification must not run after extraction failure")
	}
	if finder.calls != 0 {
		t.Error("article search must not run after extraction failure")
	}
}

func TestAnalyzeClassificationFailureIsTerminal(t *testing.T) {
	classifier := &mockClassifier{err: &provider.Error{
		Provider: "OpenAI",
		Kind:     provider.KindInvalidPercentages,
		Message:  "invalid percentages from OpenAI API: must sum to 100",
	}}
	finder := &mockFinder{found: []types.Article{{Title: "A"}}}
	a := New(bothKeys(), &mockExtractor{}, classifier, []articles.Finder{finder}, nil)

	_, err := a.Analyze(context.Background(), "", "rumor")
	ue := asUserError(t, err)
	if ue.Message != "invalid percentages from OpenAI API: must sum to 100" {
		t.Errorf("message = %q, want the classification error verbatim", ue.Message)
	}
	if finder.calls != 0 {
		t.Error("article search must not run after classification failure")
	}
}

// --- assembly ---

func TestAnalyzePieDataFromClassification(t *testing.T) {
	a := New(bothKeys(), &mockExtractor{}, &mockClassifier{result: elvisResult()}, nil, nil)

	resp, err := a.Analyze(context.Background(), "", "I heard Elvis is alive")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	want := types.PieData{Truthful: 5, Misinformation: 90, Bias: 5}
	if resp.PieData != want {
		t.Errorf("PieData = %+v, want %+v", resp.PieData, want)
	}
	if resp.Analysis.Category != types.CategoryMisinformation {
		t.Errorf("Analysis.Category = %q", resp.Analysis.Category)
	}
}

func TestAnalyzeFallbackArticlesUnmerged(t *testing.T) {
	primary := &mockFinder{}
	fallback := &mockFinder{found: []types.Article{
		{Title: "F1", URL: "u1", Publication: "p", Date: "2026-03-01", Author: "a"},
		{Title: "F2", URL: "u2", Publication: "p", Date: "2026-03-01", Author: "a"},
		{Title: "F3", URL: "u3", Publication: "p", Date: "2026-03-01", Author: "a"},
	}}
	a := New(bothKeys(), &mockExtractor{}, &mockClassifier{result: elvisResult()},
		[]articles.Finder{primary, fallback}, nil)

	resp, err := a.Analyze(context.Background(), "", "rumor")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(resp.Articles) != 3 {
		t.Fatalf("Articles = %d items, want 3 from the fallback source", len(resp.Articles))
	}
	if resp.Articles[0].Title != "F1" {
		t.Errorf("Articles[0] = %+v", resp.Articles[0])
	}
	if primary.calls != 1 {
		t.Error("primary source should have been tried first")
	}
}

func TestAnalyzeEmptyArticleListsStillSucceed(t *testing.T) {
	a := New(bothKeys(), &mockExtractor{}, &mockClassifier{result: elvisResult()},
		[]articles.Finder{&mockFinder{}, &mockFinder{}}, nil)

	resp, err := a.Analyze(context.Background(), "", "rumor")
	if err != nil {
		t.Fatalf("Analyze() error = %v (article failures must not abort the request)", err)
	}
	if len(resp.Articles) != 0 || len(resp.SupplementaryArticles) != 0 {
		t.Errorf("expected empty article lists, got %d/%d", len(resp.Articles), len(resp.SupplementaryArticles))
	}
}
