// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/markzm/dealio/pkg/types"
)

func testClient(baseURL string) *Client {
	return NewClient("OpenAI", types.ProviderConfig{
		HTTPConfig:  types.HTTPConfig{Timeout: 5 * time.Second},
		BaseURL:     baseURL,
		Model:       "gpt-4.1-mini",
		APIKey:      "sk-test",
		MaxTokens:   500,
		Temperature: 0.3,
	}, nil)
}

// chatOK wraps content in a minimal chat-completion envelope.
func chatOK(content string) string {
	env := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	data, _ := json.Marshal(env)
	return string(data)
}

func TestCompleteReturnsFirstChoiceContent(t *testing.T) {
	var gotBody map[string]any
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(chatOK(`{"verdict":"ok"}`)))
	}))
	defer srv.Close()

	got, err := testClient(srv.URL).Complete(context.Background(), Request{
		Prompt:     "analyze this",
		JSONObject: true,
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != `{"verdict":"ok"}` {
		t.Errorf("Complete() = %q", got)
	}

	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody["model"] != "gpt-4.1-mini" {
		t.Errorf("model = %v", gotBody["model"])
	}
	if gotBody["max_tokens"] != float64(500) {
		t.Errorf("max_tokens = %v", gotBody["max_tokens"])
	}
	if gotBody["temperature"] != 0.3 {
		t.Errorf("temperature = %v", gotBody["temperature"])
	}
	rf, ok := gotBody["response_format"].(map[string]any)
	if !ok || rf["type"] != "json_object" {
		t.Errorf("response_format = %v", gotBody["response_format"])
	}
	if _, present := gotBody["search"]; present {
		t.Error("search options sent without the search flag")
	}

	msgs := gotBody["messages"].([]any)
	if len(msgs) != 1 {
		t.Fatalf("messages len = %d, want 1", len(msgs))
	}
	msg := msgs[0].(map[string]any)
	if msg["role"] != "user" || msg["content"] != "analyze this" {
		t.Errorf("message = %v", msg)
	}
}

func TestCompleteSearchMode(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(chatOK("[]")))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Complete(context.Background(), Request{Prompt: "find sources", Search: true})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	search, ok := gotBody["search"].(map[string]any)
	if !ok || search["enabled"] != true {
		t.Errorf("search = %v, want enabled=true", gotBody["search"])
	}
	if _, present := gotBody["response_format"]; present {
		t.Error("response_format sent without the JSONObject flag")
	}
}

func TestCompleteConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	_, err := testClient(srv.URL).Complete(context.Background(), Request{Prompt: "p"})
	if !IsKind(err, KindConnection) {
		t.Errorf("error = %v, want KindConnection", err)
	}
	if !strings.Contains(err.Error(), "failed to connect to OpenAI API") {
		t.Errorf("error message = %q", err.Error())
	}
}

func TestCompleteProviderErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided"}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Complete(context.Background(), Request{Prompt: "p"})
	if !IsKind(err, KindProvider) {
		t.Errorf("error = %v, want KindProvider", err)
	}
	if !strings.Contains(err.Error(), "Incorrect API key provided") {
		t.Errorf("error message = %q", err.Error())
	}
}

func TestCompleteMalformedEnvelope(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not JSON", "<html>gateway timeout</html>"},
		{"no choices", `{"choices":[]}`},
		{"empty content", chatOK("")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := testClient(srv.URL).Complete(context.Background(), Request{Prompt: "p"})
			if !IsKind(err, KindMalformed) {
				t.Errorf("error = %v, want KindMalformed", err)
			}
		})
	}
}

func TestIsKindOnWrappedAndForeignErrors(t *testing.T) {
	wrapped := &Error{Provider: "OpenAI", Kind: KindIncomplete}
	if !IsKind(wrapped, KindIncomplete) {
		t.Error("IsKind should match the exact kind")
	}
	if IsKind(wrapped, KindMalformed) {
		t.Error("IsKind should not match a different kind")
	}
	if IsKind(context.Canceled, KindConnection) {
		t.Error("IsKind should not match non-provider errors")
	}
}
