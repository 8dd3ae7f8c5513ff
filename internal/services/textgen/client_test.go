package textgen_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"docshelf/internal/services/textgen"
)

func newTestClient(t *testing.T, model string, handler http.HandlerFunc) (*textgen.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := textgen.NewClient(textgen.Config{
		Model:     model,
		APIKey:    "test-key",
		MaxTokens: 50,
	}, textgen.WithBaseURL(server.URL), textgen.WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, server
}

func TestNewClientRequiresCredentials(t *testing.T) {
	cases := []struct {
		name string
		cfg  textgen.Config
	}{
		{"missing model", textgen.Config{APIKey: "k", Region: "us-east-1"}},
		{"missing api key", textgen.Config{Model: "m", Region: "us-east-1"}},
		{"missing region and base url", textgen.Config{Model: "m", APIKey: "k"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := textgen.NewClient(tc.cfg); err == nil {
				t.Fatal("expected construction error")
			}
		})
	}
}

func TestGenerateNameClaudeContract(t *testing.T) {
	var captured map[string]any
	client, _ := newTestClient(t, "anthropic.claude-v2", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization header = %q", got)
		}
		if !strings.HasSuffix(r.URL.Path, "/model/anthropic.claude-v2/invoke") {
			t.Errorf("path = %q", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{"completion": " Quarterly Sales Report \nextra line"})
	})

	name, err := client.GenerateName(context.Background(), "revenue tables for the third quarter")
	if err != nil {
		t.Fatalf("GenerateName: %v", err)
	}
	if name != "Quarterly_Sales_Report" {
		t.Fatalf("name = %q", name)
	}

	prompt, _ := captured["prompt"].(string)
	if !strings.HasPrefix(prompt, "\n\nHuman: ") || !strings.HasSuffix(prompt, "\n\nAssistant:") {
		t.Fatalf("claude prompt framing missing: %q", prompt)
	}
	if _, ok := captured["max_tokens_to_sample"]; !ok {
		t.Fatalf("claude request missing max_tokens_to_sample: %v", captured)
	}
}

func TestGenerateNameGenericContract(t *testing.T) {
	var captured map[string]any
	client, _ := newTestClient(t, "amazon.titan-text", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{"text": "meeting_minutes_april"})
	})

	name, err := client.GenerateName(context.Background(), "minutes from the april meeting")
	if err != nil {
		t.Fatalf("GenerateName: %v", err)
	}
	if name != "meeting_minutes_april" {
		t.Fatalf("name = %q", name)
	}
	if _, ok := captured["max_tokens"]; !ok {
		t.Fatalf("generic request missing max_tokens: %v", captured)
	}
	if _, ok := captured["max_tokens_to_sample"]; ok {
		t.Fatalf("generic request should not carry claude fields: %v", captured)
	}
}

func TestGenerateNameHTTPErrorStatus(t *testing.T) {
	client, _ := newTestClient(t, "anthropic.claude-v2", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "throttled", http.StatusTooManyRequests)
	})
	if _, err := client.GenerateName(context.Background(), "content"); err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}

func TestGenerateNameAPIErrorPayload(t *testing.T) {
	client, _ := newTestClient(t, "anthropic.claude-v2", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "model overloaded"}})
	})
	_, err := client.GenerateName(context.Background(), "content")
	if err == nil || !strings.Contains(err.Error(), "model overloaded") {
		t.Fatalf("err = %v", err)
	}
}

func TestGenerateNameRejectsEmptyContent(t *testing.T) {
	client, _ := newTestClient(t, "anthropic.claude-v2", func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be called")
	})
	if _, err := client.GenerateName(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty content")
	}
}

func TestCleanName(t *testing.T) {
	cases := map[string]string{
		"Quarterly Report":             "Quarterly_Report",
		"  spaced   out  ":             "spaced_out",
		"first line\nsecond line":      "first_line",
		"inv@lid ch#ars!":              "invlid_chars",
		"keep-dashes_and_underscores":  "keep-dashes_and_underscores",
		"tab\tseparated":               "tab_separated",
		"":                             "",
		"!!!":                          "",
		"Meeting_Minutes_2024-04":      "Meeting_Minutes_2024-04",
	}
	for input, want := range cases {
		if got := textgen.CleanName(input); got != want {
			t.Fatalf("CleanName(%q) = %q, want %q", input, got, want)
		}
	}
}
