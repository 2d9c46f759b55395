package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

type openAIRequest struct {
	Model    string          `json:"model"`
	Messages []openAIMessage `json:"messages"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// callOpenAI talks to any OpenAI-compatible chat completions endpoint.
func callOpenAI(ctx context.Context, baseURL, apiKey, model, systemPrompt, userPrompt string) (string, Usage, error) {
	reqBody := openAIRequest{
		Model: model,
		Messages: []openAIMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", Usage{}, fmt.Errorf("marshaling request: %w", err)
	}

	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultOpenAIBaseURL
	}
	endpoint := strings.TrimRight(baseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", Usage{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := externalHTTPClient.Do(req)
	if err != nil {
		log.Printf("llm openai error: %v", err)
		return "", Usage{}, fmt.Errorf("OpenAI API error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", Usage{}, fmt.Errorf("reading response: %w", err)
	}

	var jobj any
	if err := json.Unmarshal(respBody, &jobj); err != nil {
		return "", Usage{}, fmt.Errorf("parsing OpenAI response (status %d): %w", resp.StatusCode, err)
	}

	if msg, ok := jsonString(jobj, "$.error.message"); ok {
		log.Printf("llm openai api error: %s", msg)
		return "", Usage{}, fmt.Errorf("OpenAI API error: %s", msg)
	}
	if resp.StatusCode >= 300 {
		return "", Usage{}, fmt.Errorf("OpenAI API error: status %d", resp.StatusCode)
	}

	content, ok := jsonString(jobj, "$.choices[0].message.content")
	if !ok {
		return "", Usage{}, fmt.Errorf("no choices in OpenAI response")
	}
	usage := Usage{
		InputTokens:  jsonInt(jobj, "$.usage.prompt_tokens"),
		OutputTokens: jsonInt(jobj, "$.usage.completion_tokens"),
	}

	log.Printf("llm openai response size=%d tokens_in=%d tokens_out=%d", len(content), usage.InputTokens, usage.OutputTokens)
	return content, usage, nil
}

// jsonLookup returns the first value matched by path, if any.
func jsonLookup(jobj any, path string) (any, bool) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, false
	}
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return nil, false
		}
		jval = jlist[0]
	}
	return jval, jval != nil
}

func jsonString(jobj any, path string) (string, bool) {
	v, ok := jsonLookup(jobj, path)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func jsonInt(jobj any, path string) int64 {
	v, ok := jsonLookup(jobj, path)
	if !ok {
		return 0
	}
	f, _ := v.(float64)
	return int64(f)
}
