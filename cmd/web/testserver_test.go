package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"crossexam/internal/e2etest"

	"github.com/stretchr/testify/require"
)

// Canned oracle output routed through the stubbed completions endpoint.
const (
	stubScenarioJSON = `{
  "investigationType": "FCPA bribery probe",
  "companyBackground": "Meridian Logistics is a freight forwarder operating across Southeast Asia.",
  "jurisdiction": "US federal, SEC and DOJ",
  "regulatoryExposure": "high",
  "witnessRole": "Regional finance director",
  "witnessArchetype": "loyal deputy",
  "witnessIntroduction": "I'm happy to help, though I'm not sure what I can add.",
  "documentUniverse": "Expense reports, agent contracts, and wire transfer records from 2021-2023.",
  "hiddenGroundTruth": "The witness approved inflated consulting invoices that funded payments to a customs official.",
  "keyRiskNodes": ["the March invoice batch", "the Jakarta agent relationship"]
}`
	stubTurnJSON = `{
  "reply": "I was in the office that whole week, as far as I remember.",
  "phase": "probing",
  "state": {"truthfulness": 65, "stress": 25, "defensiveness": 30, "cooperation": 75, "memory": 88, "exposure": 10, "legalRisk": 5.5}
}`
	stubReportJSON = `{
  "timelineScore": 72,
  "contradictionScore": 58,
  "riskAwarenessScore": 64,
  "interviewControlScore": 80,
  "behavioralAnalysis": "The witness grew defensive once the invoice batch came up.",
  "legalExposureAnalysis": "The interview surfaced exposure around the agent payments.",
  "missedFollowUps": ["Who countersigned the March invoices?"],
  "improvedPaths": ["Lock the timeline before confronting the wire records."]
}`
)

type stubChatRequest struct {
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// startAIStub serves an OpenAI-compatible chat completions endpoint that picks
// a canned reply based on which system prompt the server sent.
func startAIStub(t *testing.T) *httptest.Server {
	t.Helper()
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var chatReq stubChatRequest
		if err := json.NewDecoder(r.Body).Decode(&chatReq); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		require.NotEmpty(t, chatReq.Messages)

		content := stubTurnJSON
		system := chatReq.Messages[0].Content
		switch {
		case strings.Contains(system, "scenario architect"):
			content = stubScenarioJSON
		case strings.Contains(system, "evaluator"):
			content = stubReportJSON
		}

		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(map[string]any{
			"id":     "stub",
			"object": "chat.completion",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
		require.NoError(t, err)
	}))
	t.Cleanup(stub.Close)
	return stub
}

func testLookupEnv(aiBaseURL string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		switch key {
		case "CROSSEXAM_ADDR":
			return "localhost:0", true
		case "CROSSEXAM_AI_BASE_URL":
			return aiBaseURL, true
		case "OPENAI_API_KEY":
			return "test-key", true
		default:
			return "", false
		}
	}
}

// startTestServer boots the full application against a stubbed completions
// endpoint and returns a browser-like client for it.
func startTestServer(t *testing.T) *e2etest.Server {
	t.Helper()
	stub := startAIStub(t)
	server, err := e2etest.StartServer(context.Background(), io.Discard, testLookupEnv(stub.URL+"/v1"), run)
	require.NoError(t, err)
	return server
}
