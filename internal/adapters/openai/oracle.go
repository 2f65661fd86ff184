// Package openai contains oracle adapters backed by the OpenAI chat
// completion API. Both oracles are external collaborators: callers own the
// failure handling (fail-safe score, unchanged-policy fallback).
package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/example/sage/internal/ports/secondary"
)

// DefaultTimeout bounds each oracle call. The upstream API enforces its own
// limits too, but an explicit deadline keeps a stalled call from blocking
// the batch.
const DefaultTimeout = 30 * time.Second

const scoringSystemPrompt = `You are a strict quality evaluator. Given a user query and an agent response, reply with exactly two lines:
SCORE: <a number between 0.0 and 1.0>
CRITIQUE: <one or two sentences explaining the score>`

const rewritingSystemPrompt = `You improve agent instructions. Given the current instructions, a critique of a failure, and the failing interaction, reply with ONLY the full revised instruction text. No preamble, no markdown fences.`

// Client wraps the OpenAI API for both oracle ports.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
}

// NewClient creates an oracle client. An empty model selects gpt-4o-mini;
// a zero timeout selects DefaultTimeout. An empty API key is not rejected
// here: calls fail at request time, which the learning loop absorbs through
// its fail-safe paths.
func NewClient(apiKey, model string, timeout time.Duration) *Client {
	if model == "" {
		model = openai.GPT4oMini
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		api:     openai.NewClient(apiKey),
		model:   model,
		timeout: timeout,
	}
}

// Score evaluates a (query, response) pair against the quality oracle.
func (c *Client) Score(ctx context.Context, query, response string) (*secondary.ScoreResult, error) {
	prompt := fmt.Sprintf("Query:\n%s\n\nResponse:\n%s", query, response)

	raw, err := c.complete(ctx, scoringSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	result, err := parseScoreReply(raw)
	if err != nil {
		slog.Warn("unparseable scoring reply", "error", err)
		return nil, err
	}

	slog.Debug("scored interaction", "score", result.Score)
	return result, nil
}

// Rewrite proposes new policy text from the current policy and a critique.
func (c *Client) Rewrite(ctx context.Context, currentPolicy, critique, query, response string) (string, error) {
	prompt := fmt.Sprintf(
		"Current instructions:\n%s\n\nCritique:\n%s\n\nFailing query:\n%s\n\nFailing response:\n%s",
		currentPolicy, critique, query, response,
	)

	raw, err := c.complete(ctx, rewritingSystemPrompt, prompt)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(raw)
	if text == "" {
		return "", fmt.Errorf("rewriting oracle returned empty text")
	}
	return text, nil
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		slog.Error("oracle call failed", "model", c.model, "error", err)
		return "", fmt.Errorf("oracle call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("oracle returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// parseScoreReply extracts SCORE and CRITIQUE lines from the oracle reply.
func parseScoreReply(raw string) (*secondary.ScoreResult, error) {
	var (
		score    float64
		critique string
		found    bool
	)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if after, ok := strings.CutPrefix(line, "SCORE:"); ok {
			parsed, err := strconv.ParseFloat(strings.TrimSpace(after), 64)
			if err != nil {
				return nil, fmt.Errorf("bad score value: %w", err)
			}
			score = parsed
			found = true
		} else if after, ok := strings.CutPrefix(line, "CRITIQUE:"); ok {
			critique = strings.TrimSpace(after)
		}
	}

	if !found {
		return nil, fmt.Errorf("no SCORE line in oracle reply")
	}
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	return &secondary.ScoreResult{Score: score, Critique: critique}, nil
}

// Ensure Client implements both oracle interfaces
var (
	_ secondary.ScoringOracle   = (*Client)(nil)
	_ secondary.RewritingOracle = (*Client)(nil)
)
