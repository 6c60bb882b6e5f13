package tutor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	domain "github.com/example/lingo-rooms-demo/domain/game"
)

// Neutral fallbacks used whenever the upstream call fails or returns
// nothing. Callers never see an error from this client.
const (
	fallbackHint  = "Read both sentences out loud; the missing word is something from everyday life."
	fallbackReply = "¡Buena pregunta! Keep going, you are doing great."
)

// Client talks to the external content-generation API. Every call is a
// single best-effort attempt: no retry, no backoff.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given base URL. An empty base URL
// puts the client in offline mode: every call returns the fallback, which
// keeps the demo runnable without any upstream service.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Text string `json:"text"`
}

// Hint asks for a short natural-language hint for the current exercise.
// The prompt includes both sentence renderings but asks the model not to
// reveal the word itself.
func (c *Client) Hint(ctx context.Context, state domain.State) string {
	prompt := fmt.Sprintf(
		"You are a bilingual Spanish/English tutor. A learner is filling the blank in these paired sentences:\n%s\n%s\nGive a one-sentence hint in simple words. Do not say the missing word.",
		state.SentenceEN, state.SentenceES,
	)
	return c.generate(ctx, prompt, fallbackHint)
}

// PersonaReply asks for a short in-character chat reply from the named
// tutor persona.
func (c *Client) PersonaReply(ctx context.Context, persona, text string) string {
	prompt := fmt.Sprintf(
		"You are %s, a friendly bilingual language tutor in a group chat. Reply briefly and encouragingly to: %s",
		persona, text,
	)
	return c.generate(ctx, prompt, fallbackReply)
}

func (c *Client) generate(ctx context.Context, prompt, fallback string) string {
	if c.baseURL == "" {
		return fallback
	}

	body, err := json.Marshal(generateRequest{Prompt: prompt})
	if err != nil {
		return fallback
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/generate", bytes.NewReader(body))
	if err != nil {
		return fallback
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[tutor] Generation call failed, using fallback: %v", err)
		return fallback
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[tutor] Generation call returned %d, using fallback", resp.StatusCode)
		return fallback
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || strings.TrimSpace(out.Text) == "" {
		log.Println("[tutor] Empty or undecodable generation response, using fallback")
		return fallback
	}
	return strings.TrimSpace(out.Text)
}
