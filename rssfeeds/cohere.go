package rssfeeds

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
)

const condensePreamble = "You write scripts for vertical short-form videos. " +
	"Retell the story you are given in the first person as a single paragraph of plain spoken English, " +
	"under 150 words. No hashtags, emojis, headings or stage directions."

// CohereCondenser shortens articles with the Cohere chat API.
type CohereCondenser struct {
	client *cohereclient.Client
}

func NewCohereCondenser(apiKey string) *CohereCondenser {
	return &CohereCondenser{client: cohereclient.NewClient(cohereclient.WithToken(apiKey))}
}

func (c *CohereCondenser) Condense(ctx context.Context, title, body string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	preamble := condensePreamble
	message := fmt.Sprintf("Title: %s\n\n%s", title, body)
	resp, err := c.client.Chat(ctx, &cohere.ChatRequest{
		Message:  message,
		Preamble: &preamble,
	})
	if err != nil {
		return "", fmt.Errorf("cohere chat error: %w", err)
	}
	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		return "", errors.New("cohere chat returned empty text")
	}
	return resp.Text, nil
}
