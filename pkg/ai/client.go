// Package ai talks to the external text-generation service. The service is a
// best-effort collaborator: identical inputs are served from a content-hash
// cache, and failures degrade to a deterministic locally composed text
// instead of blocking the wizard.
package ai

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
	cache   Cache
}

func NewClient(baseURL string, timeout time.Duration, cache Cache) *Client {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
		cache:   cache,
	}
}

type Basics struct {
	Name     string `json:"name"`
	JobTitle string `json:"jobTitle"`
}

type SummaryRequest struct {
	Basics    Basics   `json:"basics"`
	Skills    []string `json:"skills"`
	IsFresher bool     `json:"isFresher"`
}

type ProjectRequest struct {
	ProjectName        string   `json:"projectName"`
	ProjectDescription string   `json:"projectDescription"`
	Technologies       []string `json:"technologies"`
	ClientName         string   `json:"clientName"`
	TeamSize           int      `json:"teamSize"`
}

// GenerateSummary returns prose for the Summary step. It never fails hard:
// on any service error the deterministic fallback text is returned.
func (c *Client) GenerateSummary(ctx context.Context, req SummaryRequest) (string, error) {
	text, err := c.generate(ctx, "summary", req)
	if err != nil {
		slog.Warn("ai summary generation failed, using fallback", "error", err)
		return FallbackSummary(req), nil
	}
	return text, nil
}

// GenerateProjectDescription returns prose for one project.
func (c *Client) GenerateProjectDescription(ctx context.Context, req ProjectRequest) (string, error) {
	text, err := c.generate(ctx, "project", req)
	if err != nil {
		slog.Warn("ai project generation failed, using fallback", "error", err)
		return FallbackProject(req), nil
	}
	return text, nil
}

func (c *Client) generate(ctx context.Context, kind string, payload interface{}) (string, error) {
	body, err := json.Marshal(map[string]interface{}{"type": kind, "input": payload})
	if err != nil {
		return "", err
	}

	key := hashPayload(kind, body)
	if text, ok := c.cache.Get(ctx, key); ok {
		return text, nil
	}

	resp, err := c.doPostWithRetry(ctx, "/v1/generate", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	rb, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ai-service returned status %d", resp.StatusCode)
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(rb, &out); err != nil {
		return "", fmt.Errorf("decode ai response: %w", err)
	}
	if strings.TrimSpace(out.Text) == "" {
		return "", fmt.Errorf("ai-service returned empty text")
	}

	c.cache.Set(ctx, key, out.Text)
	return out.Text, nil
}

// doPostWithRetry performs an HTTP POST with exponential backoff.
func (c *Client) doPostWithRetry(ctx context.Context, path string, body []byte) (*http.Response, error) {
	attempts := 3
	var lastErr error
	for i := 0; i < attempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.HTTP.Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if i < attempts-1 {
			backoff := time.Duration(1<<i) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

func hashPayload(kind string, body []byte) string {
	sum := sha256.Sum256(append([]byte(kind+":"), body...))
	return hex.EncodeToString(sum[:])
}

// FallbackSummary composes a minimal summary from role and skills when the
// AI service is unavailable.
func FallbackSummary(req SummaryRequest) string {
	role := req.Basics.JobTitle
	if role == "" {
		role = "professional"
	}
	skills := ""
	if len(req.Skills) > 0 {
		n := len(req.Skills)
		if n > 5 {
			n = 5
		}
		skills = " skilled in " + strings.Join(req.Skills[:n], ", ")
	}
	if req.IsFresher {
		return fmt.Sprintf("Motivated %s%s, eager to apply a strong foundation to real-world problems and grow within a collaborative team.", role, skills)
	}
	return fmt.Sprintf("Experienced %s%s, with a track record of delivering reliable results and a focus on continuous improvement.", role, skills)
}

// FallbackProject composes a minimal project description.
func FallbackProject(req ProjectRequest) string {
	name := req.ProjectName
	if name == "" {
		name = "The project"
	}
	parts := []string{name}
	if len(req.Technologies) > 0 {
		parts = append(parts, "built with "+strings.Join(req.Technologies, ", "))
	}
	if req.ClientName != "" {
		parts = append(parts, "delivered for "+req.ClientName)
	}
	if req.TeamSize > 1 {
		parts = append(parts, fmt.Sprintf("as part of a team of %d", req.TeamSize))
	}
	text := strings.Join(parts, ", ") + "."
	if req.ProjectDescription != "" {
		text += " " + req.ProjectDescription
	}
	return text
}
