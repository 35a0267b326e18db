package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RunResult is the provider's view of one execution: combined stdout/stderr
// plus the provider's own status code for the run (200 means the program ran
// to completion; anything else is some flavor of runtime failure).
type RunResult struct {
	Output     string
	StatusCode int
}

// Client talks to a JDoodle-compatible execution API: code + stdin in,
// output + status out. The provider is a black box; nothing about the run is
// verified beyond what it reports.
type Client struct {
	url          string
	clientID     string
	clientSecret string
	language     string
	versionIndex string
	httpClient   *http.Client
}

func NewClient(url, clientID, clientSecret, language, versionIndex string) *Client {
	return &Client{
		url:          url,
		clientID:     clientID,
		clientSecret: clientSecret,
		language:     language,
		versionIndex: versionIndex,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type executeRequest struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	Script       string `json:"script"`
	Stdin        string `json:"stdin"`
	Language     string `json:"language"`
	VersionIndex string `json:"versionIndex"`
}

type executeResponse struct {
	Output     string `json:"output"`
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
}

// Run submits code with the given stdin and returns the provider's result.
// A non-2xx HTTP response is a transport-level failure and is returned as an
// error; the per-run status code inside a 2xx body is the caller's concern.
func (c *Client) Run(ctx context.Context, code, stdin string) (RunResult, error) {
	payload := executeRequest{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		Script:       code,
		Stdin:        stdin,
		Language:     c.language,
		VersionIndex: c.versionIndex,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return RunResult{}, fmt.Errorf("executor.Run marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(body))
	if err != nil {
		return RunResult{}, fmt.Errorf("executor.Run request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return RunResult{}, fmt.Errorf("executor.Run: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return RunResult{}, fmt.Errorf("executor HTTP %d: %s", resp.StatusCode, string(text))
	}

	var parsed executeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return RunResult{}, fmt.Errorf("executor.Run decode: %w", err)
	}

	status := parsed.StatusCode
	if status == 0 {
		status = 200
	}
	return RunResult{Output: parsed.Output, StatusCode: status}, nil
}
