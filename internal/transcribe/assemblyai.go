// Package transcribe wraps the AssemblyAI REST API for lyric
// transcription. Upload pushes raw audio, Transcribe submits the job and
// polls until it settles.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultBaseURL = "https://api.assemblyai.com/v2"

type Client struct {
	BaseURL      string
	APIKey       string
	HTTPClient   *http.Client
	PollInterval time.Duration
	MaxPolls     int
}

// NewClient builds a client with the production endpoint and sane poll
// settings.
func NewClient(apiKey string) *Client {
	return &Client{
		BaseURL:      DefaultBaseURL,
		APIKey:       apiKey,
		HTTPClient:   &http.Client{Timeout: 60 * time.Second},
		PollInterval: 3 * time.Second,
		MaxPolls:     100,
	}
}

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

type transcriptResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

// Upload streams audio bytes to AssemblyAI and returns the temporary URL
// to transcribe from.
func (c *Client) Upload(ctx context.Context, audio io.Reader) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/upload", audio)
	if err != nil {
		return "", err
	}
	req.Header.Set("authorization", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("transcribe: upload failed with status %d: %s", resp.StatusCode, body)
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.UploadURL == "" {
		return "", fmt.Errorf("transcribe: upload response missing url")
	}
	return out.UploadURL, nil
}

// Transcribe submits audioURL and polls until the job completes, fails,
// the poll budget runs out or ctx is canceled.
func (c *Client) Transcribe(ctx context.Context, audioURL string) (string, error) {
	payload, _ := json.Marshal(map[string]string{"audio_url": audioURL})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/transcript", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("authorization", c.APIKey)
	req.Header.Set("content-type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	var job transcriptResponse
	err = json.NewDecoder(resp.Body).Decode(&job)
	resp.Body.Close()
	if err != nil {
		return "", err
	}
	if job.ID == "" {
		return "", fmt.Errorf("transcribe: submission returned no job id")
	}

	for i := 0; c.MaxPolls <= 0 || i < c.MaxPolls; i++ {
		status, err := c.poll(ctx, job.ID)
		if err != nil {
			return "", err
		}
		switch status.Status {
		case "completed":
			return status.Text, nil
		case "error":
			return "", fmt.Errorf("transcribe: job failed: %s", status.Error)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.PollInterval):
		}
	}
	return "", fmt.Errorf("transcribe: job %s did not settle in time", job.ID)
}

func (c *Client) poll(ctx context.Context, id string) (*transcriptResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/transcript/"+id, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("authorization", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out transcriptResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
