// Package client invokes the glowup function endpoints over HTTP, the way
// the dashboard front end does.
package client

import (
	"context"
	"fmt"
	"net/http"

	"glowup/server/internal/model"

	"resty.dev/v3"
)

type Client struct {
	http *resty.Client
}

func New(baseURL string) *Client {
	c := resty.New()
	c.SetBaseURL(baseURL)
	return &Client{http: c}
}

func (c *Client) Close() error {
	return c.http.Close()
}

type functionResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ProcessVideo asks the server to start the simulated processing job. A nil
// return means the job was accepted, not that it finished; callers observe
// the outcome through the video row.
func (c *Client) ProcessVideo(ctx context.Context, videoID string, effect model.VideoEffect) error {
	var out functionResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"videoId": videoID, "effect": string(effect)}).
		SetResult(&out).
		SetError(&out).
		Post("/functions/process-video")
	if err != nil {
		return fmt.Errorf("invoke process-video: %w", err)
	}
	if resp.StatusCode() != http.StatusAccepted {
		return fmt.Errorf("process-video: status %d: %s", resp.StatusCode(), out.Error)
	}
	return nil
}

// RecordView records one playback for the video.
func (c *Client) RecordView(ctx context.Context, videoID string) error {
	var out functionResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"videoId": videoID}).
		SetResult(&out).
		SetError(&out).
		Post("/functions/record-view")
	if err != nil {
		return fmt.Errorf("invoke record-view: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("record-view: status %d: %s", resp.StatusCode(), out.Error)
	}
	return nil
}
