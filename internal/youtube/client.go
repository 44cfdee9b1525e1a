package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const defaultAPIURL = "https://www.googleapis.com/youtube/v3/videos"

var (
	ErrNotFound   = errors.New("video not found")
	ErrInvalidURL = errors.New("not a recognizable YouTube URL")
)

// Video is the subset of Data API metadata the pipeline cares about.
type Video struct {
	ID          string
	Title       string
	Channel     string
	Description string
	CategoryID  string
	Tags        []string
	Duration    time.Duration
}

// Client fetches video metadata from the YouTube Data API v3.
type Client struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	apiURL := defaultAPIURL
	if raw := strings.TrimSpace(os.Getenv("YOUTUBE_API_URL")); raw != "" {
		apiURL = raw
	}
	return &Client{
		apiKey:     apiKey,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Configured() bool {
	return c != nil && strings.TrimSpace(c.apiKey) != ""
}

type videosResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string   `json:"title"`
			ChannelTitle string   `json:"channelTitle"`
			Description  string   `json:"description"`
			CategoryID   string   `json:"categoryId"`
			Tags         []string `json:"tags"`
		} `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

// Lookup resolves a video URL to its metadata.
func (c *Client) Lookup(ctx context.Context, videoURL string) (Video, error) {
	id, err := VideoID(videoURL)
	if err != nil {
		return Video{}, err
	}

	query := url.Values{}
	query.Set("id", id)
	query.Set("part", "snippet,contentDetails")
	query.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+query.Encode(), nil)
	if err != nil {
		return Video{}, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Video{}, fmt.Errorf("youtube lookup id=%s: %w", id, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Video{}, fmt.Errorf("youtube lookup id=%s: status %d", id, resp.StatusCode)
	}

	var parsed videosResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Video{}, fmt.Errorf("youtube lookup id=%s: parse: %w", id, err)
	}
	if len(parsed.Items) == 0 {
		return Video{}, ErrNotFound
	}

	item := parsed.Items[0]
	duration, err := ParseISODuration(item.ContentDetails.Duration)
	if err != nil {
		return Video{}, fmt.Errorf("youtube lookup id=%s: duration %q: %w", id, item.ContentDetails.Duration, err)
	}
	return Video{
		ID:          item.ID,
		Title:       item.Snippet.Title,
		Channel:     item.Snippet.ChannelTitle,
		Description: item.Snippet.Description,
		CategoryID:  item.Snippet.CategoryID,
		Tags:        item.Snippet.Tags,
		Duration:    duration,
	}, nil
}

// VideoID extracts the 11-character video id from watch, share, shorts
// and embed URL shapes.
func VideoID(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", ErrInvalidURL
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	switch host {
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		if id := u.Query().Get("v"); id != "" {
			return id, nil
		}
		for _, prefix := range []string{"/shorts/", "/embed/", "/live/"} {
			if strings.HasPrefix(u.Path, prefix) {
				if id := strings.Trim(strings.TrimPrefix(u.Path, prefix), "/"); id != "" {
					return id, nil
				}
			}
		}
	case "youtu.be":
		if id := strings.Trim(u.Path, "/"); id != "" {
			return id, nil
		}
	}
	return "", ErrInvalidURL
}
