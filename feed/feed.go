// Package feed pulls items from an external news endpoint and imports them
// as blog posts. Imports are idempotent: an item whose title already exists
// in the database is skipped.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gosimple/slug"
	"gorm.io/datatypes"

	"pressroom/constants"
	"pressroom/database"
)

var ErrFeedUnavailable = errors.New("news feed unavailable")

// Item is one entry of the feed endpoint's JSON payload. Creator, content
// and image URL may be null.
type Item struct {
	Creator     *string `json:"creator"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	PubDate     string  `json:"pubDate"`
	Content     *string `json:"content"`
	ImageURL    *string `json:"image_url"`
	Link        string  `json:"link"`
}

type feedResponse struct {
	Results []Item `json:"results"`
}

type Client struct {
	Endpoint   string
	HTTPClient *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		Endpoint: endpoint,
		// a slow feed must never wedge the refresher
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Fetch retrieves the current feed items. Network and decode failures come
// back wrapped in ErrFeedUnavailable so callers can degrade to "no new posts
// this cycle".
func (c *Client) Fetch(ctx context.Context) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: endpoint returned %s", ErrFeedUnavailable, resp.Status)
	}

	var payload feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: malformed payload: %v", ErrFeedUnavailable, err)
	}

	return payload.Results, nil
}

type ImportStatus int

const (
	Created ImportStatus = iota
	Skipped
	Failed
)

func (s ImportStatus) String() string {
	switch s {
	case Created:
		return "created"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// ImportResult records what happened to a single feed item during a run.
type ImportResult struct {
	Title  string
	Status ImportStatus
	Err    error
}

type Importer struct {
	client *Client
}

func NewImporter(client *Client) *Importer {
	return &Importer{client: client}
}

// Run fetches the feed and imports every item, returning one result per
// item. A failed item never aborts the rest of the run.
func (imp *Importer) Run(ctx context.Context) ([]ImportResult, error) {
	items, err := imp.client.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]ImportResult, 0, len(items))
	for _, item := range items {
		results = append(results, imp.ImportItem(item))
	}
	return results, nil
}

// ImportItem turns one feed item into a post. Items whose title is already
// present are skipped, so importing the same feed twice creates no
// duplicates.
func (imp *Importer) ImportItem(item Item) ImportResult {
	existing, err := database.GetPostWithTitle(item.Title)
	if err != nil {
		return ImportResult{Title: item.Title, Status: Failed, Err: err}
	}
	if existing != nil {
		return ImportResult{Title: item.Title, Status: Skipped}
	}

	publishedAt, err := parsePubDate(item.PubDate)
	if err != nil {
		return ImportResult{Title: item.Title, Status: Failed, Err: err}
	}

	imageURL := constants.DEFAULT_POST_IMAGE_URL
	if item.ImageURL != nil && *item.ImageURL != "" {
		imageURL = *item.ImageURL
	}

	// items without a body fall back to linking out
	body := item.Link
	if item.Content != nil && *item.Content != "" {
		body = *item.Content
	}

	feedAuthor := "unknown"
	if item.Creator != nil && *item.Creator != "" {
		feedAuthor = *item.Creator
	}

	raw, err := json.Marshal(item)
	if err != nil {
		return ImportResult{Title: item.Title, Status: Failed, Err: err}
	}

	post := database.Post{
		FeedAuthor:  feedAuthor,
		Title:       item.Title,
		Slug:        slug.Make(item.Title),
		Subtitle:    item.Description,
		PublishedAt: publishedAt,
		Body:        body,
		ImageURL:    imageURL,
		FeedItem:    datatypes.JSON(raw),
	}

	if err := database.CreatePost(&post); err != nil {
		if errors.Is(err, database.ErrDuplicateTitle) {
			// another run got there first
			return ImportResult{Title: item.Title, Status: Skipped}
		}
		return ImportResult{Title: item.Title, Status: Failed, Err: err}
	}

	return ImportResult{Title: item.Title, Status: Created}
}

// Start runs an import immediately and then on every tick until the context
// is cancelled. Failed cycles are logged and retried on the next tick.
func (imp *Importer) Start(ctx context.Context, interval time.Duration) {
	imp.runAndLog(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			imp.runAndLog(ctx)
		}
	}
}

func (imp *Importer) runAndLog(ctx context.Context) {
	results, err := imp.Run(ctx)
	if err != nil {
		log.Printf("Feed import cycle skipped: %v", err)
		return
	}

	var created, skipped, failed int
	for _, res := range results {
		switch res.Status {
		case Created:
			created++
		case Skipped:
			skipped++
		case Failed:
			failed++
			log.Printf("Failed to import feed item %q: %v", res.Title, res.Err)
		}
	}
	log.Printf("Feed import: %d created, %d skipped, %d failed", created, skipped, failed)
}

// pubDate arrives as a longer timestamp whose first ten characters are the
// calendar date, e.g. "2024-03-01T10:00:00Z" or "2024-03-01 10:00:00".
func parsePubDate(pubDate string) (time.Time, error) {
	if len(pubDate) < 10 {
		return time.Time{}, fmt.Errorf("malformed pubDate: %q", pubDate)
	}
	return time.Parse("2006-01-02", pubDate[:10])
}
