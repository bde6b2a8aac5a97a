package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/reelscope/reelscope/internal/domain"
)

const defaultApifyBaseURL = "https://api.apify.com"

const apifyActorPath = "/v2/acts/apify~instagram-scraper/run-sync-get-dataset-items"

// ApifyProvider fetches reel data through the Apify Instagram scraper actor.
type ApifyProvider struct {
	client  *http.Client
	token   string
	baseURL string
}

// NewApifyProvider creates an Apify-backed provider.
func NewApifyProvider(client *http.Client, token string) *ApifyProvider {
	return &ApifyProvider{client: client, token: token, baseURL: defaultApifyBaseURL}
}

// Name implements Provider.
func (p *ApifyProvider) Name() string { return "apify" }

type apifyRunInput struct {
	DirectURLs    []string `json:"directUrls"`
	ResultsType   string   `json:"resultsType"`
	ResultsLimit  int      `json:"resultsLimit"`
	AddParentData bool     `json:"addParentData"`
}

type apifyComment struct {
	ID            string    `json:"id"`
	Text          string    `json:"text"`
	OwnerUsername string    `json:"ownerUsername"`
	Owner         struct {
		Username string `json:"username"`
	} `json:"owner"`
	LikesCount   int       `json:"likesCount"`
	Timestamp    time.Time `json:"timestamp"`
	RepliesCount int       `json:"repliesCount"`
}

type apifyReel struct {
	ShortCode           string         `json:"shortCode"`
	ID                  string         `json:"id"`
	OwnerUsername       string         `json:"ownerUsername"`
	OwnerProfilePicURL  string         `json:"ownerProfilePicUrl"`
	OwnerFollowersCount *int           `json:"ownerFollowersCount"`
	OwnerFollowingCount *int           `json:"ownerFollowingCount"`
	OwnerPostsCount     *int           `json:"ownerPostsCount"`
	Caption             string         `json:"caption"`
	VideoViewCount      int            `json:"videoViewCount"`
	VideoPlayCount      int            `json:"videoPlayCount"`
	LikesCount          int            `json:"likesCount"`
	CommentsCount       int            `json:"commentsCount"`
	VideoDuration       float64        `json:"videoDuration"`
	Timestamp           time.Time      `json:"timestamp"`
	DisplayURL          string         `json:"displayUrl"`
	Images              []string       `json:"images"`
	LatestComments      []apifyComment `json:"latestComments"`
}

// Fetch implements Provider. The actor run is synchronous: the response body
// is the dataset itself, one item per scraped post.
func (p *ApifyProvider) Fetch(ctx context.Context, reelURL string) (*domain.ScrapedReel, error) {
	if p.token == "" {
		return nil, errors.New("apify token not configured")
	}

	input := apifyRunInput{
		DirectURLs:    []string{reelURL},
		ResultsType:   "posts",
		ResultsLimit:  1,
		AddParentData: true,
	}
	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("marshal run input: %w", err)
	}

	endpoint := p.baseURL + apifyActorPath + "?token=" + url.QueryEscape(p.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("apify returned %d", resp.StatusCode)
	}

	var items []apifyReel
	if decodeErr := json.NewDecoder(resp.Body).Decode(&items); decodeErr != nil {
		return nil, fmt.Errorf("decode response: %w", decodeErr)
	}
	if len(items) == 0 {
		return nil, errors.New("no reel data returned")
	}

	return formatApifyReel(&items[0]), nil
}

func formatApifyReel(item *apifyReel) *domain.ScrapedReel {
	reelID := item.ShortCode
	if reelID == "" {
		reelID = item.ID
	}
	viewCount := item.VideoViewCount
	if viewCount == 0 {
		viewCount = item.VideoPlayCount
	}
	thumbnail := item.DisplayURL
	if thumbnail == "" && len(item.Images) > 0 {
		thumbnail = item.Images[0]
	}
	postDate := item.Timestamp
	if postDate.IsZero() {
		postDate = time.Now()
	}

	comments := item.LatestComments
	if len(comments) > domain.MaxCommentsPerReel {
		comments = comments[:domain.MaxCommentsPerReel]
	}
	formatted := make([]domain.Comment, 0, len(comments))
	for i, c := range comments {
		id := c.ID
		if id == "" {
			id = strconv.Itoa(i)
		}
		author := c.OwnerUsername
		if author == "" {
			author = c.Owner.Username
		}
		ts := c.Timestamp
		if ts.IsZero() {
			ts = time.Now()
		}
		formatted = append(formatted, domain.Comment{
			ID:        id,
			Text:      c.Text,
			Author:    author,
			Likes:     c.LikesCount,
			Timestamp: ts,
			Replies:   c.RepliesCount,
		})
	}

	return &domain.ScrapedReel{
		ReelID:         reelID,
		Username:       item.OwnerUsername,
		UserProfilePic: item.OwnerProfilePicURL,
		UserFollowers:  item.OwnerFollowersCount,
		UserFollowing:  item.OwnerFollowingCount,
		UserPostsCount: item.OwnerPostsCount,
		Caption:        item.Caption,
		ViewCount:      viewCount,
		LikesCount:     item.LikesCount,
		CommentsCount:  item.CommentsCount,
		SharesCount:    0,
		Duration:       item.VideoDuration,
		PostDate:       postDate,
		ThumbnailURL:   thumbnail,
		Comments:       formatted,
	}
}
