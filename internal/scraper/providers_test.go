package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/reelscope/reelscope/internal/config"
)

func testScraperConfig() config.ScraperConfig {
	return config.ScraperConfig{
		ApifyToken:        "test-token",
		RapidAPIKey:       "test-key",
		Providers:         []string{"apify", "rapidapi", "html"},
		RequestsPerMinute: 600,
		Timeout:           5 * time.Second,
	}
}

func TestApifyProvider_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Query().Get("token") != "test-token" {
			t.Errorf("expected token in query, got %q", r.URL.Query().Get("token"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{
			"shortCode": "abc123",
			"ownerUsername": "creator",
			"ownerFollowersCount": 12000,
			"caption": "sunset vibes #travel",
			"videoPlayCount": 5000,
			"likesCount": 400,
			"commentsCount": 25,
			"videoDuration": 14.5,
			"timestamp": "2026-08-01T12:00:00Z",
			"displayUrl": "https://cdn.example/thumb.jpg",
			"latestComments": [
				{"id": "c1", "text": "love it", "ownerUsername": "fan", "likesCount": 3, "timestamp": "2026-08-01T13:00:00Z"}
			]
		}]`))
	}))
	defer server.Close()

	p := NewApifyProvider(server.Client(), "test-token")
	p.baseURL = server.URL

	reel, err := p.Fetch(context.Background(), "https://www.instagram.com/reel/abc123/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reel.ReelID != "abc123" {
		t.Errorf("expected reel ID abc123, got %q", reel.ReelID)
	}
	if reel.Username != "creator" {
		t.Errorf("expected username creator, got %q", reel.Username)
	}
	if reel.UserFollowers == nil || *reel.UserFollowers != 12000 {
		t.Errorf("expected 12000 followers, got %v", reel.UserFollowers)
	}
	if reel.ViewCount != 5000 {
		t.Errorf("expected view count from play count fallback, got %d", reel.ViewCount)
	}
	if len(reel.Comments) != 1 || reel.Comments[0].Author != "fan" {
		t.Errorf("unexpected comments: %+v", reel.Comments)
	}
}

func TestApifyProvider_EmptyDataset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	p := NewApifyProvider(server.Client(), "test-token")
	p.baseURL = server.URL

	if _, err := p.Fetch(context.Background(), "https://www.instagram.com/reel/abc/"); err == nil {
		t.Fatal("expected an error for an empty dataset")
	}
}

func TestApifyProvider_MissingToken(t *testing.T) {
	p := NewApifyProvider(http.DefaultClient, "")
	if _, err := p.Fetch(context.Background(), "https://www.instagram.com/reel/abc/"); err == nil {
		t.Fatal("expected an error when no token is configured")
	}
}

func TestRapidAPIProvider_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-RapidAPI-Key") != "test-key" {
			t.Errorf("expected api key header, got %q", r.Header.Get("X-RapidAPI-Key"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": {
			"shortcode": "xyz789",
			"owner": {
				"username": "creator",
				"profile_pic_url": "https://cdn.example/pic.jpg",
				"edge_followed_by": {"count": 150000}
			},
			"edge_media_to_caption": {"edges": [{"node": {"text": "beach day"}}]},
			"video_view_count": 9000,
			"edge_media_preview_like": {"count": 700},
			"edge_media_to_comment": {
				"count": 40,
				"edges": [
					{"node": {"id": "c1", "text": "nice", "owner": {"username": "fan"}, "edge_liked_by": {"count": 2}, "created_at": 1754000000}}
				]
			},
			"video_duration": 20.5,
			"taken_at_timestamp": 1753900000,
			"display_url": "https://cdn.example/frame.jpg"
		}}`))
	}))
	defer server.Close()

	p := NewRapidAPIProvider(server.Client(), "test-key")
	p.baseURL = server.URL

	reel, err := p.Fetch(context.Background(), "https://www.instagram.com/reel/xyz789/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reel.ReelID != "xyz789" {
		t.Errorf("expected reel ID xyz789, got %q", reel.ReelID)
	}
	if reel.Caption != "beach day" {
		t.Errorf("expected caption from edges, got %q", reel.Caption)
	}
	if reel.UserFollowers == nil || *reel.UserFollowers != 150000 {
		t.Errorf("expected 150000 followers, got %v", reel.UserFollowers)
	}
	if reel.ViewCount != 9000 || reel.LikesCount != 700 || reel.CommentsCount != 40 {
		t.Errorf("unexpected counts: views=%d likes=%d comments=%d",
			reel.ViewCount, reel.LikesCount, reel.CommentsCount)
	}
	if !reel.PostDate.Equal(time.Unix(1753900000, 0)) {
		t.Errorf("expected post date from taken_at_timestamp, got %v", reel.PostDate)
	}
	if len(reel.Comments) != 1 || reel.Comments[0].Author != "fan" {
		t.Errorf("unexpected comments: %+v", reel.Comments)
	}
}

func TestRapidAPIProvider_MissingData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	p := NewRapidAPIProvider(server.Client(), "test-key")
	p.baseURL = server.URL

	if _, err := p.Fetch(context.Background(), "https://www.instagram.com/reel/abc/"); err == nil {
		t.Fatal("expected an error when the envelope has no data")
	}
}

func TestHTMLProvider_Fetch(t *testing.T) {
	page := `<html><head>
		<script>var other = 1;</script>
		<script>window._sharedData = {"entry_data":{"PostPage":[{"graphql":{"shortcode_media":{
			"shortcode":"pg1",
			"owner":{"username":"creator","edge_followed_by":{"count":500}},
			"edge_media_to_caption":{"edges":[{"node":{"text":"hello world"}}]},
			"video_view_count":100,
			"edge_media_preview_like":{"count":10},
			"taken_at_timestamp":1753900000
		}}}]}};</script>
	</head><body></body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	p := NewHTMLProvider(server.Client())

	reel, err := p.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reel.ReelID != "pg1" {
		t.Errorf("expected reel ID pg1, got %q", reel.ReelID)
	}
	if reel.Username != "creator" {
		t.Errorf("expected username creator, got %q", reel.Username)
	}
	if reel.Caption != "hello world" {
		t.Errorf("expected caption, got %q", reel.Caption)
	}
}

func TestHTMLProvider_NoSharedData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>login required</p></body></html>`))
	}))
	defer server.Close()

	p := NewHTMLProvider(server.Client())

	if _, err := p.Fetch(context.Background(), server.URL); err == nil {
		t.Fatal("expected an error when the page has no embedded payload")
	}
}
