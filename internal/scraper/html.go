package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/reelscope/reelscope/internal/domain"
)

const htmlUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

var sharedDataPattern = regexp.MustCompile(`window\._sharedData = ({.*?});`)

// HTMLProvider scrapes the public reel page directly. It is the last-resort
// adapter: no credentials, but it only works while Instagram still embeds the
// window._sharedData payload in the page.
type HTMLProvider struct {
	client *http.Client
}

// NewHTMLProvider creates the credential-free page scraper.
func NewHTMLProvider(client *http.Client) *HTMLProvider {
	return &HTMLProvider{client: client}
}

// Name implements Provider.
func (p *HTMLProvider) Name() string { return "html" }

type sharedData struct {
	EntryData struct {
		PostPage []struct {
			Graphql struct {
				ShortcodeMedia *graphMedia `json:"shortcode_media"`
			} `json:"graphql"`
		} `json:"PostPage"`
	} `json:"entry_data"`
}

// Fetch implements Provider.
func (p *HTMLProvider) Fetch(ctx context.Context, reelURL string) (*domain.ScrapedReel, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reelURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", htmlUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page returned %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	data, err := extractSharedData(doc)
	if err != nil {
		return nil, err
	}

	if len(data.EntryData.PostPage) == 0 || data.EntryData.PostPage[0].Graphql.ShortcodeMedia == nil {
		return nil, errors.New("no post data in page payload")
	}
	return formatGraphMedia(data.EntryData.PostPage[0].Graphql.ShortcodeMedia), nil
}

func extractSharedData(doc *goquery.Document) (*sharedData, error) {
	var found *sharedData
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		content := s.Text()
		if !strings.Contains(content, "window._sharedData") {
			return true
		}
		match := sharedDataPattern.FindStringSubmatch(content)
		if match == nil {
			return true
		}
		var data sharedData
		if err := json.Unmarshal([]byte(match[1]), &data); err != nil {
			return true
		}
		found = &data
		return false
	})

	if found == nil {
		return nil, errors.New("could not extract page payload")
	}
	return found, nil
}
