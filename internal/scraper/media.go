package scraper

import (
	"strconv"
	"time"

	"github.com/reelscope/reelscope/internal/domain"
)

// graphMedia is the GraphQL media shape Instagram exposes both through the
// RapidAPI post_info endpoint and the embedded page payload. Field presence
// varies wildly between the two, so everything is optional and the formatter
// takes the first non-empty alternative.
type graphMedia struct {
	Shortcode string `json:"shortcode"`
	ID        string `json:"id"`

	Owner struct {
		Username       string `json:"username"`
		ProfilePicURL  string `json:"profile_pic_url"`
		EdgeFollowedBy struct {
			Count *int `json:"count"`
		} `json:"edge_followed_by"`
		EdgeFollow struct {
			Count *int `json:"count"`
		} `json:"edge_follow"`
	} `json:"owner"`
	Username      string `json:"username"`
	ProfilePicURL string `json:"profilePicUrl"`

	EdgeMediaToCaption struct {
		Edges []struct {
			Node struct {
				Text string `json:"text"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"edge_media_to_caption"`
	Caption string `json:"caption"`

	VideoViewCount int `json:"video_view_count"`
	PlayCount      int `json:"playCount"`

	EdgeMediaPreviewLike struct {
		Count int `json:"count"`
	} `json:"edge_media_preview_like"`
	LikesCount int `json:"likesCount"`

	EdgeMediaToComment struct {
		Count int `json:"count"`
		Edges []struct {
			Node graphComment `json:"node"`
		} `json:"edges"`
	} `json:"edge_media_to_comment"`
	CommentsCount int `json:"commentsCount"`

	VideoDurationSnake float64 `json:"video_duration"`
	VideoDurationCamel float64 `json:"videoDuration"`

	TakenAtTimestamp int64     `json:"taken_at_timestamp"`
	Timestamp        time.Time `json:"timestamp"`

	DisplayURL   string `json:"display_url"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

type graphComment struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Owner struct {
		Username string `json:"username"`
	} `json:"owner"`
	EdgeLikedBy struct {
		Count int `json:"count"`
	} `json:"edge_liked_by"`
	CreatedAt            int64 `json:"created_at"`
	EdgeThreadedComments struct {
		Count int `json:"count"`
	} `json:"edge_threaded_comments"`
}

func formatGraphMedia(m *graphMedia) *domain.ScrapedReel {
	reelID := m.Shortcode
	if reelID == "" {
		reelID = m.ID
	}
	username := m.Owner.Username
	if username == "" {
		username = m.Username
	}
	profilePic := m.Owner.ProfilePicURL
	if profilePic == "" {
		profilePic = m.ProfilePicURL
	}
	caption := m.Caption
	if len(m.EdgeMediaToCaption.Edges) > 0 {
		caption = m.EdgeMediaToCaption.Edges[0].Node.Text
	}
	viewCount := m.VideoViewCount
	if viewCount == 0 {
		viewCount = m.PlayCount
	}
	likes := m.EdgeMediaPreviewLike.Count
	if likes == 0 {
		likes = m.LikesCount
	}
	commentsCount := m.EdgeMediaToComment.Count
	if commentsCount == 0 {
		commentsCount = m.CommentsCount
	}
	duration := m.VideoDurationSnake
	if duration == 0 {
		duration = m.VideoDurationCamel
	}
	thumbnail := m.DisplayURL
	if thumbnail == "" {
		thumbnail = m.ThumbnailURL
	}

	postDate := time.Now()
	switch {
	case m.TakenAtTimestamp != 0:
		postDate = time.Unix(m.TakenAtTimestamp, 0)
	case !m.Timestamp.IsZero():
		postDate = m.Timestamp
	}

	edges := m.EdgeMediaToComment.Edges
	if len(edges) > domain.MaxCommentsPerReel {
		edges = edges[:domain.MaxCommentsPerReel]
	}
	comments := make([]domain.Comment, 0, len(edges))
	for i, edge := range edges {
		node := edge.Node
		id := node.ID
		if id == "" {
			id = strconv.Itoa(i)
		}
		ts := time.Now()
		if node.CreatedAt != 0 {
			ts = time.Unix(node.CreatedAt, 0)
		}
		comments = append(comments, domain.Comment{
			ID:        id,
			Text:      node.Text,
			Author:    node.Owner.Username,
			Likes:     node.EdgeLikedBy.Count,
			Timestamp: ts,
			Replies:   node.EdgeThreadedComments.Count,
		})
	}

	return &domain.ScrapedReel{
		ReelID:         reelID,
		Username:       username,
		UserProfilePic: profilePic,
		UserFollowers:  m.Owner.EdgeFollowedBy.Count,
		UserFollowing:  m.Owner.EdgeFollow.Count,
		Caption:        caption,
		ViewCount:      viewCount,
		LikesCount:     likes,
		CommentsCount:  commentsCount,
		SharesCount:    0,
		Duration:       duration,
		PostDate:       postDate,
		ThumbnailURL:   thumbnail,
		Comments:       comments,
	}
}
