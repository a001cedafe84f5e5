package instagram

import (
	"strconv"
	"time"

	"github.com/sspacecoding/unfluencer/internal/core/domain"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	DeviceID string `json:"device_id"`
}

type loginResponse struct {
	Status       string  `json:"status"`
	Token        string  `json:"token"`
	LoggedInUser apiUser `json:"logged_in_user"`
}

type commentRequest struct {
	CommentText        string `json:"comment_text"`
	RepliedToCommentID string `json:"replied_to_comment_id,omitempty"`
}

type mediaInfoResponse struct {
	Items []apiMedia `json:"items"`
}

type userFeedResponse struct {
	Items []apiMedia `json:"items"`
}

type commentsResponse struct {
	Comments []apiComment `json:"comments"`
}

type commentResponse struct {
	Comment apiComment `json:"comment"`
}

type apiUser struct {
	Pk            int64  `json:"pk"`
	Username      string `json:"username"`
	FullName      string `json:"full_name"`
	ProfilePicURL string `json:"profile_pic_url"`
}

func (u apiUser) toDomain() domain.User {
	return domain.User{
		ID:            strconv.FormatInt(u.Pk, 10),
		Username:      u.Username,
		FullName:      u.FullName,
		ProfilePicURL: u.ProfilePicURL,
	}
}

type apiImageVersions struct {
	Candidates []struct {
		URL string `json:"url"`
	} `json:"candidates"`
}

func (v apiImageVersions) firstURL() string {
	if len(v.Candidates) == 0 {
		return ""
	}
	return v.Candidates[0].URL
}

type apiMedia struct {
	Pk        int64  `json:"pk"`
	Code      string `json:"code"`
	MediaType int    `json:"media_type"`
	Caption   struct {
		Text string `json:"text"`
	} `json:"caption"`
	ImageVersions apiImageVersions `json:"image_versions2"`
	CarouselMedia []apiMedia       `json:"carousel_media"`
	LikeCount     int              `json:"like_count"`
	CommentCount  int              `json:"comment_count"`
	TakenAt       int64            `json:"taken_at"`
	User          apiUser          `json:"user"`
}

func (m apiMedia) toDomain() domain.Post {
	post := domain.Post{
		ID:           strconv.FormatInt(m.Pk, 10),
		Code:         m.Code,
		Caption:      m.Caption.Text,
		ThumbnailURL: m.ImageVersions.firstURL(),
		Kind:         domain.MediaKind(m.MediaType),
		LikeCount:    m.LikeCount,
		CommentCount: m.CommentCount,
		TakenAt:      time.Unix(m.TakenAt, 0),
		User:         m.User.toDomain(),
	}
	for _, cm := range m.CarouselMedia {
		post.Resources = append(post.Resources, domain.MediaResource{
			ThumbnailURL: cm.ImageVersions.firstURL(),
			Kind:         domain.MediaKind(cm.MediaType),
		})
	}
	return post
}

type apiComment struct {
	Pk               int64   `json:"pk"`
	Text             string  `json:"text"`
	User             apiUser `json:"user"`
	CommentLikeCount int     `json:"comment_like_count"`
	CreatedAt        int64   `json:"created_at"`
}

func (c apiComment) toDomain(mediaID string) domain.Comment {
	return domain.Comment{
		ID:        strconv.FormatInt(c.Pk, 10),
		PostID:    mediaID,
		User:      c.User.toDomain(),
		Text:      c.Text,
		LikeCount: c.CommentLikeCount,
		CreatedAt: time.Unix(c.CreatedAt, 0),
	}
}
