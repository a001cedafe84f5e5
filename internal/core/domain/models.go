package domain

import (
	"time"
)

// MediaKind mirrors the platform's numeric media type tags.
type MediaKind int

const (
	MediaKindPhoto    MediaKind = 1
	MediaKindVideo    MediaKind = 2
	MediaKindCarousel MediaKind = 8
)

// User is the author of a post or comment.
type User struct {
	ID            string
	Username      string
	FullName      string
	ProfilePicURL string
}

// MediaResource is one entry of a carousel post.
type MediaResource struct {
	ThumbnailURL string
	Kind         MediaKind
}

// Post is a platform post with its caption and media resources.
// Resources is empty for single-media posts.
type Post struct {
	ID           string
	Code         string
	Caption      string
	ThumbnailURL string
	Kind         MediaKind
	Resources    []MediaResource
	LikeCount    int
	CommentCount int
	TakenAt      time.Time
	User         User
}

// PrimaryThumbnail returns the first carousel resource's thumbnail when the
// post has resources, otherwise the post's own thumbnail.
func (p Post) PrimaryThumbnail() string {
	if len(p.Resources) > 0 {
		return p.Resources[0].ThumbnailURL
	}
	return p.ThumbnailURL
}

// IsEligiblePhoto reports whether the post can feed the reply pipeline:
// a single photo, or a carousel whose first resource is a photo.
func (p Post) IsEligiblePhoto() bool {
	if len(p.Resources) > 0 {
		return p.Resources[0].Kind == MediaKindPhoto
	}
	return p.Kind == MediaKindPhoto
}

// Comment is a comment on a post.
type Comment struct {
	ID        string
	PostID    string
	User      User
	Text      string
	LikeCount int
	CreatedAt time.Time
}

// InlineImage holds image bytes ready for inline transport to the
// inference API. The client SDK base64-encodes the bytes on the wire.
type InlineImage struct {
	MIMEType string
	Data     []byte
}

// ReplyRecord is one published reply in the activity log.
type ReplyRecord struct {
	ID        int64
	Account   string
	PostID    string
	CommentID string
	Text      string
	Mode      string
	Outcome   string
	CreatedAt time.Time
}
