package ports

import (
	"context"

	"github.com/sspacecoding/unfluencer/internal/core/domain"
)

// SocialClient is the platform adapter the pipeline drives. The real
// implementation talks to the HTTP API; a mock stands in for offline runs
// and tests.
type SocialClient interface {
	Login(ctx context.Context, username, password string) error
	LoadSettings(path string) error
	DumpSettings(path string) error
	// GetTimelineFeed is the liveness probe for a restored session.
	GetTimelineFeed(ctx context.Context) error
	MediaIDFromURL(ctx context.Context, postURL string) (string, error)
	MediaInfo(ctx context.Context, mediaID string) (domain.Post, error)
	MediaComments(ctx context.Context, mediaID string, amount int) ([]domain.Comment, error)
	MediaComment(ctx context.Context, mediaID, text string) (domain.Comment, error)
	ReplyToComment(ctx context.Context, mediaID, commentID, text string) (domain.Comment, error)
	// UserMedias returns the account's most recent posts, newest first.
	UserMedias(ctx context.Context, username string, amount int) ([]domain.Post, error)
}

// Brain generates text from a prompt and an inline image.
type Brain interface {
	GenerateReply(ctx context.Context, prompt string, image domain.InlineImage) (string, error)
	DescribeImage(ctx context.Context, image domain.InlineImage) (string, error)
}

// ImageFetcher downloads a post's representative image for inline transport.
type ImageFetcher interface {
	FetchInline(ctx context.Context, post domain.Post) (domain.InlineImage, error)
}

// Mode selects what the generated text replies to.
type Mode int

const (
	ModeReplyToComment Mode = 1
	ModeCommentOnPost  Mode = 2
)

// Interaction is the operator approval surface (console or Telegram).
type Interaction interface {
	ChooseMode(ctx context.Context) (Mode, error)
	// ChooseComment returns the index of the picked comment, or -1 when the
	// operator cancels.
	ChooseComment(ctx context.Context, comments []domain.Comment) (int, error)
	Confirm(ctx context.Context, reply string) (bool, error)
}

// Storage is the activity log for published replies.
type Storage interface {
	SaveReply(ctx context.Context, rec domain.ReplyRecord) error
	RecentReplies(ctx context.Context, limit int) ([]domain.ReplyRecord, error)
	GetCommentStats(account string) (int, string, error)
	IncrementCommentCount(account string, date string) error
}
