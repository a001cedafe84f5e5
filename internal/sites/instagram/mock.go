package instagram

import (
	"context"
	"time"

	"github.com/sspacecoding/unfluencer/internal/core/domain"
	"github.com/sspacecoding/unfluencer/internal/core/ports"
)

// MockClient serves canned fixtures so the whole pipeline can run without
// touching the real platform. Enabled by USE_MOCKS; tests use it directly.
type MockClient struct {
	Media     domain.Post
	Comments  []domain.Comment
	Published []domain.Comment
}

func NewMockClient() *MockClient {
	user := domain.User{
		ID:            "123456789",
		Username:      "usuario_teste",
		FullName:      "Usuário Teste",
		ProfilePicURL: "https://example.com/profile.jpg",
	}
	now := time.Now()

	return &MockClient{
		Media: domain.Post{
			ID:           "987654321",
			Code:         "ABC123",
			Caption:      "Este é um post de teste para demonstrar o funcionamento dos mocks",
			ThumbnailURL: "https://example.com/image.jpg",
			Kind:         domain.MediaKindCarousel,
			Resources: []domain.MediaResource{
				{ThumbnailURL: "https://example.com/carousel-1.jpg", Kind: domain.MediaKindPhoto},
			},
			LikeCount:    100,
			CommentCount: 50,
			TakenAt:      now,
			User:         user,
		},
		Comments: []domain.Comment{
			{ID: "111111", PostID: "987654321", User: user, Text: "Que post incrível! 👏", LikeCount: 5, CreatedAt: now},
			{ID: "222222", PostID: "987654321", User: user, Text: "Muito bom conteúdo!", LikeCount: 3, CreatedAt: now},
			{ID: "333333", PostID: "987654321", User: user, Text: "Adorei!", LikeCount: 1, CreatedAt: now},
		},
	}
}

var _ ports.SocialClient = (*MockClient)(nil)

func (m *MockClient) Login(ctx context.Context, username, password string) error { return nil }
func (m *MockClient) LoadSettings(path string) error                             { return nil }
func (m *MockClient) DumpSettings(path string) error                             { return nil }
func (m *MockClient) GetTimelineFeed(ctx context.Context) error                  { return nil }

func (m *MockClient) MediaIDFromURL(ctx context.Context, postURL string) (string, error) {
	return m.Media.ID, nil
}

func (m *MockClient) MediaInfo(ctx context.Context, mediaID string) (domain.Post, error) {
	return m.Media, nil
}

func (m *MockClient) MediaComments(ctx context.Context, mediaID string, amount int) ([]domain.Comment, error) {
	if amount > len(m.Comments) {
		amount = len(m.Comments)
	}
	return m.Comments[:amount], nil
}

func (m *MockClient) MediaComment(ctx context.Context, mediaID, text string) (domain.Comment, error) {
	cm := domain.Comment{ID: "999999", PostID: mediaID, Text: text, CreatedAt: time.Now()}
	m.Published = append(m.Published, cm)
	return cm, nil
}

func (m *MockClient) ReplyToComment(ctx context.Context, mediaID, commentID, text string) (domain.Comment, error) {
	cm := domain.Comment{ID: "999999", PostID: mediaID, Text: text, CreatedAt: time.Now()}
	m.Published = append(m.Published, cm)
	return cm, nil
}

func (m *MockClient) UserMedias(ctx context.Context, username string, amount int) ([]domain.Post, error) {
	return []domain.Post{m.Media}, nil
}
