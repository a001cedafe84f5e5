package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sspacecoding/unfluencer/internal/brain"
	"github.com/sspacecoding/unfluencer/internal/core/domain"
	"github.com/sspacecoding/unfluencer/internal/core/ports"
	"github.com/sspacecoding/unfluencer/internal/prompt"
	"github.com/sspacecoding/unfluencer/internal/sites/instagram"
	"github.com/sspacecoding/unfluencer/internal/storage"
)

// scriptedUI plays back a fixed sequence of operator answers.
type scriptedUI struct {
	mode    ports.Mode
	pick    int
	approve bool
}

func (u *scriptedUI) ChooseMode(ctx context.Context) (ports.Mode, error) { return u.mode, nil }

func (u *scriptedUI) ChooseComment(ctx context.Context, comments []domain.Comment) (int, error) {
	return u.pick, nil
}

func (u *scriptedUI) Confirm(ctx context.Context, reply string) (bool, error) {
	return u.approve, nil
}

type fakeBrain struct {
	reply       string
	describeErr error
	generateErr error
	lastPrompt  string
}

func (b *fakeBrain) GenerateReply(ctx context.Context, p string, img domain.InlineImage) (string, error) {
	b.lastPrompt = p
	if b.generateErr != nil {
		return "", b.generateErr
	}
	return b.reply, nil
}

func (b *fakeBrain) DescribeImage(ctx context.Context, img domain.InlineImage) (string, error) {
	if b.describeErr != nil {
		return "", b.describeErr
	}
	return "Uma foto de paisagem.", nil
}

type fakeFetcher struct {
	err error
}

func (f *fakeFetcher) FetchInline(ctx context.Context, post domain.Post) (domain.InlineImage, error) {
	if f.err != nil {
		return domain.InlineImage{}, f.err
	}
	return domain.InlineImage{MIMEType: "image/jpeg", Data: []byte("img")}, nil
}

// videoOnlyClient serves an account feed with no eligible photo posts.
type videoOnlyClient struct {
	instagram.MockClient
}

func (c *videoOnlyClient) UserMedias(ctx context.Context, username string, amount int) ([]domain.Post, error) {
	return []domain.Post{
		{ID: "1", Kind: domain.MediaKindVideo},
		{ID: "2", Kind: domain.MediaKindCarousel, Resources: []domain.MediaResource{{Kind: domain.MediaKindVideo}}},
	}, nil
}

// mixedFeedClient serves a newest-first feed where the first eligible photo
// sits behind several ineligible posts.
type mixedFeedClient struct {
	instagram.MockClient
}

func (c *mixedFeedClient) UserMedias(ctx context.Context, username string, amount int) ([]domain.Post, error) {
	return []domain.Post{
		{ID: "1", Kind: domain.MediaKindVideo},
		{ID: "2", Kind: domain.MediaKindCarousel, Resources: []domain.MediaResource{{Kind: domain.MediaKindVideo}, {Kind: domain.MediaKindPhoto}}},
		{ID: "3", Kind: domain.MediaKindPhoto, Caption: "primeira foto", ThumbnailURL: "https://example.com/3.jpg"},
		{ID: "4", Kind: domain.MediaKindPhoto, Caption: "foto mais antiga", ThumbnailURL: "https://example.com/4.jpg"},
	}, nil
}

func testTemplate() prompt.Template {
	return prompt.Template{
		Instructions:    []string{"Be concise."},
		CommentTemplate: "Reply to: {comment}",
	}
}

func testStorage(t *testing.T) *storage.JSONStorage {
	t.Helper()
	s, err := storage.NewJSONStorage(t.TempDir() + "/activity.json")
	require.NoError(t, err)
	return s
}

func newTestOrchestrator(client ports.SocialClient, b ports.Brain, ui ports.Interaction,
	store ports.Storage, opts Options, out io.Writer) *Orchestrator {
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return New(client, b, ui, store, &fakeFetcher{}, testTemplate(), opts, log, out)
}

func TestProcessTarget_PublishesReplyToComment(t *testing.T) {
	client := instagram.NewMockClient()
	b := &fakeBrain{reply: ` "Obrigado pelo carinho!" `}
	ui := &scriptedUI{mode: ports.ModeReplyToComment, pick: 0, approve: true}
	store := testStorage(t)
	var out bytes.Buffer

	o := newTestOrchestrator(client, b, ui, store, Options{}, &out)
	outcome := o.ProcessTarget(context.Background(), Target{PostURL: "https://www.instagram.com/p/ABC123/"})

	assert.Equal(t, OutcomePublished, outcome)

	// The comment text reaches the prompt emoji-free.
	assert.Contains(t, b.lastPrompt, "Reply to: Que post incrível! ")
	assert.NotContains(t, b.lastPrompt, "👏")

	// The published text is sanitized.
	require.Len(t, client.Published, 1)
	assert.Equal(t, ` Obrigado pelo carinho! `, client.Published[0].Text)

	recs, err := store.RecentReplies(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "987654321", recs[0].PostID)
	assert.Equal(t, "111111", recs[0].CommentID)
	assert.Equal(t, "reply", recs[0].Mode)
	assert.Equal(t, "published", recs[0].Outcome)

	assert.Contains(t, out.String(), "Post caption:")
	assert.Contains(t, out.String(), "Reply sent.")
}

func TestProcessTarget_CommentOnPostUsesCaption(t *testing.T) {
	client := instagram.NewMockClient()
	b := &fakeBrain{reply: "Valeu!"}
	ui := &scriptedUI{mode: ports.ModeCommentOnPost, approve: true}
	store := testStorage(t)

	o := newTestOrchestrator(client, b, ui, store, Options{}, &bytes.Buffer{})
	outcome := o.ProcessTarget(context.Background(), Target{PostURL: "https://www.instagram.com/p/ABC123/"})

	assert.Equal(t, OutcomePublished, outcome)
	assert.Contains(t, b.lastPrompt, "Reply to: "+client.Media.Caption)

	recs, err := store.RecentReplies(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Empty(t, recs[0].CommentID)
	assert.Equal(t, "comment", recs[0].Mode)
}

func TestProcessTarget_ImageAnalysisFeedsPrompt(t *testing.T) {
	client := instagram.NewMockClient()
	b := &fakeBrain{reply: "ok"}
	ui := &scriptedUI{mode: ports.ModeCommentOnPost, approve: true}

	o := newTestOrchestrator(client, b, ui, nil, Options{AnalyzeImage: true}, &bytes.Buffer{})
	outcome := o.ProcessTarget(context.Background(), Target{PostURL: "https://www.instagram.com/p/ABC123/"})

	assert.Equal(t, OutcomePublished, outcome)
	assert.Contains(t, b.lastPrompt, "Image analysis:\nUma foto de paisagem.")
}

func TestProcessTarget_AnalysisFailureIsNonFatal(t *testing.T) {
	client := instagram.NewMockClient()
	b := &fakeBrain{reply: "ok", describeErr: errors.New("quota exceeded")}
	ui := &scriptedUI{mode: ports.ModeCommentOnPost, approve: true}

	o := newTestOrchestrator(client, b, ui, nil, Options{AnalyzeImage: true}, &bytes.Buffer{})
	outcome := o.ProcessTarget(context.Background(), Target{PostURL: "https://www.instagram.com/p/ABC123/"})

	assert.Equal(t, OutcomePublished, outcome)
	assert.Contains(t, b.lastPrompt, "image analysis failed: quota exceeded")
}

func TestProcessTarget_CancelAtSelection(t *testing.T) {
	client := instagram.NewMockClient()
	ui := &scriptedUI{mode: ports.ModeReplyToComment, pick: -1}
	var out bytes.Buffer

	o := newTestOrchestrator(client, &fakeBrain{reply: "ok"}, ui, nil, Options{}, &out)
	outcome := o.ProcessTarget(context.Background(), Target{PostURL: "https://www.instagram.com/p/ABC123/"})

	assert.Equal(t, OutcomeCancelled, outcome)
	assert.Contains(t, out.String(), "No comment selected.")
	assert.Empty(t, client.Published)
}

func TestProcessTarget_CancelAtConfirm(t *testing.T) {
	client := instagram.NewMockClient()
	ui := &scriptedUI{mode: ports.ModeReplyToComment, pick: 0, approve: false}
	var out bytes.Buffer

	o := newTestOrchestrator(client, &fakeBrain{reply: "ok"}, ui, nil, Options{}, &out)
	outcome := o.ProcessTarget(context.Background(), Target{PostURL: "https://www.instagram.com/p/ABC123/"})

	assert.Equal(t, OutcomeCancelled, outcome)
	assert.Contains(t, out.String(), "Reply cancelled by operator.")
	assert.Empty(t, client.Published)
}

func TestProcessTarget_InferenceErrorIsDisplayed(t *testing.T) {
	client := instagram.NewMockClient()
	b := &fakeBrain{generateErr: &domain.InferenceError{Reason: "model call failed", Err: errors.New("timeout")}}
	ui := &scriptedUI{mode: ports.ModeCommentOnPost, approve: true}
	var out bytes.Buffer

	o := newTestOrchestrator(client, b, ui, nil, Options{}, &out)
	outcome := o.ProcessTarget(context.Background(), Target{PostURL: "https://www.instagram.com/p/ABC123/"})

	assert.Equal(t, OutcomeError, outcome)
	assert.Contains(t, out.String(), "model call failed")
	assert.Empty(t, client.Published)
}

func TestProcessTarget_DisabledBrain(t *testing.T) {
	client := instagram.NewMockClient()
	ui := &scriptedUI{mode: ports.ModeCommentOnPost, approve: true}
	var out bytes.Buffer

	o := newTestOrchestrator(client, brain.Disabled{Err: errors.New("no API key")}, ui, nil, Options{}, &out)
	outcome := o.ProcessTarget(context.Background(), Target{PostURL: "https://www.instagram.com/p/ABC123/"})

	assert.Equal(t, OutcomeError, outcome)
	assert.Contains(t, out.String(), "inference client not initialized")
}

func TestProcessTarget_AccountScanFindsNoPhoto(t *testing.T) {
	client := &videoOnlyClient{MockClient: *instagram.NewMockClient()}
	var out bytes.Buffer

	o := newTestOrchestrator(client, &fakeBrain{reply: "ok"}, &scriptedUI{}, nil, Options{}, &out)
	outcome := o.ProcessTarget(context.Background(), Target{Account: "conta_de_video"})

	assert.Equal(t, OutcomeNoEligiblePost, outcome)
	assert.Contains(t, out.String(), "No eligible photo post found for conta_de_video.")
}

func TestProcessTarget_AccountScanSkipsIneligiblePosts(t *testing.T) {
	client := &mixedFeedClient{MockClient: *instagram.NewMockClient()}
	b := &fakeBrain{reply: "ok"}
	ui := &scriptedUI{mode: ports.ModeCommentOnPost, approve: true}
	var out bytes.Buffer

	o := newTestOrchestrator(client, b, ui, nil, Options{}, &out)
	outcome := o.ProcessTarget(context.Background(), Target{Account: "conta_mista"})

	assert.Equal(t, OutcomePublished, outcome)

	// The video and the video-led carousel are skipped; the newest photo wins
	// over the older one.
	require.Len(t, client.Published, 1)
	assert.Equal(t, "3", client.Published[0].PostID)
	assert.Contains(t, b.lastPrompt, "primeira foto")
}

func TestProcessTarget_AccountScanPublishes(t *testing.T) {
	client := instagram.NewMockClient()
	ui := &scriptedUI{mode: ports.ModeReplyToComment, pick: 1, approve: true}
	store := testStorage(t)

	o := newTestOrchestrator(client, &fakeBrain{reply: "ok"}, ui, store, Options{}, &bytes.Buffer{})
	outcome := o.ProcessTarget(context.Background(), Target{Account: "usuario_teste"})

	assert.Equal(t, OutcomePublished, outcome)

	recs, err := store.RecentReplies(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "usuario_teste", recs[0].Account)
	assert.Equal(t, "222222", recs[0].CommentID)
}

func TestProcessTarget_FetchFailureAborts(t *testing.T) {
	client := instagram.NewMockClient()
	ui := &scriptedUI{mode: ports.ModeCommentOnPost, approve: true}
	fetchErr := &domain.FetchError{URL: "https://example.com/image.jpg", Err: errors.New("connection refused")}

	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	o := New(client, &fakeBrain{reply: "ok"}, ui, nil, &fakeFetcher{err: fetchErr},
		testTemplate(), Options{}, log, &bytes.Buffer{})
	outcome := o.ProcessTarget(context.Background(), Target{PostURL: "https://www.instagram.com/p/ABC123/"})

	assert.Equal(t, OutcomeError, outcome)
	assert.Empty(t, client.Published)
}

func TestRun_ProcessesAllTargets(t *testing.T) {
	client := instagram.NewMockClient()
	ui := &scriptedUI{mode: ports.ModeCommentOnPost, approve: true}

	o := newTestOrchestrator(client, &fakeBrain{reply: "ok"}, ui, nil, Options{}, &bytes.Buffer{})
	o.Run(context.Background(), []Target{
		{PostURL: "https://www.instagram.com/p/ABC123/"},
		{Account: "usuario_teste"},
	})

	assert.Len(t, client.Published, 2)
}

func TestTargetLabel(t *testing.T) {
	assert.Equal(t, "usuario_teste", Target{Account: "usuario_teste"}.Label())
	assert.Equal(t, "https://x/p/A/", Target{PostURL: "https://x/p/A/"}.Label())
}
