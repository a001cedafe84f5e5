package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/sspacecoding/unfluencer/internal/core/domain"
	"github.com/sspacecoding/unfluencer/internal/core/ports"
	"github.com/sspacecoding/unfluencer/internal/prompt"
)

const divider = "=================================================="

// Target is one unit of work: a configured post URL, or an account whose
// latest photo post gets resolved at run time.
type Target struct {
	PostURL string
	Account string
}

func (t Target) Label() string {
	if t.Account != "" {
		return t.Account
	}
	return t.PostURL
}

// Outcome is the terminal state of one target.
type Outcome string

const (
	OutcomePublished      Outcome = "published"
	OutcomeCancelled      Outcome = "cancelled-by-operator"
	OutcomeNoEligiblePost Outcome = "no-eligible-post"
	OutcomeError          Outcome = "error"
)

// Options tune the pipeline. Zero values fall back to the defaults below.
type Options struct {
	CommentPageSize int
	ScanLimit       int
	AnalyzeImage    bool
}

const (
	defaultCommentPageSize = 10
	defaultScanLimit       = 20
)

// Orchestrator drives the end-to-end flow for each target: resolve post,
// fetch comments, let the operator choose, generate, confirm, publish.
type Orchestrator struct {
	client   ports.SocialClient
	brain    ports.Brain
	ui       ports.Interaction
	store    ports.Storage
	fetcher  ports.ImageFetcher
	template prompt.Template
	opts     Options
	log      *slog.Logger
	out      io.Writer
}

func New(client ports.SocialClient, brain ports.Brain, ui ports.Interaction, store ports.Storage,
	fetcher ports.ImageFetcher, template prompt.Template, opts Options, log *slog.Logger, out io.Writer) *Orchestrator {
	if opts.CommentPageSize <= 0 {
		opts.CommentPageSize = defaultCommentPageSize
	}
	if opts.ScanLimit <= 0 {
		opts.ScanLimit = defaultScanLimit
	}
	return &Orchestrator{
		client:   client,
		brain:    brain,
		ui:       ui,
		store:    store,
		fetcher:  fetcher,
		template: template,
		opts:     opts,
		log:      log,
		out:      out,
	}
}

// Run processes the targets strictly in order, one fully completed (or
// aborted) before the next begins.
func (o *Orchestrator) Run(ctx context.Context, targets []Target) {
	for _, t := range targets {
		outcome := o.ProcessTarget(ctx, t)
		o.log.Info("target finished", "target", t.Label(), "outcome", string(outcome))
	}
}

// ProcessTarget runs the pipeline for one target and returns its terminal
// state. Every failure is absorbed here; nothing escapes to stop the run.
func (o *Orchestrator) ProcessTarget(ctx context.Context, t Target) Outcome {
	post, err := o.resolvePost(ctx, t)
	if err != nil {
		if errors.Is(err, domain.ErrNoEligiblePost) {
			o.log.Warn("no eligible photo post", "account", t.Account)
			fmt.Fprintf(o.out, "\nNo eligible photo post found for %s.\n", t.Account)
			return OutcomeNoEligiblePost
		}
		o.log.Error("failed to resolve post", "target", t.Label(), "err", err)
		return OutcomeError
	}

	fmt.Fprintln(o.out, "\nPost caption:")
	fmt.Fprintln(o.out, divider)
	fmt.Fprintln(o.out, post.Caption)
	fmt.Fprintln(o.out, divider)

	comments, err := o.client.MediaComments(ctx, post.ID, o.opts.CommentPageSize)
	if err != nil {
		ferr := &domain.FetchError{URL: post.ID, Err: err}
		o.log.Error("failed to fetch comments", "post", post.ID, "err", ferr)
		fmt.Fprintln(o.out, "\nFailed to fetch comments.")
		return OutcomeError
	}

	mode, err := o.ui.ChooseMode(ctx)
	if err != nil {
		o.log.Error("mode selection failed", "err", err)
		return OutcomeError
	}

	var replyTo *domain.Comment
	stimulus := post.Caption
	if mode == ports.ModeReplyToComment {
		idx, err := o.ui.ChooseComment(ctx, comments)
		if err != nil {
			o.log.Error("comment selection failed", "err", err)
			return OutcomeError
		}
		if idx < 0 {
			fmt.Fprintln(o.out, "\nNo comment selected.")
			return OutcomeCancelled
		}
		replyTo = &comments[idx]
		stimulus = replyTo.Text
	}

	reply, err := o.generateReply(ctx, post, stimulus)
	if err != nil {
		o.log.Error("reply generation failed", "post", post.ID, "err", err)
		fmt.Fprintf(o.out, "\nError: %v\n", err)
		return OutcomeError
	}

	approved, err := o.ui.Confirm(ctx, reply)
	if err != nil {
		o.log.Error("confirmation failed", "err", err)
		return OutcomeError
	}
	if !approved {
		fmt.Fprintln(o.out, "\nReply cancelled by operator.")
		return OutcomeCancelled
	}

	reply = prompt.SanitizeReply(reply)

	var published domain.Comment
	if replyTo != nil {
		published, err = o.client.ReplyToComment(ctx, post.ID, replyTo.ID, reply)
	} else {
		published, err = o.client.MediaComment(ctx, post.ID, reply)
	}
	if err != nil {
		perr := &domain.PublishError{Err: err}
		o.log.Error("publish failed", "post", post.ID, "err", perr)
		fmt.Fprintln(o.out, "\nFailed to send reply.")
		return OutcomeError
	}

	fmt.Fprintln(o.out, "\nReply sent.")
	o.log.Info("reply published", "post", post.ID, "comment", published.ID)
	o.record(ctx, t, post, replyTo, reply, mode)
	return OutcomePublished
}

func (o *Orchestrator) resolvePost(ctx context.Context, t Target) (domain.Post, error) {
	if t.Account != "" {
		return o.findLatestPhotoPost(ctx, t.Account)
	}

	mediaID, err := o.client.MediaIDFromURL(ctx, t.PostURL)
	if err != nil {
		return domain.Post{}, &domain.ResolutionError{Ref: t.PostURL, Err: err}
	}
	o.log.Info("resolved post id", "id", mediaID)

	post, err := o.client.MediaInfo(ctx, mediaID)
	if err != nil {
		return domain.Post{}, &domain.ResolutionError{Ref: mediaID, Err: err}
	}
	return post, nil
}

// findLatestPhotoPost scans the account's most recent posts newest-first and
// returns the first single photo or photo-led carousel inside the window.
func (o *Orchestrator) findLatestPhotoPost(ctx context.Context, account string) (domain.Post, error) {
	posts, err := o.client.UserMedias(ctx, account, o.opts.ScanLimit)
	if err != nil {
		return domain.Post{}, &domain.ResolutionError{Ref: account, Err: err}
	}
	for _, p := range posts {
		if p.IsEligiblePhoto() {
			return p, nil
		}
	}
	return domain.Post{}, domain.ErrNoEligiblePost
}

func (o *Orchestrator) generateReply(ctx context.Context, post domain.Post, stimulus string) (string, error) {
	img, err := o.fetcher.FetchInline(ctx, post)
	if err != nil {
		return "", err
	}

	analysis := ""
	if o.opts.AnalyzeImage {
		analysis, err = o.brain.DescribeImage(ctx, img)
		if err != nil {
			// Deliberately non-fatal: the failure text flows into the prompt.
			analysis = fmt.Sprintf("image analysis failed: %v", err)
			o.log.Warn("image analysis failed", "post", post.ID, "err", err)
		}
	}

	built := prompt.Build(o.template, stimulus, analysis)
	o.log.Info("prompt built", "chars", len(built))

	return o.brain.GenerateReply(ctx, built, img)
}

func (o *Orchestrator) record(ctx context.Context, t Target, post domain.Post, replyTo *domain.Comment, reply string, mode ports.Mode) {
	if o.store == nil {
		return
	}

	account := t.Account
	if account == "" {
		account = post.User.Username
	}

	rec := domain.ReplyRecord{
		Account:   account,
		PostID:    post.ID,
		Text:      reply,
		Mode:      modeString(mode),
		Outcome:   string(OutcomePublished),
		CreatedAt: time.Now(),
	}
	if replyTo != nil {
		rec.CommentID = replyTo.ID
	}

	if err := o.store.SaveReply(ctx, rec); err != nil {
		o.log.Warn("failed to record reply", "err", err)
	}
	if err := o.store.IncrementCommentCount(account, time.Now().Format("2006-01-02")); err != nil {
		o.log.Warn("failed to update comment stats", "err", err)
	}
}

func modeString(mode ports.Mode) string {
	if mode == ports.ModeCommentOnPost {
		return "comment"
	}
	return "reply"
}
