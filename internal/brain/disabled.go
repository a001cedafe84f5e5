package brain

import (
	"context"

	"github.com/sspacecoding/unfluencer/internal/core/domain"
	"github.com/sspacecoding/unfluencer/internal/core/ports"
)

// Disabled stands in when the inference adapter could not be constructed
// (missing credentials or key file). Every call returns an InferenceError so
// post and comment interactions keep working and the operator sees the cause.
type Disabled struct {
	Err error
}

var _ ports.Brain = Disabled{}

func (d Disabled) GenerateReply(ctx context.Context, prompt string, image domain.InlineImage) (string, error) {
	return "", &domain.InferenceError{Reason: "inference client not initialized", Err: d.Err}
}

func (d Disabled) DescribeImage(ctx context.Context, image domain.InlineImage) (string, error) {
	return "", &domain.InferenceError{Reason: "inference client not initialized", Err: d.Err}
}
