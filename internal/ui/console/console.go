package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sspacecoding/unfluencer/internal/core/domain"
	"github.com/sspacecoding/unfluencer/internal/core/ports"
)

const divider = "=================================================="

// Console is the blocking, line-based operator interface.
type Console struct {
	sc  *bufio.Scanner
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Console {
	return &Console{sc: bufio.NewScanner(in), out: out}
}

var _ ports.Interaction = (*Console)(nil)

func (c *Console) readLine() (string, error) {
	if !c.sc.Scan() {
		if err := c.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.sc.Text()), nil
}

// ChooseMode asks whether to reply to a specific comment or to comment
// directly on the post, re-prompting until the input is 1 or 2.
func (c *Console) ChooseMode(ctx context.Context) (ports.Mode, error) {
	fmt.Fprintln(c.out, "\nChoose comment mode:")
	fmt.Fprintln(c.out, "1. Reply to a specific comment")
	fmt.Fprintln(c.out, "2. Comment directly on the post")

	for {
		fmt.Fprint(c.out, "\nEnter 1 or 2: ")
		line, err := c.readLine()
		if err != nil {
			return 0, err
		}
		switch line {
		case "1":
			return ports.ModeReplyToComment, nil
		case "2":
			return ports.ModeCommentOnPost, nil
		}
		fmt.Fprintln(c.out, "Please enter 1 or 2")
	}
}

// ChooseComment lists the comments and asks for a 1-based pick; 0 cancels.
func (c *Console) ChooseComment(ctx context.Context, comments []domain.Comment) (int, error) {
	fmt.Fprintln(c.out, "\nAvailable comments:")
	fmt.Fprintln(c.out, divider)
	for i, cm := range comments {
		fmt.Fprintf(c.out, "%d. %s: %s\n", i+1, cm.User.Username, cm.Text)
	}
	fmt.Fprintln(c.out, divider)

	for {
		fmt.Fprint(c.out, "\nEnter the comment number (or 0 to cancel): ")
		line, err := c.readLine()
		if err != nil {
			return -1, err
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(c.out, "Please enter a valid number")
			continue
		}
		if n == 0 {
			return -1, nil
		}
		if n >= 1 && n <= len(comments) {
			return n - 1, nil
		}
		fmt.Fprintf(c.out, "Please enter a number between 1 and %d\n", len(comments))
	}
}

// Confirm shows the generated reply and asks for yes/no approval,
// re-prompting until the answer is valid.
func (c *Console) Confirm(ctx context.Context, reply string) (bool, error) {
	fmt.Fprintln(c.out, "\nGenerated reply:")
	fmt.Fprintln(c.out, divider)
	fmt.Fprintln(c.out, reply)
	fmt.Fprintln(c.out, divider)

	for {
		fmt.Fprint(c.out, "\nSend this reply? (yes/no): ")
		line, err := c.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "yes":
			return true, nil
		case "no":
			return false, nil
		}
		fmt.Fprintln(c.out, "Please answer 'yes' or 'no'")
	}
}
