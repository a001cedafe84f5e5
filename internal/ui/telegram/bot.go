package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sspacecoding/unfluencer/internal/core/domain"
	"github.com/sspacecoding/unfluencer/internal/core/ports"
)

// TelegramUI serves the operator approval flow over Telegram inline
// keyboards, as an alternative to the console.
type TelegramUI struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	mu      sync.Mutex
	pending map[int]chan string
}

func NewTelegramUI(token string, chatIDStr string) (*TelegramUI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat id: %v", err)
	}

	ui := &TelegramUI{
		bot:     bot,
		chatID:  chatID,
		pending: make(map[int]chan string),
	}

	go ui.listen()
	return ui, nil
}

var _ ports.Interaction = (*TelegramUI)(nil)

func (ui *TelegramUI) listen() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := ui.bot.GetUpdatesChan(u)

	for update := range updates {
		if update.CallbackQuery == nil {
			continue
		}
		callback := update.CallbackQuery
		msgID := callback.Message.MessageID

		ui.mu.Lock()
		ch, ok := ui.pending[msgID]
		if ok {
			delete(ui.pending, msgID)
			ch <- callback.Data

			ui.bot.Request(tgbotapi.NewCallback(callback.ID, "Choice received"))
			edit := tgbotapi.NewEditMessageReplyMarkup(ui.chatID, msgID,
				tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}})
			ui.bot.Send(edit)
		}
		ui.mu.Unlock()
	}
}

// ask sends a message with an inline keyboard and blocks until the operator
// taps a button or the context is cancelled.
func (ui *TelegramUI) ask(ctx context.Context, text string, keyboard tgbotapi.InlineKeyboardMarkup) (string, error) {
	msg := tgbotapi.NewMessage(ui.chatID, escapeMarkdown(text))
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboard

	sentMsg, err := ui.bot.Send(msg)
	if err != nil {
		return "", err
	}

	respCh := make(chan string, 1)
	ui.mu.Lock()
	ui.pending[sentMsg.MessageID] = respCh
	ui.mu.Unlock()

	select {
	case data := <-respCh:
		return data, nil
	case <-ctx.Done():
		ui.mu.Lock()
		delete(ui.pending, sentMsg.MessageID)
		ui.mu.Unlock()
		return "", ctx.Err()
	}
}

func (ui *TelegramUI) ChooseMode(ctx context.Context) (ports.Mode, error) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💬 Reply to a comment", "1"),
			tgbotapi.NewInlineKeyboardButtonData("📝 Comment on the post", "2"),
		),
	)
	data, err := ui.ask(ctx, "Choose comment mode:", keyboard)
	if err != nil {
		return 0, err
	}
	if data == "2" {
		return ports.ModeCommentOnPost, nil
	}
	return ports.ModeReplyToComment, nil
}

func (ui *TelegramUI) ChooseComment(ctx context.Context, comments []domain.Comment) (int, error) {
	var b strings.Builder
	b.WriteString("Available comments:\n")
	for i, cm := range comments {
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, cm.User.Username, cm.Text)
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	row := tgbotapi.NewInlineKeyboardRow()
	for i := range comments {
		label := strconv.Itoa(i + 1)
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, label))
		if len(row) == 5 {
			rows = append(rows, row)
			row = tgbotapi.NewInlineKeyboardRow()
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", "0"),
	))

	data, err := ui.ask(ctx, b.String(), tgbotapi.NewInlineKeyboardMarkup(rows...))
	if err != nil {
		return -1, err
	}
	n, err := strconv.Atoi(data)
	if err != nil || n < 1 || n > len(comments) {
		return -1, nil
	}
	return n - 1, nil
}

func (ui *TelegramUI) Confirm(ctx context.Context, reply string) (bool, error) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Approve", "yes"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Reject", "no"),
		),
	)
	data, err := ui.ask(ctx, "Generated reply:\n\n"+reply, keyboard)
	if err != nil {
		return false, err
	}
	return data == "yes", nil
}

// escapeMarkdown avoids Telegram markdown parse errors in generated text.
func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"`", "\\`",
	)
	return replacer.Replace(text)
}
