// Package bot drives the Telegram session: long-polls for updates, routes
// commands and inline-button callbacks, and replies with formatted
// reports. Every per-request error is caught here and converted to a
// user-visible message; nothing propagates far enough to crash the
// process.
package bot

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/etherscope-bot/pkg/analyzer"
	"github.com/etherscope-bot/pkg/config"
)

const pollTimeoutSeconds = 30

type Bot struct {
	api *API
	svc *analyzer.Service
	cfg *config.Config

	// Users who pressed the Analyze button and owe us an address next.
	mu       sync.Mutex
	awaiting map[int64]bool
}

func New(cfg *config.Config, svc *analyzer.Service) *Bot {
	return &Bot{
		api:      NewAPI(cfg.TelegramBotToken),
		svc:      svc,
		cfg:      cfg,
		awaiting: make(map[int64]bool),
	}
}

// Run long-polls until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	me, err := b.api.GetMe(ctx)
	if err != nil {
		return err
	}
	log.Info().Str("username", me.Username).Msg("🤖 bot connected, polling for updates")

	var offset int64
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		updates, err := b.api.GetUpdates(ctx, offset, pollTimeoutSeconds)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warn().Err(err).Msg("getUpdates failed, backing off")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(3 * time.Second):
			}
			continue
		}
		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			b.handleUpdate(ctx, u)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, u Update) {
	switch {
	case u.CallbackQuery != nil:
		b.handleCallback(ctx, u.CallbackQuery)
	case u.Message != nil && u.Message.Text != "":
		b.handleMessage(ctx, u.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *Message) {
	userID := int64(0)
	if msg.From != nil {
		userID = msg.From.ID
	}
	text := strings.TrimSpace(msg.Text)
	log.Info().Int64("user", userID).Int64("chat", msg.Chat.ID).Str("text", truncate(text, 50)).Msg("message received")

	cmd, args := parseCommand(text)
	switch cmd {
	case "/start":
		b.handleStart(ctx, msg.Chat.ID)
	case "/health":
		b.handleHealth(ctx, msg.Chat.ID)
	case "/analyze":
		if args == "" {
			b.reply(ctx, msg.Chat.ID,
				"❌ <b>Missing wallet address</b>\n\n"+
					"Usage: /analyze <wallet_address> or press the button below")
			return
		}
		b.performAnalysis(ctx, msg.Chat.ID, userID, args)
	default:
		// Plain text: either the address a user owes us after pressing the
		// Analyze button, or noise.
		b.mu.Lock()
		waiting := b.awaiting[userID]
		delete(b.awaiting, userID)
		b.mu.Unlock()

		if waiting {
			b.performAnalysis(ctx, msg.Chat.ID, userID, text)
		} else {
			b.reply(ctx, msg.Chat.ID, "Please use the buttons above or commands like /analyze <address>.")
		}
	}
}

func (b *Bot) handleCallback(ctx context.Context, q *CallbackQuery) {
	// Answer early to clear the loading spinner; an expired query is fine.
	if err := b.api.AnswerCallbackQuery(ctx, q.ID); err != nil {
		log.Warn().Err(err).Msg("could not answer callback query, it may be too old")
	}
	if q.Message == nil {
		return
	}
	userID := int64(0)
	if q.From != nil {
		userID = q.From.ID
	}
	log.Info().Int64("user", userID).Str("data", q.Data).Msg("callback received")

	switch q.Data {
	case "analyze":
		b.mu.Lock()
		b.awaiting[userID] = true
		b.mu.Unlock()
		b.reply(ctx, q.Message.Chat.ID, "Please send the <b>wallet address</b> you want to analyze.")
	case "health":
		b.handleHealth(ctx, q.Message.Chat.ID)
	}
}

func (b *Bot) handleStart(ctx context.Context, chatID int64) {
	markup := &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{
		{{Text: "🔍 Analyze Wallet", CallbackData: "analyze"}},
		{{Text: "📈 Health Check", CallbackData: "health"}},
	}}
	if err := b.api.SendHTML(ctx, chatID, FormatWelcome(), markup); err != nil {
		log.Error().Err(err).Int64("chat", chatID).Msg("failed to send welcome message")
	}
}

func (b *Bot) handleHealth(ctx context.Context, chatID int64) {
	b.reply(ctx, chatID, FormatHealth(b.cfg, b.svc.CacheStats(), time.Now().UTC()))
}

func (b *Bot) performAnalysis(ctx context.Context, chatID, userID int64, raw string) {
	_ = b.api.SendChatAction(ctx, chatID, "typing")

	analysis, cached, err := b.svc.Analyze(ctx, raw)
	if err != nil {
		log.Error().Err(err).Int64("user", userID).Str("address", raw).Msg("analysis failed")
		b.reply(ctx, chatID, FormatError(err))
		return
	}

	for _, chunk := range SplitMessage(FormatAnalysis(analysis), config.MaxMessageLength) {
		if err := b.api.SendHTML(ctx, chatID, chunk, nil); err != nil {
			log.Error().Err(err).Int64("chat", chatID).Msg("failed to send analysis")
			return
		}
	}
	log.Info().Int64("user", userID).Str("address", analysis.WalletAddress).Bool("cached", cached).Msg("analysis sent")
}

func (b *Bot) reply(ctx context.Context, chatID int64, html string) {
	if err := b.api.SendHTML(ctx, chatID, html, nil); err != nil {
		log.Error().Err(err).Int64("chat", chatID).Msg("failed to send reply")
	}
}

// parseCommand splits "/cmd@BotName args" into its command and argument.
// Non-command text returns ("", text).
func parseCommand(text string) (cmd, args string) {
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	parts := strings.SplitN(text, " ", 2)
	cmd = parts[0]
	if at := strings.Index(cmd, "@"); at > 0 {
		cmd = cmd[:at]
	}
	if len(parts) == 2 {
		args = strings.TrimSpace(parts[1])
	}
	return cmd, args
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
