package telegram

import (
	"fmt"
	"strings"

	"github.com/covergram/covergram/internal/consts"
	"github.com/covergram/covergram/internal/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Command router and command handlers

func (b *Bot) handleCommand(message *tgbotapi.Message) error {
	command, args := parseCommand(message.Text)

	switch command {
	case consts.CommandStart, consts.CommandHelp:
		return b.handleStartCommand(message)
	case consts.CommandSaveCover:
		return b.handleSaveCoverCommand(message, args)
	case consts.CommandCovers:
		return b.handleCoversCommand(message)
	case consts.CommandStats:
		return b.handleStatsCommand(message)
	default:
		// Unknown commands are ordinary text
		logger.Debug("Ignoring unknown command", map[string]interface{}{
			"command": command,
			"chat_id": message.Chat.ID,
		})
		return nil
	}
}

// parseCommand tokenizes a message on whitespace. The first token is the
// command name, without the leading slash or a trailing @botname suffix.
func parseCommand(text string) (string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", nil
	}

	command := strings.TrimPrefix(fields[0], "/")
	if at := strings.Index(command, "@"); at != -1 {
		command = command[:at]
	}

	return command, fields[1:]
}

func (b *Bot) handleStartCommand(message *tgbotapi.Message) error {
	// Registration is idempotent; recording the user on every /start is
	// a set-membership fact, not a counter
	if err := b.db.RegisterUser(message.From.ID, message.From.UserName); err != nil {
		logger.Error("Failed to register user", map[string]interface{}{
			"error": err.Error(),
			"uid":   message.From.ID,
		})
	}

	welcomeMsg := `🖼 <b>Welcome to Covergram!</b>

I change the preview image ("cover") shown for your videos.

<b>🚀 How it works:</b>
1. Send me a video → pick an action from the menu
2. Send me an image → get a link or save it as a cover
3. Reply to a photo with /savecover [name] to store it

<b>📋 Commands:</b>
• /savecover [name] - Save the replied-to photo as a cover
• /covers - List your saved covers
• /stats - Your usage numbers
• /help - This message

<i>Saved covers can be applied to any video you send later.</i>`

	msg := tgbotapi.NewMessage(message.Chat.ID, welcomeMsg)
	msg.ParseMode = consts.ParseModeHTML
	if _, err := b.rateLimitedSend(message.Chat.ID, msg); err != nil {
		return fmt.Errorf("failed to send start message: %w", err)
	}
	return nil
}

func (b *Bot) handleSaveCoverCommand(message *tgbotapi.Message, args []string) error {
	chatID := message.Chat.ID

	reply := message.ReplyToMessage
	if reply == nil || len(reply.Photo) == 0 {
		b.sendResponse(chatID, consts.SaveCoverUsage)
		return nil
	}

	name := consts.DefaultCoverName
	if len(args) > 0 {
		name = args[0]
		if err := validateCoverName(name); err != nil {
			b.sendResponse(chatID, fmt.Sprintf("⚠️ %v", err))
			return nil
		}
	}

	photo := largestPhoto(reply.Photo)
	if err := b.db.SaveCover(message.From.ID, name, photo.FileID); err != nil {
		return fmt.Errorf("failed to save cover: %w", err)
	}

	b.sendResponse(chatID, fmt.Sprintf(`💾 Cover "%s" saved.`, name))
	return nil
}

func (b *Bot) handleCoversCommand(message *tgbotapi.Message) error {
	chatID := message.Chat.ID

	covers, err := b.db.GetCovers(message.From.ID)
	if err != nil {
		return fmt.Errorf("failed to load covers: %w", err)
	}

	if len(covers) == 0 {
		b.sendResponse(chatID, consts.NoCoversSaved)
		return nil
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("📂 You have %d saved cover(s):", len(covers)))
	msg.ReplyMarkup = buildCoverListKeyboard(covers)
	if _, err := b.rateLimitedSend(chatID, msg); err != nil {
		return fmt.Errorf("failed to send cover list: %w", err)
	}

	return nil
}

func (b *Bot) handleStatsCommand(message *tgbotapi.Message) error {
	chatID := message.Chat.ID

	usage, err := b.db.GetUserUsage(message.From.ID)
	if err != nil {
		return fmt.Errorf("failed to load usage: %w", err)
	}

	totalUsers, err := b.db.CountUsers()
	if err != nil {
		logger.Error("Failed to count users", map[string]interface{}{
			"error": err.Error(),
		})
		totalUsers = 0
	}

	statsMsg := fmt.Sprintf(`📊 <b>Your stats</b>

• Videos processed: <b>%d</b>
• Covers changed: <b>%d</b>

👥 Covergram users so far: %d`, usage.VideoCnt, usage.CoverCnt, totalUsers)

	msg := tgbotapi.NewMessage(chatID, statsMsg)
	msg.ParseMode = consts.ParseModeHTML
	if _, err := b.rateLimitedSend(chatID, msg); err != nil {
		return fmt.Errorf("failed to send stats: %w", err)
	}
	return nil
}
