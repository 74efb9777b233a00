package telegram

import (
	"fmt"
	"strings"

	"github.com/covergram/covergram/internal/consts"
	"github.com/covergram/covergram/internal/logger"
	"github.com/covergram/covergram/internal/session"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleMessage(message *tgbotapi.Message) error {
	if message.From == nil {
		return nil
	}

	switch {
	case len(message.Photo) > 0:
		return b.handlePhotoMessage(message)
	case message.Video != nil:
		return b.handleVideoMessage(message)
	case message.Text != "":
		return b.handleTextMessage(message)
	default:
		logger.Debug("Ignoring message without photo, video or text", map[string]interface{}{
			"chat_id": message.Chat.ID,
		})
		return nil
	}
}

func (b *Bot) handleTextMessage(message *tgbotapi.Message) error {
	uid := message.From.ID

	// A pending name prompt wins over command parsing: the text is the
	// cover name, taken verbatim
	if entry, ok := b.sessions.TakeIfTag(uid, session.TagAwaitingCoverName); ok {
		return b.completeCoverNaming(message, entry)
	}

	if strings.HasPrefix(message.Text, "/") {
		return b.handleCommand(message)
	}

	// Ordinary text carries no action
	logger.Debug("Ignoring plain text message", map[string]interface{}{
		"chat_id": message.Chat.ID,
	})
	return nil
}

// completeCoverNaming finishes the "save with name" flow: the text names the
// photo held in the flow-state entry.
func (b *Bot) completeCoverNaming(message *tgbotapi.Message, entry session.Entry) error {
	uid := message.From.ID
	chatID := message.Chat.ID

	name := strings.TrimSpace(message.Text)
	if err := validateCoverName(name); err != nil {
		// Keep the interaction pending so the user can try another name
		b.sessions.Set(uid, entry)
		b.sendResponse(chatID, fmt.Sprintf("⚠️ %v. Please send another name.", err))
		return nil
	}

	if err := b.db.SaveCover(uid, name, entry.PhotoFileID); err != nil {
		return fmt.Errorf("failed to save cover: %w", err)
	}

	b.editMessage(chatID, entry.PromptMessageID, fmt.Sprintf(`💾 Cover "%s" saved.`, name))
	return nil
}

func (b *Bot) handleVideoMessage(message *tgbotapi.Message) error {
	uid := message.From.ID
	chatID := message.Chat.ID

	logger.Debug("Processing video message", map[string]interface{}{
		"chat_id": chatID,
		"file_id": message.Video.FileID,
	})

	if err := b.db.IncrementVideoCount(uid); err != nil {
		return fmt.Errorf("failed to increment video count: %w", err)
	}

	menu := tgbotapi.NewMessage(chatID, "🎬 What should I do with this video?")
	menu.ReplyToMessageID = message.MessageID
	menu.ReplyMarkup = buildVideoActionsKeyboard()
	if _, err := b.rateLimitedSend(chatID, menu); err != nil {
		return fmt.Errorf("failed to send video menu: %w", err)
	}

	return nil
}

func (b *Bot) handlePhotoMessage(message *tgbotapi.Message) error {
	uid := message.From.ID
	chatID := message.Chat.ID

	// A photo sent while a cover change is pending completes that change;
	// TakeIfTag consumes the entry so a second photo falls through to the
	// generic menu
	if entry, ok := b.sessions.TakeIfTag(uid, session.TagAwaitingCoverPhoto); ok {
		return b.completeCoverChange(message, entry)
	}

	menu := tgbotapi.NewMessage(chatID, "🖼 What should I do with this image?")
	menu.ReplyToMessageID = message.MessageID
	menu.ReplyMarkup = buildPhotoActionsKeyboard(b.imageHost != nil)
	if _, err := b.rateLimitedSend(chatID, menu); err != nil {
		return fmt.Errorf("failed to send photo menu: %w", err)
	}

	return nil
}

// completeCoverChange re-sends the remembered video with the just-received
// photo attached as its cover.
func (b *Bot) completeCoverChange(message *tgbotapi.Message, entry session.Entry) error {
	uid := message.From.ID
	chatID := message.Chat.ID

	logger.Debug("Completing cover change", map[string]interface{}{
		"chat_id":  chatID,
		"video_id": entry.VideoFileID,
	})

	if err := b.db.IncrementCoverCount(uid); err != nil {
		return fmt.Errorf("failed to increment cover count: %w", err)
	}

	// Tidy up the conversation: the uploaded photo and the prompt are
	// replaced by the re-covered video
	b.deleteMessage(chatID, message.MessageID)
	b.deleteMessage(chatID, entry.PromptMessageID)

	noticeID := b.sendResponseAndGetMessageID(chatID, consts.WorkingNotice)

	photo := largestPhoto(message.Photo)
	coverData, err := b.downloadFile(photo.FileID)
	if err != nil {
		return fmt.Errorf("failed to download cover photo: %w", err)
	}

	if err := b.sendVideoWithCover(chatID, entry.VideoFileID, entry.Caption, coverData); err != nil {
		return err
	}

	if noticeID != 0 {
		b.deleteMessage(chatID, noticeID)
	}

	return nil
}

// sendVideoWithCover issues the video to the chat with the given image bytes
// attached as its preview.
func (b *Bot) sendVideoWithCover(chatID int64, videoFileID, caption string, coverData []byte) error {
	video := tgbotapi.NewVideo(chatID, tgbotapi.FileID(videoFileID))
	video.Thumb = tgbotapi.FileBytes{Name: "cover.jpg", Bytes: coverData}
	video.Caption = caption
	if _, err := b.rateLimitedSend(chatID, video); err != nil {
		return fmt.Errorf("failed to send re-covered video: %w", err)
	}
	return nil
}

// validateCoverName rejects names that cannot be carried inside callback
// data.
func validateCoverName(name string) error {
	if name == "" {
		return fmt.Errorf("cover name must not be empty")
	}
	if len(name) > consts.MaxCoverNameLen {
		return fmt.Errorf("cover name must be at most %d characters", consts.MaxCoverNameLen)
	}
	if strings.ContainsAny(name, "\n\r") {
		return fmt.Errorf("cover name must be a single line")
	}
	return nil
}
