package telegram

import (
	"fmt"
	"time"

	"github.com/covergram/covergram/internal/consts"
	"github.com/covergram/covergram/internal/logger"
	"github.com/covergram/covergram/internal/session"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Image flow callbacks. Each one requires the pressed menu to be a reply to
// a photo-bearing message.

// handlePasteImage fetches the photo bytes and relays them to the external
// image host. The client tries the primary host, then the fallback; when
// both fail the user is told and nothing is retried.
func (b *Bot) handlePasteImage(ack *callbackAnswerer, callback *tgbotapi.CallbackQuery) error {
	chatID := callback.Message.Chat.ID

	photo, err := repliedPhoto(callback)
	if err != nil {
		ack.Alert("⚠️ " + err.Error())
		return nil
	}

	if b.imageHost == nil {
		ack.Alert("⚠️ Image hosting is not configured")
		return nil
	}

	data, err := b.downloadFile(photo.FileID)
	if err != nil {
		return fmt.Errorf("failed to download photo: %w", err)
	}

	filename := fmt.Sprintf("covergram_%d.jpg", time.Now().UnixNano())
	url, err := b.imageHost.Upload(filename, data)
	if err != nil {
		logger.Error("Image re-hosting failed", map[string]interface{}{
			"error":   err.Error(),
			"chat_id": chatID,
		})
		b.editMessage(chatID, callback.Message.MessageID, "❌ Could not host the image, please try again later.")
		ack.Answer("")
		return nil
	}

	b.editMessage(chatID, callback.Message.MessageID, fmt.Sprintf(`🔗 Here is your link:

%s`, url))
	ack.Answer("")
	return nil
}

// handleSaveCoverMenu offers the choice between the default slot and a
// named slot.
func (b *Bot) handleSaveCoverMenu(ack *callbackAnswerer, callback *tgbotapi.CallbackQuery) error {
	chatID := callback.Message.Chat.ID

	if _, err := repliedPhoto(callback); err != nil {
		ack.Alert("⚠️ " + err.Error())
		return nil
	}

	b.editMessageWithKeyboard(chatID, callback.Message.MessageID,
		"💾 How should I save this cover?", buildSaveChoiceKeyboard())

	ack.Answer("")
	return nil
}

// handleSaveDefault writes the photo straight into the reserved default
// slot.
func (b *Bot) handleSaveDefault(ack *callbackAnswerer, callback *tgbotapi.CallbackQuery) error {
	uid := callback.From.ID
	chatID := callback.Message.Chat.ID

	photo, err := repliedPhoto(callback)
	if err != nil {
		ack.Alert("⚠️ " + err.Error())
		return nil
	}

	if err := b.db.SaveCover(uid, consts.DefaultCoverName, photo.FileID); err != nil {
		return fmt.Errorf("failed to save default cover: %w", err)
	}

	b.editMessage(chatID, callback.Message.MessageID,
		fmt.Sprintf(`💾 Saved as your "%s" cover.`, consts.DefaultCoverName))
	ack.Answer("Saved")
	return nil
}

// handleSaveWithName asks for a name; the message handler completes the
// save when the name arrives.
func (b *Bot) handleSaveWithName(ack *callbackAnswerer, callback *tgbotapi.CallbackQuery) error {
	uid := callback.From.ID
	chatID := callback.Message.Chat.ID

	photo, err := repliedPhoto(callback)
	if err != nil {
		ack.Alert("⚠️ " + err.Error())
		return nil
	}

	b.sessions.Set(uid, session.Entry{
		Tag:             session.TagAwaitingCoverName,
		PhotoFileID:     photo.FileID,
		PromptMessageID: callback.Message.MessageID,
	})

	b.editMessage(chatID, callback.Message.MessageID, "✏️ Send me a name for this cover.")
	ack.Answer("")
	return nil
}
