package telegram

import (
	"fmt"

	"github.com/covergram/covergram/internal/consts"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Cover management callbacks. These act on the stored covers alone and do
// not need the pressed message to reply to anything.

// handleSendCover relays the stored cover image back to the chat.
func (b *Bot) handleSendCover(ack *callbackAnswerer, callback *tgbotapi.CallbackQuery, name string) error {
	uid := callback.From.ID
	chatID := callback.Message.Chat.ID

	cover, err := b.db.GetCover(uid, name)
	if err != nil {
		return fmt.Errorf("failed to load cover: %w", err)
	}
	if cover == nil {
		ack.Alert(consts.CoverNotFound)
		return nil
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(cover.FileID))
	photo.Caption = cover.Name
	if _, err := b.rateLimitedSend(chatID, photo); err != nil {
		return fmt.Errorf("failed to send cover photo: %w", err)
	}

	ack.Answer("")
	return nil
}

// handleConfirmDelete swaps the pressed message for a yes/no confirmation.
func (b *Bot) handleConfirmDelete(ack *callbackAnswerer, callback *tgbotapi.CallbackQuery, name string) error {
	chatID := callback.Message.Chat.ID

	b.editMessageWithKeyboard(chatID, callback.Message.MessageID,
		fmt.Sprintf(`🗑 Delete cover "%s"? This cannot be undone.`, name),
		buildDeleteConfirmKeyboard(name))

	ack.Answer("")
	return nil
}

// handleDeleteCover removes the named cover. Deleting a cover that is
// already gone is reported, not treated as a failure.
func (b *Bot) handleDeleteCover(ack *callbackAnswerer, callback *tgbotapi.CallbackQuery, name string) error {
	uid := callback.From.ID
	chatID := callback.Message.Chat.ID

	found, err := b.db.DeleteCover(uid, name)
	if err != nil {
		return fmt.Errorf("failed to delete cover: %w", err)
	}

	if !found {
		b.editMessage(chatID, callback.Message.MessageID, consts.CoverNotFound)
		ack.Answer("")
		return nil
	}

	b.editMessage(chatID, callback.Message.MessageID, fmt.Sprintf(`🗑 Cover "%s" deleted.`, name))
	ack.Answer("Deleted")
	return nil
}

// handleCancel reverts the pressed message to a neutral state.
func (b *Bot) handleCancel(ack *callbackAnswerer, callback *tgbotapi.CallbackQuery) error {
	chatID := callback.Message.Chat.ID

	b.editMessage(chatID, callback.Message.MessageID, "❌ Cancelled.")
	ack.Answer("")
	return nil
}
