package telegram

import (
	"fmt"

	"github.com/covergram/covergram/internal/consts"
	"github.com/covergram/covergram/internal/database"
	"github.com/covergram/covergram/internal/session"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Video flow callbacks. Each one requires the pressed menu to be a reply to
// a video-bearing message.

// handleExtractMetadata displays the video's intrinsic attributes. Nothing
// is mutated.
func (b *Bot) handleExtractMetadata(ack *callbackAnswerer, callback *tgbotapi.CallbackQuery) error {
	chatID := callback.Message.Chat.ID

	video, err := repliedVideo(callback)
	if err != nil {
		ack.Alert("⚠️ " + err.Error())
		return nil
	}

	b.sendResponse(chatID, formatVideoMetadata(video))
	ack.Answer("")
	return nil
}

// handleExtractMedia relays the video's embedded preview as a photo. The
// preview's file id is not sendable as a photo by reference, so the raw
// bytes are fetched through the file-download indirection first.
func (b *Bot) handleExtractMedia(ack *callbackAnswerer, callback *tgbotapi.CallbackQuery) error {
	chatID := callback.Message.Chat.ID

	video, err := repliedVideo(callback)
	if err != nil {
		ack.Alert("⚠️ " + err.Error())
		return nil
	}

	if video.Thumbnail == nil {
		b.sendResponse(chatID, consts.NothingToExtract)
		ack.Answer("")
		return nil
	}

	data, err := b.downloadFile(video.Thumbnail.FileID)
	if err != nil {
		return fmt.Errorf("failed to download video preview: %w", err)
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "cover.jpg", Bytes: data})
	photo.ReplyToMessageID = callback.Message.ReplyToMessage.MessageID
	if _, err := b.rateLimitedSend(chatID, photo); err != nil {
		return fmt.Errorf("failed to send extracted preview: %w", err)
	}

	ack.Answer("")
	return nil
}

// handleSetCover starts the "send me a new cover image" flow; the message
// handler's photo branch completes it.
func (b *Bot) handleSetCover(ack *callbackAnswerer, callback *tgbotapi.CallbackQuery) error {
	uid := callback.From.ID
	chatID := callback.Message.Chat.ID

	video, err := repliedVideo(callback)
	if err != nil {
		ack.Alert("⚠️ " + err.Error())
		return nil
	}

	b.sessions.Set(uid, session.Entry{
		Tag:             session.TagAwaitingCoverPhoto,
		VideoFileID:     video.FileID,
		Caption:         callback.Message.ReplyToMessage.Caption,
		PromptMessageID: callback.Message.MessageID,
	})

	b.editMessage(chatID, callback.Message.MessageID, "🆕 Send me the new cover image.")
	ack.Answer("")
	return nil
}

// handleUseSavedCover branches on how many covers the user has: none is an
// error, one is applied immediately, several become a selection menu.
func (b *Bot) handleUseSavedCover(ack *callbackAnswerer, callback *tgbotapi.CallbackQuery) error {
	uid := callback.From.ID
	chatID := callback.Message.Chat.ID

	if _, err := repliedVideo(callback); err != nil {
		ack.Alert("⚠️ " + err.Error())
		return nil
	}

	covers, err := b.db.GetCovers(uid)
	if err != nil {
		return fmt.Errorf("failed to load covers: %w", err)
	}

	switch len(covers) {
	case 0:
		ack.Alert("⚠️ You have no saved covers yet.")
		return nil
	case 1:
		return b.applySavedCover(ack, callback, &covers[0])
	default:
		b.editMessageWithKeyboard(chatID, callback.Message.MessageID,
			"📂 Pick a cover to apply:", buildCoverSelectionKeyboard(covers))
		ack.Answer("")
		return nil
	}
}

// handleApplyCover applies the named cover chosen from the selection menu.
// The cover may have been deleted since the menu was rendered.
func (b *Bot) handleApplyCover(ack *callbackAnswerer, callback *tgbotapi.CallbackQuery, name string) error {
	uid := callback.From.ID

	cover, err := b.db.GetCover(uid, name)
	if err != nil {
		return fmt.Errorf("failed to load cover: %w", err)
	}
	if cover == nil {
		ack.Alert(consts.CoverNotFound)
		return nil
	}

	return b.applySavedCover(ack, callback, cover)
}

// applySavedCover re-sends the replied-to video with the stored cover
// attached, then counts the change.
func (b *Bot) applySavedCover(ack *callbackAnswerer, callback *tgbotapi.CallbackQuery, cover *database.Cover) error {
	uid := callback.From.ID
	chatID := callback.Message.Chat.ID

	video, err := repliedVideo(callback)
	if err != nil {
		ack.Alert("⚠️ " + err.Error())
		return nil
	}

	coverData, err := b.downloadFile(cover.FileID)
	if err != nil {
		return fmt.Errorf("failed to download cover: %w", err)
	}

	if err := b.sendVideoWithCover(chatID, video.FileID, callback.Message.ReplyToMessage.Caption, coverData); err != nil {
		return err
	}

	if err := b.db.IncrementCoverCount(uid); err != nil {
		return fmt.Errorf("failed to increment cover count: %w", err)
	}

	b.editMessage(chatID, callback.Message.MessageID, fmt.Sprintf(`✅ Cover "%s" applied.`, cover.Name))
	ack.Answer("Cover applied")
	return nil
}
