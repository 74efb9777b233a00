package telegram

import (
	"fmt"

	"github.com/covergram/covergram/internal/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// callbackAnswerer guarantees that one button press is acknowledged exactly
// once. Branches answer with a toast or an alert; if none of them did, the
// router's deferred ensureAnswered sends the empty acknowledgement so the
// client's loading indicator always clears.
type callbackAnswerer struct {
	bot      *Bot
	callback *tgbotapi.CallbackQuery
	answered bool
}

func newCallbackAnswerer(bot *Bot, callback *tgbotapi.CallbackQuery) *callbackAnswerer {
	return &callbackAnswerer{bot: bot, callback: callback}
}

// Answer acknowledges the press with an optional toast text.
func (a *callbackAnswerer) Answer(text string) {
	a.send(tgbotapi.NewCallback(a.callback.ID, text))
}

// Alert acknowledges the press with a modal alert.
func (a *callbackAnswerer) Alert(text string) {
	a.send(tgbotapi.NewCallbackWithAlert(a.callback.ID, text))
}

func (a *callbackAnswerer) ensureAnswered() {
	if !a.answered {
		a.Answer("")
	}
}

func (a *callbackAnswerer) send(cfg tgbotapi.CallbackConfig) {
	if a.answered {
		return
	}
	a.answered = true

	chatID := int64(0)
	if a.callback.Message != nil {
		chatID = a.callback.Message.Chat.ID
	}
	if _, err := a.bot.rateLimitedRequest(chatID, cfg); err != nil {
		logger.Error("Failed to answer callback query", map[string]interface{}{
			"error":       err.Error(),
			"callback_id": a.callback.ID,
		})
	}
}

func (b *Bot) handleCallbackQuery(callback *tgbotapi.CallbackQuery) error {
	logger.Debug("Handling callback query", map[string]interface{}{
		"callback_data": callback.Data,
		"callback_id":   callback.ID,
	})

	// Presses on messages the bot can no longer see (too old, inline mode)
	// cannot be acted on
	if callback.Message == nil {
		ack := newCallbackAnswerer(b, callback)
		ack.Answer("")
		return nil
	}

	// Webhook redeliveries must not double-apply mutations
	if b.isDuplicateCallback(callback.ID) {
		logger.Debug("Duplicate callback detected, skipping", map[string]interface{}{
			"callback_id": callback.ID,
		})
		ack := newCallbackAnswerer(b, callback)
		ack.Answer("")
		return nil
	}
	b.markCallbackProcessed(callback.ID)

	action := parseAction(callback.Data)
	b.metrics.RecordCallbackAction(action.Kind.String())

	ack := newCallbackAnswerer(b, callback)
	defer ack.ensureAnswered()

	switch action.Kind {
	// Cover management: operates on the store alone, no replied-to
	// message required
	case ActionSendCover:
		return b.handleSendCover(ack, callback, action.CoverName)
	case ActionConfirmDelete:
		return b.handleConfirmDelete(ack, callback, action.CoverName)
	case ActionDeleteCover:
		return b.handleDeleteCover(ack, callback, action.CoverName)
	case ActionCancel:
		return b.handleCancel(ack, callback)

	// Image flow: the pressed message must be a reply to a photo
	case ActionPasteImage:
		return b.handlePasteImage(ack, callback)
	case ActionSaveCover:
		return b.handleSaveCoverMenu(ack, callback)
	case ActionSaveDefault:
		return b.handleSaveDefault(ack, callback)
	case ActionSaveWithName:
		return b.handleSaveWithName(ack, callback)

	// Video flow: the pressed message must be a reply to a video
	case ActionExtractMetadata:
		return b.handleExtractMetadata(ack, callback)
	case ActionExtractMedia:
		return b.handleExtractMedia(ack, callback)
	case ActionSetCover:
		return b.handleSetCover(ack, callback)
	case ActionUseSavedCover:
		return b.handleUseSavedCover(ack, callback)
	case ActionApplyCover:
		return b.handleApplyCover(ack, callback, action.CoverName)

	default:
		logger.Warn("Unknown callback action", map[string]interface{}{
			"callback_data": callback.Data,
		})
		ack.Answer("")
		return nil
	}
}

// repliedPhoto returns the highest-resolution photo of the message the
// pressed menu replies to.
func repliedPhoto(callback *tgbotapi.CallbackQuery) (tgbotapi.PhotoSize, error) {
	reply := callback.Message.ReplyToMessage
	if reply == nil || len(reply.Photo) == 0 {
		return tgbotapi.PhotoSize{}, fmt.Errorf("original photo not found")
	}
	return largestPhoto(reply.Photo), nil
}

// repliedVideo returns the video of the message the pressed menu replies to.
func repliedVideo(callback *tgbotapi.CallbackQuery) (*tgbotapi.Video, error) {
	reply := callback.Message.ReplyToMessage
	if reply == nil || reply.Video == nil {
		return nil, fmt.Errorf("original video not found")
	}
	return reply.Video, nil
}

// largestPhoto picks the highest-resolution size variant; the platform
// orders them smallest first.
func largestPhoto(photos []tgbotapi.PhotoSize) tgbotapi.PhotoSize {
	return photos[len(photos)-1]
}
