package telegram

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every routed press must produce exactly one answerCallbackQuery, whatever
// branch it takes.

func TestHandleCallbackQuery_CancelAnswersOnce(t *testing.T) {
	stub := newAPIStub(t)
	b := newTestBot(t, stub)

	err := b.handleCallbackQuery(testCallback("cb-cancel", "cancel", 500))
	require.NoError(t, err)

	assert.Equal(t, 1, stub.count("answerCallbackQuery"))
	assert.Equal(t, 1, stub.count("editMessageText"))
}

func TestHandleCallbackQuery_UnknownAnswersOnce(t *testing.T) {
	stub := newAPIStub(t)
	b := newTestBot(t, stub)

	err := b.handleCallbackQuery(testCallback("cb-unknown", "no_such_action", 501))
	require.NoError(t, err)

	assert.Equal(t, 1, stub.count("answerCallbackQuery"))
	assert.Equal(t, 0, stub.count("editMessageText"), "unknown action must not mutate the chat")
}

func TestHandleCallbackQuery_NilMessageAnsweredOnly(t *testing.T) {
	stub := newAPIStub(t)
	b := newTestBot(t, stub)

	callback := &tgbotapi.CallbackQuery{
		ID:   "cb-orphan",
		From: &tgbotapi.User{ID: 42},
		Data: "cancel",
	}

	err := b.handleCallbackQuery(callback)
	require.NoError(t, err)

	assert.Equal(t, 1, stub.count("answerCallbackQuery"))
	assert.Equal(t, 0, stub.count("editMessageText"))
}

// A redelivered press is acknowledged but its mutation must not run twice.
func TestHandleCallbackQuery_DuplicateSkipped(t *testing.T) {
	stub := newAPIStub(t)
	b := newTestBot(t, stub)

	require.NoError(t, b.handleCallbackQuery(testCallback("cb-dup", "cancel", 502)))
	require.NoError(t, b.handleCallbackQuery(testCallback("cb-dup", "cancel", 502)))

	assert.Equal(t, 2, stub.count("answerCallbackQuery"), "both deliveries acknowledged")
	assert.Equal(t, 1, stub.count("editMessageText"), "mutation applied once")
}

// Video-family presses on a menu that no longer replies to a video are
// rejected with an alert, without any sends or edits.
func TestHandleCallbackQuery_VideoActionWithoutReply(t *testing.T) {
	for _, data := range []string{"extract_metadata", "extract_media", "set_cover", "use_saved_cover"} {
		t.Run(data, func(t *testing.T) {
			stub := newAPIStub(t)
			b := newTestBot(t, stub)

			err := b.handleCallbackQuery(testCallback("cb-"+data, data, 503))
			require.NoError(t, err)

			assert.Equal(t, 1, stub.count("answerCallbackQuery"))
			assert.Equal(t, 0, stub.count("editMessageText"))
			assert.Equal(t, 0, stub.count("sendMessage"))
		})
	}
}

// Image-family presses require the menu to reply to a photo.
func TestHandleCallbackQuery_PasteImageWithoutReply(t *testing.T) {
	stub := newAPIStub(t)
	b := newTestBot(t, stub)

	err := b.handleCallbackQuery(testCallback("cb-paste", "paste_image", 504))
	require.NoError(t, err)

	assert.Equal(t, 1, stub.count("answerCallbackQuery"))
	assert.Equal(t, 0, stub.count("editMessageText"))
}

func TestHandleCallbackQuery_SaveMenuRendersChoices(t *testing.T) {
	stub := newAPIStub(t)
	b := newTestBot(t, stub)

	callback := testCallback("cb-save", "save_cover", 505)
	callback.Message.ReplyToMessage = &tgbotapi.Message{
		MessageID: 9,
		Chat:      &tgbotapi.Chat{ID: 505},
		Photo:     []tgbotapi.PhotoSize{{FileID: "photo-small"}, {FileID: "photo-big"}},
	}

	err := b.handleCallbackQuery(callback)
	require.NoError(t, err)

	assert.Equal(t, 1, stub.count("answerCallbackQuery"))
	assert.Equal(t, 1, stub.count("editMessageText"), "menu message replaced with save choices")
}

// Confirm-delete only re-renders the menu; the row is untouched until the
// second press.
func TestHandleCallbackQuery_ConfirmDeleteIsReadOnly(t *testing.T) {
	stub := newAPIStub(t)
	b := newTestBot(t, stub)

	err := b.handleCallbackQuery(testCallback("cb-confirm", "confirm_delete_default", 506))
	require.NoError(t, err)

	assert.Equal(t, 1, stub.count("answerCallbackQuery"))
	assert.Equal(t, 1, stub.count("editMessageText"))
}

func TestRepliedPhoto(t *testing.T) {
	callback := testCallback("cb", "paste_image", 1)

	_, err := repliedPhoto(callback)
	assert.Error(t, err, "no reply at all")

	callback.Message.ReplyToMessage = &tgbotapi.Message{MessageID: 2, Chat: &tgbotapi.Chat{ID: 1}}
	_, err = repliedPhoto(callback)
	assert.Error(t, err, "reply without photo")

	callback.Message.ReplyToMessage.Photo = []tgbotapi.PhotoSize{
		{FileID: "small", Width: 90},
		{FileID: "large", Width: 1280},
	}
	photo, err := repliedPhoto(callback)
	require.NoError(t, err)
	assert.Equal(t, "large", photo.FileID, "largest variant wins")
}

func TestRepliedVideo(t *testing.T) {
	callback := testCallback("cb", "set_cover", 1)

	_, err := repliedVideo(callback)
	assert.Error(t, err)

	callback.Message.ReplyToMessage = &tgbotapi.Message{
		MessageID: 2,
		Chat:      &tgbotapi.Chat{ID: 1},
		Video:     &tgbotapi.Video{FileID: "vid-1"},
	}
	video, err := repliedVideo(callback)
	require.NoError(t, err)
	assert.Equal(t, "vid-1", video.FileID)
}
