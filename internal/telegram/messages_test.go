package telegram

import (
	"strings"
	"testing"

	"github.com/covergram/covergram/internal/session"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessage(chatID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 20,
		From:      &tgbotapi.User{ID: 42, UserName: "tester"},
		Chat:      &tgbotapi.Chat{ID: chatID},
		Text:      text,
	}
}

func TestHandleMessage_NoSenderIgnored(t *testing.T) {
	stub := newAPIStub(t)
	b := newTestBot(t, stub)

	msg := testMessage(600, "/start")
	msg.From = nil

	require.NoError(t, b.handleMessage(msg))
	assert.Equal(t, 0, stub.count("sendMessage"))
}

func TestHandleMessage_PlainTextIgnored(t *testing.T) {
	stub := newAPIStub(t)
	b := newTestBot(t, stub)

	require.NoError(t, b.handleMessage(testMessage(601, "just chatting")))
	assert.Equal(t, 0, stub.count("sendMessage"))
}

func TestHandleMessage_PhotoShowsMenu(t *testing.T) {
	stub := newAPIStub(t)
	b := newTestBot(t, stub)

	msg := testMessage(602, "")
	msg.Photo = []tgbotapi.PhotoSize{{FileID: "photo-1"}}

	require.NoError(t, b.handleMessage(msg))
	assert.Equal(t, 1, stub.count("sendMessage"))
}

// An invalid name keeps the prompt pending so the user can try again.
func TestHandleMessage_PendingNameInvalidRetries(t *testing.T) {
	stub := newAPIStub(t)
	b := newTestBot(t, stub)

	b.sessions.Set(42, session.Entry{
		Tag:             session.TagAwaitingCoverName,
		PhotoFileID:     "photo-1",
		PromptMessageID: 15,
	})

	require.NoError(t, b.handleMessage(testMessage(603, strings.Repeat("x", 100))))

	assert.Equal(t, 1, stub.count("sendMessage"), "user is asked for another name")
	entry, ok := b.sessions.Peek(42)
	require.True(t, ok, "prompt must stay pending after a rejected name")
	assert.Equal(t, session.TagAwaitingCoverName, entry.Tag)
	assert.Equal(t, "photo-1", entry.PhotoFileID)
}

// The name prompt wins over command parsing; even a leading slash is taken
// as the cover name attempt, and the pending entry is consumed exactly once.
func TestHandleMessage_PendingNameConsumed(t *testing.T) {
	b := newTestBot(t, newAPIStub(t))

	b.sessions.Set(42, session.Entry{
		Tag:             session.TagAwaitingCoverName,
		PhotoFileID:     "photo-1",
		PromptMessageID: 15,
	})

	// Store is not configured in this bot, so the save itself fails, but
	// the pending entry must already be consumed by then
	err := b.handleMessage(testMessage(604, "sunset"))
	require.Error(t, err)

	_, ok := b.sessions.Peek(42)
	assert.False(t, ok, "pending entry consumed even when the save fails")
}

// Pressing "save with a name" parks the photo in flow state until the name
// message arrives.
func TestSaveWithNameStartsPrompt(t *testing.T) {
	stub := newAPIStub(t)
	b := newTestBot(t, stub)

	callback := testCallback("cb-name", "save_with_name", 605)
	callback.Message.ReplyToMessage = &tgbotapi.Message{
		MessageID: 9,
		Chat:      &tgbotapi.Chat{ID: 605},
		Photo:     []tgbotapi.PhotoSize{{FileID: "photo-small"}, {FileID: "photo-big"}},
	}

	require.NoError(t, b.handleCallbackQuery(callback))

	entry, ok := b.sessions.Peek(42)
	require.True(t, ok)
	assert.Equal(t, session.TagAwaitingCoverName, entry.Tag)
	assert.Equal(t, "photo-big", entry.PhotoFileID, "largest photo variant remembered")
	assert.Equal(t, 10, entry.PromptMessageID)
	assert.Equal(t, 1, stub.count("answerCallbackQuery"))
}

// Pressing "set cover" on a video menu parks the video until the photo
// arrives.
func TestSetCoverStartsPrompt(t *testing.T) {
	stub := newAPIStub(t)
	b := newTestBot(t, stub)

	callback := testCallback("cb-set", "set_cover", 606)
	callback.Message.ReplyToMessage = &tgbotapi.Message{
		MessageID: 9,
		Chat:      &tgbotapi.Chat{ID: 606},
		Video:     &tgbotapi.Video{FileID: "vid-1"},
		Caption:   "holiday clip",
	}

	require.NoError(t, b.handleCallbackQuery(callback))

	entry, ok := b.sessions.Peek(42)
	require.True(t, ok)
	assert.Equal(t, session.TagAwaitingCoverPhoto, entry.Tag)
	assert.Equal(t, "vid-1", entry.VideoFileID)
	assert.Equal(t, "holiday clip", entry.Caption)
	assert.Equal(t, 1, stub.count("answerCallbackQuery"))
	assert.Equal(t, 1, stub.count("editMessageText"))
}
