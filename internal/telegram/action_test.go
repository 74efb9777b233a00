package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAction_Keywords(t *testing.T) {
	tests := []struct {
		data string
		kind ActionKind
	}{
		{"cancel", ActionCancel},
		{"paste_image", ActionPasteImage},
		{"save_cover", ActionSaveCover},
		{"save_default", ActionSaveDefault},
		{"save_with_name", ActionSaveWithName},
		{"extract_metadata", ActionExtractMetadata},
		{"extract_media", ActionExtractMedia},
		{"set_cover", ActionSetCover},
		{"use_saved_cover", ActionUseSavedCover},
	}

	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			action := parseAction(tt.data)
			assert.Equal(t, tt.kind, action.Kind)
			assert.Empty(t, action.CoverName)
		})
	}
}

func TestParseAction_Parameterized(t *testing.T) {
	tests := []struct {
		data string
		kind ActionKind
		name string
	}{
		{"send_cover_default", ActionSendCover, "default"},
		{"confirm_delete_sunset", ActionConfirmDelete, "sunset"},
		{"delete_cover_sunset", ActionDeleteCover, "sunset"},
		{"apply_cover_my cover", ActionApplyCover, "my cover"},
		// Parameters may themselves contain underscores
		{"send_cover_my_cover", ActionSendCover, "my_cover"},
	}

	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			action := parseAction(tt.data)
			assert.Equal(t, tt.kind, action.Kind)
			assert.Equal(t, tt.name, action.CoverName)
		})
	}
}

func TestParseAction_Unknown(t *testing.T) {
	for _, data := range []string{
		"",
		"bogus",
		"send_cover_", // empty parameter
		"delete_cover_",
		"cancel_extra",
	} {
		t.Run(data, func(t *testing.T) {
			assert.Equal(t, ActionUnknown, parseAction(data).Kind)
		})
	}
}

// Every renderable action must decode back to itself; buttons are built
// from Token() so this keeps menus and router in sync.
func TestActionTokenRoundTrip(t *testing.T) {
	actions := []Action{
		{Kind: ActionSendCover, CoverName: "default"},
		{Kind: ActionConfirmDelete, CoverName: "a"},
		{Kind: ActionDeleteCover, CoverName: "a"},
		{Kind: ActionApplyCover, CoverName: "beach_day"},
		{Kind: ActionCancel},
		{Kind: ActionPasteImage},
		{Kind: ActionSaveCover},
		{Kind: ActionSaveDefault},
		{Kind: ActionSaveWithName},
		{Kind: ActionExtractMetadata},
		{Kind: ActionExtractMedia},
		{Kind: ActionSetCover},
		{Kind: ActionUseSavedCover},
	}

	for _, action := range actions {
		t.Run(action.Kind.String(), func(t *testing.T) {
			assert.Equal(t, action, parseAction(action.Token()))
		})
	}
}

func TestActionTokenFitsCallbackData(t *testing.T) {
	// Telegram rejects callback data over 64 bytes; the longest prefix
	// plus a maximum-length name must stay under it
	longName := make([]byte, 32)
	for i := range longName {
		longName[i] = 'x'
	}

	token := Action{Kind: ActionConfirmDelete, CoverName: string(longName)}.Token()
	assert.LessOrEqual(t, len(token), 64)
}
