package telegram

import "strings"

// ActionKind enumerates every button action the bot understands. Callback
// data is decoded into an Action exactly once, at the router; handlers never
// re-parse token strings.
type ActionKind int

const (
	ActionUnknown ActionKind = iota

	// Cover management family
	ActionSendCover
	ActionConfirmDelete
	ActionDeleteCover
	ActionCancel

	// Image flow family
	ActionPasteImage
	ActionSaveCover
	ActionSaveDefault
	ActionSaveWithName

	// Video flow family
	ActionExtractMetadata
	ActionExtractMedia
	ActionSetCover
	ActionUseSavedCover
	ActionApplyCover
)

// Action is one decoded button press: the kind plus its parameter, if the
// token family carries one.
type Action struct {
	Kind      ActionKind
	CoverName string
}

const (
	tokenSendCoverPrefix     = "send_cover_"
	tokenConfirmDeletePrefix = "confirm_delete_"
	tokenDeleteCoverPrefix   = "delete_cover_"
	tokenApplyCoverPrefix    = "apply_cover_"

	tokenCancel          = "cancel"
	tokenPasteImage      = "paste_image"
	tokenSaveCover       = "save_cover"
	tokenSaveDefault     = "save_default"
	tokenSaveWithName    = "save_with_name"
	tokenExtractMetadata = "extract_metadata"
	tokenExtractMedia    = "extract_media"
	tokenSetCover        = "set_cover"
	tokenUseSavedCover   = "use_saved_cover"
)

// parseAction decodes a callback token. Bare keywords are matched before
// prefixed families so that "save_cover" is never mistaken for a
// "send_cover_" style parameterized token.
func parseAction(data string) Action {
	switch data {
	case tokenCancel:
		return Action{Kind: ActionCancel}
	case tokenPasteImage:
		return Action{Kind: ActionPasteImage}
	case tokenSaveCover:
		return Action{Kind: ActionSaveCover}
	case tokenSaveDefault:
		return Action{Kind: ActionSaveDefault}
	case tokenSaveWithName:
		return Action{Kind: ActionSaveWithName}
	case tokenExtractMetadata:
		return Action{Kind: ActionExtractMetadata}
	case tokenExtractMedia:
		return Action{Kind: ActionExtractMedia}
	case tokenSetCover:
		return Action{Kind: ActionSetCover}
	case tokenUseSavedCover:
		return Action{Kind: ActionUseSavedCover}
	}

	for _, family := range []struct {
		prefix string
		kind   ActionKind
	}{
		{tokenConfirmDeletePrefix, ActionConfirmDelete},
		{tokenDeleteCoverPrefix, ActionDeleteCover},
		{tokenSendCoverPrefix, ActionSendCover},
		{tokenApplyCoverPrefix, ActionApplyCover},
	} {
		if name, ok := strings.CutPrefix(data, family.prefix); ok && name != "" {
			return Action{Kind: family.kind, CoverName: name}
		}
	}

	return Action{Kind: ActionUnknown}
}

// Token renders the action back into callback data for a button.
func (a Action) Token() string {
	switch a.Kind {
	case ActionSendCover:
		return tokenSendCoverPrefix + a.CoverName
	case ActionConfirmDelete:
		return tokenConfirmDeletePrefix + a.CoverName
	case ActionDeleteCover:
		return tokenDeleteCoverPrefix + a.CoverName
	case ActionApplyCover:
		return tokenApplyCoverPrefix + a.CoverName
	case ActionCancel:
		return tokenCancel
	case ActionPasteImage:
		return tokenPasteImage
	case ActionSaveCover:
		return tokenSaveCover
	case ActionSaveDefault:
		return tokenSaveDefault
	case ActionSaveWithName:
		return tokenSaveWithName
	case ActionExtractMetadata:
		return tokenExtractMetadata
	case ActionExtractMedia:
		return tokenExtractMedia
	case ActionSetCover:
		return tokenSetCover
	case ActionUseSavedCover:
		return tokenUseSavedCover
	}
	return ""
}

func (k ActionKind) String() string {
	switch k {
	case ActionSendCover:
		return "send_cover"
	case ActionConfirmDelete:
		return "confirm_delete"
	case ActionDeleteCover:
		return "delete_cover"
	case ActionCancel:
		return "cancel"
	case ActionPasteImage:
		return "paste_image"
	case ActionSaveCover:
		return "save_cover"
	case ActionSaveDefault:
		return "save_default"
	case ActionSaveWithName:
		return "save_with_name"
	case ActionExtractMetadata:
		return "extract_metadata"
	case ActionExtractMedia:
		return "extract_media"
	case ActionSetCover:
		return "set_cover"
	case ActionUseSavedCover:
		return "use_saved_cover"
	case ActionApplyCover:
		return "apply_cover"
	}
	return "unknown"
}
