package consts

// Cover naming
const (
	// DefaultCoverName is the reserved slot used when the user does not
	// supply an explicit name for a saved cover.
	DefaultCoverName = "default"

	// MaxCoverNameLen keeps cover names short enough to survive inside
	// Telegram's 64-byte callback data limit together with the longest
	// action prefix.
	MaxCoverNameLen = 32
)

// Commands
const (
	CommandStart     = "start"
	CommandHelp      = "help"
	CommandSaveCover = "savecover"
	CommandCovers    = "covers"
	CommandStats     = "stats"
)

// Button labels with emojis
const (
	ButtonApplyCover    = "🖼 Apply"
	ButtonDeleteCover   = "🗑 Delete"
	ButtonCancel        = "❌ Cancel"
	ButtonConfirmDelete = "✅ Yes, delete"

	ButtonPasteImage   = "🔗 Get link"
	ButtonSaveCover    = "💾 Save as cover"
	ButtonSaveDefault  = "📌 Save as default"
	ButtonSaveWithName = "✏️ Save with name"

	ButtonExtractMetadata = "📋 Metadata"
	ButtonExtractMedia    = "🖼 Extract cover"
	ButtonSetCover        = "🆕 New cover"
	ButtonUseSavedCover   = "📂 Saved covers"
)

// Parse modes
const (
	ParseModeHTML = "html"
)

// Shared user-facing templates
const (
	SaveCoverUsage = `ℹ️ Reply to a message containing a photo with /savecover [name] to save it as a cover.`

	NoCoversSaved = `📂 You have no saved covers yet.

Reply to a photo with /savecover to add one.`

	CoverNotFound = `❌ This cover no longer exists.`

	NothingToExtract = `🔍 Nothing found - this video carries no embedded preview.`

	WorkingNotice = `⏳ Applying cover...`
)
