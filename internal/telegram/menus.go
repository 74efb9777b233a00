package telegram

import (
	"fmt"

	"github.com/covergram/covergram/internal/consts"
	"github.com/covergram/covergram/internal/database"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Inline keyboard builders. Every button carries a typed Action rendered
// back into callback data via Token().

func buildVideoActionsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(consts.ButtonExtractMetadata, Action{Kind: ActionExtractMetadata}.Token()),
			tgbotapi.NewInlineKeyboardButtonData(consts.ButtonExtractMedia, Action{Kind: ActionExtractMedia}.Token()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(consts.ButtonSetCover, Action{Kind: ActionSetCover}.Token()),
			tgbotapi.NewInlineKeyboardButtonData(consts.ButtonUseSavedCover, Action{Kind: ActionUseSavedCover}.Token()),
		),
	)
}

func buildPhotoActionsKeyboard(withPasteImage bool) tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{}
	if withPasteImage {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(consts.ButtonPasteImage, Action{Kind: ActionPasteImage}.Token()))
	}
	row = append(row, tgbotapi.NewInlineKeyboardButtonData(consts.ButtonSaveCover, Action{Kind: ActionSaveCover}.Token()))

	return tgbotapi.NewInlineKeyboardMarkup(
		row,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(consts.ButtonCancel, Action{Kind: ActionCancel}.Token()),
		),
	)
}

// buildCoverListKeyboard renders one row per saved cover with apply and
// delete affordances.
func buildCoverListKeyboard(covers []database.Cover) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, cover := range covers {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("🖼 %s", cover.Name),
				Action{Kind: ActionSendCover, CoverName: cover.Name}.Token()),
			tgbotapi.NewInlineKeyboardButtonData(
				consts.ButtonDeleteCover,
				Action{Kind: ActionConfirmDelete, CoverName: cover.Name}.Token()),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildCoverSelectionKeyboard renders one apply button per saved cover, for
// the "use saved cover" menu, plus a cancel row.
func buildCoverSelectionKeyboard(covers []database.Cover) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, cover := range covers {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("🖼 %s", cover.Name),
				Action{Kind: ActionApplyCover, CoverName: cover.Name}.Token()),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(consts.ButtonCancel, Action{Kind: ActionCancel}.Token()),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func buildSaveChoiceKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(consts.ButtonSaveDefault, Action{Kind: ActionSaveDefault}.Token()),
			tgbotapi.NewInlineKeyboardButtonData(consts.ButtonSaveWithName, Action{Kind: ActionSaveWithName}.Token()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(consts.ButtonCancel, Action{Kind: ActionCancel}.Token()),
		),
	)
}

func buildDeleteConfirmKeyboard(name string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(consts.ButtonConfirmDelete, Action{Kind: ActionDeleteCover, CoverName: name}.Token()),
			tgbotapi.NewInlineKeyboardButtonData(consts.ButtonCancel, Action{Kind: ActionCancel}.Token()),
		),
	)
}

// formatVideoMetadata renders the intrinsic attributes of a video for
// display.
func formatVideoMetadata(video *tgbotapi.Video) string {
	fileName := video.FileName
	if fileName == "" {
		fileName = "-"
	}
	mimeType := video.MimeType
	if mimeType == "" {
		mimeType = "-"
	}

	return fmt.Sprintf(`📋 <b>Video metadata</b>

• Duration: %s
• Dimensions: %dx%d
• Size: %s
• MIME type: %s
• Filename: %s`,
		formatDuration(video.Duration),
		video.Width, video.Height,
		formatFileSize(video.FileSize),
		mimeType,
		fileName)
}

func formatDuration(seconds int) string {
	if seconds >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func formatFileSize(size int) string {
	switch {
	case size >= 1<<30:
		return fmt.Sprintf("%.2f GB", float64(size)/(1<<30))
	case size >= 1<<20:
		return fmt.Sprintf("%.2f MB", float64(size)/(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(size)/(1<<10))
	case size > 0:
		return fmt.Sprintf("%d B", size)
	default:
		return "-"
	}
}
