package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/covergram/covergram/internal/config"
	"github.com/covergram/covergram/internal/consts"
	"github.com/covergram/covergram/internal/database"
	"github.com/covergram/covergram/internal/imagehost"
	"github.com/covergram/covergram/internal/logger"
	"github.com/covergram/covergram/internal/metrics"
	"github.com/covergram/covergram/internal/session"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

type Bot struct {
	api       *tgbotapi.BotAPI
	db        *database.DB
	config    *config.Config
	sessions  *session.Store
	imageHost *imagehost.Client
	metrics   *metrics.Collector

	// Rate limiting
	globalLimiter  *rate.Limiter           // Global outbound rate limiter
	userLimiters   map[int64]*rate.Limiter // Per-chat rate limiters
	userLimitersMu sync.RWMutex            // Protects userLimiters map
	cleanupStarted bool                    // Track if cleanup goroutine is started

	// Callback deduplication
	processedCallbacks map[string]time.Time // callback_id -> timestamp
	callbacksMu        sync.RWMutex         // Protects processedCallbacks map

	// Worker pool for concurrent processing
	workerPool *WorkerPool

	// Webhook ingestion server
	httpServer *http.Server
}

func NewBot(cfg *config.Config) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	// The store holds covers, counters and the user registry; the bot is
	// not usable without it
	db, err := database.NewDB(cfg.PostgreDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var imageHost *imagehost.Client
	if cfg.HasImageHostConfig() {
		imageHost = imagehost.NewClient(cfg.ImageHostURL, cfg.ImageHostFallbackURL)
		logger.InfoMsg("Image host client initialized")
	} else {
		logger.InfoMsg("No image host configured, link generation disabled")
	}

	return &Bot{
		api:       api,
		db:        db,
		config:    cfg,
		sessions:  session.NewStore(),
		imageHost: imageHost,
		metrics:   metrics.NewCollector(),

		globalLimiter: rate.NewLimiter(rate.Limit(30), 30), // 30 messages per second overall
		userLimiters:  make(map[int64]*rate.Limiter),

		processedCallbacks: make(map[string]time.Time),

		// Worker pool will be initialized in Start() method
		workerPool: nil,
	}, nil
}

// Start brings up the worker pool, the webhook server and registers the
// webhook URL with the platform. It returns once the bot is serving.
func (b *Bot) Start() error {
	logger.Info("Bot authorized and starting", map[string]interface{}{
		"username":    b.api.Self.UserName,
		"webhook_url": b.config.WebhookURL(),
	})

	b.workerPool = NewWorkerPool(b, DefaultWorkerPoolConfig())
	if err := b.workerPool.Start(); err != nil {
		return fmt.Errorf("failed to start worker pool: %w", err)
	}

	b.startLimiterCleanup()
	b.startWebhookServer()

	// Registration is idempotent, so re-registering the same URL at every
	// boot is safe; /webhook/register remains available for manual re-runs
	if _, err := b.registerWebhook(); err != nil {
		return fmt.Errorf("failed to register webhook: %w", err)
	}

	return nil
}

// Stop gracefully shuts down the webhook server, the worker pool and the
// database connection.
func (b *Bot) Stop() error {
	logger.InfoMsg("Stopping bot...")

	if b.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := b.httpServer.Shutdown(ctx); err != nil {
			logger.Error("Error stopping webhook server", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	if b.workerPool != nil {
		if err := b.workerPool.Stop(); err != nil {
			logger.Error("Error stopping worker pool", map[string]interface{}{
				"error": err.Error(),
			})
			return err
		}
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			logger.Error("Error closing database", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	logger.InfoMsg("Bot stopped successfully")
	return nil
}

func (b *Bot) sendResponse(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = consts.ParseModeHTML
	if _, err := b.rateLimitedSend(chatID, msg); err != nil {
		logger.Error("Failed to send message", map[string]interface{}{
			"error":   err.Error(),
			"chat_id": chatID,
		})
	}
}

func (b *Bot) sendResponseAndGetMessageID(chatID int64, text string) int {
	msg := tgbotapi.NewMessage(chatID, text)
	response, err := b.rateLimitedSend(chatID, msg)
	if err != nil {
		logger.Error("Failed to send message", map[string]interface{}{
			"error":   err.Error(),
			"chat_id": chatID,
		})
		return 0
	}
	return response.MessageID
}

func (b *Bot) editMessage(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = consts.ParseModeHTML
	if _, err := b.rateLimitedSend(chatID, edit); err != nil {
		logger.Error("Failed to edit message", map[string]interface{}{
			"error":      err.Error(),
			"chat_id":    chatID,
			"message_id": messageID,
		})
	}
}

func (b *Bot) editMessageWithKeyboard(chatID int64, messageID int, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, keyboard)
	edit.ParseMode = consts.ParseModeHTML
	if _, err := b.rateLimitedSend(chatID, edit); err != nil {
		logger.Error("Failed to edit message with keyboard", map[string]interface{}{
			"error":      err.Error(),
			"chat_id":    chatID,
			"message_id": messageID,
		})
	}
}

func (b *Bot) deleteMessage(chatID int64, messageID int) {
	del := tgbotapi.NewDeleteMessage(chatID, messageID)
	if _, err := b.rateLimitedSend(chatID, del); err != nil {
		logger.Error("Failed to delete message", map[string]interface{}{
			"error":      err.Error(),
			"chat_id":    chatID,
			"message_id": messageID,
		})
	}
}

func (b *Bot) sendErrorResponse(chatID int64, err error) {
	errorMsg := fmt.Sprintf("❌ Error: %v", err)
	b.sendResponse(chatID, errorMsg)
}

// rateLimitedSend sends a message with rate limiting
func (b *Bot) rateLimitedSend(chatID int64, msg tgbotapi.Chattable) (tgbotapi.Message, error) {
	if err := b.globalLimiter.Wait(context.Background()); err != nil {
		return tgbotapi.Message{}, fmt.Errorf("global rate limiter error: %w", err)
	}

	userLimiter := b.getUserRateLimiter(chatID)
	if err := userLimiter.Wait(context.Background()); err != nil {
		return tgbotapi.Message{}, fmt.Errorf("user rate limiter error: %w", err)
	}

	return b.api.Send(msg)
}

// rateLimitedRequest sends a non-message request (callback answers, message
// deletions) with rate limiting
func (b *Bot) rateLimitedRequest(chatID int64, req tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	if err := b.globalLimiter.Wait(context.Background()); err != nil {
		return nil, fmt.Errorf("global rate limiter error: %w", err)
	}

	userLimiter := b.getUserRateLimiter(chatID)
	if err := userLimiter.Wait(context.Background()); err != nil {
		return nil, fmt.Errorf("user rate limiter error: %w", err)
	}

	return b.api.Request(req)
}

func (b *Bot) getUserRateLimiter(chatID int64) *rate.Limiter {
	b.userLimitersMu.RLock()
	limiter, exists := b.userLimiters[chatID]
	b.userLimitersMu.RUnlock()
	if exists {
		return limiter
	}

	b.userLimitersMu.Lock()
	defer b.userLimitersMu.Unlock()
	if limiter, exists := b.userLimiters[chatID]; exists {
		return limiter
	}
	limiter = rate.NewLimiter(rate.Limit(1), 3) // 1 msg/sec per chat, small burst
	b.userLimiters[chatID] = limiter
	return limiter
}

// startLimiterCleanup periodically drops idle per-chat limiters so the map
// does not grow unbounded.
func (b *Bot) startLimiterCleanup() {
	b.userLimitersMu.Lock()
	defer b.userLimitersMu.Unlock()
	if b.cleanupStarted {
		return
	}
	b.cleanupStarted = true

	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			b.userLimitersMu.Lock()
			if len(b.userLimiters) > 1000 {
				logger.Info("Resetting per-chat rate limiters", map[string]interface{}{
					"count": len(b.userLimiters),
				})
				b.userLimiters = make(map[int64]*rate.Limiter)
			}
			b.userLimitersMu.Unlock()
		}
	}()
}

// isDuplicateCallback checks if a callback has already been processed recently
func (b *Bot) isDuplicateCallback(callbackID string) bool {
	b.callbacksMu.RLock()
	_, exists := b.processedCallbacks[callbackID]
	b.callbacksMu.RUnlock()
	return exists
}

// markCallbackProcessed marks a callback as processed and starts cleanup timer
func (b *Bot) markCallbackProcessed(callbackID string) {
	b.callbacksMu.Lock()
	b.processedCallbacks[callbackID] = time.Now()
	b.callbacksMu.Unlock()

	// Clean up after 30 seconds to prevent the map growing without bound
	go func() {
		time.Sleep(30 * time.Second)
		b.callbacksMu.Lock()
		delete(b.processedCallbacks, callbackID)
		b.callbacksMu.Unlock()
	}()
}

// downloadFile fetches the raw bytes of a file stored on the platform via
// the getFile indirection.
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	fileURL := file.Link(b.api.Token)
	logger.Debug("Downloading file from Telegram", map[string]interface{}{
		"file_id":   fileID,
		"file_size": file.FileSize,
	})

	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download file: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file data: %w", err)
	}

	return data, nil
}
