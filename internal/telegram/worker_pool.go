package telegram

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/covergram/covergram/internal/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// WorkerPool manages concurrent processing of messages and callbacks. The
// webhook handler enqueues and returns immediately; handler failures are
// logged and reported to the chat, never back to the webhook delivery.
type WorkerPool struct {
	bot                 *Bot
	messageQueue        chan *tgbotapi.Message
	callbackQueue       chan *tgbotapi.CallbackQuery
	messageWorkerCount  int
	callbackWorkerCount int

	// Concurrency control
	maxConcurrentOps int
	opSemaphore      chan struct{}

	// Lifecycle management
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
	mu      sync.RWMutex
}

// WorkerPoolConfig holds configuration for the worker pool
type WorkerPoolConfig struct {
	MessageWorkers    int // Number of workers processing messages
	CallbackWorkers   int // Number of workers processing callbacks
	MessageQueueSize  int // Size of message queue buffer
	CallbackQueueSize int // Size of callback queue buffer
	MaxConcurrentOps  int // Maximum concurrent store/API operations
}

// DefaultWorkerPoolConfig returns a sensible default configuration
func DefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{
		MessageWorkers:    8,
		CallbackWorkers:   6,
		MessageQueueSize:  100,
		CallbackQueueSize: 50,
		MaxConcurrentOps:  10,
	}
}

// NewWorkerPool creates a new worker pool
func NewWorkerPool(bot *Bot, config WorkerPoolConfig) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		bot:                 bot,
		messageQueue:        make(chan *tgbotapi.Message, config.MessageQueueSize),
		callbackQueue:       make(chan *tgbotapi.CallbackQuery, config.CallbackQueueSize),
		messageWorkerCount:  config.MessageWorkers,
		callbackWorkerCount: config.CallbackWorkers,
		maxConcurrentOps:    config.MaxConcurrentOps,
		opSemaphore:         make(chan struct{}, config.MaxConcurrentOps),
		ctx:                 ctx,
		cancel:              cancel,
	}
}

// Start initializes and starts all worker goroutines
func (wp *WorkerPool) Start() error {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.started {
		return fmt.Errorf("worker pool already started")
	}

	logger.Info("Starting worker pool", map[string]interface{}{
		"message_workers":    wp.messageWorkerCount,
		"callback_workers":   wp.callbackWorkerCount,
		"max_concurrent_ops": wp.maxConcurrentOps,
	})

	for i := 0; i < wp.messageWorkerCount; i++ {
		wp.wg.Add(1)
		go wp.messageWorker(i)
	}

	for i := 0; i < wp.callbackWorkerCount; i++ {
		wp.wg.Add(1)
		go wp.callbackWorker(i)
	}

	wp.started = true
	return nil
}

// Stop gracefully shuts down the worker pool
func (wp *WorkerPool) Stop() error {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if !wp.started {
		return fmt.Errorf("worker pool not started")
	}

	logger.InfoMsg("Stopping worker pool...")

	close(wp.messageQueue)
	close(wp.callbackQueue)
	wp.cancel()

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.InfoMsg("Worker pool stopped gracefully")
	case <-time.After(30 * time.Second):
		logger.WarnMsg("Worker pool shutdown timed out")
		return fmt.Errorf("worker pool shutdown timed out")
	}

	wp.started = false
	return nil
}

// SubmitMessage adds a message to the processing queue
func (wp *WorkerPool) SubmitMessage(message *tgbotapi.Message) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if !wp.started {
		return fmt.Errorf("worker pool not started")
	}

	select {
	case wp.messageQueue <- message:
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool is shutting down")
	default:
		logger.Warn("Message queue full, dropping message", map[string]interface{}{
			"chat_id": message.Chat.ID,
		})
		return fmt.Errorf("message queue full")
	}
}

// SubmitCallback adds a callback query to the processing queue
func (wp *WorkerPool) SubmitCallback(callback *tgbotapi.CallbackQuery) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if !wp.started {
		return fmt.Errorf("worker pool not started")
	}

	select {
	case wp.callbackQueue <- callback:
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool is shutting down")
	default:
		logger.Warn("Callback queue full, dropping callback", map[string]interface{}{
			"callback_id": callback.ID,
		})
		return fmt.Errorf("callback queue full")
	}
}

// messageWorker processes messages from the message queue
func (wp *WorkerPool) messageWorker(workerID int) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Message worker panic recovered", map[string]interface{}{
				"worker_id": workerID,
				"panic":     r,
			})
		}
		wp.wg.Done()
	}()

	for {
		select {
		case message, ok := <-wp.messageQueue:
			if !ok {
				return
			}
			wp.processMessage(message, workerID)

		case <-wp.ctx.Done():
			return
		}
	}
}

// callbackWorker processes callbacks from the callback queue
func (wp *WorkerPool) callbackWorker(workerID int) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Callback worker panic recovered", map[string]interface{}{
				"worker_id": workerID,
				"panic":     r,
			})
		}
		wp.wg.Done()
	}()

	for {
		select {
		case callback, ok := <-wp.callbackQueue:
			if !ok {
				return
			}
			wp.processCallback(callback, workerID)

		case <-wp.ctx.Done():
			return
		}
	}
}

func (wp *WorkerPool) processMessage(message *tgbotapi.Message, workerID int) {
	select {
	case wp.opSemaphore <- struct{}{}:
		defer func() { <-wp.opSemaphore }()
	case <-wp.ctx.Done():
		return
	}

	startTime := time.Now()

	if err := wp.bot.handleMessage(message); err != nil {
		logger.Error("Error processing message", map[string]interface{}{
			"worker_id": workerID,
			"error":     err.Error(),
			"chat_id":   message.Chat.ID,
		})
		wp.bot.metrics.RecordHandlerError("message")
		wp.bot.sendErrorResponse(message.Chat.ID, err)
		return
	}

	wp.bot.metrics.RecordEventHandled("message")
	logger.Debug("Message processed", map[string]interface{}{
		"worker_id": workerID,
		"chat_id":   message.Chat.ID,
		"duration":  time.Since(startTime).String(),
	})
}

func (wp *WorkerPool) processCallback(callback *tgbotapi.CallbackQuery, workerID int) {
	select {
	case wp.opSemaphore <- struct{}{}:
		defer func() { <-wp.opSemaphore }()
	case <-wp.ctx.Done():
		return
	}

	startTime := time.Now()

	if err := wp.bot.handleCallbackQuery(callback); err != nil {
		fields := map[string]interface{}{
			"worker_id":   workerID,
			"error":       err.Error(),
			"callback_id": callback.ID,
		}
		if callback.Message != nil {
			fields["chat_id"] = callback.Message.Chat.ID
		}
		logger.Error("Error processing callback", fields)
		wp.bot.metrics.RecordHandlerError("callback")
		if callback.Message != nil {
			wp.bot.sendErrorResponse(callback.Message.Chat.ID, err)
		}
		return
	}

	wp.bot.metrics.RecordEventHandled("callback")
	logger.Debug("Callback processed", map[string]interface{}{
		"worker_id":   workerID,
		"callback_id": callback.ID,
		"duration":    time.Since(startTime).String(),
	})
}

// GetStats returns current worker pool statistics
func (wp *WorkerPool) GetStats() map[string]interface{} {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	return map[string]interface{}{
		"started":             wp.started,
		"message_queue_size":  len(wp.messageQueue),
		"callback_queue_size": len(wp.callbackQueue),
		"active_operations":   len(wp.opSemaphore),
		"message_workers":     wp.messageWorkerCount,
		"callback_workers":    wp.callbackWorkerCount,
	}
}
