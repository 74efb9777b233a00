package telegram

import (
	"encoding/json"
	"net/http"

	"github.com/covergram/covergram/internal/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// startWebhookServer starts the HTTP server that receives update deliveries
// and serves the administrative endpoints.
func (b *Bot) startWebhookServer() {
	mux := http.NewServeMux()
	mux.HandleFunc("/telegram/webhook", b.handleWebhook)
	mux.HandleFunc("/webhook/register", b.handleWebhookRegister)
	mux.HandleFunc("/webhook/deregister", b.handleWebhookDeregister)
	mux.HandleFunc("/health", b.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	// Root handler to help debug 404s
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("HTTP request received", map[string]interface{}{
			"path":   r.URL.Path,
			"method": r.Method,
		})
		if r.URL.Path == "/" {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("covergram webhook server\n"))
		} else {
			http.NotFound(w, r)
		}
	})

	b.httpServer = &http.Server{
		Addr:    ":" + b.config.WebhookPort,
		Handler: mux,
	}

	go func() {
		logger.Info("Webhook server starting", map[string]interface{}{
			"port": b.config.WebhookPort,
		})
		if err := b.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Webhook server error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()
}

// handleWebhook accepts one update delivery. The update is queued for
// asynchronous processing and the delivery is acknowledged immediately;
// handler outcomes never influence the response.
func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if b.config.HasWebhookSecret() && r.Header.Get(secretTokenHeader) != b.config.WebhookSecret {
		logger.Warn("Webhook delivery with bad secret token", map[string]interface{}{
			"remote": r.RemoteAddr,
		})
		b.metrics.RecordWebhookDelivery("rejected")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		logger.Error("Failed to decode webhook update", map[string]interface{}{
			"error":  err.Error(),
			"remote": r.RemoteAddr,
		})
		b.metrics.RecordWebhookDelivery("rejected")
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	switch {
	case update.CallbackQuery != nil:
		if err := b.workerPool.SubmitCallback(update.CallbackQuery); err != nil {
			logger.Error("Failed to queue callback", map[string]interface{}{
				"error":       err.Error(),
				"callback_id": update.CallbackQuery.ID,
			})
			b.metrics.RecordWebhookDelivery("dropped")
			break
		}
		b.metrics.RecordWebhookDelivery("accepted")

	case update.Message != nil:
		if err := b.workerPool.SubmitMessage(update.Message); err != nil {
			logger.Error("Failed to queue message", map[string]interface{}{
				"error":   err.Error(),
				"chat_id": update.Message.Chat.ID,
			})
			b.metrics.RecordWebhookDelivery("dropped")
			break
		}
		b.metrics.RecordWebhookDelivery("accepted")

	default:
		// Neither a message nor a callback; ignore without error
		logger.Debug("Ignoring update without message or callback", map[string]interface{}{
			"update_id": update.UpdateID,
		})
		b.metrics.RecordWebhookDelivery("ignored")
	}

	w.WriteHeader(http.StatusOK)
}

// registerWebhook registers the bot's webhook URL with the platform and
// returns the platform's raw acknowledgement.
func (b *Bot) registerWebhook() (*tgbotapi.APIResponse, error) {
	params := tgbotapi.Params{
		"url":             b.config.WebhookURL(),
		"allowed_updates": `["message","callback_query"]`,
	}
	if b.config.HasWebhookSecret() {
		params["secret_token"] = b.config.WebhookSecret
	}

	resp, err := b.api.MakeRequest("setWebhook", params)
	if err != nil {
		return nil, err
	}

	logger.Info("Webhook registered", map[string]interface{}{
		"url":         b.config.WebhookURL(),
		"ok":          resp.Ok,
		"description": resp.Description,
	})
	return resp, nil
}

// deregisterWebhook removes the webhook registration from the platform.
func (b *Bot) deregisterWebhook() (*tgbotapi.APIResponse, error) {
	resp, err := b.api.MakeRequest("deleteWebhook", tgbotapi.Params{})
	if err != nil {
		return nil, err
	}

	logger.Info("Webhook deregistered", map[string]interface{}{
		"ok":          resp.Ok,
		"description": resp.Description,
	})
	return resp, nil
}

// handleWebhookRegister (re)registers the webhook URL and relays the
// platform's raw acknowledgement.
func (b *Bot) handleWebhookRegister(w http.ResponseWriter, r *http.Request) {
	resp, err := b.registerWebhook()
	if err != nil {
		logger.Error("Webhook registration failed", map[string]interface{}{
			"error": err.Error(),
		})
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	writeAPIResponse(w, resp)
}

// handleWebhookDeregister removes the webhook registration and relays the
// platform's raw acknowledgement.
func (b *Bot) handleWebhookDeregister(w http.ResponseWriter, r *http.Request) {
	resp, err := b.deregisterWebhook()
	if err != nil {
		logger.Error("Webhook deregistration failed", map[string]interface{}{
			"error": err.Error(),
		})
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	writeAPIResponse(w, resp)
}

func (b *Bot) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func writeAPIResponse(w http.ResponseWriter, resp *tgbotapi.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("Failed to write API response", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
