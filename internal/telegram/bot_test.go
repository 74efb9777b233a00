package telegram

import (
	"net/http"
	"net/http/httptest"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/covergram/covergram/internal/config"
	"github.com/covergram/covergram/internal/metrics"
	"github.com/covergram/covergram/internal/session"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

// apiStub stands in for the platform API and counts calls per method, so
// tests can assert how often a handler acknowledged, edited or sent.
type apiStub struct {
	srv   *httptest.Server
	mu    sync.Mutex
	calls map[string]int
}

func newAPIStub(t *testing.T) *apiStub {
	t.Helper()

	s := &apiStub{calls: make(map[string]int)}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[path.Base(r.URL.Path)]++
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{"message_id":1,"chat":{"id":1}}}`))
	}))
	t.Cleanup(s.srv.Close)
	return s
}

func (s *apiStub) count(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

// newTestBot builds a bot wired to the stub API. The store stays nil; tests
// exercising store-backed branches are expected to hit the nil guard.
func newTestBot(t *testing.T, stub *apiStub) *Bot {
	t.Helper()

	api := &tgbotapi.BotAPI{
		Token:  "test-token",
		Client: stub.srv.Client(),
		Buffer: 100,
	}
	api.SetAPIEndpoint(stub.srv.URL + "/bot%s/%s")

	return &Bot{
		api:      api,
		config:   &config.Config{TelegramBotToken: "test-token", BaseURL: "https://bot.test"},
		sessions: session.NewStore(),
		metrics:  metrics.NewCollectorWithRegistry(prometheus.NewRegistry()),

		globalLimiter: rate.NewLimiter(rate.Inf, 1),
		userLimiters:  make(map[int64]*rate.Limiter),

		processedCallbacks: make(map[string]time.Time),
	}
}

func testCallback(id, data string, chatID int64) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:   id,
		From: &tgbotapi.User{ID: 42, UserName: "tester"},
		Data: data,
		Message: &tgbotapi.Message{
			MessageID: 10,
			Chat:      &tgbotapi.Chat{ID: chatID},
		},
	}
}

func TestIsDuplicateCallback(t *testing.T) {
	stub := newAPIStub(t)
	b := newTestBot(t, stub)

	if b.isDuplicateCallback("cb-1") {
		t.Fatal("fresh callback reported as duplicate")
	}

	b.markCallbackProcessed("cb-1")
	if !b.isDuplicateCallback("cb-1") {
		t.Fatal("processed callback not reported as duplicate")
	}
	if b.isDuplicateCallback("cb-2") {
		t.Fatal("unrelated callback reported as duplicate")
	}
}

func TestGetUserRateLimiterReuse(t *testing.T) {
	stub := newAPIStub(t)
	b := newTestBot(t, stub)

	first := b.getUserRateLimiter(100)
	second := b.getUserRateLimiter(100)
	other := b.getUserRateLimiter(200)

	if first != second {
		t.Fatal("same chat should reuse its limiter")
	}
	if first == other {
		t.Fatal("different chats should not share a limiter")
	}
}
