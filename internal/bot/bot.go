package bot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/storage-desk/internal/api"
	"github.com/Spok95/storage-desk/internal/dialog"
	"github.com/Spok95/storage-desk/internal/export"
)

// UIConfig: параметры экранов, приходят из секции ui конфига.
type UIConfig struct {
	PageSize              int
	SearchDebounce        time.Duration
	DeleteDelay           time.Duration
	RestoreOnFailedDelete bool
	UnitsBulkLimit        int
}

type Bot struct {
	api    *tgbotapi.BotAPI
	log    *slog.Logger
	states *dialog.Repo
	client *api.Client
	token  string // токен из конфига, если в чате свой не задан
	ui     UIConfig
	sharer export.FileSharer
	now    func() time.Time

	mu       sync.Mutex
	sessions map[int64]*session
}

func New(tg *tgbotapi.BotAPI, log *slog.Logger, statesRepo *dialog.Repo,
	client *api.Client, defaultToken string, ui UIConfig, sharer export.FileSharer) *Bot {

	return &Bot{
		api: tg, log: log, states: statesRepo,
		client: client, token: defaultToken, ui: ui, sharer: sharer,
		now:      time.Now,
		sessions: make(map[int64]*session),
	}
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	defer b.closeSessions()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case upd := <-updates:
			if upd.Message != nil {
				b.onMessage(ctx, upd)
			} else if upd.CallbackQuery != nil {
				b.onCallback(ctx, upd)
			}
		}
	}
}

func (b *Bot) onMessage(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	b.handleStateMessage(ctx, msg)
}

func (b *Bot) onCallback(ctx context.Context, upd tgbotapi.Update) {
	b.handleCallback(ctx, upd.CallbackQuery)
}

// session возвращает состояние экранов чата, создавая его при первом обращении.
func (b *Bot) session(ctx context.Context, chatID int64) *session {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.sessions[chatID]
	if !ok {
		client := b.client.WithTokens(b.states.TokenSource(chatID, b.token))
		s = newSession(ctx, chatID, client, b.ui, b.log.With("chat_id", chatID), b.render)
		b.sessions[chatID] = s
	}
	return s
}

func (b *Bot) dropSession(chatID int64) {
	b.mu.Lock()
	s := b.sessions[chatID]
	delete(b.sessions, chatID)
	b.mu.Unlock()
	if s != nil {
		s.close()
	}
}

func (b *Bot) closeSessions() {
	b.mu.Lock()
	all := b.sessions
	b.sessions = make(map[int64]*session)
	b.mu.Unlock()
	for _, s := range all {
		s.close()
	}
}
