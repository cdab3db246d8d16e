package dialog

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/Spok95/storage-desk/internal/api"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Get(ctx context.Context, chatID int64) (*Item, error) {
	row := r.pool.QueryRow(ctx, `SELECT state, payload FROM dialog_states WHERE chat_id = $1`, chatID)
	var state string
	var raw []byte
	if err := row.Scan(&state, &raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &Item{ChatID: chatID, State: StateIdle, Payload: Payload{}}, nil
		}
		return nil, err
	}
	p := Payload{}
	_ = json.Unmarshal(raw, &p)
	return &Item{ChatID: chatID, State: State(state), Payload: p}, nil
}

func (r *Repo) Set(ctx context.Context, chatID int64, state State, payload Payload) error {
	if payload == nil {
		payload = Payload{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO dialog_states (chat_id, state, payload, updated_at)
		VALUES ($1,$2,$3,now())
		ON CONFLICT (chat_id) DO UPDATE SET
		  state=$2, payload=$3, updated_at=now()
	`, chatID, string(state), raw)
	return err
}

// Reset сбрасывает шаг диалога, токен остаётся.
func (r *Repo) Reset(ctx context.Context, chatID int64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE dialog_states SET state='idle', payload='{}'::jsonb, updated_at=now()
		WHERE chat_id = $1
	`, chatID)
	return err
}

func (r *Repo) SetToken(ctx context.Context, chatID int64, token string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO dialog_states (chat_id, api_token, updated_at)
		VALUES ($1,$2,now())
		ON CONFLICT (chat_id) DO UPDATE SET api_token=$2, updated_at=now()
	`, chatID, strings.TrimSpace(token))
	return err
}

func (r *Repo) Token(ctx context.Context, chatID int64) (string, error) {
	var token string
	err := r.pool.QueryRow(ctx, `SELECT api_token FROM dialog_states WHERE chat_id = $1`, chatID).Scan(&token)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return token, err
}

// TokenSource: токен чата, а если его нет, fallback (токен из конфига).
func (r *Repo) TokenSource(chatID int64, fallback string) api.TokenSource {
	return api.TokenFunc(func(ctx context.Context) (string, error) {
		t, err := r.Token(ctx, chatID)
		if err != nil {
			return "", err
		}
		if t == "" {
			return api.StaticToken(fallback).Token(ctx)
		}
		return t, nil
	})
}

// GetString Helper для безопасного чтения строк из payload
func GetString(p Payload, key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetInt читает число из payload (после JSON это float64).
func GetInt(p Payload, key string) (int, bool) {
	switch v := p[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	}
	return 0, false
}
