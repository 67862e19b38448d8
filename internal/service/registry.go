package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/nguyencaoquydieu/TelegramClient/internal/credentials"
	"github.com/nguyencaoquydieu/TelegramClient/pkg/telegram"
	"go.uber.org/zap"
)

var ErrSessionNotFound = errors.New("SESSION_NOT_FOUND")

// SessionRegistry owns one authenticated session per phone number.
type SessionRegistry interface {
	Start(ctx context.Context, creds []credentials.Credential) error
	Lookup(phone string) (telegram.Session, error)
	Phones() []string
	Stop(ctx context.Context)
}

type registry struct {
	dialer     telegram.Dialer
	codes      telegram.CodeProvider
	correlator *Correlator
	logger     *zap.Logger

	mu       sync.RWMutex
	sessions map[string]telegram.Session
}

func NewSessionRegistry(dialer telegram.Dialer, codes telegram.CodeProvider, correlator *Correlator,
	logger *zap.Logger) SessionRegistry {
	return &registry{
		dialer:     dialer,
		codes:      codes,
		correlator: correlator,
		logger:     logger,
		sessions:   make(map[string]telegram.Session),
	}
}

// Start dials every credential. An account that fails to connect or
// authenticate is logged and skipped; it never aborts the remaining
// accounts.
func (r *registry) Start(ctx context.Context, creds []credentials.Credential) error {
	for _, cred := range creds {
		phone := cred.Phone
		r.logger.Info("Starting client", zap.String("phone", phone))

		account := telegram.Account{APIID: cred.APIID, APIHash: cred.APIHash, Phone: phone}

		session, err := r.dialer.Dial(ctx, account, r.codes)
		if err != nil {
			if errors.Is(err, telegram.ErrNotAuthorized) {
				r.logger.Error("Authentication failed, skipping account",
					zap.String("phone", phone),
					zap.Error(err))
				continue
			}

			r.logger.Error("Failed to start client, skipping account",
				zap.String("phone", phone),
				zap.Error(err))
			continue
		}

		session.OnMessage(r.observerFor(phone))

		r.mu.Lock()
		r.sessions[phone] = session
		r.mu.Unlock()

		r.logger.Info("Client authenticated", zap.String("phone", phone))
	}

	r.mu.RLock()
	count := len(r.sessions)
	r.mu.RUnlock()

	if count == 0 && len(creds) > 0 {
		return fmt.Errorf("no accounts could be started (%d configured)", len(creds))
	}

	r.logger.Info("Session registry started", zap.Int("accounts", count))
	return nil
}

func (r *registry) observerFor(phone string) telegram.MessageObserver {
	return func(senderID int64, text string) {
		r.correlator.Record(phone, senderID, text)
		r.logger.Info("Received message",
			zap.String("phone", phone),
			zap.Int64("sender", senderID))
	}
}

func (r *registry) Lookup(phone string) (telegram.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[phone]
	if !ok {
		return nil, ErrSessionNotFound
	}

	return session, nil
}

func (r *registry) Phones() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	phones := make([]string, 0, len(r.sessions))
	for phone := range r.sessions {
		phones = append(phones, phone)
	}

	sort.Strings(phones)
	return phones
}

// Stop disconnects every session. A failed disconnect is logged and does not
// keep the remaining sessions connected.
func (r *registry) Stop(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for phone, session := range r.sessions {
		r.logger.Info("Disconnecting client", zap.String("phone", phone))

		if err := session.Close(ctx); err != nil {
			r.logger.Error("Failed to disconnect client",
				zap.String("phone", phone),
				zap.Error(err))
		}

		delete(r.sessions, phone)
	}
}
