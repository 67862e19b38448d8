package telegram

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
	"go.uber.org/zap"
)

// MTProtoDialer dials real Telegram sessions via gotd. One session file per
// phone number is kept under sessionDir, so an account authorized once stays
// authorized across restarts.
type MTProtoDialer struct {
	sessionDir string
	logger     *zap.Logger
}

func NewDialer(sessionDir string, logger *zap.Logger) Dialer {
	return &MTProtoDialer{sessionDir: sessionDir, logger: logger}
}

func (d *MTProtoDialer) Dial(ctx context.Context, account Account, codes CodeProvider) (Session, error) {
	if err := os.MkdirAll(d.sessionDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session dir: %w", err)
	}

	s := &clientSession{
		phone:  account.Phone,
		logger: d.logger.With(zap.String("phone", account.Phone)),
		done:   make(chan struct{}),
	}

	dispatcher := tg.NewUpdateDispatcher()
	dispatcher.OnNewMessage(s.handleNewMessage)

	client := telegram.NewClient(account.APIID, account.APIHash, telegram.Options{
		SessionStorage: &session.FileStorage{
			Path: filepath.Join(d.sessionDir, "telegram_session_"+account.Phone+".json"),
		},
		UpdateHandler: dispatcher,
		Logger:        d.logger.Named("mtproto"),
	})
	s.client = client

	// The run loop outlives the dial context: it carries the connection
	// until Close cancels it.
	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	ready := make(chan struct{})
	errc := make(chan error, 1)

	go func() {
		defer close(s.done)
		errc <- client.Run(runCtx, func(ctx context.Context) error {
			status, err := client.Auth().Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to query auth status: %w", err)
			}

			if !status.Authorized {
				flow := auth.NewFlow(
					auth.CodeOnly(account.Phone, codeAuthenticator{phone: account.Phone, codes: codes}),
					auth.SendCodeOptions{},
				)
				if err := client.Auth().IfNecessary(ctx, flow); err != nil {
					return fmt.Errorf("%w: %v", ErrNotAuthorized, err)
				}
			}

			s.api = client.API()
			close(ready)

			<-ctx.Done()
			return ctx.Err()
		})
	}()

	select {
	case <-ready:
		s.logger.Info("Telegram session established")
		return s, nil
	case err := <-errc:
		cancel()
		return nil, err
	case <-ctx.Done():
		cancel()
		<-s.done
		return nil, ctx.Err()
	}
}

type clientSession struct {
	phone  string
	client *telegram.Client
	api    *tg.Client
	logger *zap.Logger
	cancel context.CancelFunc
	done   chan struct{}

	mu       sync.Mutex
	observer MessageObserver
}

func (s *clientSession) Phone() string { return s.phone }

func (s *clientSession) OnMessage(observer MessageObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observer = observer
}

func (s *clientSession) Resolve(ctx context.Context, destination string) (Recipient, error) {
	var (
		resolved *tg.ContactsResolvedPeer
		err      error
	)

	if strings.HasPrefix(destination, "+") {
		resolved, err = s.api.ContactsResolvePhone(ctx, strings.TrimPrefix(destination, "+"))
	} else {
		resolved, err = s.api.ContactsResolveUsername(ctx, strings.TrimPrefix(destination, "@"))
	}

	if err != nil {
		if tgerr.Is(err, "PHONE_NOT_OCCUPIED", "USERNAME_NOT_OCCUPIED", "USERNAME_INVALID", "PHONE_NUMBER_INVALID") {
			return Recipient{}, ErrDestinationNotFound
		}
		return Recipient{}, fmt.Errorf("failed to resolve %s: %w", destination, err)
	}

	peerUser, ok := resolved.Peer.(*tg.PeerUser)
	if !ok {
		return Recipient{}, ErrDestinationNotFound
	}

	for _, u := range resolved.Users {
		user, ok := u.(*tg.User)
		if !ok || user.ID != peerUser.UserID {
			continue
		}
		return Recipient{UserID: user.ID, AccessHash: user.AccessHash}, nil
	}

	return Recipient{}, ErrDestinationNotFound
}

func (s *clientSession) Send(ctx context.Context, recipient Recipient, text string) error {
	_, err := s.api.MessagesSendMessage(ctx, &tg.MessagesSendMessageRequest{
		Peer:     &tg.InputPeerUser{UserID: recipient.UserID, AccessHash: recipient.AccessHash},
		Message:  text,
		RandomID: rand.Int63(),
	})
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

func (s *clientSession) Close(ctx context.Context) error {
	s.cancel()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *clientSession) handleNewMessage(_ context.Context, _ tg.Entities, update *tg.UpdateNewMessage) error {
	msg, ok := update.Message.(*tg.Message)
	if !ok || msg.Out {
		return nil
	}

	// Private chats only; group and channel traffic is not reply material.
	peer, ok := msg.PeerID.(*tg.PeerUser)
	if !ok {
		return nil
	}

	s.mu.Lock()
	observer := s.observer
	s.mu.Unlock()

	if observer != nil {
		observer(peer.UserID, msg.Message)
	}

	return nil
}

type codeAuthenticator struct {
	phone string
	codes CodeProvider
}

func (c codeAuthenticator) Code(ctx context.Context, _ *tg.AuthSentCode) (string, error) {
	return c.codes.RequestCode(ctx, c.phone)
}
