// Package telegram wraps the MTProto client behind the narrow session
// surface the bridge needs: resolve a destination, send a text, observe
// inbound private messages.
package telegram

import "context"

// Account identifies one Telegram account. The phone number is the key the
// bridge uses everywhere.
type Account struct {
	APIID   int
	APIHash string
	Phone   string
}

// Recipient is a resolved destination peer.
type Recipient struct {
	UserID     int64
	AccessHash int64
}

// MessageObserver receives every inbound private message on a session. It is
// called from the client's update goroutine and must not block.
type MessageObserver func(senderID int64, text string)

// Session is one connected, authenticated account.
type Session interface {
	Phone() string
	Resolve(ctx context.Context, destination string) (Recipient, error)
	Send(ctx context.Context, recipient Recipient, text string) error
	// OnMessage attaches the single message observer, replacing any
	// previous one.
	OnMessage(observer MessageObserver)
	Close(ctx context.Context) error
}

// Dialer establishes sessions. Dial blocks until the account is connected
// and authorized, asking the CodeProvider for a login code when the stored
// session is not yet authenticated.
type Dialer interface {
	Dial(ctx context.Context, account Account, codes CodeProvider) (Session, error)
}

// CodeProvider supplies the one-time login code for an account. It is
// consulted at most once per account per startup.
type CodeProvider interface {
	RequestCode(ctx context.Context, phone string) (string, error)
}
