// Package store provides the durable key/value substrate and the
// repositories built on top of it. Values are opaque strings; JSON
// encoding is the caller's concern.
package store

import "context"

// KV is the minimal key/value contract every backend satisfies. Get
// reports absence through the bool, never through an error; errors are
// reserved for infrastructure failures.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keys owned by this application. The repositories enumerate them so a
// clear-all can wipe exactly this namespace.
const (
	KeySessions     = "pishoo-chats"
	KeyCurrentChat  = "pishoo-current-chat"
	KeyAPIKey       = "gemini-api-key"
	KeyFontSize     = "pishoo-font-size"
	KeyAutoSave     = "pishoo-auto-save"
	KeySoundEnabled = "pishoo-sound-enabled"
	KeyTheme        = "pishoo-theme"
)

// AllKeys lists every key the application writes.
func AllKeys() []string {
	return []string{
		KeySessions,
		KeyCurrentChat,
		KeyAPIKey,
		KeyFontSize,
		KeyAutoSave,
		KeySoundEnabled,
		KeyTheme,
	}
}
