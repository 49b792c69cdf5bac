package services

import (
	"log/slog"
	"testing"

	"whysapp/domain"
	"whysapp/errors"
	"whysapp/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func newTestChat(t *testing.T) *ChatService {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logs.GetLoggerFromLevel(slog.LevelError)
	messages := repositories.NewMessageRepository(db, log)
	t.Cleanup(func() { _ = messages.Close() })

	roster, err := domain.NewRoster("User 1", "User 2")
	require.NoError(t, err)
	return NewChatService(messages, roster, log)
}

func TestChatService_Send_Validation(t *testing.T) {
	chat := newTestChat(t)

	tests := []struct {
		name    string
		sender  string
		body    string
		wantErr error
	}{
		{"valid", "User 1", "hello", nil},
		{"blank body", "User 1", "   ", errors.ErrEmptyBody},
		{"empty body", "User 2", "", errors.ErrEmptyBody},
		{"outsider", "User 3", "hello", errors.ErrUnknownSender},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := chat.Send(tt.sender, tt.body, nil)
			if tt.wantErr == nil {
				require.NoError(t, err)
				require.NotZero(t, id)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			require.Zero(t, id)
		})
	}
}

func TestChatService_Requester_Must_Be_Known(t *testing.T) {
	req := require.New(t)
	chat := newTestChat(t)

	id, err := chat.Send("User 1", "mine", nil)
	req.NoError(err)

	req.ErrorIs(chat.Edit(id, "User 3", "stolen"), errors.ErrUnknownSender)
	req.ErrorIs(chat.Delete(id, "User 3"), errors.ErrUnknownSender)

	// Known but wrong participant still fails downstream
	req.ErrorIs(chat.Edit(id, "User 2", "stolen"), errors.ErrNotOwner)
}
