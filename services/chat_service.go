package services

import (
	"log/slog"

	"whysapp/domain"
	"whysapp/errors"
	"whysapp/repositories"
)

type IChatService interface {
	Send(sender, body string, day *domain.Day) (uint64, error)
	Conversation(day domain.Day) ([]domain.Message, error)
	Edit(id uint64, requester, body string) error
	Delete(id uint64, requester string) error
}

// ChatService is the message API handed to the presentation layer.
// It validates sender identity and body before anything reaches the
// store; the store repeats the body check defensively.
type ChatService struct {
	messages repositories.IMessageRepository
	roster   domain.Roster
	log      *slog.Logger
}

func NewChatService(messages repositories.IMessageRepository, roster domain.Roster, log *slog.Logger) *ChatService {
	return &ChatService{messages: messages, roster: roster, log: log}
}

func (s *ChatService) Send(sender, body string, day *domain.Day) (uint64, error) {
	req := domain.SendRequest{Sender: sender, Body: body, Day: day}
	if err := domain.ValidateSend(req, s.roster); err != nil {
		return 0, err
	}
	return s.messages.Insert(sender, body, day)
}

func (s *ChatService) Conversation(day domain.Day) ([]domain.Message, error) {
	return s.messages.ListForDate(day)
}

func (s *ChatService) Edit(id uint64, requester, body string) error {
	if !s.roster.Knows(requester) {
		return errors.ErrUnknownSender
	}
	return s.messages.Update(id, requester, body)
}

func (s *ChatService) Delete(id uint64, requester string) error {
	if !s.roster.Knows(requester) {
		return errors.ErrUnknownSender
	}
	return s.messages.Delete(id, requester)
}
