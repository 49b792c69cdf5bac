package test

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"testing"

	"whysapp/domain"
	"whysapp/errors"
	"whysapp/repositories"
	"whysapp/services"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"
)

// ChatSuite wires the real stack end-to-end: workbook → pool →
// mapping, and service → repository → Badger, the way the two CLIs do.
type ChatSuite struct {
	suite.Suite
	db        *badger.DB
	messages  *repositories.MessageRepository
	chat      *services.ChatService
	questions *services.QuestionService
}

func TestChatSuite(t *testing.T) {
	suite.Run(t, new(ChatSuite))
}

func (s *ChatSuite) SetupTest() {
	log := logs.GetLoggerFromLevel(slog.LevelError)

	db, err := badger.Open(badger.DefaultOptions(s.T().TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	s.Require().NoError(err)
	s.db = db

	roster, err := domain.NewRoster("User 1", "User 2")
	s.Require().NoError(err)

	s.messages = repositories.NewMessageRepository(db, log)
	s.chat = services.NewChatService(s.messages, roster, log)
	s.questions = services.NewQuestionService(
		repositories.NewQuestionRepository(db, log), s.writeWorkbook(), log)
}

func (s *ChatSuite) TearDownTest() {
	_ = s.messages.Close()
	_ = s.db.Close()
}

func (s *ChatSuite) writeWorkbook() string {
	f := excelize.NewFile()
	defer f.Close()
	for i, question := range []string{
		"What made you smile today?",
		"What are you grateful for?",
		"What scares you the most?",
	} {
		s.Require().NoError(f.SetCellValue("Sheet1", fmt.Sprintf("A%d", i+1), question))
	}
	path := filepath.Join(s.T().TempDir(), "questions_list.xlsx")
	s.Require().NoError(f.SaveAs(path))
	return path
}

func (s *ChatSuite) Test_Daily_Flow() {
	req := s.Require()
	day := domain.Day("2025-02-14")

	// The day has its question...
	req.NoError(s.questions.EnsureYear(day.Year()))
	question, ok, err := s.questions.QuestionFor(day)
	req.NoError(err)
	req.True(ok)
	req.NotEmpty(question)

	// ...both participants answer...
	first, err := s.chat.Send("User 1", "I loved our walk", &day)
	req.NoError(err)
	second, err := s.chat.Send("User 2", "Me too", &day)
	req.NoError(err)

	conversation, err := s.chat.Conversation(day)
	req.NoError(err)
	req.Len(conversation, 2)
	req.Equal(first, conversation[0].ID)
	req.Equal(second, conversation[1].ID)

	// ...one edit is rejected, one goes through...
	req.ErrorIs(s.chat.Edit(first, "User 2", "I hated it"), errors.ErrNotOwner)
	req.NoError(s.chat.Edit(first, "User 1", "I loved our walk in the park"))

	// ...and a deletion is permanent.
	req.NoError(s.chat.Delete(second, "User 2"))
	conversation, err = s.chat.Conversation(day)
	req.NoError(err)
	req.Len(conversation, 1)
	req.Equal("I loved our walk in the park", conversation[0].Body)
	req.ErrorIs(s.chat.Delete(second, "User 2"), errors.ErrMessageNotFound)
}

func (s *ChatSuite) Test_Unknown_Identity_Is_Rejected() {
	req := s.Require()

	_, err := s.chat.Send("Stranger", "let me in", nil)
	req.ErrorIs(err, errors.ErrUnknownSender)

	id, err := s.chat.Send("User 1", "private", nil)
	req.NoError(err)
	req.ErrorIs(s.chat.Edit(id, "Stranger", "mine now"), errors.ErrUnknownSender)
	req.ErrorIs(s.chat.Delete(id, "Stranger"), errors.ErrUnknownSender)
}

func (s *ChatSuite) Test_QuestionList_Range() {
	req := s.Require()

	req.NoError(s.questions.EnsureYear(2025))

	list, err := s.questions.QuestionList(domain.Day("2025-02-01"), domain.Day("2025-02-10"))
	req.NoError(err)
	req.Len(list, 10)
	req.Equal(domain.Day("2025-02-01"), list[0].Day)
	req.Equal(domain.Day("2025-02-10"), list[9].Day)

	// Days before any generated year are simply absent
	list, err = s.questions.QuestionList(domain.Day("2024-12-25"), domain.Day("2025-01-05"))
	req.NoError(err)
	req.Len(list, 5)
	req.Equal(domain.Day("2025-01-01"), list[0].Day)
}

func (s *ChatSuite) Test_Workbook_Only_Needed_Once() {
	req := s.Require()
	log := logs.GetLoggerFromLevel(slog.LevelError)

	req.NoError(s.questions.EnsureYear(2025))

	// Once the mapping is persisted, the workbook can disappear.
	broken := services.NewQuestionService(
		repositories.NewQuestionRepository(s.db, log), "gone.xlsx", log)
	req.NoError(broken.EnsureYear(2025))

	// A year that still needs generating does surface the read failure.
	req.ErrorIs(broken.EnsureYear(2026), errors.ErrSourceUnreadable)
}
