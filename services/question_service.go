package services

import (
	"log/slog"

	"whysapp/domain"
	"whysapp/questions"
	"whysapp/repositories"
)

type IQuestionService interface {
	EnsureYear(year int) error
	QuestionFor(day domain.Day) (string, bool, error)
	QuestionList(from, to domain.Day) ([]domain.DailyQuestion, error)
}

// QuestionService ties the workbook loader to the persisted mapping.
// The workbook is only opened when a year actually needs generating;
// once a mapping exists it is the sole source of truth.
type QuestionService struct {
	questions  repositories.IQuestionRepository
	sourcePath string
	log        *slog.Logger
}

func NewQuestionService(repo repositories.IQuestionRepository, sourcePath string, log *slog.Logger) *QuestionService {
	return &QuestionService{questions: repo, sourcePath: sourcePath, log: log}
}

// EnsureYear generates the year's mapping if it does not exist yet.
// A source read failure or an empty pool aborts generation; nothing
// partial is persisted and the error surfaces to the caller.
func (s *QuestionService) EnsureYear(year int) error {
	existing, err := s.questions.ListYear(year)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	pool, err := questions.LoadPool(s.sourcePath)
	if err != nil {
		return err
	}
	s.log.Info("loaded question pool", "source", s.sourcePath, "questions", len(pool))

	_, err = s.questions.EnsureYear(pool, year)
	return err
}

func (s *QuestionService) QuestionFor(day domain.Day) (string, bool, error) {
	return s.questions.QuestionFor(day)
}

// QuestionList returns the assigned questions between from and to
// inclusive, in date order. Days outside any generated year are simply
// absent from the result.
func (s *QuestionService) QuestionList(from, to domain.Day) ([]domain.DailyQuestion, error) {
	var list []domain.DailyQuestion
	for year := from.Year(); year <= to.Year(); year++ {
		yearList, err := s.questions.ListYear(year)
		if err != nil {
			return nil, err
		}
		for _, dq := range yearList {
			if dq.Day >= from && dq.Day <= to {
				list = append(list, dq)
			}
		}
	}
	return list, nil
}
