package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"whysapp/domain"
	"whysapp/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo/mutable"
)

type IQuestionRepository interface {
	EnsureYear(pool []string, year int) (map[domain.Day]string, error)
	QuestionFor(day domain.Day) (string, bool, error)
	ListYear(year int) ([]domain.DailyQuestion, error)
}

// QuestionRepository owns the persisted date→question mapping. One
// record per day under "qotd:{year}:{date}", plus a meta record whose
// presence marks the year as generated:
//
//	qotd:{year}:{date}   question text
//	qotd:{year}:meta     generation metadata (JSON)
//
// The meta record is written in the same transaction as the day rows,
// so a reader never observes a partially generated year.
type QuestionRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewQuestionRepository(db *badger.DB, log *slog.Logger) *QuestionRepository {
	return &QuestionRepository{db: db, log: log}
}

const metaSuffix = "meta"

func yearPrefix(year int) string {
	return fmt.Sprintf("qotd:%d:", year)
}

func qotdKey(day domain.Day) []byte {
	return []byte(yearPrefix(day.Year()) + string(day))
}

func metaKey(year int) []byte {
	return []byte(yearPrefix(year) + metaSuffix)
}

type yearMeta struct {
	Generation  string `json:"generation"`
	PoolSize    int    `json:"pool_size"`
	GeneratedAt int64  `json:"generated_at"`
}

// errAlreadyGenerated aborts a generation txn when another writer got
// there first. Never escapes this package.
var errAlreadyGenerated = fmt.Errorf("year already generated")

// EnsureYear returns the year's mapping, generating it once if absent.
//
// An existing mapping is returned unchanged whatever pool is passed in:
// questions already shown must stay stable across restarts and pool
// edits. Otherwise the pool is shuffled once and day n of the year gets
// pool[(n-1) mod len(pool)], so a short pool cycles.
//
// Generation is first-writer-wins: the whole year is written in one
// create-if-absent transaction, and a loser discards its own shuffle
// and returns the winner's rows. If the durable write fails outright,
// the in-memory mapping is still returned alongside an error wrapping
// errors.ErrPersist — usable for this run, not durable.
func (r *QuestionRepository) EnsureYear(pool []string, year int) (map[domain.Day]string, error) {
	existing, err := r.loadYear(year)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrPersist, err)
	}
	if existing != nil {
		return existing, nil
	}

	if len(pool) == 0 {
		return nil, errors.ErrEmptyPool
	}

	shuffled := append([]string(nil), pool...)
	mutable.Shuffle(shuffled)

	mapping := make(map[domain.Day]string, domain.DaysInYear(year))
	for i, day := range domain.DatesOfYear(year) {
		mapping[day] = shuffled[i%len(shuffled)]
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		switch _, err := txn.Get(metaKey(year)); err {
		case badger.ErrKeyNotFound:
		case nil:
			return errAlreadyGenerated
		default:
			return err
		}
		for day, question := range mapping {
			if err := txn.Set(qotdKey(day), []byte(question)); err != nil {
				return err
			}
		}
		meta, err := json.Marshal(yearMeta{
			Generation:  uuid.NewString(),
			PoolSize:    len(pool),
			GeneratedAt: time.Now().UnixNano(),
		})
		if err != nil {
			return err
		}
		return txn.Set(metaKey(year), meta)
	})

	switch err {
	case nil:
		r.log.Info("question mapping generated", "year", year, "days", len(mapping), "pool", len(pool))
		return mapping, nil
	case errAlreadyGenerated, badger.ErrConflict:
		// Another caller won the race; our shuffle is discarded.
		winner, loadErr := r.loadYear(year)
		if loadErr != nil || winner == nil {
			return nil, fmt.Errorf("%w: reloading winning mapping: %v", errors.ErrPersist, loadErr)
		}
		return winner, nil
	default:
		return mapping, fmt.Errorf("%w: %v", errors.ErrPersist, err)
	}
}

// loadYear returns nil (no error) when the year has not been generated.
// Day rows without a meta record do not count as a generated year.
func (r *QuestionRepository) loadYear(year int) (map[domain.Day]string, error) {
	mapping := make(map[domain.Day]string)
	generated := false
	prefix := []byte(yearPrefix(year))

	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			rest := strings.TrimPrefix(string(item.Key()), string(prefix))
			if rest == metaSuffix {
				generated = true
				continue
			}
			err := item.Value(func(val []byte) error {
				mapping[domain.Day(rest)] = string(val)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !generated {
		return nil, nil
	}
	return mapping, nil
}

// QuestionFor looks up the question assigned to a date. A date outside
// any generated year is a normal condition and reports ok=false.
func (r *QuestionRepository) QuestionFor(day domain.Day) (string, bool, error) {
	var question string
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(qotdKey(day))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			question = string(val)
			return nil
		})
	})
	if err == badger.ErrKeyNotFound {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return question, true, nil
}

// ListYear returns the year's (date, question) pairs in date order.
// An ungenerated year yields an empty slice.
func (r *QuestionRepository) ListYear(year int) ([]domain.DailyQuestion, error) {
	mapping, err := r.loadYear(year)
	if err != nil {
		return nil, err
	}

	// Walking the calendar gives date order without sorting map keys.
	var list []domain.DailyQuestion
	for _, day := range domain.DatesOfYear(year) {
		if question, ok := mapping[day]; ok {
			list = append(list, domain.DailyQuestion{Day: day, Question: question})
		}
	}
	return list, nil
}
