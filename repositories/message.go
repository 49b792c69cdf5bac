package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"whysapp/domain"
	"whysapp/errors"

	"github.com/dgraph-io/badger/v4"
)

type IMessageRepository interface {
	Insert(sender, body string, day *domain.Day) (uint64, error)
	ListForDate(day domain.Day) ([]domain.Message, error)
	ListAll() ([]domain.Message, error)
	Update(id uint64, requester, body string) error
	Delete(id uint64, requester string) error
	Close() error
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger

	mu  sync.Mutex
	seq *badger.Sequence
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) *MessageRepository {
	return &MessageRepository{db: db, log: log}
}

const (
	msgPrefix = "msg:"
	dayPrefix = "day:"
	seqKey    = "seq:msg"
)

// Keys zero-pad the id to 20 digits so that Badger's lexicographic
// key order is also id order:
//
//	msg:{id}            the row itself
//	day:{date}:{id}     secondary index, maintained in the same txn
func msgKey(id uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", msgPrefix, id))
}

func dayKey(day domain.Day, id uint64) []byte {
	return []byte(fmt.Sprintf("%s%s:%020d", dayPrefix, day, id))
}

type diskMessage struct {
	ID     uint64 `json:"id"`
	Sender string `json:"sender"`
	Body   string `json:"message"`
	At     int64  `json:"at"` // unix nanoseconds, UTC
}

func fromMessage(msg domain.Message) diskMessage {
	return diskMessage{
		ID:     msg.ID,
		Sender: msg.Sender,
		Body:   msg.Body,
		At:     msg.SentAt.UnixNano(),
	}
}

func toMessage(row diskMessage) domain.Message {
	return domain.Message{
		ID:     row.ID,
		Sender: row.Sender,
		Body:   row.Body,
		SentAt: time.Unix(0, row.At).UTC(),
	}
}

// nextID hands out ids from a Badger sequence: monotonic, never
// reused, safe across concurrent callers. Ids start at 1; a failed
// insert leaves a gap, as with an SQL autoincrement column.
// The sequence lease is acquired lazily so that read-only openings
// of the database (the viewer) never take it.
func (m *MessageRepository) nextID() (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seq == nil {
		seq, err := m.db.GetSequence([]byte(seqKey), 1)
		if err != nil {
			return 0, err
		}
		m.seq = seq
	}
	n, err := m.seq.Next()
	if err != nil {
		return 0, err
	}
	return n + 1, nil
}

// Close releases the id sequence lease.
func (m *MessageRepository) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seq == nil {
		return nil
	}
	return m.seq.Release()
}

// Insert appends a message. With an explicit day the timestamp is
// that day at midnight, so the row lands in that day's conversation;
// otherwise the insertion instant is used.
func (m *MessageRepository) Insert(sender, body string, day *domain.Day) (uint64, error) {
	if err := domain.ValidateBody(body); err != nil {
		return 0, err
	}

	at := time.Now().UTC()
	if day != nil {
		at = day.Midnight()
	}

	id, err := m.nextID()
	if err != nil {
		return 0, fmt.Errorf("%w: id sequence: %v", errors.ErrPersist, err)
	}

	msg := domain.Message{ID: id, Sender: sender, Body: body, SentAt: at}
	data, err := json.Marshal(fromMessage(msg))
	if err != nil {
		return 0, err
	}

	err = m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(msgKey(id), data); err != nil {
			return err
		}
		return txn.Set(dayKey(msg.Day(), id), nil)
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errors.ErrPersist, err)
	}

	m.log.Debug("message stored", "id", id, "sender", sender, "day", msg.Day())
	return id, nil
}

// ListForDate returns the day's messages in ascending id order, which
// is insertion order. An empty day yields an empty slice, not an error.
func (m *MessageRepository) ListForDate(day domain.Day) ([]domain.Message, error) {
	var messages []domain.Message
	prefix := []byte(dayPrefix + string(day) + ":")

	err := m.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false // index keys carry no values
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			id, err := strconv.ParseUint(string(it.Item().Key()[len(prefix):]), 10, 64)
			if err != nil {
				return fmt.Errorf("corrupt index key %q: %w", it.Item().Key(), err)
			}
			item, err := txn.Get(msgKey(id))
			if err == badger.ErrKeyNotFound {
				// Index and row are written in one txn; a missing row
				// would mean external tampering. Skip rather than fail
				// the whole read.
				m.log.Warn("dangling day index entry", "day", day, "id", id)
				continue
			}
			if err != nil {
				return err
			}
			var row diskMessage
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &row)
			}); err != nil {
				return err
			}
			messages = append(messages, toMessage(row))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// ListAll returns every message in ascending id order. Not used by the
// normal conversation flow; the viewer and tests rely on it.
func (m *MessageRepository) ListAll() ([]domain.Message, error) {
	var messages []domain.Message
	prefix := []byte(msgPrefix)

	err := m.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var row diskMessage
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &row)
			}); err != nil {
				return err
			}
			messages = append(messages, toMessage(row))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// Update replaces the body of a message, only for its original sender.
// Lookup, ownership check and write run in one transaction, so a
// concurrent delete or edit cannot slip between check and act.
// Id, sender and timestamp are never touched.
func (m *MessageRepository) Update(id uint64, requester, body string) error {
	if err := domain.ValidateBody(body); err != nil {
		return err
	}

	err := m.db.Update(func(txn *badger.Txn) error {
		row, err := getRow(txn, id)
		if err != nil {
			return err
		}
		if row.Sender != requester {
			return errors.ErrNotOwner
		}
		row.Body = body
		data, err := json.Marshal(row)
		if err != nil {
			return err
		}
		return txn.Set(msgKey(id), data)
	})
	return m.outcome("message updated", id, requester, err)
}

// Delete permanently removes a message, only for its original sender.
// There is no tombstone; the row and its day index entry go together.
func (m *MessageRepository) Delete(id uint64, requester string) error {
	err := m.db.Update(func(txn *badger.Txn) error {
		row, err := getRow(txn, id)
		if err != nil {
			return err
		}
		if row.Sender != requester {
			return errors.ErrNotOwner
		}
		if err := txn.Delete(msgKey(id)); err != nil {
			return err
		}
		return txn.Delete(dayKey(domain.DayOf(time.Unix(0, row.At)), id))
	})
	return m.outcome("message deleted", id, requester, err)
}

func getRow(txn *badger.Txn, id uint64) (diskMessage, error) {
	item, err := txn.Get(msgKey(id))
	if err == badger.ErrKeyNotFound {
		return diskMessage{}, errors.ErrMessageNotFound
	}
	if err != nil {
		return diskMessage{}, err
	}
	var row diskMessage
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &row)
	}); err != nil {
		return diskMessage{}, err
	}
	return row, nil
}

// outcome funnels write results: domain rejections pass through
// untouched, anything else is a persistence failure.
func (m *MessageRepository) outcome(action string, id uint64, requester string, err error) error {
	switch err {
	case nil:
		m.log.Debug(action, "id", id, "requester", requester)
		return nil
	case errors.ErrMessageNotFound, errors.ErrNotOwner:
		return err
	default:
		return fmt.Errorf("%w: %v", errors.ErrPersist, err)
	}
}
