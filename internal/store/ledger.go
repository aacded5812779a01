// Package store keeps the ledger of committed game states in BadgerDB. Every
// accepted move appends one entry; the entry with the highest ply is the
// authoritative state of a game.
package store

import (
	"encoding/binary"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/Tejaaswini/zeroking/internal/errors"
	"github.com/Tejaaswini/zeroking/internal/model"
)

// Storage keys
const (
	keyGamePrefix = "game/"
	keyMetaSuffix = "/meta"
	keyPlyInfix   = "/ply/"
)

// ErrPlyExists is returned by Append for a ply that is already committed.
var ErrPlyExists = stderrors.New("ply already committed")

// GameMeta describes a game independently of its moves.
type GameMeta struct {
	ID        string          `json:"id"`
	WhiteKey  string          `json:"white_key"`
	BlackKey  string          `json:"black_key"`
	Lifecycle model.Lifecycle `json:"lifecycle"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Entry is one committed state together with the ply that produced it.
type Entry struct {
	Ply   model.Ply       `json:"ply"`
	State model.GameState `json:"state"`
}

// Ledger wraps BadgerDB for persistent storage
type Ledger struct {
	db *badger.DB
}

// Open opens the ledger in dir. An empty dir keeps everything in memory.
func Open(dir string) (*Ledger, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Close closes the database
func (l *Ledger) Close() error {
	if l.db != nil {
		return l.db.Close()
	}
	return nil
}

func metaKey(id string) []byte {
	return []byte(keyGamePrefix + id + keyMetaSuffix)
}

func plyPrefix(id string) []byte {
	return []byte(keyGamePrefix + id + keyPlyInfix)
}

// plyKey appends the ply as a big-endian uint64 so keys sort by ply.
func plyKey(id string, ply int) []byte {
	return binary.BigEndian.AppendUint64(plyPrefix(id), uint64(ply))
}

// SaveMeta writes the metadata of a game, replacing any earlier version.
func (l *Ledger) SaveMeta(meta GameMeta) error {
	meta.UpdatedAt = time.Now()
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = meta.UpdatedAt
	}

	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}

	return l.db.Update(func(txn *badger.Txn) error {
		return txn.Set(metaKey(meta.ID), data)
	})
}

// LoadMeta returns ErrGameNotFound for an unknown id.
func (l *Ledger) LoadMeta(id string) (GameMeta, error) {
	var meta GameMeta

	err := l.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(metaKey(id))
		if err == badger.ErrKeyNotFound {
			return errors.Wrapf(errors.ErrGameNotFound, "game %s", id)
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &meta)
		})
	})

	return meta, err
}

// Append commits e under its ply number. A ply is written once; committing
// it again fails with ErrPlyExists.
func (l *Ledger) Append(id string, e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	key := plyKey(id, e.Ply.Number)
	return l.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return fmt.Errorf("game %s ply %d: %w", id, e.Ply.Number, ErrPlyExists)
		}
		if err != badger.ErrKeyNotFound {
			return err
		}
		return txn.Set(key, data)
	})
}

// Latest returns the entry with the highest ply.
func (l *Ledger) Latest(id string) (Entry, error) {
	var e Entry
	found := false

	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		prefix := plyPrefix(id)
		it := txn.NewIterator(opts)
		defer it.Close()

		it.Seek(append(plyPrefix(id), 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff))
		if !it.ValidForPrefix(prefix) {
			return nil
		}
		found = true
		return it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &e)
		})
	})
	if err != nil {
		return Entry{}, err
	}
	if !found {
		return Entry{}, errors.Wrapf(errors.ErrGameNotFound, "game %s has no committed state", id)
	}
	return e, nil
}

// History returns every entry of a game in ply order.
func (l *Ledger) History(id string) ([]Entry, error) {
	var entries []Entry

	err := l.db.View(func(txn *badger.Txn) error {
		prefix := plyPrefix(id)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var e Entry
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			}); err != nil {
				return err
			}
			entries = append(entries, e)
		}
		return nil
	})

	return entries, err
}

// Games returns the metadata of every stored game.
func (l *Ledger) Games() ([]GameMeta, error) {
	var metas []GameMeta

	err := l.db.View(func(txn *badger.Txn) error {
		prefix := []byte(keyGamePrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			if !strings.HasSuffix(string(item.Key()), keyMetaSuffix) {
				continue
			}
			var meta GameMeta
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &meta)
			}); err != nil {
				return err
			}
			metas = append(metas, meta)
		}
		return nil
	})

	return metas, err
}
