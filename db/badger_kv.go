package db

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// BadgerKV is an embedded, on-disk store for single-machine installs
type BadgerKV struct {
	db *badger.DB
}

var _ KV = (*BadgerKV)(nil)

// OpenBadger opens (or creates) a Badger database in dir.
// An empty dir opens an in-memory database.
func OpenBadger(dir string, log *zap.Logger) (*BadgerKV, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithLogger(nil)

	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening badger at %q", dir)
	}
	log.Info("opened badger store", zap.String("dir", dir), zap.Bool("inMemory", dir == ""))
	return &BadgerKV{db: bdb}, nil
}

func (b *BadgerKV) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, errors.Wrapf(err, "badger get %s", key)
	}
	return value, nil
}

func (b *BadgerKV) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	return errors.Wrapf(err, "badger set %s", key)
}

func (b *BadgerKV) SetTransient(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(key), value).WithTTL(ttl))
	})
	return errors.Wrapf(err, "badger set %s (ttl %s)", key, ttl)
}

func (b *BadgerKV) Ping(ctx context.Context) error {
	if b.db.IsClosed() {
		return errors.New("badger store is closed")
	}
	return ctx.Err()
}

func (b *BadgerKV) Close() error {
	return b.db.Close()
}
