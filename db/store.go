package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"attendance-server-go/models"
)

// Collection keys. Each list is stored as one JSON array under its own key.
const (
	StudentsKey    = "students"
	TeachersKey    = "teachers"
	AssignmentsKey = "teacherAssignments"
	ClassesKey     = "classes"
	AttendanceKey  = "attendance"
	BackupKey      = "dataBackup" // transient copy of everything, never read back automatically
)

// Backup is the payload written under BackupKey
type Backup struct {
	models.Collections
	Timestamp string `json:"timestamp"`
}

// Store reads and writes the five school collections through a KV backend
type Store struct {
	kv        KV
	prefix    string
	backupTTL time.Duration
	log       *zap.Logger
	now       func() time.Time
}

// NewStore creates a new Store. prefix is prepended to every key.
func NewStore(kv KV, prefix string, backupTTL time.Duration, log *zap.Logger) *Store {
	return &Store{
		kv:        kv,
		prefix:    prefix,
		backupTTL: backupTTL,
		log:       log,
		now:       time.Now,
	}
}

func (s *Store) key(name string) string {
	return s.prefix + name
}

// loadList reads one collection. A missing key yields an empty list, a stored
// JSON null yields nil, and any read or decode failure falls back to an empty list.
func loadList[T any](ctx context.Context, s *Store, name string) []T {
	data, err := s.kv.Get(ctx, s.key(name))
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.log.Error("error loading collection, using default", zap.String("key", name), zap.Error(err))
		}
		return []T{}
	}

	var list []T
	if err := json.Unmarshal(data, &list); err != nil {
		s.log.Error("error decoding collection, using default", zap.String("key", name), zap.Error(err))
		return []T{}
	}
	return list
}

// Load reads every collection independently. It never fails.
func (s *Store) Load(ctx context.Context) models.Collections {
	return models.Collections{
		Students:    loadList[models.Student](ctx, s, StudentsKey),
		Teachers:    loadList[models.Teacher](ctx, s, TeachersKey),
		Assignments: loadList[models.Assignment](ctx, s, AssignmentsKey),
		Classes:     loadList[models.Clazz](ctx, s, ClassesKey),
		Attendance:  loadList[models.AttendanceRecord](ctx, s, AttendanceKey),
	}
}

// Save writes the five collections in order and stops at the first failure.
func (s *Store) Save(ctx context.Context, c models.Collections) error {
	items := []struct {
		name  string
		value interface{}
	}{
		{StudentsKey, c.Students},
		{TeachersKey, c.Teachers},
		{AssignmentsKey, c.Assignments},
		{ClassesKey, c.Classes},
		{AttendanceKey, c.Attendance},
	}

	for _, item := range items {
		data, err := json.Marshal(item.value)
		if err != nil {
			return errors.Wrapf(err, "encoding %s", item.name)
		}
		if err := s.kv.Set(ctx, s.key(item.name), data); err != nil {
			return errors.Wrapf(err, "saving %s", item.name)
		}
	}
	return nil
}

// Backup writes a transient copy of c. Failures are only logged.
func (s *Store) Backup(ctx context.Context, c models.Collections) {
	data, err := json.Marshal(Backup{
		Collections: c,
		Timestamp:   s.now().UTC().Format(time.RFC3339),
	})
	if err == nil {
		err = s.kv.SetTransient(ctx, s.key(BackupKey), data, s.backupTTL)
	}
	if err != nil {
		s.log.Warn("failed to write backup", zap.Error(err))
	}
}

// LoadBackup returns the last transient backup, if it has not expired.
func (s *Store) LoadBackup(ctx context.Context) (*Backup, error) {
	data, err := s.kv.Get(ctx, s.key(BackupKey))
	if err != nil {
		return nil, err
	}
	var b Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, errors.Wrap(err, "decoding backup")
	}
	return &b, nil
}

// Ping checks that the backend is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}

// Close releases the backend
func (s *Store) Close() error {
	return s.kv.Close()
}
