package school

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"attendance-server-go/db"
	"attendance-server-go/models"
)

// fakeStore keeps the last saved state and can be told to fail saves.
type fakeStore struct {
	loaded   models.Collections
	saved    models.Collections
	saves    int
	backups  int
	failSave bool
}

func (f *fakeStore) Load(context.Context) models.Collections { return f.loaded.Clone() }

func (f *fakeStore) Save(ctx context.Context, c models.Collections) error {
	if f.failSave {
		return assert.AnError
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	f.saves++
	f.saved = c.Clone()
	return nil
}

func (f *fakeStore) Backup(context.Context, models.Collections) { f.backups++ }

func newTestRegistry(t *testing.T, store Persister) *Registry {
	t.Helper()
	r := NewRegistry(store, zap.NewNop())
	var n int
	r.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	r.now = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) }
	return r
}

// seededRegistry returns a loaded registry with the default teachers, classes and assignments.
func seededRegistry(t *testing.T) (*Registry, *fakeStore) {
	t.Helper()
	store := &fakeStore{loaded: models.NewCollections()}
	r := newTestRegistry(t, store)
	require.NoError(t, r.Load(context.Background(), true))
	return r, store
}

func TestRegistry_LoadSeedsDefaults(t *testing.T) {
	r, store := seededRegistry(t)

	snap := r.Snapshot()
	assert.Len(t, snap.Teachers, 2)
	assert.Len(t, snap.Classes, 2)
	require.Len(t, snap.Assignments, 4)
	for _, a := range snap.Assignments {
		assert.NotEmpty(t, a.ID, "seeded assignments get an id")
	}
	assert.Empty(t, snap.Students)
	assert.NotNil(t, snap.Students)

	assert.Equal(t, 1, store.saves)
	assert.Equal(t, 1, store.backups)
	assert.Equal(t, snap, store.saved)
}

func TestRegistry_LoadWithoutSeeding(t *testing.T) {
	store := &fakeStore{loaded: models.NewCollections()}
	r := newTestRegistry(t, store)

	require.NoError(t, r.Load(context.Background(), false))

	assert.Equal(t, models.NewCollections(), r.Snapshot())
}

func TestRegistry_LoadRepairsInvalidData(t *testing.T) {
	loaded := models.NewCollections()
	loaded.Teachers = []models.Teacher{{ID: "1", Name: "Dr. Abdul Sami"}}
	loaded.Classes = []models.Clazz{{Name: "BS-I"}}
	loaded.Assignments = []models.Assignment{
		{ID: "a1", TeacherID: "1", Class: "BS-I", Subject: "Soil Microbiology"},
		{ID: "a2", TeacherID: "99", Class: "BS-I", Subject: "General Virology"},
	}
	loaded.Students = []models.Student{
		{ID: "S1", Name: "Ayesha", Class: "BS-I"},
		{ID: "S2", Name: "Bilal", Class: "BS-IX"},
	}
	loaded.Attendance = nil
	store := &fakeStore{loaded: loaded}
	r := newTestRegistry(t, store)

	require.NoError(t, r.Load(context.Background(), false))

	snap := r.Snapshot()
	assert.True(t, Validate(snap))
	assert.Equal(t, []models.Student{{ID: "S1", Name: "Ayesha", Class: "BS-I"}}, snap.Students)
	require.Len(t, snap.Assignments, 1)
	assert.Equal(t, "a1", snap.Assignments[0].ID)
	assert.NotNil(t, snap.Attendance)
}

func TestRegistry_SaveFailureKeepsChange(t *testing.T) {
	r, store := seededRegistry(t)
	store.failSave = true

	s, err := r.AddStudent(context.Background(), NewStudent{ID: "S1", Name: "Ayesha", Class: "BS-I"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotPersisted)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, "S1", s.ID)

	_, err = r.Student("S1")
	assert.NoError(t, err, "the change stays in memory")
	assert.Equal(t, 2, store.backups, "the backup is attempted anyway")
}

func TestRegistry_OverMemoryStore(t *testing.T) {
	ctx := context.Background()
	kv := db.NewMemoryKV()
	store := db.NewStore(kv, "", time.Hour, zap.NewNop())

	r := newTestRegistry(t, store)
	require.NoError(t, r.Load(ctx, true))
	_, err := r.AddStudent(ctx, NewStudent{ID: "S1", Name: "Ayesha", Class: "BS-I"})
	require.NoError(t, err)

	// a fresh registry sees the same state
	r2 := newTestRegistry(t, store)
	require.NoError(t, r2.Load(ctx, true))
	assert.Equal(t, r.Snapshot(), r2.Snapshot())

	b, err := store.LoadBackup(ctx)
	require.NoError(t, err)
	assert.Len(t, b.Students, 1)
}

func TestRegistry_CancelledContextStillPersists(t *testing.T) {
	r, store := seededRegistry(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.AddStudent(ctx, NewStudent{ID: "S1", Name: "Ayesha", Class: "BS-I"})

	require.NoError(t, err)
	assert.Equal(t, []models.Student{{ID: "S1", Name: "Ayesha", Class: "BS-I"}}, store.saved.Students)
}

func TestRegistry_CancelledContextOverBadger(t *testing.T) {
	kv, err := db.OpenBadger("", zap.NewNop())
	require.NoError(t, err)
	store := db.NewStore(kv, "", time.Hour, zap.NewNop())
	defer store.Close()

	r := newTestRegistry(t, store)
	require.NoError(t, r.Load(context.Background(), true))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.AddStudent(ctx, NewStudent{ID: "S1", Name: "Ayesha", Class: "BS-I"})
	require.NoError(t, err)

	loaded := store.Load(context.Background())
	assert.Len(t, loaded.Students, 1)
}

func TestRegistry_SnapshotIsACopy(t *testing.T) {
	r, _ := seededRegistry(t)

	snap := r.Snapshot()
	snap.Classes[0].Name = "changed"

	assert.Equal(t, "BS-I", r.Snapshot().Classes[0].Name)
}
