package school

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"attendance-server-go/models"
)

// Persister is where the registry loads its state from and saves it to.
type Persister interface {
	Load(ctx context.Context) models.Collections
	Save(ctx context.Context, c models.Collections) error
	Backup(ctx context.Context, c models.Collections)
}

// Registry owns the in-memory school state. Every mutation is applied under the
// write lock, validated, repaired if needed, then persisted.
type Registry struct {
	mu    sync.RWMutex
	data  models.Collections
	store Persister
	log   *zap.Logger
	now   func() time.Time
	newID func() string
}

// NewRegistry creates a new Registry with an empty state. Call Load before serving.
func NewRegistry(store Persister, log *zap.Logger) *Registry {
	return &Registry{
		data:  models.NewCollections(),
		store: store,
		log:   log,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

// Load replaces the state with what is stored. Invalid data is repaired, assignments
// without ID get one and, if seedDefaults is set, empty teachers, assignments or
// classes are filled with the initial data. The result is saved back.
func (r *Registry) Load(ctx context.Context, seedDefaults bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := r.store.Load(ctx)
	if !Validate(data) {
		if !data.IsEmpty() {
			r.log.Warn("stored data failed validation, some data may be missing")
		}
		r.logRepair(Repair(&data))
	}
	r.data = data

	if seedDefaults && r.data.NeedsDefaults() {
		r.data.ApplyDefaults()
		r.log.Info("seeded default teachers, assignments and classes")
	}
	r.ensureAssignmentIDs()

	r.log.Info("data loaded",
		zap.Int("students", len(r.data.Students)),
		zap.Int("teachers", len(r.data.Teachers)),
		zap.Int("classes", len(r.data.Classes)),
		zap.Int("attendance", len(r.data.Attendance)),
	)
	return r.commit(ctx)
}

// Snapshot returns a deep copy of the current state.
func (r *Registry) Snapshot() models.Collections {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.data.Clone()
}

// commit validates, repairs and persists the state. The caller must hold the write lock.
// On a storage failure the in-memory state is kept and the error matches ErrNotPersisted.
// The save is not cut short when ctx is cancelled, the change is already applied.
func (r *Registry) commit(ctx context.Context) error {
	if !Validate(r.data) {
		r.logRepair(Repair(&r.data))
	}

	ctx = context.WithoutCancel(ctx)

	err := r.store.Save(ctx, r.data)
	r.store.Backup(ctx, r.data)
	if err != nil {
		r.log.Error("error saving data", zap.Error(err))
		return &persistError{err}
	}
	return nil
}

func (r *Registry) logRepair(rep RepairReport) {
	r.log.Warn("data validation failed, repaired",
		zap.Int("droppedAssignments", rep.DroppedAssignments),
		zap.Int("droppedStudents", rep.DroppedStudents),
	)
}

// ensureAssignmentIDs gives every assignment without an ID a new one.
func (r *Registry) ensureAssignmentIDs() {
	for i := range r.data.Assignments {
		if r.data.Assignments[i].ID == "" {
			r.data.Assignments[i].ID = r.newID()
		}
	}
}

func (r *Registry) timestamp() string {
	return r.now().UTC().Format(time.RFC3339)
}
