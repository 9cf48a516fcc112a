package school

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"attendance-server-go/models"
)

// MarkAttendance records the status of a student for a date and subject.
type MarkAttendance struct {
	StudentID string `json:"studentId" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Subject   string `json:"subject" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=present absent"`
}

func (ma *MarkAttendance) Validate() error {
	ma.StudentID = cleanString(ma.StudentID)
	ma.Date = cleanString(ma.Date)
	ma.Subject = cleanString(ma.Subject)
	ma.Status = cleanString(ma.Status)
	return fromValidator(validate.Struct(ma))
}

// MarkAttendance replaces any record of the same student, date and subject with a
// new one stamped with the current time. A panic while recording is returned as an error.
func (r *Registry) MarkAttendance(ctx context.Context, ma MarkAttendance) (rec models.AttendanceRecord, err error) {
	if err := ma.Validate(); err != nil {
		return models.AttendanceRecord{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	defer func() {
		if rcv := recover(); rcv != nil {
			r.log.Error("error marking attendance", zap.Any("panic", rcv), zap.Stack("stack"))
			rec, err = models.AttendanceRecord{}, fmt.Errorf("error marking attendance: %v", rcv)
		}
	}()

	if _, ok := r.data.FindStudent(ma.StudentID); !ok {
		return models.AttendanceRecord{}, ErrStudentNotFound
	}

	kept := make([]models.AttendanceRecord, 0, len(r.data.Attendance)+1)
	for _, a := range r.data.Attendance {
		if !a.SameSlot(ma.StudentID, ma.Date, ma.Subject) {
			kept = append(kept, a)
		}
	}
	rec = models.AttendanceRecord{
		StudentID: ma.StudentID,
		Date:      ma.Date,
		Subject:   ma.Subject,
		Status:    ma.Status,
		Timestamp: r.timestamp(),
	}
	r.data.Attendance = append(kept, rec)
	return rec, r.commit(ctx)
}

// PruneOrphanAttendance removes attendance of students that no longer exist and
// returns how many records were removed.
func (r *Registry) PruneOrphanAttendance(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make(map[string]struct{}, len(r.data.Students))
	for _, s := range r.data.Students {
		ids[s.ID] = struct{}{}
	}
	kept := make([]models.AttendanceRecord, 0, len(r.data.Attendance))
	for _, a := range r.data.Attendance {
		if _, ok := ids[a.StudentID]; ok {
			kept = append(kept, a)
		}
	}

	removed := len(r.data.Attendance) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	r.data.Attendance = kept
	r.log.Info("orphan attendance pruned", zap.Int("removed", removed))
	return removed, r.commit(ctx)
}
