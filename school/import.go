package school

import (
	"context"

	"go.uber.org/zap"

	"attendance-server-go/importer"
	"attendance-server-go/models"
)

// ImportResult summarizes an import
type ImportResult struct {
	Success int              `json:"success"`
	Errors  int              `json:"errors"`
	Issues  []importer.Issue `json:"issues"`
}

// ImportStudents adds a student per row (roll number, name, class name). Unreadable
// rows, rows with fewer than three fields or a missing roll number or name, and rows
// naming an unknown class or a used roll number are counted as errors. Everything
// is saved once at the end.
func (r *Registry) ImportStudents(ctx context.Context, rows []importer.Row) (ImportResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := ImportResult{Issues: []importer.Issue{}}
	reject := func(line int, reason string) {
		res.Errors++
		res.Issues = append(res.Issues, importer.Issue{Line: line, Reason: reason})
	}

	for _, row := range rows {
		if row.Problem != "" {
			reject(row.Line, row.Problem)
			continue
		}
		if len(row.Fields) < 3 {
			reject(row.Line, "expected roll number, name and class")
			continue
		}
		s := models.Student{ID: row.Fields[0], Name: row.Fields[1], Class: row.Fields[2]}
		switch {
		case s.ID == "" || s.Name == "":
			reject(row.Line, "missing roll number or name")
		case !r.data.HasClass(s.Class):
			reject(row.Line, "class "+s.Class+" does not exist")
		case r.studentIndex(s.ID) >= 0:
			reject(row.Line, "roll number "+s.ID+" already exists")
		default:
			r.data.Students = append(r.data.Students, s)
			res.Success++
		}
	}

	r.log.Info("students imported", zap.Int("success", res.Success), zap.Int("errors", res.Errors))
	if res.Success == 0 {
		return res, nil
	}
	return res, r.commit(ctx)
}
