package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"attendance-server-go/export"
	"attendance-server-go/reports"
	"attendance-server-go/school"
)

// --- Attendance Handlers ---

// MarkAttendance handles POST /api/attendance
func (h *APIHandler) MarkAttendance(c *gin.Context) {
	var ma school.MarkAttendance
	if !bindJSON(c, &ma) {
		return
	}
	rec, err := h.Registry.MarkAttendance(c.Request.Context(), ma)
	h.respondMutation(c, http.StatusOK, rec, err)
}

type sheetQuery struct {
	Class   string `form:"class" binding:"required"`
	Date    string `form:"date" binding:"required,datetime=2006-01-02"`
	Subject string `form:"subject" binding:"required"`
}

// GetAttendanceSheet handles GET /api/attendance/sheet?class=&date=&subject=
func (h *APIHandler) GetAttendanceSheet(c *gin.Context) {
	var q sheetQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "class, date (YYYY-MM-DD) and subject are required"})
		return
	}
	rows, err := reports.AttendanceSheet(h.Registry.Snapshot(), q.Class, q.Date, q.Subject)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// PruneOrphanAttendance handles POST /api/attendance/prune-orphans
func (h *APIHandler) PruneOrphanAttendance(c *gin.Context) {
	n, err := h.Registry.PruneOrphanAttendance(c.Request.Context())
	h.respondMutation(c, http.StatusOK, gin.H{"removed": n}, err)
}

// --- Report Handlers ---

// GetOverallReport handles GET /api/reports/overall
func (h *APIHandler) GetOverallReport(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"attendanceRate": reports.OverallAttendanceRate(h.Registry.Snapshot())})
}

// GetDepartmentReport handles GET /api/reports/departments
func (h *APIHandler) GetDepartmentReport(c *gin.Context) {
	c.JSON(http.StatusOK, reports.DepartmentSummary(h.Registry.Snapshot()))
}

// GetClassesReport handles GET /api/reports/classes
func (h *APIHandler) GetClassesReport(c *gin.Context) {
	c.JSON(http.StatusOK, reports.ClassAttendance(h.Registry.Snapshot()))
}

// GetClassReport handles GET /api/reports/classes/:className
func (h *APIHandler) GetClassReport(c *gin.Context) {
	row, err := reports.ClassReport(h.Registry.Snapshot(), c.Param("className"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

// GetStudentReport handles GET /api/reports/students/:studentId
func (h *APIHandler) GetStudentReport(c *gin.Context) {
	rep, err := reports.StudentSummary(h.Registry.Snapshot(), c.Param("studentId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

// subjectReport binds the subject query and builds the report, answering on failure.
func (h *APIHandler) subjectReport(c *gin.Context) (reports.SubjectReport, bool) {
	var q reports.SubjectQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "class, subject, start and end (YYYY-MM-DD) are required"})
		return reports.SubjectReport{}, false
	}
	rep, err := reports.Subject(h.Registry.Snapshot(), q)
	if err != nil {
		h.respondError(c, err)
		return reports.SubjectReport{}, false
	}
	return rep, true
}

// GetSubjectReport handles GET /api/reports/subject?class=&subject=&start=&end=
func (h *APIHandler) GetSubjectReport(c *gin.Context) {
	rep, ok := h.subjectReport(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rep)
}

// ExportSubjectReport handles GET /api/reports/subject/export?...&format=csv|xlsx|pdf
func (h *APIHandler) ExportSubjectReport(c *gin.Context) {
	format := c.DefaultQuery("format", export.CSV)
	switch format {
	case export.CSV, export.XLSX, export.PDF:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": export.ErrUnknownFormat.Error()})
		return
	}

	rep, ok := h.subjectReport(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, rep, format); err != nil {
		h.respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(rep, format)))
	c.Data(http.StatusOK, export.ContentType(format), buf.Bytes())
}
