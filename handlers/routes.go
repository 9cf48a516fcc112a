package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"attendance-server-go/logger"
)

// NewRouter returns the gin engine serving the API under /api.
func NewRouter(h *APIHandler, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(logger.GinLogger(log), logger.GinRecovery(log))

	api := router.Group("/api")
	{
		api.GET("/ping", PingHandler)
		api.GET("/health", h.Health)
		api.GET("/dashboard", h.GetDashboard)
		api.GET("/subjects", h.GetSubjects)
		api.GET("/backup", h.GetBackup)

		// Student routes
		api.GET("/students", h.GetStudents)
		api.POST("/students", h.AddStudent)
		api.GET("/students/grouped", h.GetStudentGroups)
		api.GET("/students/:studentId", h.GetStudent)
		api.PUT("/students/:studentId", h.EditStudent)
		api.DELETE("/students/:studentId", h.DeleteStudent)

		// Import route
		api.POST("/import/students", h.ImportStudents)

		// Teacher routes
		api.GET("/teachers", h.GetTeachers)
		api.POST("/assignments", h.AddAssignment)
		api.PUT("/assignments/:assignmentId", h.EditAssignment)
		api.DELETE("/assignments/:assignmentId", h.DeleteAssignment)

		// Class routes
		api.GET("/classes", h.GetAllClasses)
		api.POST("/classes", h.AddClass)
		api.PUT("/classes/:className", h.EditClass)
		api.DELETE("/classes/:className", h.DeleteClass)
		api.GET("/classes/:className/students", h.GetStudentsByClass)
		api.GET("/classes/:className/subjects", h.GetClassSubjects)
		api.GET("/classes/:className/available-subjects", h.GetAvailableSubjects)

		// Attendance routes
		api.POST("/attendance", h.MarkAttendance)
		api.GET("/attendance/sheet", h.GetAttendanceSheet)
		api.POST("/attendance/prune-orphans", h.PruneOrphanAttendance)

		// Report routes
		api.GET("/reports/overall", h.GetOverallReport)
		api.GET("/reports/departments", h.GetDepartmentReport)
		api.GET("/reports/classes", h.GetClassesReport)
		api.GET("/reports/classes/:className", h.GetClassReport)
		api.GET("/reports/students/:studentId", h.GetStudentReport)
		api.GET("/reports/subject", h.GetSubjectReport)
		api.GET("/reports/subject/export", h.ExportSubjectReport)
	}
	return router
}
