package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"attendance-server-go/importer"
	"attendance-server-go/reports"
	"attendance-server-go/school"
)

// --- Student Handlers ---

// GetStudents handles GET /api/students
func (h *APIHandler) GetStudents(c *gin.Context) {
	c.JSON(http.StatusOK, h.Registry.Students())
}

// GetStudentGroups handles GET /api/students/grouped
func (h *APIHandler) GetStudentGroups(c *gin.Context) {
	c.JSON(http.StatusOK, reports.StudentGroups(h.Registry.Snapshot()))
}

// GetStudent handles GET /api/students/:studentId
func (h *APIHandler) GetStudent(c *gin.Context) {
	s, err := h.Registry.Student(c.Param("studentId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// AddStudent handles POST /api/students
func (h *APIHandler) AddStudent(c *gin.Context) {
	var ns school.NewStudent
	if !bindJSON(c, &ns) {
		return
	}
	s, err := h.Registry.AddStudent(c.Request.Context(), ns)
	h.respondMutation(c, http.StatusCreated, s, err)
}

// EditStudent handles PUT /api/students/:studentId
func (h *APIHandler) EditStudent(c *gin.Context) {
	var us school.UpdateStudent
	if !bindJSON(c, &us) {
		return
	}
	s, err := h.Registry.EditStudent(c.Request.Context(), c.Param("studentId"), us)
	h.respondMutation(c, http.StatusOK, s, err)
}

// DeleteStudent handles DELETE /api/students/:studentId
func (h *APIHandler) DeleteStudent(c *gin.Context) {
	err := h.Registry.DeleteStudent(c.Request.Context(), c.Param("studentId"))
	h.respondMutation(c, http.StatusOK, nil, err)
}

// --- Import Handler ---

// ImportStudents handles POST /api/import/students
func (h *APIHandler) ImportStudents(c *gin.Context) {
	// "file" is the name attribute in the form
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error retrieving uploaded file: " + err.Error()})
		return
	}
	defer file.Close()

	h.log.Info("received student import", zap.String("file", header.Filename), zap.Int64("size", header.Size))

	rows, err := importer.Parse(file, header.Filename)
	if err != nil {
		if !errors.Is(err, importer.ErrUnsupportedFormat) {
			h.log.Warn("unreadable import file", zap.String("file", header.Filename), zap.Error(err))
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.Registry.ImportStudents(c.Request.Context(), rows)
	h.respondMutation(c, http.StatusOK, res, err)
}

// --- Teacher Handlers ---

// GetTeachers handles GET /api/teachers
func (h *APIHandler) GetTeachers(c *gin.Context) {
	c.JSON(http.StatusOK, reports.TeacherAssignments(h.Registry.Snapshot()))
}

// AddAssignment handles POST /api/assignments
func (h *APIHandler) AddAssignment(c *gin.Context) {
	var na school.NewAssignment
	if !bindJSON(c, &na) {
		return
	}
	a, err := h.Registry.AddAssignment(c.Request.Context(), na)
	h.respondMutation(c, http.StatusCreated, a, err)
}

// EditAssignment handles PUT /api/assignments/:assignmentId
func (h *APIHandler) EditAssignment(c *gin.Context) {
	var ua school.UpdateAssignment
	if !bindJSON(c, &ua) {
		return
	}
	a, err := h.Registry.EditAssignment(c.Request.Context(), c.Param("assignmentId"), ua)
	h.respondMutation(c, http.StatusOK, a, err)
}

// DeleteAssignment handles DELETE /api/assignments/:assignmentId
func (h *APIHandler) DeleteAssignment(c *gin.Context) {
	err := h.Registry.DeleteAssignment(c.Request.Context(), c.Param("assignmentId"))
	h.respondMutation(c, http.StatusOK, nil, err)
}

// --- Class Handlers ---

// GetAllClasses handles GET /api/classes
func (h *APIHandler) GetAllClasses(c *gin.Context) {
	c.JSON(http.StatusOK, reports.ClassList(h.Registry.Snapshot()))
}

// AddClass handles POST /api/classes
func (h *APIHandler) AddClass(c *gin.Context) {
	var nc school.NewClass
	if !bindJSON(c, &nc) {
		return
	}
	cl, err := h.Registry.AddClass(c.Request.Context(), nc)
	h.respondMutation(c, http.StatusCreated, cl, err)
}

// EditClass handles PUT /api/classes/:className
func (h *APIHandler) EditClass(c *gin.Context) {
	var uc school.UpdateClass
	if !bindJSON(c, &uc) {
		return
	}
	cl, err := h.Registry.EditClass(c.Request.Context(), c.Param("className"), uc)
	h.respondMutation(c, http.StatusOK, cl, err)
}

// DeleteClass handles DELETE /api/classes/:className
func (h *APIHandler) DeleteClass(c *gin.Context) {
	err := h.Registry.DeleteClass(c.Request.Context(), c.Param("className"))
	h.respondMutation(c, http.StatusOK, nil, err)
}

// GetStudentsByClass handles GET /api/classes/:className/students
func (h *APIHandler) GetStudentsByClass(c *gin.Context) {
	students, err := h.Registry.StudentsByClass(c.Param("className"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}

// GetClassSubjects handles GET /api/classes/:className/subjects
func (h *APIHandler) GetClassSubjects(c *gin.Context) {
	subjects, err := h.Registry.ClassSubjects(c.Param("className"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subjects)
}

// GetAvailableSubjects handles GET /api/classes/:className/available-subjects
func (h *APIHandler) GetAvailableSubjects(c *gin.Context) {
	subjects, err := h.Registry.AvailableSubjects(c.Param("className"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subjects)
}
