package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"attendance-server-go/db"
	"attendance-server-go/school"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// switchKV fails every Set while failing is true.
type switchKV struct {
	*db.MemoryKV
	failing bool
}

func (s *switchKV) Set(ctx context.Context, key string, value []byte) error {
	if s.failing {
		return assert.AnError
	}
	return s.MemoryKV.Set(ctx, key, value)
}

func newTestServer(t *testing.T) (*gin.Engine, *switchKV) {
	t.Helper()
	kv := &switchKV{MemoryKV: db.NewMemoryKV()}
	store := db.NewStore(kv, "", time.Hour, zap.NewNop())
	reg := school.NewRegistry(store, zap.NewNop())
	require.NoError(t, reg.Load(context.Background(), true))
	return NewRouter(NewAPIHandler(reg, store, zap.NewNop()), zap.NewNop()), kv
}

func do(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestPingAndHealth(t *testing.T) {
	router, _ := newTestServer(t)

	w := do(t, router, http.MethodGet, "/api/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Pong!"}`, w.Body.String())

	w = do(t, router, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestStudentEndpoints(t *testing.T) {
	router, _ := newTestServer(t)

	w := do(t, router, http.MethodPost, "/api/students", gin.H{"id": "S1", "name": "Ayesha Khan", "class": "BS-I"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":"S1","name":"Ayesha Khan","class":"BS-I"}`, w.Body.String())

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
	}{
		{"duplicate id", http.MethodPost, "/api/students", gin.H{"id": "S1", "name": "Other", "class": "BS-I"}, http.StatusConflict},
		{"missing name", http.MethodPost, "/api/students", gin.H{"id": "S2", "class": "BS-I"}, http.StatusBadRequest},
		{"unknown class", http.MethodPost, "/api/students", gin.H{"id": "S2", "name": "Bilal", "class": "BS-IX"}, http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/api/students", "not an object", http.StatusBadRequest},
		{"get", http.MethodGet, "/api/students/S1", nil, http.StatusOK},
		{"get unknown", http.MethodGet, "/api/students/S9", nil, http.StatusNotFound},
		{"edit", http.MethodPut, "/api/students/S1", gin.H{"name": "Ayesha", "class": "BS-II"}, http.StatusOK},
		{"edit unknown", http.MethodPut, "/api/students/S9", gin.H{"name": "Ayesha", "class": "BS-II"}, http.StatusNotFound},
		{"list", http.MethodGet, "/api/students", nil, http.StatusOK},
		{"grouped", http.MethodGet, "/api/students/grouped", nil, http.StatusOK},
		{"delete", http.MethodDelete, "/api/students/S1", nil, http.StatusNoContent},
		{"delete again", http.MethodDelete, "/api/students/S1", nil, http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, router, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}
}

func TestValidationErrorBody(t *testing.T) {
	router, _ := newTestServer(t)

	w := do(t, router, http.MethodPost, "/api/students", gin.H{"id": "S2", "class": "BS-I"})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid input","fields":[{"field":"name","error":"name is required"}]}`, w.Body.String())

	w = do(t, router, http.MethodPut, "/api/classes/BS-II", gin.H{"name": ""})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"field":"name"`)
}

func TestTeacherAndClassEndpoints(t *testing.T) {
	router, _ := newTestServer(t)

	w := do(t, router, http.MethodPost, "/api/assignments", gin.H{"teacherName": "Dr. Sara Malik", "class": "BS-I", "subject": "General Virology"})
	require.Equal(t, http.StatusCreated, w.Code)
	var a struct {
		ID string `json:"id"`
	}
	decode(t, w, &a)
	require.NotEmpty(t, a.ID)

	w = do(t, router, http.MethodPost, "/api/assignments", gin.H{"teacherName": "Dr. Asim Patrick", "class": "BS-I", "subject": "General Virology"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, router, http.MethodPut, "/api/assignments/"+a.ID, gin.H{"teacherName": "Dr. Sara Malik", "class": "BS-II", "subject": "General Virology"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodGet, "/api/teachers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var teachers []struct {
		Teacher struct {
			Name string `json:"name"`
		} `json:"teacher"`
	}
	decode(t, w, &teachers)
	assert.Len(t, teachers, 3)

	w = do(t, router, http.MethodDelete, "/api/assignments/"+a.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, router, http.MethodDelete, "/api/assignments/"+a.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodPost, "/api/classes", gin.H{"name": "MS-I", "teacher": "Dr. Asim Patrick"})
	assert.Equal(t, http.StatusCreated, w.Code)
	w = do(t, router, http.MethodPost, "/api/classes", gin.H{"name": "MS-I"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, router, http.MethodPut, "/api/classes/MS-I", gin.H{"name": "MS-II"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"MS-II","teacher":"Dr. Asim Patrick"}`, w.Body.String())

	w = do(t, router, http.MethodGet, "/api/classes", nil)
	assert.JSONEq(t, `[
		{"name":"BS-I","teacher":"","students":0},
		{"name":"BS-II","teacher":"","students":0},
		{"name":"MS-II","teacher":"Dr. Asim Patrick","students":0}
	]`, w.Body.String())

	w = do(t, router, http.MethodGet, "/api/classes/BS-I/subjects", nil)
	assert.JSONEq(t, `["Biosafety And Risk Management","Fundamentals of Microbiology-I"]`, w.Body.String())

	w = do(t, router, http.MethodGet, "/api/classes/BS-IX/available-subjects", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodDelete, "/api/classes/MS-II", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, router, http.MethodGet, "/api/classes/MS-II/students", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAttendanceAndReports(t *testing.T) {
	router, _ := newTestServer(t)
	for _, s := range []gin.H{
		{"id": "S1", "name": "Ayesha", "class": "BS-I"},
		{"id": "S2", "name": "Bilal", "class": "BS-I"},
	} {
		require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/students", s).Code)
	}
	subject := "Biosafety And Risk Management"
	for _, mark := range []gin.H{
		{"studentId": "S1", "date": "2024-03-01", "subject": subject, "status": "present"},
		{"studentId": "S1", "date": "2024-03-02", "subject": subject, "status": "absent"},
		{"studentId": "S1", "date": "2024-03-02", "subject": subject, "status": "present"},
		{"studentId": "S2", "date": "2024-03-01", "subject": subject, "status": "absent"},
	} {
		w := do(t, router, http.MethodPost, "/api/attendance", mark)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w := do(t, router, http.MethodPost, "/api/attendance", gin.H{"studentId": "S1", "date": "2024-3-1", "subject": subject, "status": "present"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, router, http.MethodPost, "/api/attendance", gin.H{"studentId": "S9", "date": "2024-03-01", "subject": subject, "status": "present"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodGet, "/api/attendance/sheet?class=BS-I&date=2024-03-02&subject="+url.QueryEscape(subject), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[
		{"studentId":"S1","name":"Ayesha","status":"present"},
		{"studentId":"S2","name":"Bilal","status":"not_marked"}
	]`, w.Body.String())

	w = do(t, router, http.MethodGet, "/api/attendance/sheet?class=BS-I", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodGet, "/api/reports/overall", nil)
	assert.JSONEq(t, `{"attendanceRate":67}`, w.Body.String())

	w = do(t, router, http.MethodGet, "/api/reports/students/S1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"student":{"id":"S1","name":"Ayesha","class":"BS-I"},"total":2,"present":2,"absent":0,"attendanceRate":100}`, w.Body.String())

	w = do(t, router, http.MethodGet, "/api/reports/classes/BS-I", nil)
	assert.JSONEq(t, `{"class":"BS-I","students":2,"present":2,"absent":1,"attendanceRate":67}`, w.Body.String())

	w = do(t, router, http.MethodGet, "/api/reports/students/S9", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Student not found"}`, w.Body.String())
	w = do(t, router, http.MethodGet, "/api/reports/classes/BS-IX", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Class not found"}`, w.Body.String())

	w = do(t, router, http.MethodGet, "/api/reports/departments", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(t, router, http.MethodGet, "/api/dashboard", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	query := "class=BS-I&subject=" + url.QueryEscape(subject) + "&start=2024-03-01&end=2024-03-31"
	w = do(t, router, http.MethodGet, "/api/reports/subject?"+query, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"class":"BS-I","subject":"Biosafety And Risk Management","startDate":"2024-03-01","endDate":"2024-03-31",
		"data":[
			{"id":"S1","name":"Ayesha","presentDays":2,"absentDays":0,"attendanceRate":100},
			{"id":"S2","name":"Bilal","presentDays":0,"absentDays":1,"attendanceRate":0}
		]
	}`, w.Body.String())

	w = do(t, router, http.MethodGet, "/api/reports/subject/export?format=csv&"+query, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="attendance_report_BS-I_Biosafety And Risk Management.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Student ID,Name,Present Days,Absent Days,Attendance Rate\nS1,Ayesha,2,0,100.0%\nS2,Bilal,0,1,0.0%\n", w.Body.String())

	w = do(t, router, http.MethodGet, "/api/reports/subject/export?format=docx&"+query, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, router, http.MethodGet, "/api/reports/subject?class=BS-I", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// deleting a student leaves orphan records until pruned
	require.Equal(t, http.StatusNoContent, do(t, router, http.MethodDelete, "/api/students/S2", nil).Code)
	w = do(t, router, http.MethodPost, "/api/attendance/prune-orphans", nil)
	assert.JSONEq(t, `{"removed":1}`, w.Body.String())
}

func TestImportStudents(t *testing.T) {
	router, _ := newTestServer(t)

	upload := func(filename, content string) *httptest.ResponseRecorder {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/import/students", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := upload("students.csv", "Roll Number,Name,Class\nS1,Ayesha,BS-I\nS2,Bilal,BS-IX\nS1,Again,BS-I\n")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{
		"success":1,"errors":2,
		"issues":[
			{"line":3,"reason":"class BS-IX does not exist"},
			{"line":4,"reason":"roll number S1 already exists"}
		]
	}`, w.Body.String())

	w = upload("more.csv", "Roll Number,Name,Class\n\"S3,Hamza,BS-I\nS4,Sana \"Sunny\" Khan,BS-I\nS5,Zara,BS-II\n")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{
		"success":2,"errors":1,
		"issues":[{"line":2,"reason":"expected roll number, name and class"}]
	}`, w.Body.String(), "a malformed line is skipped, the rest is imported")

	w = upload("students.txt", "whatever")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/import/students", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotPersistedWarning(t *testing.T) {
	router, kv := newTestServer(t)
	kv.failing = true

	w := do(t, router, http.MethodPost, "/api/classes", gin.H{"name": "MS-I"})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"data":{"name":"MS-I"},"warning":"`+msgNotPersisted+`"}`, w.Body.String())

	// still served from memory
	w = do(t, router, http.MethodGet, "/api/classes/MS-I/students", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetBackup(t *testing.T) {
	router, _ := newTestServer(t)

	w := do(t, router, http.MethodGet, "/api/backup", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var b struct {
		Classes   []interface{} `json:"classes"`
		Timestamp string        `json:"timestamp"`
	}
	decode(t, w, &b)
	assert.Len(t, b.Classes, 2)
	assert.NotEmpty(t, b.Timestamp)
}
