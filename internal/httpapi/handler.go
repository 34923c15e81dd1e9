package httpapi

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cohortattend/internal/auth"
	"cohortattend/internal/ledger"
	"cohortattend/internal/metrics"
	"cohortattend/internal/report"
	"cohortattend/internal/roster"
)

// LedgerService is the attendance core surface the handlers call.
type LedgerService interface {
	ActiveDate(ctx context.Context) (date, day string, err error)
	Submit(ctx context.Context, date, day string, status ledger.LectureStatus, entries []ledger.Entry, submittedBy string) (ledger.LectureRecord, error)
	Records(ctx context.Context) ([]ledger.LectureRecord, error)
}

// Roster is the student lookup surface.
type Roster interface {
	List(ctx context.Context) ([]roster.Student, error)
	GetByEnrollmentNo(ctx context.Context, enrollmentNo string) (roster.Student, error)
}

// UserStore resolves login accounts.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (auth.User, error)
}

// TokenConfig carries what Login needs to issue tokens.
type TokenConfig struct {
	Issuer     string
	SigningKey string
	AccessTTL  time.Duration
}

// Handler exposes the attendance API over gin.
type Handler struct {
	ledger LedgerService
	roster Roster
	users  UserStore
	tokens TokenConfig
}

// New creates a handler.
func New(ledgerSvc LedgerService, rosterRepo Roster, users UserStore, tokens TokenConfig) *Handler {
	return &Handler{ledger: ledgerSvc, roster: rosterRepo, users: users, tokens: tokens}
}

// Register wires all API routes onto the engine.
func (h *Handler) Register(r *gin.Engine) {
	r.POST("/api/auth/login", h.Login)

	authed := r.Group("/api", auth.RequireAuth(h.tokens.SigningKey, h.tokens.Issuer))
	authed.GET("/students", h.ListStudents)
	authed.GET("/students/my-attendance", h.MyAttendance)
	authed.GET("/attendance/active-date", h.ActiveDate)
	authed.POST("/attendance", auth.RequireRole(auth.RoleAdmin), h.SubmitAttendance)

	admin := authed.Group("/admin", auth.RequireRole(auth.RoleAdmin))
	admin.GET("/stats", h.CohortStats)
	admin.GET("/history", h.History)
	admin.GET("/matrix", h.Matrix)
	admin.GET("/matrix/export", h.ExportMatrix)
}

// Login verifies credentials and issues an access token.
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, expiresAt, err := auth.Issue(user.ID, user.Role, user.EnrollmentNo,
		h.tokens.Issuer, h.tokens.SigningKey, h.tokens.AccessTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"role":       user.Role,
		"token":      token,
		"expires_at": expiresAt.Unix(),
	})
}

// ActiveDate resolves the date currently open for submission.
func (h *Handler) ActiveDate(c *gin.Context) {
	date, day, err := h.ledger.ActiveDate(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "day": day})
}

// SubmitAttendance appends one lecture record to the ledger.
func (h *Handler) SubmitAttendance(c *gin.Context) {
	var req struct {
		Date          string         `json:"date" binding:"required"`
		Day           string         `json:"day"`
		LectureStatus string         `json:"lectureStatus" binding:"required"`
		Records       []ledger.Entry `json:"records"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims := auth.ClaimsFrom(c)
	_, err := h.ledger.Submit(c.Request.Context(), req.Date, req.Day,
		ledger.LectureStatus(req.LectureStatus), req.Records, claims.Subject)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrDuplicateDate):
			metrics.DuplicateRejections.Inc()
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, ledger.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("submit attendance failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "submission failed"})
		}
		return
	}

	metrics.SubmissionsTotal.WithLabelValues(req.LectureStatus).Inc()
	c.JSON(http.StatusCreated, gin.H{"message": "Success"})
}

// ListStudents returns the roster sorted by enrollment number.
func (h *Handler) ListStudents(c *gin.Context) {
	students, err := h.roster.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if students == nil {
		students = []roster.Student{}
	}
	c.JSON(http.StatusOK, students)
}

// MyAttendance returns the calling student's report: identity, statistics,
// per-date rows and monthly trend.
func (h *Handler) MyAttendance(c *gin.Context) {
	claims := auth.ClaimsFrom(c)
	if claims.Role != auth.RoleStudent {
		c.JSON(http.StatusForbidden, gin.H{"error": "only students can access this endpoint"})
		return
	}

	student, err := h.roster.GetByEnrollmentNo(c.Request.Context(), claims.EnrollmentNo)
	if err != nil {
		if errors.Is(err, roster.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	records, err := h.ledger.Records(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	stats, rows := report.ForStudent(student.ID, records)
	c.JSON(http.StatusOK, gin.H{
		"student": gin.H{
			"enrollmentNo": student.EnrollmentNo,
			"name":         student.Name,
			"department":   student.Department,
		},
		"statistics":     stats,
		"attendanceData": rows,
		"monthlyTrend":   report.MonthlyTrend(rows),
	})
}

// CohortStats returns headline counts for the admin dashboard.
func (h *Handler) CohortStats(c *gin.Context) {
	students, err := h.roster.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	records, err := h.ledger.Records(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report.Cohort(len(students), records))
}

// History lists ledger records newest-first with per-record presence counts.
func (h *Handler) History(c *gin.Context) {
	records, err := h.ledger.Records(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report.History(records))
}

// Matrix returns the dense students x dates attendance view.
func (h *Handler) Matrix(c *gin.Context) {
	m, err := h.buildMatrix(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, m)
}

// ExportMatrix streams the matrix as CSV (default) or XLSX.
func (h *Handler) ExportMatrix(c *gin.Context) {
	m, err := h.buildMatrix(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	stamp := time.Now().Format(ledger.DateLayout)
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		data, err := report.MatrixCSV(m)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="attendance_report_`+stamp+`.csv"`)
		c.Data(http.StatusOK, "text/csv", data)
	case "xlsx":
		buf, err := report.MatrixXLSX(m)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="attendance_report_`+stamp+`.xlsx"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
	}
}

func (h *Handler) buildMatrix(c *gin.Context) (report.Matrix, error) {
	students, err := h.roster.List(c.Request.Context())
	if err != nil {
		return report.Matrix{}, err
	}
	records, err := h.ledger.Records(c.Request.Context())
	if err != nil {
		return report.Matrix{}, err
	}
	return report.BuildMatrix(students, records), nil
}
