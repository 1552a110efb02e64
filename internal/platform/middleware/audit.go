package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medkey/medkey/internal/platform/auth"
)

// AuditEntry captures who accessed which portal resource, when, and how.
type AuditEntry struct {
	UserID     string
	UserRoles  []string
	Resource   string
	Action     string // read, create, update, delete, search
	IPAddress  string
	UserAgent  string
	Path       string
	Method     string
	Timestamp  time.Time
	RequestID  string
	StatusCode int
}

// AuditRecorder persists audit entries. Decoupled from the logger so tests
// can provide a mock implementation.
type AuditRecorder interface {
	RecordAccess(entry AuditEntry) error
}

// AuditRecorderFunc is a function adapter for AuditRecorder.
type AuditRecorderFunc func(entry AuditEntry) error

func (f AuditRecorderFunc) RecordAccess(entry AuditEntry) error {
	return f(entry)
}

// Audit returns middleware that logs access to record, roster, and consent
// resources. Medical-record reads are health-data access and must leave a
// trail even in this prototype. Without an explicit recorder, entries go to
// the structured log.
func Audit(logger zerolog.Logger, recorders ...AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			resource := auditResource(req.URL.Path)
			if resource == "" {
				return next(c)
			}

			err := next(c)

			rid, _ := c.Get("request_id").(string)
			entry := AuditEntry{
				UserID:     auth.UserIDFromContext(req.Context()),
				UserRoles:  auth.RolesFromContext(req.Context()),
				Resource:   resource,
				Action:     auditAction(req.Method),
				IPAddress:  c.RealIP(),
				UserAgent:  req.UserAgent(),
				Path:       req.URL.Path,
				Method:     req.Method,
				Timestamp:  time.Now().UTC(),
				RequestID:  rid,
				StatusCode: c.Response().Status,
			}

			recorded := false
			for _, r := range recorders {
				if rerr := r.RecordAccess(entry); rerr != nil {
					logger.Error().Err(rerr).Str("resource", resource).Msg("audit recorder failed")
					continue
				}
				recorded = true
			}
			if !recorded {
				logger.Info().
					Str("user_id", entry.UserID).
					Strs("roles", entry.UserRoles).
					Str("resource", entry.Resource).
					Str("action", entry.Action).
					Str("path", entry.Path).
					Str("request_id", entry.RequestID).
					Int("status", entry.StatusCode).
					Msg("resource access")
			}

			return err
		}
	}
}

// auditResource maps request paths to the audited resource class. Paths
// outside the audited surface return "".
func auditResource(path string) string {
	switch {
	case strings.Contains(path, "/records"):
		return "medical_records"
	case strings.Contains(path, "/roster"):
		return "roster"
	case strings.Contains(path, "/consents"), strings.Contains(path, "/consent"):
		return "consents"
	case strings.Contains(path, "/signatures"):
		return "signatures"
	default:
		return ""
	}
}

func auditAction(method string) string {
	switch method {
	case http.MethodGet:
		return "read"
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return strings.ToLower(method)
	}
}
