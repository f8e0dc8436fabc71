package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/blogem/vendorflow/logging"
	"github.com/blogem/vendorflow/models"
	"github.com/blogem/vendorflow/repositories"
	"github.com/blogem/vendorflow/tenantctx"
	"github.com/blogem/vendorflow/userctx"
)

// redactedFields are never written to the audit log
var redactedFields = map[string]bool{
	"csrf_token": true,
}

// AuditLogger middleware logs all POST/PUT/DELETE requests with the tenant they hit
func AuditLogger(auditRepo repositories.AuditRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Only log mutation operations
			if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodDelete {
				entry := &models.AuditLogEntry{
					UserEmail: userctx.GetUserEmail(r.Context()),
					Tenant:    tenantctx.Schema(r.Context()),
					Method:    r.Method,
					Path:      r.URL.Path,
					UserAgent: r.UserAgent(),
					IPAddress: getIPAddress(r),
					FormData:  captureFormData(r),
				}
				log := logging.FromContext(r.Context())

				// Log asynchronously to avoid blocking request
				go func() {
					if err := auditRepo.Create(context.Background(), entry); err != nil {
						log.WithError(err).WithFields(logrus.Fields{
							"method": entry.Method,
							"path":   entry.Path,
						}).Error("failed to create audit log")
					}
				}()
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getIPAddress extracts IP address from request, checking X-Forwarded-For first
func getIPAddress(r *http.Request) string {
	// Check X-Forwarded-For header (proxy/load balancer)
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// Take first IP if multiple
		ips := strings.Split(forwarded, ",")
		return strings.TrimSpace(ips[0])
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	// Fall back to RemoteAddr without port
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// captureFormData captures form data as a JSON string
func captureFormData(r *http.Request) string {
	if err := r.ParseForm(); err != nil {
		return ""
	}

	formMap := make(map[string]interface{}, len(r.PostForm))
	for key, values := range r.PostForm {
		if redactedFields[key] {
			continue
		}
		if len(values) == 1 {
			formMap[key] = values[0]
		} else {
			formMap[key] = values
		}
	}
	if len(formMap) == 0 {
		return ""
	}

	jsonData, err := json.Marshal(formMap)
	if err != nil {
		return ""
	}
	return string(jsonData)
}
