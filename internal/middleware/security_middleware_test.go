package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestBuildContentSecurityPolicyRestrictsForms(t *testing.T) {
	directives := parseContentSecurityPolicy(contentSecurityPolicy)

	formAction, ok := directives["form-action"]
	if !ok {
		t.Fatalf("expected form-action directive to be present in policy: %s", contentSecurityPolicy)
	}
	if _, allowed := formAction["'self'"]; !allowed || len(formAction) != 1 {
		t.Fatalf("expected form-action to only allow 'self', policy: %s", contentSecurityPolicy)
	}
	if _, ok := directives["object-src"]["'none'"]; !ok {
		t.Fatalf("expected object-src 'none', policy: %s", contentSecurityPolicy)
	}
}

func TestBuildContentSecurityPolicySkipsEmptyDirectives(t *testing.T) {
	policy := buildContentSecurityPolicy(map[string][]string{
		"default-src": {"'self'"},
		"object-src":  {},
		"unknown-src": {"*"},
	})
	if policy != "default-src 'self'" {
		t.Fatalf("unexpected policy %q", policy)
	}
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SecurityHeadersMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	if recorder.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("expected nosniff header")
	}
	if recorder.Header().Get("Strict-Transport-Security") != "" {
		t.Fatalf("expected no HSTS header over plain http")
	}
}

func parseContentSecurityPolicy(policy string) map[string]map[string]struct{} {
	result := make(map[string]map[string]struct{})

	for _, directive := range strings.Split(policy, ";") {
		directive = strings.TrimSpace(directive)
		if directive == "" {
			continue
		}

		parts := strings.Fields(directive)
		if len(parts) == 0 {
			continue
		}

		name := parts[0]
		values := make(map[string]struct{}, len(parts)-1)
		for _, value := range parts[1:] {
			values[value] = struct{}{}
		}

		result[name] = values
	}

	return result
}
