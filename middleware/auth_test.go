package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"inkwell/utils"
)

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/admin/me", ModeratorAuth(), func(c *gin.Context) {
		name, _ := c.Get(ContextModeratorKey)
		c.JSON(200, gin.H{"username": name})
	})
	return r
}

func TestAuthRejectsMissingToken(t *testing.T) {
	r := newAuthRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin/me", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthAcceptsSessionCookie(t *testing.T) {
	r := newAuthRouter(t)

	token, err := utils.GenerateToken("admin", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
}

func TestAuthAcceptsBearerHeader(t *testing.T) {
	r := newAuthRouter(t)

	token, err := utils.GenerateToken("admin", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	r := newAuthRouter(t)

	token, err := utils.GenerateToken("admin", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthRejectsRevokedToken(t *testing.T) {
	r := newAuthRouter(t)

	token, err := utils.GenerateToken("admin", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	utils.BlacklistToken(context.Background(), token, time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestVisitorIdentityAssignsCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(VisitorIdentity())
	r.GET("/", func(c *gin.Context) {
		c.String(200, VisitorID(c))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	r.ServeHTTP(w, req)

	if w.Body.String() == "" {
		t.Error("no visitor id assigned")
	}
	cookies := w.Result().Cookies()
	found := false
	for _, c := range cookies {
		if c.Name == "visitor_id" && c.Value == w.Body.String() {
			found = true
		}
	}
	if !found {
		t.Error("visitor cookie not set to assigned id")
	}
}

func TestVisitorIdentityKeepsExistingCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(VisitorIdentity())
	r.GET("/", func(c *gin.Context) {
		c.String(200, VisitorID(c))
	})

	const id = "b2c8f6ea-1d7c-4f30-9b9a-0a4a8b6f2a11"
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "visitor_id", Value: id})
	r.ServeHTTP(w, req)

	if w.Body.String() != id {
		t.Errorf("visitor id = %q, want existing cookie value", w.Body.String())
	}
}
