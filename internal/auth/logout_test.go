package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/saulo-duarte/classroom-lambda/internal/auth"
	"github.com/saulo-duarte/classroom-lambda/internal/config"
)

func TestSessionCookieFollowsSettings(t *testing.T) {
	auth.Init(&config.Settings{JWTSecret: testSecret, CookieDomain: "school.example", CookieSecure: false})
	t.Cleanup(func() { auth.Init(&config.Settings{JWTSecret: testSecret, CookieSecure: true}) })

	rec := httptest.NewRecorder()
	auth.SetSessionCookie(rec, "token", time.Hour)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("want 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != auth.SessionCookie || c.Domain != "school.example" {
		t.Errorf("unexpected cookie %s domain %q", c.Name, c.Domain)
	}
	if c.Secure {
		t.Error("cookie should not be secure when COOKIE_SECURE is false")
	}
	if !c.HttpOnly {
		t.Error("cookie should be http only")
	}

	rec = httptest.NewRecorder()
	auth.NewHandler().Logout(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))
	if got := rec.Result().Cookies(); len(got) != 1 || got[0].MaxAge >= 0 {
		t.Errorf("logout should expire the session cookie, got %+v", got)
	}
}
