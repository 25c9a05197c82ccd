package middleware

import (
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const noticeCookie = "stockroom_notice"

// Alert is a one-shot message shown on the next rendered page.
type Alert struct {
	Type    string
	Message string
}

func SetSessionCookie(c *fiber.Ctx, name, token string, expires time.Time, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func ClearSessionCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// SetNotice stores an alert for the next page the browser loads.
func SetNotice(c *fiber.Ctx, kind, message string) {
	c.Cookie(&fiber.Cookie{
		Name:     noticeCookie,
		Value:    url.QueryEscape(kind + "|" + message),
		Path:     "/",
		MaxAge:   60,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// TakeNotice returns and clears the pending alert, if any.
func TakeNotice(c *fiber.Ctx) *Alert {
	raw := c.Cookies(noticeCookie)
	if raw == "" {
		return nil
	}
	c.Cookie(&fiber.Cookie{Name: noticeCookie, Value: "", Path: "/", MaxAge: -1, Expires: time.Unix(0, 0)})

	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return nil
	}
	kind, msg, ok := strings.Cut(decoded, "|")
	if !ok || msg == "" {
		return nil
	}
	return &Alert{Type: kind, Message: msg}
}
