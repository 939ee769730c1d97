package web

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
)

const flashCookie = "rb_flash"

// Flash is a one-shot message shown on the next page load.
type Flash struct {
	Kind    string // "success" or "error"
	Message string
}

// flasher signs flash cookies so a client cannot inject arbitrary messages.
type flasher struct {
	key []byte
}

func newFlasher(secret string) *flasher {
	return &flasher{key: []byte(secret)}
}

// set stores a flash for the next request.
func (f *flasher) set(w http.ResponseWriter, kind, msg string) {
	payload := base64.RawURLEncoding.EncodeToString([]byte(kind + "\n" + msg))
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    payload + "." + f.sign(payload),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// pop reads and clears the flash. A missing or tampered cookie yields nil.
func (f *flasher) pop(w http.ResponseWriter, r *http.Request) *Flash {
	cookie, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	payload, sig, ok := strings.Cut(cookie.Value, ".")
	if !ok || !hmac.Equal([]byte(sig), []byte(f.sign(payload))) {
		return nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil
	}
	kind, msg, ok := strings.Cut(string(raw), "\n")
	if !ok {
		return nil
	}
	return &Flash{Kind: kind, Message: msg}
}

func (f *flasher) sign(payload string) string {
	mac := hmac.New(sha256.New, f.key)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
