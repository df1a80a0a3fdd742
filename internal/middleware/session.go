package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hadeerens/ember-bloom-menu/internal/cart"
	"github.com/hadeerens/ember-bloom-menu/internal/requestctx"
)

const maxCartEntries = 64

// SessionData is everything the site remembers about a visitor. It lives in a
// signed cookie without an expiry, so it ends with the browser session.
type SessionData struct {
	ID        string       `json:"id"`
	Locale    string       `json:"locale,omitempty"`
	Cart      []cart.Entry `json:"cart,omitempty"`
	CSRFToken string       `json:"csrf,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	// internal dirty flag; not serialized
	dirty bool
}

// MarkDirty flags the session for writing at end of request
func (s *SessionData) MarkDirty() { s.dirty = true; s.UpdatedAt = time.Now().UTC() }

// SetCart replaces the stored cart entries.
func (s *SessionData) SetCart(entries []cart.Entry) {
	s.Cart = entries
	s.MarkDirty()
}

// SessionOptions configures the session cookie.
type SessionOptions struct {
	CookieName string
	SigningKey []byte
	Secure     bool
}

// Sessions signs and verifies session cookies.
type Sessions struct {
	name   string
	key    []byte
	secure bool
}

// NewSessions validates opts. Without a key a process-ephemeral one is
// generated, which logs everybody out on restart.
func NewSessions(opts SessionOptions, logger *zap.Logger) (*Sessions, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	key := opts.SigningKey
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
		logger.Warn("session: using ephemeral signing key, set MENU_SESSION_SIGNING_KEY for production")
	}
	name := strings.TrimSpace(opts.CookieName)
	if name == "" {
		name = "EMBER_BLOOM_SESSION"
	}
	return &Sessions{name: name, key: key, secure: opts.Secure}, nil
}

// Secure reports whether cookies carry the Secure attribute.
func (s *Sessions) Secure() bool { return s.secure }

// Middleware loads or initializes a session and stores it in request context.
// The cookie is rewritten only when the session changed.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sd, fromCookie := s.read(r)
		if sd.ID == "" {
			sd.ID = uuid.NewString()
			sd.CreatedAt = time.Now().UTC()
			sd.UpdatedAt = sd.CreatedAt
			sd.CSRFToken = newCSRFToken()
			sd.dirty = true
		}
		ctx := context.WithValue(r.Context(), ctxKeySession, sd)
		ctx = requestctx.With(ctx, zap.String("session_id", sd.ID))
		hw := newHookWriter(w, func(w http.ResponseWriter) {
			if sd.dirty || !fromCookie {
				s.write(w, sd)
			}
		})
		next.ServeHTTP(hw, r.WithContext(ctx))
		// nothing was written (e.g. HEAD), persist cookie now
		hw.fire()
	})
}

// GetSession returns session data from context
func GetSession(r *http.Request) *SessionData {
	if sd, ok := r.Context().Value(ctxKeySession).(*SessionData); ok && sd != nil {
		return sd
	}
	return &SessionData{}
}

func (s *Sessions) read(r *http.Request) (*SessionData, bool) {
	c, err := r.Cookie(s.name)
	if err != nil || c.Value == "" {
		return &SessionData{}, false
	}
	payload, ok := s.verify(c.Value)
	if !ok {
		return &SessionData{}, false
	}
	var sd SessionData
	if err := json.Unmarshal(payload, &sd); err != nil {
		return &SessionData{}, false
	}
	if len(sd.Cart) > maxCartEntries {
		sd.Cart = sd.Cart[:maxCartEntries]
	}
	return &sd, true
}

func (s *Sessions) verify(value string) ([]byte, bool) {
	parts := strings.Split(value, ".")
	if len(parts) != 2 {
		return nil, false
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, false
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, false
	}
	if !hmac.Equal(sig, s.sign(payload)) {
		return nil, false
	}
	return payload, true
}

func (s *Sessions) sign(payload []byte) []byte {
	mac := hmac.New(sha256.New, s.key)
	mac.Write(payload)
	return mac.Sum(nil)
}

func (s *Sessions) encode(sd *SessionData) string {
	b, _ := json.Marshal(sd)
	return base64.RawURLEncoding.EncodeToString(b) + "." + base64.RawURLEncoding.EncodeToString(s.sign(b))
}

func (s *Sessions) write(w http.ResponseWriter, sd *SessionData) {
	// no Expires or MaxAge: the cart must not outlive the browser session
	http.SetCookie(w, &http.Cookie{
		Name:     s.name,
		Value:    s.encode(sd),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
