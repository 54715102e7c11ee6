// Package session keeps web sessions in Redis. The browser only holds a
// random identifier in the session cookie; the payload, including one-shot
// flash messages, lives in Redis with a TTL.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	CookieName = "aslectra_session"
	DefaultTTL = 24 * time.Hour

	keyPrefix = "session:"
	idLength  = 32
)

// Flash kinds rendered by the layout.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Data is the session payload stored in Redis.
type Data struct {
	ID        string              `json:"-"`
	UserID    uint                `json:"user_id"`
	Role      string              `json:"role"`
	CreatedAt time.Time           `json:"created_at"`
	Flashes   map[string][]string `json:"flashes,omitempty"`
}

// Store manages session lifecycle in Redis.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	secure bool
}

// NewStore creates a session store. A zero ttl means DefaultTTL.
func NewStore(client *redis.Client, ttl time.Duration, secure bool) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{client: client, ttl: ttl, secure: secure}
}

// Create stores a new session and sets its cookie on the response.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, data *Data) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}
	data.ID = id
	data.CreatedAt = time.Now()

	if err := s.Save(ctx, data); err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})
	return id, nil
}

// Get loads the session named by the request cookie. A missing cookie or an
// expired session yields nil without error.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, nil
	}

	payload, err := s.client.Get(ctx, keyPrefix+cookie.Value).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}
	data.ID = cookie.Value
	return &data, nil
}

// Save writes data back under its ID and resets the TTL.
func (s *Store) Save(ctx context.Context, data *Data) error {
	if data.ID == "" {
		return errors.New("session save: missing id")
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+data.ID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	return nil
}

// Destroy removes the session and expires the cookie.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}

	if err := s.client.Del(ctx, keyPrefix+cookie.Value).Err(); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	return nil
}

// AddFlash queues a message shown on the next rendered page.
func (s *Store) AddFlash(ctx context.Context, data *Data, kind, message string) error {
	if data.Flashes == nil {
		data.Flashes = make(map[string][]string)
	}
	data.Flashes[kind] = append(data.Flashes[kind], message)
	return s.Save(ctx, data)
}

// PopFlashes returns the queued messages and clears them.
func (s *Store) PopFlashes(ctx context.Context, data *Data) (map[string][]string, error) {
	if len(data.Flashes) == 0 {
		return nil, nil
	}
	flashes := data.Flashes
	data.Flashes = nil
	if err := s.Save(ctx, data); err != nil {
		return nil, err
	}
	return flashes, nil
}

func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
