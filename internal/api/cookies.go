package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"
)

// CookiesKey is the durable storage key holding the session cookies
const CookiesKey = "cookies"

// Storage is the durable key/value store the jar persists into
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(keys ...string) error
}

type storedCookie struct {
	URL      string    `json:"url"`
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"http_only,omitempty"`
}

func (c storedCookie) key() string {
	return c.Domain + "|" + c.Path + "|" + c.Name
}

func (c storedCookie) expired(now time.Time) bool {
	return !c.Expires.IsZero() && !c.Expires.After(now)
}

// PersistentJar is a cookie jar that survives process restarts
type PersistentJar struct {
	mu      sync.Mutex
	jar     *cookiejar.Jar
	storage Storage
	saved   map[string]storedCookie
	logger  *log.Logger
	now     func() time.Time
}

// NewPersistentJar loads previously stored cookies into a fresh jar
func NewPersistentJar(storage Storage, logger *log.Logger) (*PersistentJar, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	j := &PersistentJar{
		jar:     jar,
		storage: storage,
		saved:   make(map[string]storedCookie),
		logger:  logger,
		now:     time.Now,
	}

	raw, ok, err := storage.Get(CookiesKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read cookies: %w", err)
	}
	if !ok {
		return j, nil
	}

	var stored []storedCookie
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		// Cookies are only a cache of the server session; drop them
		logger.Printf("discarding unreadable cookies: %v", err)
		return j, storage.Remove(CookiesKey)
	}

	now := j.now()
	for _, sc := range stored {
		if sc.expired(now) {
			continue
		}
		u, err := url.Parse(sc.URL)
		if err != nil {
			continue
		}
		j.jar.SetCookies(u, []*http.Cookie{{
			Name:     sc.Name,
			Value:    sc.Value,
			Path:     sc.Path,
			Domain:   sc.Domain,
			Expires:  sc.Expires,
			Secure:   sc.Secure,
			HttpOnly: sc.HttpOnly,
		}})
		j.saved[sc.key()] = sc
	}

	return j, nil
}

// SetCookies implements http.CookieJar and persists the result
func (j *PersistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.jar.SetCookies(u, cookies)

	now := j.now()
	for _, c := range cookies {
		sc := storedCookie{
			URL:      u.Scheme + "://" + u.Host,
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		}
		if c.MaxAge > 0 {
			sc.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		if c.MaxAge < 0 || sc.expired(now) || c.Value == "" {
			delete(j.saved, sc.key())
			continue
		}
		j.saved[sc.key()] = sc
	}

	if err := j.persist(); err != nil {
		j.logger.Printf("failed to persist cookies: %v", err)
	}
}

// Cookies implements http.CookieJar
func (j *PersistentJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.jar.Cookies(u)
}

// Clear drops every cookie from memory and storage
func (j *PersistentJar) Clear() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	j.jar = jar
	j.saved = make(map[string]storedCookie)

	return j.storage.Remove(CookiesKey)
}

// persist must be called with mu held
func (j *PersistentJar) persist() error {
	if len(j.saved) == 0 {
		return j.storage.Remove(CookiesKey)
	}

	stored := make([]storedCookie, 0, len(j.saved))
	for _, sc := range j.saved {
		stored = append(stored, sc)
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	return j.storage.Set(CookiesKey, string(data))
}
