package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// DefaultTokenTTL is the lifetime of a session token.
const DefaultTokenTTL = time.Hour

// DefaultAttemptKeys is the number of email addresses whose attempt budget
// is remembered; the least recently tried address is forgotten first.
const DefaultAttemptKeys = 4096

// ErrNoSecret is returned by NewLocal without a signing secret.
var ErrNoSecret = errors.New("token signing secret is empty")

// LocalConfig configures a Local backend.
type LocalConfig struct {
	Secret   []byte
	TokenTTL time.Duration
	// AttemptRate and AttemptBurst throttle sign-in and sign-up attempts
	// per email address. Zero disables throttling.
	AttemptRate  float64
	AttemptBurst int
	// AttemptKeys caps the tracked addresses; zero means DefaultAttemptKeys.
	AttemptKeys int
	// Cost is the bcrypt cost; zero means bcrypt.DefaultCost.
	Cost int
	Now  func() time.Time
}

type account struct {
	uid  string
	hash []byte
}

// Local is an in-memory Backend issuing HS256 tokens.
type Local struct {
	cfg LocalConfig

	mu        sync.RWMutex
	accounts  map[string]account
	revoked   map[string]time.Time
	listeners map[int]func(*User)
	nextID    int

	limiters *attemptLimiter
}

// NewLocal creates an empty backend.
func NewLocal(cfg LocalConfig) (*Local, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrNoSecret
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	if cfg.Cost == 0 {
		cfg.Cost = bcrypt.DefaultCost
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	l := &Local{
		cfg:       cfg,
		accounts:  make(map[string]account),
		revoked:   make(map[string]time.Time),
		listeners: make(map[int]func(*User)),
	}
	if cfg.AttemptRate > 0 {
		burst := cfg.AttemptBurst
		if burst <= 0 {
			burst = 1
		}
		keys := cfg.AttemptKeys
		if keys <= 0 {
			keys = DefaultAttemptKeys
		}
		limiters, err := newAttemptLimiter(rate.Limit(cfg.AttemptRate), burst, keys)
		if err != nil {
			return nil, err
		}
		l.limiters = limiters
	}
	return l, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email && strings.Contains(email, "@")
}

// SignUp implements Backend.
func (l *Local) SignUp(ctx context.Context, email, password string) (Credential, error) {
	email = normalizeEmail(email)
	if !validEmail(email) {
		return Credential{}, newError(CodeInvalidEmail)
	}
	if len([]rune(password)) < MinPasswordLength {
		return Credential{}, newError(CodeWeakPassword)
	}
	if !l.allow(email) {
		return Credential{}, newError(CodeTooManyRequests)
	}
	if err := ctx.Err(); err != nil {
		return Credential{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), l.cfg.Cost)
	if err != nil {
		return Credential{}, fmt.Errorf("hash password: %w", err)
	}

	l.mu.Lock()
	if _, exists := l.accounts[email]; exists {
		l.mu.Unlock()
		return Credential{}, newError(CodeEmailInUse)
	}
	acc := account{uid: uuid.NewString(), hash: hash}
	l.accounts[email] = acc
	l.mu.Unlock()

	slog.Debug("account created", "uid", acc.uid)
	return l.issue(User{UID: acc.uid, Email: email})
}

// SignIn implements Backend.
func (l *Local) SignIn(ctx context.Context, email, password string) (Credential, error) {
	email = normalizeEmail(email)
	if !validEmail(email) {
		return Credential{}, newError(CodeInvalidEmail)
	}
	if !l.allow(email) {
		return Credential{}, newError(CodeTooManyRequests)
	}
	if err := ctx.Err(); err != nil {
		return Credential{}, err
	}

	l.mu.RLock()
	acc, ok := l.accounts[email]
	l.mu.RUnlock()
	if !ok {
		return Credential{}, newError(CodeUserNotFound)
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		return Credential{}, newError(CodeWrongPassword)
	}

	return l.issue(User{UID: acc.uid, Email: email})
}

// SignOut implements Backend. The token is revoked until it expires.
func (l *Local) SignOut(_ context.Context, token string) error {
	claims, err := l.parse(token)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.revoked[claims.Id] = time.Unix(claims.ExpiresAt, 0)
	l.pruneRevokedLocked()
	l.mu.Unlock()

	l.notify(nil)
	return nil
}

// VerifyToken returns the user a valid, unrevoked token belongs to.
func (l *Local) VerifyToken(token string) (User, error) {
	claims, err := l.parse(token)
	if err != nil {
		return User{}, err
	}
	return User{UID: claims.Subject, Email: claims.Email}, nil
}

// OnAuthStateChange implements Backend.
func (l *Local) OnAuthStateChange(fn func(*User)) func() {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.listeners[id] = fn
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.listeners, id)
		l.mu.Unlock()
	}
}

type claims struct {
	Email string `json:"email"`
	jwt.StandardClaims
}

func (l *Local) issue(u User) (Credential, error) {
	now := l.cfg.Now()
	expires := now.Add(l.cfg.TokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: u.Email,
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			Subject:   u.UID,
			IssuedAt:  now.Unix(),
			ExpiresAt: expires.Unix(),
		},
	})
	signed, err := token.SignedString(l.cfg.Secret)
	if err != nil {
		return Credential{}, fmt.Errorf("sign token: %w", err)
	}

	l.notify(&u)
	return Credential{User: u, Token: signed, ExpiresAt: expires}, nil
}

func (l *Local) parse(token string) (*claims, error) {
	c := &claims{}
	parsed, err := jwt.ParseWithClaims(token, c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return l.cfg.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, &Error{Code: CodeInvalidToken, Err: err}
	}
	if c.ExpiresAt <= l.cfg.Now().Unix() {
		return nil, newError(CodeInvalidToken)
	}

	l.mu.RLock()
	_, revoked := l.revoked[c.Id]
	l.mu.RUnlock()
	if revoked {
		return nil, newError(CodeInvalidToken)
	}
	return c, nil
}

func (l *Local) pruneRevokedLocked() {
	now := l.cfg.Now()
	for id, exp := range l.revoked {
		if exp.Before(now) {
			delete(l.revoked, id)
		}
	}
}

func (l *Local) notify(u *User) {
	l.mu.RLock()
	fns := make([]func(*User), 0, len(l.listeners))
	for _, fn := range l.listeners {
		fns = append(fns, fn)
	}
	l.mu.RUnlock()

	for _, fn := range fns {
		fn(u)
	}
}

func (l *Local) allow(email string) bool {
	if l.limiters == nil {
		return true
	}
	return l.limiters.get(email).Allow()
}

// attemptLimiter keeps one token bucket per email address, bounded by an
// LRU so unknown addresses cannot grow it without limit.
type attemptLimiter struct {
	mu       sync.Mutex
	limiters *lru.Cache[string, *rate.Limiter]
	r        rate.Limit
	b        int
}

func newAttemptLimiter(r rate.Limit, b, keys int) (*attemptLimiter, error) {
	cache, err := lru.New[string, *rate.Limiter](keys)
	if err != nil {
		return nil, fmt.Errorf("create attempt limiter: %w", err)
	}
	return &attemptLimiter{limiters: cache, r: r, b: b}, nil
}

func (a *attemptLimiter) get(key string) *rate.Limiter {
	a.mu.Lock()
	defer a.mu.Unlock()
	if l, ok := a.limiters.Get(key); ok {
		return l
	}
	l := rate.NewLimiter(a.r, a.b)
	a.limiters.Add(key, l)
	return l
}

func (a *attemptLimiter) len() int { return a.limiters.Len() }
