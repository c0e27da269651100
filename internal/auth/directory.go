// Package auth provides the sandboxed authentication directory: a user roster
// and current-identity session backed by a key-value store adapter. The core
// consumes only its result contracts; identities reach the rest of the system
// through the subscription observer.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rolecoach/rolecoach/internal/store"
	"github.com/rolecoach/rolecoach/internal/types"
)

// Persistence keys owned by the directory.
const (
	usersKey   = "auth_users"
	currentKey = "auth_current"
)

// Default administrative identity seeded into an empty roster.
const (
	adminID       = "admin_root"
	adminEmail    = "admin@rolecoach.io"
	adminPassword = "admin123"
)

// userRecord is the full roster entry. Only the embedded User projection ever
// leaves the directory.
type userRecord struct {
	types.User
	PasswordHash     string `json:"passwordHash"`
	VerificationCode string `json:"verificationCode,omitempty"`
}

// SignUpResult reports a registration attempt. Code carries the simulated
// verification code on success.
type SignUpResult struct {
	OK      bool
	Message string
	Code    string
}

// SignInResult reports a login attempt. On success User and Token are set; an
// unverified account fails with a fresh verification Code.
type SignInResult struct {
	OK      bool
	User    *types.User
	Token   string
	Message string
	Code    string
}

// ResetResult reports a password-reset request with a simulated link.
type ResetResult struct {
	OK            bool
	Message       string
	SimulatedLink string
}

// VerifyResult reports an email verification attempt.
type VerifyResult struct {
	OK      bool
	Message string
}

// SubscribeFunc observes current-identity changes. It is invoked with nil on
// sign-out.
type SubscribeFunc func(user *types.User)

// Directory is the authentication directory. All operations are safe for
// concurrent use.
type Directory struct {
	mu        sync.Mutex
	adapter   store.Adapter
	passwords *PasswordConfig
	tokens    *TokenService

	subscribers map[int]SubscribeFunc
	nextSubID   int
	// lastNotified suppresses duplicate emissions: observers only hear about
	// actual id or role changes.
	lastNotified *types.User
}

// New creates a directory over a store adapter. tokens may be nil, in which
// case sign-in returns no session token.
func New(adapter store.Adapter, passwords *PasswordConfig, tokens *TokenService) *Directory {
	return &Directory{
		adapter:     adapter,
		passwords:   passwords,
		tokens:      tokens,
		subscribers: make(map[int]SubscribeFunc),
	}
}

// Init seeds the default administrative identity into an empty roster.
func (d *Directory) Init(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, ok, err := d.adapter.Get(ctx, usersKey)
	if err != nil {
		return fmt.Errorf("failed to read user roster: %w", err)
	}
	if ok {
		return nil
	}

	hash, err := d.passwords.HashPassword(adminPassword)
	if err != nil {
		return err
	}
	admin := userRecord{
		User: types.User{
			ID:       adminID,
			Name:     "Standalone Admin",
			Email:    adminEmail,
			Role:     types.RoleAdmin,
			Avatar:   "https://api.dicebear.com/7.x/bottts/svg?seed=admin",
			Verified: true,
		},
		PasswordHash: hash,
	}
	return d.saveUsers(ctx, []userRecord{admin})
}

// SignUp registers a new account and returns its verification code.
func (d *Directory) SignUp(ctx context.Context, req types.SignUpRequest) (SignUpResult, error) {
	if err := req.Validate(); err != nil {
		return SignUpResult{OK: false, Message: err.Error()}, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.loadUsers(ctx)
	if err != nil {
		return SignUpResult{}, err
	}
	if findUser(users, req.Email) != nil {
		return SignUpResult{OK: false, Message: "Email already registered in local database."}, nil
	}

	hash, err := d.passwords.HashPassword(req.Password)
	if err != nil {
		return SignUpResult{}, err
	}

	code := newVerificationCode()
	record := userRecord{
		User: types.User{
			ID:     "user_" + uuid.NewString(),
			Name:   req.Name,
			Email:  req.Email,
			Role:   types.RoleUser,
			Avatar: "https://api.dicebear.com/7.x/avataaars/svg?seed=" + req.Name,
		},
		PasswordHash:     hash,
		VerificationCode: code,
	}
	if err := d.saveUsers(ctx, append(users, record)); err != nil {
		return SignUpResult{}, err
	}
	return SignUpResult{OK: true, Code: code}, nil
}

// SignIn authenticates an account. Success persists the current identity,
// notifies subscribers, and returns a session token. An unverified account
// fails with a freshly issued verification code.
func (d *Directory) SignIn(ctx context.Context, req types.SignInRequest) (SignInResult, error) {
	if err := req.Validate(); err != nil {
		return SignInResult{OK: false, Message: err.Error()}, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.loadUsers(ctx)
	if err != nil {
		return SignInResult{}, err
	}

	record := findUser(users, req.Email)
	if record == nil || !d.passwords.VerifyPassword(req.Password, record.PasswordHash) {
		return SignInResult{OK: false, Message: "Invalid email or password."}, nil
	}

	if !record.Verified {
		code := newVerificationCode()
		record.VerificationCode = code
		if err := d.saveUsers(ctx, users); err != nil {
			return SignInResult{}, err
		}
		return SignInResult{OK: false, Message: "Account not verified.", Code: code}, nil
	}

	user := record.User
	data, err := json.Marshal(&user)
	if err != nil {
		return SignInResult{}, err
	}
	if err := d.adapter.Set(ctx, currentKey, data); err != nil {
		return SignInResult{}, fmt.Errorf("failed to persist current identity: %w", err)
	}

	var token string
	if d.tokens != nil {
		token, err = d.tokens.GenerateToken(&user)
		if err != nil {
			return SignInResult{}, err
		}
	}

	d.notifyLocked(&user)
	return SignInResult{OK: true, User: &user, Token: token}, nil
}

// SignOut clears the current identity and notifies subscribers with nil.
func (d *Directory) SignOut(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.adapter.Delete(ctx, currentKey); err != nil {
		return err
	}
	d.notifyLocked(nil)
	return nil
}

// VerifyEmail confirms an account with its verification code.
func (d *Directory) VerifyEmail(ctx context.Context, email, code string) (VerifyResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.loadUsers(ctx)
	if err != nil {
		return VerifyResult{}, err
	}

	record := findUser(users, email)
	if record == nil {
		return VerifyResult{OK: false, Message: "User not found."}, nil
	}
	if record.VerificationCode != code || code == "" {
		return VerifyResult{OK: false, Message: "Invalid verification code."}, nil
	}

	record.Verified = true
	record.VerificationCode = ""
	if err := d.saveUsers(ctx, users); err != nil {
		return VerifyResult{}, err
	}
	return VerifyResult{OK: true}, nil
}

// ResetPassword simulates a password-reset link for a known account.
func (d *Directory) ResetPassword(ctx context.Context, email string) (ResetResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.loadUsers(ctx)
	if err != nil {
		return ResetResult{}, err
	}
	if findUser(users, email) == nil {
		return ResetResult{OK: false, Message: "User not found in local database."}, nil
	}
	return ResetResult{
		OK:            true,
		Message:       "Simulation: Reset link generated.",
		SimulatedLink: "https://rolecoach.io/reset?token=" + uuid.NewString(),
	}, nil
}

// CurrentUser returns the persisted current identity, or nil.
func (d *Directory) CurrentUser(ctx context.Context) (*types.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.currentLocked(ctx)
}

func (d *Directory) currentLocked(ctx context.Context) (*types.User, error) {
	data, ok, err := d.adapter.Get(ctx, currentKey)
	if err != nil || !ok {
		return nil, err
	}
	var user types.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("malformed current identity: %w", err)
	}
	return &user, nil
}

// ListUsers returns the roster as safe projections.
func (d *Directory) ListUsers(ctx context.Context) ([]types.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	records, err := d.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]types.User, 0, len(records))
	for _, r := range records {
		users = append(users, r.User)
	}
	return users, nil
}

// DeleteUser removes an account from the roster.
func (d *Directory) DeleteUser(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.loadUsers(ctx)
	if err != nil {
		return err
	}
	kept := users[:0]
	for _, u := range users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	return d.saveUsers(ctx, kept)
}

// UpdateUserRole changes an account's role. If the account is the current
// identity, subscribers are notified of the role change.
func (d *Directory) UpdateUserRole(ctx context.Context, id string, role types.Role) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.loadUsers(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == id {
			users[i].Role = role
			if err := d.saveUsers(ctx, users); err != nil {
				return err
			}
			if current, _ := d.currentLocked(ctx); current != nil && current.ID == id {
				current.Role = role
				data, err := json.Marshal(current)
				if err == nil {
					_ = d.adapter.Set(ctx, currentKey, data)
				}
				d.notifyLocked(current)
			}
			return nil
		}
	}
	return fmt.Errorf("user %s not found", id)
}

// Subscribe registers an identity observer and immediately delivers the
// current identity. Observers hear only actual changes (compared by id and
// role, not by reference). The returned function unsubscribes.
func (d *Directory) Subscribe(ctx context.Context, fn SubscribeFunc) func() {
	d.mu.Lock()
	id := d.nextSubID
	d.nextSubID++
	d.subscribers[id] = fn

	current, _ := d.currentLocked(ctx)
	d.lastNotified = current
	d.mu.Unlock()

	fn(current)

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.subscribers, id)
	}
}

// Watch polls the store for out-of-band identity changes (another process
// writing the same store) until ctx is done. Push notification via Subscribe
// covers changes made through this Directory; Watch exists for shared-store
// deployments and uses the same duplicate suppression.
func (d *Directory) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.mu.Lock()
			current, err := d.currentLocked(ctx)
			if err == nil {
				d.notifyLocked(current)
			}
			d.mu.Unlock()
		}
	}
}

// notifyLocked emits an identity change to all subscribers unless the
// identity is unchanged (same id and role). Callers hold d.mu.
func (d *Directory) notifyLocked(user *types.User) {
	if types.SameIdentity(d.lastNotified, user) {
		return
	}
	d.lastNotified = user
	for _, fn := range d.subscribers {
		fn(user)
	}
}

// loadUsers reads the roster. A missing roster is an empty one.
func (d *Directory) loadUsers(ctx context.Context) ([]userRecord, error) {
	data, ok, err := d.adapter.Get(ctx, usersKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read user roster: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var users []userRecord
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("malformed user roster: %w", err)
	}
	return users, nil
}

func (d *Directory) saveUsers(ctx context.Context, users []userRecord) error {
	if users == nil {
		users = []userRecord{}
	}
	data, err := json.Marshal(users)
	if err != nil {
		return err
	}
	if err := d.adapter.Set(ctx, usersKey, data); err != nil {
		return fmt.Errorf("failed to save user roster: %w", err)
	}
	return nil
}

// findUser locates a roster record by email, case-insensitively.
func findUser(users []userRecord, email string) *userRecord {
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i]
		}
	}
	return nil
}

// newVerificationCode issues a 6-digit simulated verification code.
func newVerificationCode() string {
	return fmt.Sprintf("%06d", 100000+rand.Intn(900000))
}
