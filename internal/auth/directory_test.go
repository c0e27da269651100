package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolecoach/rolecoach/internal/store"
	"github.com/rolecoach/rolecoach/internal/types"
)

// newTestDirectory uses the cheapest bcrypt cost to keep the suite fast.
func newTestDirectory(t *testing.T) *Directory {
	t.Helper()
	passwords, err := NewPasswordConfig(4)
	require.NoError(t, err)
	tokens, err := NewTokenService("test-secret", 1)
	require.NoError(t, err)

	d := New(store.NewMemory(), passwords, tokens)
	require.NoError(t, d.Init(context.Background()))
	return d
}

func signUpAndVerify(t *testing.T, d *Directory, name, email, password string) {
	t.Helper()
	ctx := context.Background()

	result, err := d.SignUp(ctx, types.SignUpRequest{Name: name, Email: email, Password: password})
	require.NoError(t, err)
	require.True(t, result.OK, result.Message)

	verified, err := d.VerifyEmail(ctx, email, result.Code)
	require.NoError(t, err)
	require.True(t, verified.OK, verified.Message)
}

func TestInitSeedsDefaultAdmin(t *testing.T) {
	d := newTestDirectory(t)
	ctx := context.Background()

	users, err := d.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, types.RoleAdmin, users[0].Role)
	assert.True(t, users[0].Verified)

	// Init is idempotent
	require.NoError(t, d.Init(ctx))
	users, err = d.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestAdminCanSignIn(t *testing.T) {
	d := newTestDirectory(t)

	result, err := d.SignIn(context.Background(), types.SignInRequest{
		Email:    adminEmail,
		Password: adminPassword,
	})
	require.NoError(t, err)
	require.True(t, result.OK, result.Message)
	assert.Equal(t, types.RoleAdmin, result.User.Role)
	assert.NotEmpty(t, result.Token)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	d := newTestDirectory(t)
	ctx := context.Background()

	first, err := d.SignUp(ctx, types.SignUpRequest{Name: "Sam", Email: "sam@example.com", Password: "password1"})
	require.NoError(t, err)
	require.True(t, first.OK)
	assert.Len(t, first.Code, 6)

	// Same address, different case
	second, err := d.SignUp(ctx, types.SignUpRequest{Name: "Sam Again", Email: "SAM@example.com", Password: "password2"})
	require.NoError(t, err)
	assert.False(t, second.OK)
	assert.Contains(t, second.Message, "already registered")
}

func TestSignUpValidation(t *testing.T) {
	d := newTestDirectory(t)

	result, err := d.SignUp(context.Background(), types.SignUpRequest{Name: "X", Email: "not-an-email", Password: "short"})
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.NotEmpty(t, result.Message)
}

func TestSignInFlow(t *testing.T) {
	d := newTestDirectory(t)
	ctx := context.Background()

	result, err := d.SignUp(ctx, types.SignUpRequest{Name: "Ada", Email: "ada@example.com", Password: "password1"})
	require.NoError(t, err)
	require.True(t, result.OK)

	// Unverified accounts cannot sign in, but get a fresh code
	blocked, err := d.SignIn(ctx, types.SignInRequest{Email: "ada@example.com", Password: "password1"})
	require.NoError(t, err)
	assert.False(t, blocked.OK)
	assert.Len(t, blocked.Code, 6)

	verified, err := d.VerifyEmail(ctx, "ada@example.com", blocked.Code)
	require.NoError(t, err)
	require.True(t, verified.OK)

	signin, err := d.SignIn(ctx, types.SignInRequest{Email: "ada@example.com", Password: "password1"})
	require.NoError(t, err)
	require.True(t, signin.OK, signin.Message)
	assert.Equal(t, "Ada", signin.User.Name)
	assert.Equal(t, types.RoleUser, signin.User.Role)

	// Identity persists
	current, err := d.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, signin.User.ID, current.ID)

	// Session token round-trips
	claims, err := d.tokens.ValidateToken(signin.Token)
	require.NoError(t, err)
	assert.Equal(t, signin.User.ID, claims.UserID)
	assert.Equal(t, types.RoleUser, claims.Role)
}

func TestSignInWrongPassword(t *testing.T) {
	d := newTestDirectory(t)
	ctx := context.Background()
	signUpAndVerify(t, d, "Ada", "ada@example.com", "password1")

	tests := []struct {
		name  string
		email string
		pass  string
	}{
		{name: "wrong password", email: "ada@example.com", pass: "password2"},
		{name: "unknown account", email: "nobody@example.com", pass: "password1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := d.SignIn(ctx, types.SignInRequest{Email: tt.email, Password: tt.pass})
			require.NoError(t, err)
			assert.False(t, result.OK)
			assert.Equal(t, "Invalid email or password.", result.Message)
		})
	}
}

func TestVerifyEmailRejectsBadCode(t *testing.T) {
	d := newTestDirectory(t)
	ctx := context.Background()

	result, err := d.SignUp(ctx, types.SignUpRequest{Name: "Ada", Email: "ada@example.com", Password: "password1"})
	require.NoError(t, err)
	require.True(t, result.OK)

	bad, err := d.VerifyEmail(ctx, "ada@example.com", "000000")
	require.NoError(t, err)
	assert.False(t, bad.OK)

	missing, err := d.VerifyEmail(ctx, "ghost@example.com", result.Code)
	require.NoError(t, err)
	assert.False(t, missing.OK)
}

func TestSignOut(t *testing.T) {
	d := newTestDirectory(t)
	ctx := context.Background()
	signUpAndVerify(t, d, "Ada", "ada@example.com", "password1")

	_, err := d.SignIn(ctx, types.SignInRequest{Email: "ada@example.com", Password: "password1"})
	require.NoError(t, err)

	require.NoError(t, d.SignOut(ctx))
	current, err := d.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestResetPassword(t *testing.T) {
	d := newTestDirectory(t)
	ctx := context.Background()
	signUpAndVerify(t, d, "Ada", "ada@example.com", "password1")

	result, err := d.ResetPassword(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.NotEmpty(t, result.SimulatedLink)

	missing, err := d.ResetPassword(ctx, "ghost@example.com")
	require.NoError(t, err)
	assert.False(t, missing.OK)
}

func TestSubscribeNotifiesOnChangesOnly(t *testing.T) {
	d := newTestDirectory(t)
	ctx := context.Background()
	signUpAndVerify(t, d, "Ada", "ada@example.com", "password1")

	var events []*types.User
	unsubscribe := d.Subscribe(ctx, func(user *types.User) {
		events = append(events, user)
	})

	// Initial delivery: signed out
	require.Len(t, events, 1)
	assert.Nil(t, events[0])

	_, err := d.SignIn(ctx, types.SignInRequest{Email: "ada@example.com", Password: "password1"})
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.NotNil(t, events[1])
	assert.Equal(t, "ada@example.com", events[1].Email)

	// Signing in as the same identity again is not a change
	_, err = d.SignIn(ctx, types.SignInRequest{Email: "ada@example.com", Password: "password1"})
	require.NoError(t, err)
	assert.Len(t, events, 2)

	require.NoError(t, d.SignOut(ctx))
	require.Len(t, events, 3)
	assert.Nil(t, events[2])

	unsubscribe()
	_, err = d.SignIn(ctx, types.SignInRequest{Email: "ada@example.com", Password: "password1"})
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestRoleChangeNotifiesSubscribers(t *testing.T) {
	d := newTestDirectory(t)
	ctx := context.Background()
	signUpAndVerify(t, d, "Ada", "ada@example.com", "password1")

	signin, err := d.SignIn(ctx, types.SignInRequest{Email: "ada@example.com", Password: "password1"})
	require.NoError(t, err)
	require.True(t, signin.OK)

	var events []*types.User
	d.Subscribe(ctx, func(user *types.User) { events = append(events, user) })
	require.Len(t, events, 1)

	// Same id, new role: still an identity change
	require.NoError(t, d.UpdateUserRole(ctx, signin.User.ID, types.RoleAdmin))
	require.Len(t, events, 2)
	assert.Equal(t, types.RoleAdmin, events[1].Role)
}

func TestDeleteUser(t *testing.T) {
	d := newTestDirectory(t)
	ctx := context.Background()
	signUpAndVerify(t, d, "Ada", "ada@example.com", "password1")

	users, err := d.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	var adaID string
	for _, u := range users {
		if u.Email == "ada@example.com" {
			adaID = u.ID
		}
	}
	require.NotEmpty(t, adaID)

	require.NoError(t, d.DeleteUser(ctx, adaID))
	users, err = d.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestListUsersOmitsSecrets(t *testing.T) {
	d := newTestDirectory(t)
	ctx := context.Background()
	signUpAndVerify(t, d, "Ada", "ada@example.com", "password1")

	// The roster projection is types.User, which has no credential fields;
	// make sure signing in still works afterwards (hashes stay intact).
	signin, err := d.SignIn(ctx, types.SignInRequest{Email: "ada@example.com", Password: "password1"})
	require.NoError(t, err)
	assert.True(t, signin.OK)
}
