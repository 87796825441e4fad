package auth_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/hifz-auth/auth"
	"github.com/jrsteele09/hifz-auth/credentials"
	fakecredentialstore "github.com/jrsteele09/hifz-auth/credentials/repofake"
	"github.com/jrsteele09/hifz-auth/tenants"
	tenantrepofakes "github.com/jrsteele09/hifz-auth/tenants/repofakes"
	"github.com/jrsteele09/hifz-auth/token"
	"github.com/jrsteele09/hifz-auth/token/refresh"
	refreshrepofake "github.com/jrsteele09/hifz-auth/token/refresh/repofake"
	"github.com/jrsteele09/hifz-auth/users"
	fakeuserrepo "github.com/jrsteele09/hifz-auth/users/repofake"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	secretStr    = "0123456789abcdef0123456789abcdef"
	testPassword = "Hifz2024pass"
	centerA      = "center-a"
	centerB      = "center-b"
)

// spyVerifier counts how often the password check is reached
type spyVerifier struct {
	credentials.Verifier
	calls atomic.Int32
}

func (s *spyVerifier) Verify(ctx context.Context, loginHandle, password string) (*credentials.Verification, error) {
	s.calls.Add(1)
	return s.Verifier.Verify(ctx, loginHandle, password)
}

// testFixture holds all test dependencies
type testFixture struct {
	userRepo    *fakeuserrepo.FakeUserRepo
	tenantRepo  *tenantrepofakes.FakeTenantRepo
	credStore   *fakecredentialstore.FakeCredentialStore
	refreshRepo *refreshrepofake.FakeRefreshTokenRepo
	verifier    *spyVerifier
	bcrypt      *credentials.BcryptVerifier
	tokens      *token.Manager
	service     *auth.Service
}

// testAccount describes an account to seed
type testAccount struct {
	DisplayName string
	Email       string
	Handle      string
	Password    string
	Inactive    bool
	Global      bool
	Tenants     map[string]users.RoleType // tenantID -> role
}

func setupTestFixture(t *testing.T, options ...auth.ServiceOption) *testFixture {
	t.Helper()

	f := &testFixture{
		userRepo:    fakeuserrepo.NewFakeUserRepo(),
		tenantRepo:  tenantrepofakes.NewFakeTenantRepo(),
		credStore:   fakecredentialstore.NewFakeCredentialStore(),
		refreshRepo: refreshrepofake.NewFakeRefreshTokenRepo(),
	}

	var err error
	f.bcrypt, err = credentials.NewBcryptVerifier(f.credStore, credentials.WithCost(bcrypt.MinCost))
	require.NoError(t, err)
	f.verifier = &spyVerifier{Verifier: f.bcrypt}

	signer, err := token.NewHMACSigner(secretStr)
	require.NoError(t, err)
	f.tokens, err = token.New(signer, refresh.NewManager(f.refreshRepo))
	require.NoError(t, err)

	f.createTenant(t, centerA, "Dar al-Arqam", true)
	f.createTenant(t, centerB, "Al-Furqan", true)

	f.service = f.newService(t, auth.Repos{Users: f.userRepo, Tenants: f.tenantRepo}, options...)
	return f
}

func (f *testFixture) newService(t *testing.T, repos auth.Repos, options ...auth.ServiceOption) *auth.Service {
	t.Helper()
	s, err := auth.NewService(repos, f.verifier, f.tokens, options...)
	require.NoError(t, err)
	return s
}

func (f *testFixture) createTenant(t *testing.T, id, name string, active bool) {
	t.Helper()
	require.NoError(t, f.tenantRepo.Upsert(context.Background(), &tenants.Tenant{ID: id, Name: name, Active: active}))
}

func (f *testFixture) createAccount(t *testing.T, a testAccount) *users.User {
	t.Helper()
	ctx := context.Background()

	if a.Password == "" {
		a.Password = testPassword
	}
	u := &users.User{
		DisplayName: a.DisplayName,
		Email:       a.Email,
		LoginHandle: a.Handle,
		Active:      !a.Inactive,
	}
	require.NoError(t, f.userRepo.Upsert(ctx, u))
	require.NoError(t, f.bcrypt.SetPassword(ctx, a.Handle, a.Password))

	if a.Global {
		m, err := users.NewMembership(u.ID, users.RoleSuperAdmin, "")
		require.NoError(t, err)
		require.NoError(t, f.userRepo.Grant(ctx, m))
	}
	for tenantID, role := range a.Tenants {
		m, err := users.NewMembership(u.ID, role, tenantID)
		require.NoError(t, err)
		require.NoError(t, f.userRepo.Grant(ctx, m))
	}
	return u
}

func login(t *testing.T, f *testFixture, identifier, password, tenantID string) (*auth.LoginResponse, error) {
	t.Helper()
	return f.service.Login(context.Background(), auth.LoginRequest{
		Identifier: identifier,
		Password:   password,
		TenantID:   tenantID,
	})
}

func TestLogin_UnknownIdentifierNeverChecksPassword(t *testing.T) {
	f := setupTestFixture(t)
	f.createAccount(t, testAccount{DisplayName: "Bilal", Handle: "bilal@handles.local", Tenants: map[string]users.RoleType{centerA: users.RoleStudent}})

	for _, identifier := range []string{"Yusuf", "bilal", "Bil", "yusuf@example.com", "   "} {
		t.Run(identifier, func(t *testing.T) {
			resp, err := login(t, f, identifier, testPassword, centerA)
			require.Nil(t, resp)
			require.ErrorIs(t, err, auth.ErrNotFound)
			require.Equal(t, auth.KindNotFound, auth.KindOf(err))
		})
	}
	require.Zero(t, f.verifier.calls.Load())
}

func TestLogin_AmbiguousNameWithoutTenant(t *testing.T) {
	f := setupTestFixture(t)
	f.createAccount(t, testAccount{DisplayName: "Ahmed", Handle: "ahmed.1@handles.local", Tenants: map[string]users.RoleType{centerA: users.RoleTeacher}})
	f.createAccount(t, testAccount{DisplayName: "Ahmed", Handle: "ahmed.2@handles.local", Tenants: map[string]users.RoleType{centerB: users.RoleTeacher}})

	resp, err := login(t, f, "Ahmed", testPassword, "")
	require.Nil(t, resp)
	require.ErrorIs(t, err, auth.ErrAmbiguousIdentifier)
	require.Zero(t, f.verifier.calls.Load())
	require.Zero(t, f.refreshRepo.Count())
}

func TestLogin_TenantHintDisambiguates(t *testing.T) {
	f := setupTestFixture(t)
	// The center-b account is created first
	ahmedB := f.createAccount(t, testAccount{DisplayName: "Ahmed", Handle: "ahmed.b@handles.local", Password: "CenterB2024x", Tenants: map[string]users.RoleType{centerB: users.RoleParent}})
	ahmedA := f.createAccount(t, testAccount{DisplayName: "Ahmed", Handle: "ahmed.a@handles.local", Password: "CenterA2024x", Tenants: map[string]users.RoleType{centerA: users.RoleTeacher}})

	resp, err := login(t, f, "  Ahmed ", "CenterA2024x", centerA)
	require.NoError(t, err)
	require.Equal(t, ahmedA.ID, resp.Session.AccountID)
	require.Equal(t, ahmedA.ID, resp.Account.ID)
	require.Equal(t, centerA, resp.Session.TenantID)
	require.NotEqual(t, ahmedB.ID, resp.Account.ID)

	// center-b's password is checked against center-a's account only
	_, err = login(t, f, "Ahmed", "CenterB2024x", centerA)
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)

	resp, err = login(t, f, "Ahmed", "CenterB2024x", centerB)
	require.NoError(t, err)
	require.Equal(t, ahmedB.ID, resp.Account.ID)
}

func TestLogin_NoAccountInTenant(t *testing.T) {
	f := setupTestFixture(t)
	f.createTenant(t, "center-c", "An-Nur", true)
	f.createAccount(t, testAccount{DisplayName: "Ahmed", Handle: "ahmed.a@handles.local", Tenants: map[string]users.RoleType{centerA: users.RoleTeacher}})
	f.createAccount(t, testAccount{DisplayName: "Ahmed", Handle: "ahmed.b@handles.local", Tenants: map[string]users.RoleType{centerB: users.RoleTeacher}})

	_, err := login(t, f, "Ahmed", testPassword, "center-c")
	require.ErrorIs(t, err, auth.ErrNoAccountInTenant)
	require.Zero(t, f.verifier.calls.Load())
}

func TestLogin_GlobalRolePassesAnyTenant(t *testing.T) {
	f := setupTestFixture(t)
	admin := f.createAccount(t, testAccount{DisplayName: "Super Admin", Handle: "root@handles.local", Global: true})

	for _, tenantID := range []string{centerA, centerB, "never-configured", ""} {
		t.Run("tenant "+tenantID, func(t *testing.T) {
			resp, err := login(t, f, "Super Admin", testPassword, tenantID)
			require.NoError(t, err)
			require.Equal(t, admin.ID, resp.Account.ID)
			require.True(t, resp.Account.Memberships.HasGlobal())
		})
	}
}

func TestLogin_GlobalRoleWinsNameCollision(t *testing.T) {
	f := setupTestFixture(t)
	f.createAccount(t, testAccount{DisplayName: "Omar", Handle: "omar.1@handles.local", Tenants: map[string]users.RoleType{centerB: users.RoleTeacher}})
	admin := f.createAccount(t, testAccount{DisplayName: "Omar", Handle: "omar.2@handles.local", Global: true})

	resp, err := login(t, f, "Omar", testPassword, centerA)
	require.NoError(t, err)
	require.Equal(t, admin.ID, resp.Account.ID)
}

func TestLogin_TenantMismatchNeverChecksPassword(t *testing.T) {
	f := setupTestFixture(t)
	f.createAccount(t, testAccount{DisplayName: "Khadija", Handle: "khadija@handles.local", Tenants: map[string]users.RoleType{centerA: users.RoleTeacher}})

	// The password is correct, the center is not
	resp, err := login(t, f, "Khadija", testPassword, centerB)
	require.Nil(t, resp)
	require.ErrorIs(t, err, auth.ErrTenantMismatch)
	require.Zero(t, f.verifier.calls.Load())
	require.Zero(t, f.refreshRepo.Count())

	// A wrong password reports the same thing, so the password isn't probed
	_, err = login(t, f, "Khadija", "WrongPass1", centerB)
	require.ErrorIs(t, err, auth.ErrTenantMismatch)
	require.Zero(t, f.verifier.calls.Load())
}

func TestLogin_NoMembership(t *testing.T) {
	f := setupTestFixture(t)
	f.createAccount(t, testAccount{DisplayName: "Maryam", Handle: "maryam@handles.local"})

	_, err := login(t, f, "Maryam", testPassword, centerA)
	require.ErrorIs(t, err, auth.ErrNoMembership)
	require.Zero(t, f.verifier.calls.Load())

	// Without a center the check is deferred
	resp, err := login(t, f, "Maryam", testPassword, "")
	require.NoError(t, err)
	require.Empty(t, resp.Account.Memberships)
}

func TestLogin_InactiveTenant(t *testing.T) {
	f := setupTestFixture(t)
	f.createTenant(t, "center-closed", "Closed Center", false)
	f.createAccount(t, testAccount{DisplayName: "Zaid", Handle: "zaid@handles.local", Tenants: map[string]users.RoleType{"center-closed": users.RoleStudent}})

	_, err := login(t, f, "Zaid", testPassword, "center-closed")
	require.ErrorIs(t, err, auth.ErrTenantMismatch)
	require.Zero(t, f.verifier.calls.Load())
}

func TestLogin_DeactivatedAccountsAreSkipped(t *testing.T) {
	f := setupTestFixture(t)
	f.createAccount(t, testAccount{DisplayName: "Hamza", Handle: "hamza.old@handles.local", Inactive: true, Tenants: map[string]users.RoleType{centerA: users.RoleStudent}})
	current := f.createAccount(t, testAccount{DisplayName: "Hamza", Handle: "hamza.new@handles.local", Tenants: map[string]users.RoleType{centerB: users.RoleStudent}})

	resp, err := login(t, f, "Hamza", testPassword, "")
	require.NoError(t, err)
	require.Equal(t, current.ID, resp.Account.ID)

	_, err = login(t, f, "hamza.old@handles.local", testPassword, "")
	require.ErrorIs(t, err, auth.ErrNotFound)
}

func TestLogin_ByEmail(t *testing.T) {
	f := setupTestFixture(t)
	withEmail := f.createAccount(t, testAccount{DisplayName: "Aisha", Email: "aisha@example.com", Handle: "aisha@handles.local", Tenants: map[string]users.RoleType{centerA: users.RoleParent}})
	handleOnly := f.createAccount(t, testAccount{DisplayName: "Sumayya", Handle: "sumayya@handles.local", Tenants: map[string]users.RoleType{centerA: users.RoleParent}})

	tests := []struct {
		name       string
		identifier string
		wantID     string
		wantErr    error
	}{
		{name: "contact email", identifier: "aisha@example.com", wantID: withEmail.ID},
		{name: "falls back to login handle", identifier: "sumayya@handles.local", wantID: handleOnly.ID},
		{name: "case sensitive", identifier: "Aisha@example.com", wantErr: auth.ErrNotFound},
		{name: "unknown", identifier: "ghost@example.com", wantErr: auth.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := login(t, f, tt.identifier, testPassword, centerA)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, resp.Account.ID)
		})
	}
}

func TestLogin_InvalidCredentialsIsGeneric(t *testing.T) {
	f := setupTestFixture(t)
	f.createAccount(t, testAccount{DisplayName: "Ibrahim", Handle: "ibrahim@handles.local", Tenants: map[string]users.RoleType{centerA: users.RoleTeacher}})

	resp, err := login(t, f, "Ibrahim", "WrongPass1", centerA)
	require.Nil(t, resp)
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	require.Equal(t, int32(1), f.verifier.calls.Load())

	failure := auth.FailureFrom(err)
	require.Equal(t, auth.KindInvalidCredentials, failure.ErrorKind)
	require.NotContains(t, failure.Message, "Ibrahim")
	require.NotContains(t, failure.Message, "password")
}

func TestLogin_IssuesUsableSession(t *testing.T) {
	f := setupTestFixture(t)
	u := f.createAccount(t, testAccount{
		DisplayName: "Fatima",
		Handle:      "fatima@handles.local",
		Tenants:     map[string]users.RoleType{centerA: users.RoleTeacher, centerB: users.RoleParent},
	})

	resp, err := login(t, f, "Fatima", testPassword, centerB)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Session.AccessToken)
	require.NotEmpty(t, resp.Session.RefreshToken)
	require.Len(t, resp.Account.Memberships, 2)

	in := f.service.Introspect(resp.Session.AccessToken)
	require.True(t, in.Active)
	require.Equal(t, u.ID, in.AccountID)
	require.Equal(t, []string{"parent"}, in.Roles)

	stored, err := f.userRepo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.False(t, stored.LastLogin.IsZero())
}

// slowUsers delays every display name lookup
type slowUsers struct {
	users.UserRepo
	delay time.Duration
}

func (s slowUsers) FindByDisplayName(ctx context.Context, name string) ([]*users.User, error) {
	time.Sleep(s.delay)
	return s.UserRepo.FindByDisplayName(ctx, name)
}

// brokenUsers fails every membership lookup
type brokenUsers struct {
	users.UserRepo
}

func (brokenUsers) ListByAccount(context.Context, string) (users.Memberships, error) {
	return nil, errors.New("connection refused")
}

func TestLogin_NetworkErrors(t *testing.T) {
	f := setupTestFixture(t)
	f.createAccount(t, testAccount{DisplayName: "Yahya", Handle: "yahya@handles.local", Tenants: map[string]users.RoleType{centerA: users.RoleStudent}})

	t.Run("timeout", func(t *testing.T) {
		s := f.newService(t, auth.Repos{Users: slowUsers{UserRepo: f.userRepo, delay: 500 * time.Millisecond}, Tenants: f.tenantRepo},
			auth.WithBackendTimeout(20*time.Millisecond))

		started := time.Now()
		_, err := s.Login(context.Background(), auth.LoginRequest{Identifier: "Yahya", Password: testPassword, TenantID: centerA})
		require.ErrorIs(t, err, auth.ErrNetwork)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.Equal(t, auth.KindNetworkError, auth.KindOf(err))
		require.Less(t, time.Since(started), 400*time.Millisecond)
	})

	t.Run("backend failure", func(t *testing.T) {
		s := f.newService(t, auth.Repos{Users: brokenUsers{UserRepo: f.userRepo}, Tenants: f.tenantRepo})
		_, err := s.Login(context.Background(), auth.LoginRequest{Identifier: "Yahya", Password: testPassword, TenantID: centerA})
		require.ErrorIs(t, err, auth.ErrNetwork)
	})

	t.Run("caller gave up", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		s := f.newService(t, auth.Repos{Users: slowUsers{UserRepo: f.userRepo, delay: 50 * time.Millisecond}, Tenants: f.tenantRepo})
		_, err := s.Login(ctx, auth.LoginRequest{Identifier: "Yahya", Password: testPassword})
		require.ErrorIs(t, err, context.Canceled)
	})
	require.Zero(t, f.verifier.calls.Load())
}

// stallingLastLogin blocks the last login write until released, whatever the context says
type stallingLastLogin struct {
	users.UserRepo
	release chan struct{}
}

func (s stallingLastLogin) SetLastLogin(ctx context.Context, id string) error {
	<-s.release
	return s.UserRepo.SetLastLogin(ctx, id)
}

func TestLogin_StalledLastLoginWriteIsBounded(t *testing.T) {
	f := setupTestFixture(t)
	f.createAccount(t, testAccount{DisplayName: "Yahya", Handle: "yahya@handles.local", Tenants: map[string]users.RoleType{centerA: users.RoleStudent}})

	repo := stallingLastLogin{UserRepo: f.userRepo, release: make(chan struct{})}
	t.Cleanup(func() { close(repo.release) })
	s := f.newService(t, auth.Repos{Users: repo, Tenants: f.tenantRepo}, auth.WithBackendTimeout(100*time.Millisecond))

	started := time.Now()
	resp, err := s.Login(context.Background(), auth.LoginRequest{Identifier: "Yahya", Password: testPassword, TenantID: centerA})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Session.RefreshToken)
	require.Less(t, time.Since(started), time.Second)
}

func TestLogin_NoTenantSkipsMembershipValidation(t *testing.T) {
	f := setupTestFixture(t)
	u := f.createAccount(t, testAccount{DisplayName: "Yahya", Handle: "yahya@handles.local", Tenants: map[string]users.RoleType{centerA: users.RoleStudent}})

	v := auth.NewMembershipValidator(brokenUsers{UserRepo: f.userRepo}, f.tenantRepo, time.Second)
	ms, err := v.Validate(context.Background(), u, "")
	require.NoError(t, err)
	require.Nil(t, ms)

	// Validation passes, the roles for the session are loaded after the password check
	s := f.newService(t, auth.Repos{Users: brokenUsers{UserRepo: f.userRepo}, Tenants: f.tenantRepo})
	_, err = s.Login(context.Background(), auth.LoginRequest{Identifier: "Yahya", Password: testPassword})
	require.ErrorIs(t, err, auth.ErrNetwork)
	require.Equal(t, int32(1), f.verifier.calls.Load())

	resp, err := login(t, f, "Yahya", testPassword, "")
	require.NoError(t, err)
	require.True(t, resp.Account.Memberships.HasRole(users.RoleStudent))
	require.Empty(t, resp.Session.TenantID)
}

// gatedRefreshRepo holds refresh token writes until the gate opens
type gatedRefreshRepo struct {
	*refreshrepofake.FakeRefreshTokenRepo
	gate     chan struct{}
	upserted atomic.Int32
}

func (r *gatedRefreshRepo) Upsert(ctx context.Context, rt *refresh.StoredRefreshToken) error {
	<-r.gate
	defer r.upserted.Add(1)
	return r.FakeRefreshTokenRepo.Upsert(ctx, rt)
}

func TestLogin_LateSessionIsRevoked(t *testing.T) {
	f := setupTestFixture(t)
	f.createAccount(t, testAccount{DisplayName: "Yahya", Handle: "yahya@handles.local", Tenants: map[string]users.RoleType{centerA: users.RoleStudent}})

	repo := &gatedRefreshRepo{FakeRefreshTokenRepo: refreshrepofake.NewFakeRefreshTokenRepo(), gate: make(chan struct{})}
	signer, err := token.NewHMACSigner(secretStr)
	require.NoError(t, err)
	tokens, err := token.New(signer, refresh.NewManager(repo))
	require.NoError(t, err)
	s, err := auth.NewService(auth.Repos{Users: f.userRepo, Tenants: f.tenantRepo}, f.verifier, tokens, auth.WithBackendTimeout(100*time.Millisecond))
	require.NoError(t, err)

	_, err = s.Login(context.Background(), auth.LoginRequest{Identifier: "Yahya", Password: testPassword, TenantID: centerA})
	require.ErrorIs(t, err, auth.ErrNetwork)

	// The refresh token written after the timeout does not survive
	close(repo.gate)
	require.Eventually(t, func() bool {
		return repo.upserted.Load() == 1 && repo.Count() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRefresh(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	u := f.createAccount(t, testAccount{DisplayName: "Salman", Handle: "salman@handles.local", Tenants: map[string]users.RoleType{centerA: users.RoleTeacher}})

	first, err := login(t, f, "Salman", testPassword, centerA)
	require.NoError(t, err)

	second, err := f.service.Refresh(ctx, first.Session.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, u.ID, second.Account.ID)
	require.Equal(t, centerA, second.Session.TenantID)
	require.NotEqual(t, first.Session.RefreshToken, second.Session.RefreshToken)

	_, err = f.service.Refresh(ctx, first.Session.RefreshToken)
	require.ErrorIs(t, err, auth.ErrSessionInactive)
	require.Equal(t, auth.KindInvalidCredentials, auth.KindOf(err))

	// Revoking the role takes effect on the next refresh
	require.NoError(t, f.userRepo.Revoke(ctx, users.Membership{AccountID: u.ID, Role: users.RoleTeacher, TenantID: centerA}))
	_, err = f.service.Refresh(ctx, second.Session.RefreshToken)
	require.ErrorIs(t, err, auth.ErrNoMembership)
}

func TestLogoutAndProfile(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	u := f.createAccount(t, testAccount{DisplayName: "Ruqayya", Email: "ruqayya@example.com", Handle: "ruqayya@handles.local", Tenants: map[string]users.RoleType{centerA: users.RoleCenterAdmin}})

	resp, err := login(t, f, "ruqayya@example.com", testPassword, centerA)
	require.NoError(t, err)

	profile, err := f.service.Profile(ctx, resp.Session.AccessToken)
	require.NoError(t, err)
	require.Equal(t, u.ID, profile.ID)
	require.Equal(t, "Ruqayya", profile.DisplayName)
	require.True(t, profile.Memberships.HasRole(users.RoleCenterAdmin))

	require.NoError(t, f.service.Logout(ctx, resp.Session.AccessToken, resp.Session.RefreshToken))

	_, err = f.service.Profile(ctx, resp.Session.AccessToken)
	require.ErrorIs(t, err, auth.ErrSessionInactive)
	_, err = f.service.Refresh(ctx, resp.Session.RefreshToken)
	require.ErrorIs(t, err, auth.ErrSessionInactive)
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	f := setupTestFixture(t)
	_, err := auth.NewService(auth.Repos{Tenants: f.tenantRepo}, f.verifier, f.tokens)
	require.Error(t, err)
	_, err = auth.NewService(auth.Repos{Users: f.userRepo, Tenants: f.tenantRepo}, nil, f.tokens)
	require.Error(t, err)
	_, err = auth.NewService(auth.Repos{Users: f.userRepo, Tenants: f.tenantRepo}, f.verifier, nil)
	require.Error(t, err)
}
