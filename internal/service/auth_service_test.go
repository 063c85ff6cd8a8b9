package service

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/splitsmart/internal/auth"
	"github.com/mmynk/splitsmart/internal/middleware"
	"github.com/mmynk/splitsmart/internal/models"
	"github.com/mmynk/splitsmart/internal/storage/sqlite"
	"github.com/mmynk/splitsmart/pkg/api"
)

// setupAuthServer wires both services the way the server does: AuthService
// is public, LedgerService sits behind RequireAuth.
func setupAuthServer(t *testing.T) (string, *api.AuthServiceClient) {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err, "failed to create store")

	logger := slog.New(slog.DiscardHandler)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)

	mux := http.NewServeMux()
	authPath, authHandler := api.NewAuthServiceHandler(
		NewAuthService(authenticator, jwtManager, logger),
		connect.WithInterceptors(middleware.LoggingInterceptor(logger)),
	)
	mux.Handle(authPath, authHandler)

	ledgerPath, ledgerHandler := api.NewLedgerServiceHandler(
		NewLedgerService(store, nil, logger),
		connect.WithInterceptors(middleware.RequireAuth(jwtManager), middleware.LoggingInterceptor(logger)),
	)
	mux.Handle(ledgerPath, ledgerHandler)

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return server.URL, api.NewAuthServiceClient(http.DefaultClient, server.URL)
}

func TestRegisterAndLogin(t *testing.T) {
	url, client := setupAuthServer(t)
	ctx := context.Background()

	reg, err := client.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:       "alice@example.com",
		DisplayName: "Alice",
		Password:    "password123",
	}))
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Msg.UserID)
	assert.NotEmpty(t, reg.Msg.Token)
	assert.Equal(t, "Alice", reg.Msg.DisplayName)
	assert.True(t, reg.Msg.ExpiresAt.After(time.Now()))

	login, err := client.Login(ctx, connect.NewRequest(&api.LoginRequest{
		Email:    "ALICE@example.com",
		Password: "password123",
	}))
	require.NoError(t, err)
	assert.Equal(t, reg.Msg.UserID, login.Msg.UserID)

	ledger := api.NewLedgerServiceClient(http.DefaultClient, url, api.WithBearerToken(login.Msg.Token))
	group, err := ledger.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Flat", Members: []string{"Alice", "Bob"}}))
	require.NoError(t, err)

	resp, err := ledger.AddExpense(ctx, connect.NewRequest(&api.AddExpenseRequest{
		GroupID:      group.Msg.Group.ID,
		Amount:       amount("20"),
		Payer:        "Alice",
		Participants: []string{"Alice", "Bob"},
	}))
	require.NoError(t, err)
	assert.Equal(t, reg.Msg.UserID, resp.Msg.Expense.CreatedBy, "expense must record the caller")
}

func TestRegister_Errors(t *testing.T) {
	_, client := setupAuthServer(t)
	ctx := context.Background()

	_, err := client.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email: "bob@example.com", DisplayName: "Bob", Password: "password123",
	}))
	require.NoError(t, err)

	tests := []struct {
		name string
		req  *api.RegisterRequest
		code connect.Code
	}{
		{
			name: "duplicate email",
			req:  &api.RegisterRequest{Email: "bob@example.com", DisplayName: "Bob", Password: "password123"},
			code: connect.CodeAlreadyExists,
		},
		{
			name: "weak password",
			req:  &api.RegisterRequest{Email: "carol@example.com", DisplayName: "Carol", Password: "short"},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "bad email",
			req:  &api.RegisterRequest{Email: "not-an-email", DisplayName: "Carol", Password: "password123"},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "missing name",
			req:  &api.RegisterRequest{Email: "dave@example.com", Password: "password123"},
			code: connect.CodeInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Register(ctx, connect.NewRequest(tt.req))
			require.Error(t, err)
			assert.Equal(t, tt.code, connect.CodeOf(err))
		})
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	_, client := setupAuthServer(t)
	ctx := context.Background()

	_, err := client.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email: "erin@example.com", DisplayName: "Erin", Password: "password123",
	}))
	require.NoError(t, err)

	_, err = client.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "erin@example.com", Password: "wrong-password"}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	_, err = client.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "nobody@example.com", Password: "password123"}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	_, err = client.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "erin@example.com"}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

func TestLedger_RejectsMissingOrBadToken(t *testing.T) {
	url, _ := setupAuthServer(t)
	ctx := context.Background()

	anonymous := api.NewLedgerServiceClient(http.DefaultClient, url)
	_, err := anonymous.ListGroups(ctx, connect.NewRequest(&api.ListGroupsRequest{}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	forged := api.NewLedgerServiceClient(http.DefaultClient, url, api.WithBearerToken("not.a.token"))
	_, err = forged.ListGroups(ctx, connect.NewRequest(&api.ListGroupsRequest{}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	other := auth.NewJWTManager("other-secret", time.Hour)
	token, _, err := other.Generate(&models.User{ID: "u1", Email: "x@example.com"})
	require.NoError(t, err)
	wrongKey := api.NewLedgerServiceClient(http.DefaultClient, url, api.WithBearerToken(token))
	_, err = wrongKey.ListGroups(ctx, connect.NewRequest(&api.ListGroupsRequest{}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
}
