package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lborres/cinemahub/core"
	"github.com/lborres/cinemahub/pkg/crypto"
)

// AuthService handles registration and login
type AuthService struct {
	accounts    core.AccountStorage
	passwords   crypto.PasswordHandler
	credentials *PasswordAuthenticator
	tokens      *TokenService
	logger      *slog.Logger
}

// Ensure AuthService implements AuthProvider
var _ core.AuthProvider = (*AuthService)(nil)

func NewAuthService(accounts core.AccountStorage, passwords crypto.PasswordHandler, tokens *TokenService, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		accounts:    accounts,
		passwords:   passwords,
		credentials: NewPasswordAuthenticator(accounts, passwords),
		tokens:      tokens,
		logger:      logger,
	}
}

// Register creates a new account. The password is hashed before it reaches
// storage.
func (s *AuthService) Register(ctx context.Context, input core.RegisterInput) (*core.Account, error) {
	// Step 1: Validate every field
	if err := core.ValidateRegistration(input); err != nil {
		return nil, err
	}
	birthday, _ := core.ParseBirthday(input.Birthday)

	// Step 2: Hash the password
	hashedPassword, err := s.passwords.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Step 3: Persist; the unique index rejects duplicates
	account := &core.Account{
		Username:       input.Username,
		PasswordHash:   hashedPassword,
		Email:          input.Email,
		Birthday:       birthday,
		FavoriteMovies: []string{},
	}
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, core.ErrAccountExists) {
			return nil, core.ErrAccountExists
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.logger.InfoContext(ctx, "account registered", "username", account.Username)
	return account, nil
}

// Login verifies credentials and issues a bearer token.
//
// Start -> CredentialsReceived -> Verified -> TokenIssued, or Rejected.
// An unknown username and a wrong password are both reported as
// ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, input core.LoginInput) (*core.LoginResult, error) {
	if input.Username == "" || input.Password == "" {
		return nil, core.ErrInvalidCredentials
	}

	account, err := s.credentials.Verify(ctx, input.Username, input.Password)
	if err != nil {
		if errors.Is(err, core.ErrNoSuchUser) || errors.Is(err, core.ErrBadPassword) {
			s.logger.InfoContext(ctx, "login rejected", "username", input.Username, "reason", err.Error())
			return nil, core.ErrInvalidCredentials
		}
		return nil, err
	}

	token, _, err := s.tokens.Issue(account.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &core.LoginResult{User: account, Token: token}, nil
}

// Credentials exposes the password authenticator used by Login
func (s *AuthService) Credentials() *PasswordAuthenticator {
	return s.credentials
}
