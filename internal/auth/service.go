package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/user-management/internal"
	"github.com/frahmantamala/user-management/internal/permission"
	"github.com/frahmantamala/user-management/internal/user"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the slice of identity storage authentication needs.
type UserStore interface {
	GetByID(id int64) (*user.User, error)
	GetByEmail(email string) (*user.User, error)
	Create(u *user.User) error
}

// AccessResolver resolves a user's roles and effective permissions from
// the assignment graph, fresh on every call.
type AccessResolver interface {
	RoleNamesForUser(userID int64) ([]string, error)
	EffectivePermissions(userID int64) ([]*permission.Permission, error)
}

type Service struct {
	users      UserStore
	access     AccessResolver
	tokens     TokenGenerator
	revocation RevocationStore
	logger     *slog.Logger
	bcryptCost int
}

func NewService(users UserStore, access AccessResolver, tokens TokenGenerator, revocation RevocationStore, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		users:      users,
		access:     access,
		tokens:     tokens,
		revocation: revocation,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

// buildSession assembles the profile + roles + effective permission names
// returned by login, register and me.
func (s *Service) buildSession(u *user.User, token string) (*Session, error) {
	roles, err := s.access.RoleNamesForUser(u.ID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load roles", err)
	}
	if roles == nil {
		roles = []string{}
	}

	perms, err := s.access.EffectivePermissions(u.ID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load permissions", err)
	}

	views := make([]PermissionView, len(perms))
	names := make([]string, len(perms))
	for i, p := range perms {
		views[i] = PermissionView{ID: p.ID, Name: p.Name}
		names[i] = p.Name
	}

	return &Session{
		Token:       token,
		User:        &Profile{User: u, Permissions: views},
		Roles:       roles,
		Permissions: names,
	}, nil
}

// Login checks credentials and issues a bearer token. Unknown email and
// wrong password fail identically so callers cannot enumerate accounts.
func (s *Service) Login(dto *LoginDTO) (*Session, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.users.GetByEmail(dto.Email)
	if err != nil {
		// burn a comparable amount of time so a missing account is not
		// distinguishable by response latency
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$nOUIs5kJ7naTuTFkBy1veuK0kSxUFXfuaOKdOKf9xYT0KKIGSJwFa"), []byte(dto.Password))
		return nil, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	if !u.IsActive() {
		return nil, internal.ErrUserInactive
	}

	token, err := s.tokens.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue token", err)
	}

	s.logger.Info("login succeeded", "user_id", u.ID)
	return s.buildSession(u, token)
}

// Register creates a user with no roles or permissions and signs them in.
func (s *Service) Register(dto *RegisterDTO) (*Session, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.users.GetByEmail(dto.Email); err == nil && existing != nil {
		fields := internal.FieldErrors{}
		fields.Add("email", "email is already registered")
		return nil, internal.NewValidationError("validation failed", fields)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	u := &user.User{
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: string(hash),
		Status:       user.StatusActive,
	}
	if err := s.users.Create(u); err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue token", err)
	}

	s.logger.Info("user registered", "user_id", u.ID)
	return s.buildSession(u, token)
}

// Logout revokes the presented token for the remainder of its lifetime.
func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}

	if err := s.revocation.Revoke(ctx, claims.ID, ttl); err != nil {
		return internal.NewInternalError("failed to revoke token", err)
	}

	s.logger.Info("token revoked", "user_id", claims.UserID)
	return nil
}

// Me returns the caller's session view without minting a new token.
func (s *Service) Me(userID int64) (*Session, error) {
	u, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	return s.buildSession(u, "")
}

// ValidateAccessToken parses the token and rejects revoked ones.
func (s *Service) ValidateAccessToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revocation.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, internal.NewInternalError("failed to check token revocation", err)
	}
	if revoked {
		return nil, internal.ErrTokenRevoked
	}

	return claims, nil
}

// IdentityFor loads the authenticated identity and its effective
// permission set for this request. No caching: a revoked grant is gone on
// the very next request.
func (s *Service) IdentityFor(claims *Claims) (*internal.Identity, error) {
	u, err := s.users.GetByID(claims.UserID)
	if err != nil {
		return nil, err
	}

	if !u.IsActive() {
		return nil, internal.ErrUserInactive
	}

	perms, err := s.access.EffectivePermissions(u.ID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load permissions", err)
	}

	names := make([]string, len(perms))
	for i, p := range perms {
		names[i] = p.Name
	}

	return &internal.Identity{
		ID:          u.ID,
		Email:       u.Email,
		Permissions: names,
		TokenID:     claims.ID,
	}, nil
}
