package usersrepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/kingjawir/marketplace/core/repositories"
	"github.com/kingjawir/marketplace/core/scaffolding/fop"
	"github.com/kingjawir/marketplace/sdk/logger"
)

// Set of error values for CRUD operations on user resource
var (
	ErrUserNotFound   = fmt.Errorf("user %w", repositories.ErrNotFound)
	ErrEmailTaken     = fmt.Errorf("email %w", repositories.ErrAlreadyExists)
	ErrInvalidRole    = fmt.Errorf("%w: role must be CUSTOMER, SELLER or ADMIN", repositories.ErrInvalid)
	ErrSelfRoleChange = fmt.Errorf("%w: cannot change own role", repositories.ErrForbidden)
	ErrSelfDelete     = fmt.Errorf("%w: cannot delete own account", repositories.ErrForbidden)
	ErrDeleteAdmin    = fmt.Errorf("%w: cannot delete another admin", repositories.ErrForbidden)
)

type Storer interface {
	Create(ctx context.Context, input CreateUser) (User, error)
	GetByID(ctx context.Context, userID string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByGoogleID(ctx context.Context, googleID string) (User, error)
	GetDetail(ctx context.Context, userID string) (UserDetail, error)
	List(ctx context.Context, filter QueryFilter, page fop.Page) ([]UserDetail, int, error)
	UpdateProfile(ctx context.Context, userID string, input UpdateProfile) (User, error)
	UpdateAvatar(ctx context.Context, userID string, avatarURL string) (User, error)
	UpdateRole(ctx context.Context, userID string, role string) (User, error)
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
	SetEmailVerified(ctx context.Context, userID string) error
	LinkGoogle(ctx context.Context, userID string, googleID string, avatarURL *string) (User, error)
	Delete(ctx context.Context, userID string) error
}

type Repository struct {
	log    *logger.Logger
	storer Storer
}

func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
	}
}

func (r *Repository) Create(ctx context.Context, input CreateUser) (User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Name = strings.TrimSpace(input.Name)
	if input.Role == "" {
		input.Role = RoleCustomer
	}
	if !ValidRole(input.Role) {
		return User{}, ErrInvalidRole
	}

	user, err := r.storer.Create(ctx, input)
	if err != nil {
		return User{}, fmt.Errorf("user repository create: %w", err)
	}
	return user, nil
}

func (r *Repository) GetByID(ctx context.Context, userID string) (User, error) {
	user, err := r.storer.GetByID(ctx, userID)
	if err != nil {
		return User{}, fmt.Errorf("user repository get by id: %w", err)
	}
	return user, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (User, error) {
	user, err := r.storer.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return User{}, fmt.Errorf("user repository get by email: %w", err)
	}
	return user, nil
}

func (r *Repository) GetByGoogleID(ctx context.Context, googleID string) (User, error) {
	user, err := r.storer.GetByGoogleID(ctx, googleID)
	if err != nil {
		return User{}, fmt.Errorf("user repository get by google id: %w", err)
	}
	return user, nil
}

func (r *Repository) GetDetail(ctx context.Context, userID string) (UserDetail, error) {
	detail, err := r.storer.GetDetail(ctx, userID)
	if err != nil {
		return UserDetail{}, fmt.Errorf("user repository get detail: %w", err)
	}
	return detail, nil
}

// List returns a page of users and the total number of matches.
func (r *Repository) List(ctx context.Context, filter QueryFilter, page fop.Page) ([]UserDetail, int, error) {
	if filter.Role != nil {
		role := strings.ToUpper(strings.TrimSpace(*filter.Role))
		if !ValidRole(role) {
			return nil, 0, ErrInvalidRole
		}
		filter.Role = &role
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) == "" {
		filter.Search = nil
	}

	users, total, err := r.storer.List(ctx, filter, page)
	if err != nil {
		return nil, 0, fmt.Errorf("user repository list: %w", err)
	}
	return users, total, nil
}

// UpdateProfile trims every provided value; optional fields that trim to
// empty are cleared.
func (r *Repository) UpdateProfile(ctx context.Context, userID string, input UpdateProfile) (User, error) {
	input = normalizeProfile(input)
	if input == (UpdateProfile{}) {
		user, err := r.storer.GetByID(ctx, userID)
		if err != nil {
			return User{}, fmt.Errorf("user repository update profile: %w", err)
		}
		return user, nil
	}

	user, err := r.storer.UpdateProfile(ctx, userID, input)
	if err != nil {
		return User{}, fmt.Errorf("user repository update profile: %w", err)
	}
	return user, nil
}

func normalizeProfile(input UpdateProfile) UpdateProfile {
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		t := strings.TrimSpace(*s)
		return &t
	}
	input.Name = trim(input.Name)
	if input.Name != nil && *input.Name == "" {
		input.Name = nil
	}
	input.Phone = trim(input.Phone)
	input.Address = trim(input.Address)
	input.Bio = trim(input.Bio)
	return input
}

func (r *Repository) UpdateAvatar(ctx context.Context, userID string, avatarURL string) (User, error) {
	user, err := r.storer.UpdateAvatar(ctx, userID, strings.TrimSpace(avatarURL))
	if err != nil {
		return User{}, fmt.Errorf("user repository update avatar: %w", err)
	}
	return user, nil
}

// UpdateRole changes the role of userID on behalf of actorID. Admins cannot
// change their own role.
func (r *Repository) UpdateRole(ctx context.Context, actorID, userID, role string) (User, error) {
	role = strings.ToUpper(strings.TrimSpace(role))
	if !ValidRole(role) {
		return User{}, ErrInvalidRole
	}

	if _, err := r.storer.GetByID(ctx, userID); err != nil {
		return User{}, fmt.Errorf("user repository update role: %w", err)
	}

	if actorID == userID {
		return User{}, ErrSelfRoleChange
	}

	user, err := r.storer.UpdateRole(ctx, userID, role)
	if err != nil {
		return User{}, fmt.Errorf("user repository update role: %w", err)
	}

	r.log.InfoContext(ctx, "user role changed", "user_id", userID, "role", role, "by", actorID)
	return user, nil
}

// SetRole changes a role without the admin guards. Used when opening or
// closing a store.
func (r *Repository) SetRole(ctx context.Context, userID, role string) (User, error) {
	if !ValidRole(role) {
		return User{}, ErrInvalidRole
	}
	user, err := r.storer.UpdateRole(ctx, userID, role)
	if err != nil {
		return User{}, fmt.Errorf("user repository set role: %w", err)
	}
	return user, nil
}

func (r *Repository) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	if err := r.storer.UpdatePassword(ctx, userID, passwordHash); err != nil {
		return fmt.Errorf("user repository update password: %w", err)
	}
	return nil
}

func (r *Repository) SetEmailVerified(ctx context.Context, userID string) error {
	if err := r.storer.SetEmailVerified(ctx, userID); err != nil {
		return fmt.Errorf("user repository set email verified: %w", err)
	}
	return nil
}

// LinkGoogle attaches a Google account to an existing user and marks the
// email verified.
func (r *Repository) LinkGoogle(ctx context.Context, userID, googleID string, avatarURL *string) (User, error) {
	user, err := r.storer.LinkGoogle(ctx, userID, googleID, avatarURL)
	if err != nil {
		return User{}, fmt.Errorf("user repository link google: %w", err)
	}
	return user, nil
}

// Delete removes userID and everything it owns on behalf of actorID. Admins
// cannot delete themselves or other admins.
func (r *Repository) Delete(ctx context.Context, actorID, userID string) error {
	user, err := r.storer.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("user repository delete: %w", err)
	}

	if actorID == userID {
		return ErrSelfDelete
	}
	if user.Role == RoleAdmin {
		return ErrDeleteAdmin
	}

	if err := r.storer.Delete(ctx, userID); err != nil {
		return fmt.Errorf("user repository delete: %w", err)
	}

	r.log.InfoContext(ctx, "user deleted", "user_id", userID, "by", actorID)
	return nil
}
