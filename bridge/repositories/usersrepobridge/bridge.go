package usersrepobridge

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/kingjawir/marketplace/bridge/scaffolding/errs"
	"github.com/kingjawir/marketplace/bridge/scaffolding/fopbridge"
	"github.com/kingjawir/marketplace/bridge/scaffolding/mid"
	"github.com/kingjawir/marketplace/core/repositories/schemamigrationsrepo"
	"github.com/kingjawir/marketplace/core/repositories/usersrepo"
	"github.com/kingjawir/marketplace/core/scaffolding/fop"
	"github.com/kingjawir/marketplace/infrastructure/web"
	"github.com/kingjawir/marketplace/sdk/validation"
)

type bridge struct {
	userRepository      *usersrepo.Repository
	migrationRepository *schemamigrationsrepo.Repository
	migrationFiles      []string
}

func newBridge(cfg Config) *bridge {
	return &bridge{
		userRepository:      cfg.Repository,
		migrationRepository: cfg.Migrations,
		migrationFiles:      cfg.MigrationFiles,
	}
}

func userError(err error) *errs.Error {
	switch {
	case errors.Is(err, usersrepo.ErrUserNotFound):
		return errs.Newf(errs.UserNotFound, "User tidak ditemukan")
	case errors.Is(err, usersrepo.ErrInvalidRole):
		return errs.NewWithDetails(errs.ValidationError, roleMessage, nil)
	case errors.Is(err, usersrepo.ErrSelfRoleChange):
		return errs.FromRepo(err, "Tidak bisa mengubah role sendiri")
	case errors.Is(err, usersrepo.ErrSelfDelete):
		return errs.FromRepo(err, "Tidak bisa menghapus akun sendiri")
	case errors.Is(err, usersrepo.ErrDeleteAdmin):
		return errs.FromRepo(err, "Tidak bisa menghapus admin lain")
	}
	return errs.FromRepo(err, "")
}

func (b *bridge) httpProfile(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}

	detail, err := b.userRepository.GetDetail(ctx, userID)
	if err != nil {
		return userError(err)
	}
	return fopbridge.NewResponse("Profil berhasil diambil", marshalDetail(detail))
}

func (b *bridge) httpUpdateProfile(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}

	var input UpdateProfileInput
	if err := web.Decode(r, &input); err != nil {
		return errs.FromDecode(err)
	}

	user, err := b.userRepository.UpdateProfile(ctx, userID, marshalUpdateProfile(input))
	if err != nil {
		return userError(err)
	}
	return fopbridge.NewResponse("Profil berhasil diperbarui", MarshalToBridge(user))
}

func (b *bridge) httpUpdateAvatar(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}

	var input UpdateAvatarInput
	if err := web.Decode(r, &input); err != nil {
		return errs.FromDecode(err)
	}

	user, err := b.userRepository.UpdateAvatar(ctx, userID, strings.TrimSpace(input.AvatarURL))
	if err != nil {
		return userError(err)
	}
	return fopbridge.NewResponse("Avatar berhasil diperbarui", MarshalToBridge(user))
}

func (b *bridge) httpList(ctx context.Context, r *http.Request) web.Encoder {
	page, err := fopbridge.ParsePage(r, 10)
	if err != nil {
		return errs.New(errs.BadRequest, err)
	}

	filter := usersrepo.QueryFilter{
		Search: validation.StringPtrIfNotEmpty(strings.TrimSpace(web.QueryParam(r, "search"))),
	}
	if role := strings.ToUpper(strings.TrimSpace(web.QueryParam(r, "role"))); role != "" {
		if !usersrepo.ValidRole(role) {
			return errs.NewWithDetails(errs.ValidationError, roleMessage, nil)
		}
		filter.Role = &role
	}

	users, total, err := b.userRepository.List(ctx, filter, page)
	if err != nil {
		return userError(err)
	}
	return fopbridge.NewResponse("Daftar user berhasil diambil", UserList{
		Users:      marshalDetails(users),
		Pagination: fop.NewPageInfo(page, total),
	})
}

func (b *bridge) httpGetByID(ctx context.Context, r *http.Request) web.Encoder {
	detail, err := b.userRepository.GetDetail(ctx, web.Param(r, "user_id"))
	if err != nil {
		return userError(err)
	}
	return fopbridge.NewResponse("Detail user berhasil diambil", marshalDetail(detail))
}

func (b *bridge) httpUpdateRole(ctx context.Context, r *http.Request) web.Encoder {
	actorID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}

	var input UpdateRoleInput
	if err := web.Decode(r, &input); err != nil {
		return errs.FromDecode(err)
	}

	user, err := b.userRepository.UpdateRole(ctx, actorID, web.Param(r, "user_id"), input.Role)
	if err != nil {
		return userError(err)
	}
	return fopbridge.NewResponse("Role user berhasil diubah", MarshalToBridge(user))
}

func (b *bridge) httpDelete(ctx context.Context, r *http.Request) web.Encoder {
	actorID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}

	if err := b.userRepository.Delete(ctx, actorID, web.Param(r, "user_id")); err != nil {
		return userError(err)
	}
	return fopbridge.NewMessage("User berhasil dihapus")
}

func (b *bridge) httpMigrations(ctx context.Context, r *http.Request) web.Encoder {
	status, err := b.migrationRepository.Status(ctx, b.migrationFiles)
	if err != nil {
		return errs.FromRepo(err, "")
	}
	return fopbridge.NewResponse("Status migrasi berhasil diambil", marshalMigrations(status))
}
