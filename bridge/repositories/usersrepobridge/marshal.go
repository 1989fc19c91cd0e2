package usersrepobridge

import (
	"github.com/kingjawir/marketplace/core/repositories/schemamigrationsrepo"
	"github.com/kingjawir/marketplace/core/repositories/usersrepo"
	"github.com/kingjawir/marketplace/sdk/validation"
)

// MarshalToBridge converts a repository user to its public shape. Other
// bridges use it wherever a user is returned.
func MarshalToBridge(u usersrepo.User) User {
	return User{
		ID:            u.UserID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          u.Role,
		EmailVerified: u.EmailVerified,
		HasPassword:   u.HasPassword(),
		GoogleLinked:  u.GoogleID != nil,
		Avatar:        u.AvatarURL,
		Phone:         u.Phone,
		Address:       u.Address,
		Bio:           u.Bio,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func marshalDetail(d usersrepo.UserDetail) UserDetail {
	out := UserDetail{
		User:   MarshalToBridge(d.User),
		Counts: Counts{Orders: d.OrderCount, Reviews: d.ReviewCount, Cart: d.CartCount},
	}
	if d.StoreID != nil {
		out.Store = &StoreSummary{
			ID:           *d.StoreID,
			Name:         validation.StringPtrValue(d.StoreName),
			Slug:         validation.StringPtrValue(d.StoreSlug),
			ProductCount: d.StoreProductCount,
		}
	}
	return out
}

func marshalDetails(ds []usersrepo.UserDetail) []UserDetail {
	out := make([]UserDetail, len(ds))
	for i, d := range ds {
		out[i] = marshalDetail(d)
	}
	return out
}

func marshalUpdateProfile(in UpdateProfileInput) usersrepo.UpdateProfile {
	return usersrepo.UpdateProfile{
		Name:    in.Name,
		Phone:   in.Phone,
		Address: in.Address,
		Bio:     in.Bio,
	}
}

func marshalMigrations(ms []schemamigrationsrepo.MigrationStatus) []Migration {
	out := make([]Migration, len(ms))
	for i, m := range ms {
		out[i] = Migration{Version: m.Version, Applied: m.Applied, Checksum: m.Checksum, AppliedAt: m.AppliedAt}
	}
	return out
}
