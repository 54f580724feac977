package application

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/tasky/internal/domain/entity"
	"github.com/oksasatya/tasky/internal/domain/repository"
	"github.com/oksasatya/tasky/pkg/apperr"
	"github.com/oksasatya/tasky/pkg/helpers"
)

// UserService covers profile reads and writes plus the admin operations over
// all accounts.
type UserService struct {
	Repo      repository.UserRepository
	Hasher    *helpers.Hasher
	GCS       *storage.Client // optional; avatar uploads
	GCSBucket string
	Indexer   *UserIndexer // optional
	Logger    *logrus.Logger
}

func NewUserService(repo repository.UserRepository, hasher *helpers.Hasher, gcs *storage.Client, bucket string, ix *UserIndexer, logger *logrus.Logger) *UserService {
	return &UserService{Repo: repo, Hasher: hasher, GCS: gcs, GCSBucket: bucket, Indexer: ix, Logger: logger}
}

func (s *UserService) List(ctx context.Context) ([]*entity.User, error) {
	return s.Repo.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (*entity.User, error) {
	return s.Repo.GetByID(ctx, id)
}

// UpdateProfileInput carries the fields a profile edit may change. Role is
// not here on purpose; only the admin role route can change roles.
type UpdateProfileInput struct {
	Fullname *string
	Email    *string
	Password *string
}

// UpdateProfile applies a partial profile update. Only the profile owner or
// an admin may call it.
func (s *UserService) UpdateProfile(ctx context.Context, actor *entity.User, id string, in UpdateProfileInput) (*entity.User, error) {
	if actor.ID != id && !actor.IsAdmin() {
		return nil, apperr.E(apperr.Authorization, "not authorized to update this profile")
	}

	upd := repository.UserUpdate{}
	if in.Fullname != nil {
		if err := entity.ValidateFullname(*in.Fullname); err != nil {
			return nil, err
		}
		upd.Fullname = in.Fullname
	}
	if in.Email != nil {
		email := entity.NormalizeEmail(*in.Email)
		if err := entity.ValidateEmail(email); err != nil {
			return nil, err
		}
		upd.Email = &email
	}
	if in.Password != nil {
		hash, err := s.Hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		upd.Password = &hash
	}

	u, err := s.Repo.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if s.Indexer != nil {
		s.Indexer.Index(ctx, u)
	}
	return u, nil
}

// UpdateRole elevates or demotes an account. The route is admin-gated; this
// only validates the target role.
func (s *UserService) UpdateRole(ctx context.Context, id string, role entity.Role) (*entity.User, error) {
	if !role.Valid() {
		return nil, apperr.E(apperr.Validation, "role must be member or admin")
	}
	u, err := s.Repo.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, err
	}
	if s.Indexer != nil {
		s.Indexer.Index(ctx, u)
	}
	return u, nil
}

// Delete removes an account. Tasks cascade at the store level.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.Indexer != nil {
		s.Indexer.Remove(ctx, id)
	}
	return nil
}

// UploadAvatar stores an avatar image in GCS and records its public URL.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (*entity.User, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return nil, apperr.E(apperr.Unexpected, "avatar storage is not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unexpected, "avatar upload failed", err)
	}

	u, err := s.Repo.Update(ctx, userID, repository.UserUpdate{AvatarURL: &url})
	if err != nil {
		return nil, err
	}
	if s.Indexer != nil {
		s.Indexer.Index(ctx, u)
	}
	return u, nil
}

// Search queries the Elasticsearch mirror of user profiles.
func (s *UserService) Search(ctx context.Context, query string) ([]UserDoc, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperr.E(apperr.Validation, "query is required")
	}
	return s.Indexer.Search(ctx, query)
}
