package auth

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"github.com/folio-space/core/internal/models"
	"github.com/folio-space/core/internal/pkg/apperr"
	"github.com/folio-space/core/internal/pkg/media"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLen = 6
	avatarFolder   = "avatars"
)

// Signer issues admin tokens.
type Signer interface {
	Sign(adminID string) (string, error)
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

type ProfileInput struct {
	Name   *string
	Email  *string
	Avatar *multipart.FileHeader
}

type Service struct {
	repo   Repository
	tokens Signer
	media  media.Store
	logger *zap.Logger
	cost   int
	now    func() time.Time
	// compared against when the email is unknown so both paths pay for bcrypt
	dummyHash []byte
}

func NewService(repo Repository, tokens Signer, store media.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		repo:   repo,
		tokens: tokens,
		media:  store,
		logger: logger,
		cost:   bcrypt.DefaultCost,
		now:    time.Now,
	}
	s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("folio-space-placeholder"), s.cost)
	return s
}

// Register creates an admin. The first account may be created anonymously;
// later ones need an authenticated caller.
func (s *Service) Register(ctx context.Context, callerID string, in RegisterInput) (*models.AdminModel, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, apperr.Validation("Email is required")
	}
	if !strings.Contains(email, "@") {
		return nil, apperr.Validation("Please provide a valid email address")
	}
	if len(in.Password) < minPasswordLen {
		return nil, apperr.Validation("Password must be at least 6 characters")
	}
	if callerID == "" {
		n, err := s.repo.Count(ctx)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, apperr.Unauthorized("An admin already exists. Log in to create more accounts.")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	a := &models.AdminModel{
		Email:    email,
		Name:     strings.TrimSpace(in.Name),
		Password: string(hash),
	}
	if a.Name == "" {
		a.Name, _, _ = strings.Cut(email, "@")
	}
	a.Touch(s.now())
	if err := s.repo.Insert(ctx, a); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, apperr.Validation("An admin with this email already exists")
		}
		return nil, err
	}
	s.logger.Info("admin registered", zap.String("admin", a.ID.Hex()), zap.String("by", callerID))
	return a, nil
}

// Login checks credentials and returns a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *models.AdminModel, error) {
	a, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return "", nil, err
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return "", nil, apperr.Unauthorized("Invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(password)) != nil {
		return "", nil, apperr.Unauthorized("Invalid credentials")
	}

	token, err := s.tokens.Sign(a.ID.Hex())
	if err != nil {
		return "", nil, apperr.Internal(err)
	}
	now := s.now()
	a.LastLoginAt = &now
	if err := s.repo.Save(ctx, a); err != nil {
		s.logger.Warn("record last login failed", zap.String("admin", a.ID.Hex()), zap.Error(err))
	}
	return token, a, nil
}

func (s *Service) Me(ctx context.Context, adminID string) (*models.AdminModel, error) {
	return s.find(ctx, adminID)
}

func (s *Service) List(ctx context.Context) ([]models.AdminModel, error) {
	return s.repo.List(ctx)
}

// UpdateProfile changes name, email and avatar. A replaced avatar is removed
// from the media host on a best-effort basis.
func (s *Service) UpdateProfile(ctx context.Context, adminID string, in ProfileInput) (*models.AdminModel, error) {
	a, err := s.find(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		a.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email == "" {
			return nil, apperr.Validation("Email is required")
		}
		a.Email = email
	}

	var oldRef, newRef string
	if in.Avatar != nil {
		asset, err := s.media.Upload(ctx, avatarFolder, in.Avatar)
		if err != nil {
			return nil, err
		}
		oldRef, newRef = a.AvatarRef, asset.Ref
		a.Avatar, a.AvatarRef = asset.URL, asset.Ref
	}

	a.Touch(s.now())
	if err := s.repo.Save(ctx, a); err != nil {
		if newRef != "" {
			s.removeAsset(context.WithoutCancel(ctx), newRef)
		}
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, apperr.Validation("An admin with this email already exists")
		}
		return nil, notFound(err)
	}
	if oldRef != "" {
		s.removeAsset(ctx, oldRef)
	}
	return a, nil
}

func (s *Service) ChangePassword(ctx context.Context, adminID, current, next string) error {
	a, err := s.find(ctx, adminID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(current)) != nil {
		return apperr.Validation("Current password is incorrect")
	}
	if len(next) < minPasswordLen {
		return apperr.Validation("Password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.cost)
	if err != nil {
		return apperr.Internal(err)
	}
	a.Password = string(hash)
	a.Touch(s.now())
	return notFound(s.repo.Save(ctx, a))
}

// Delete removes another admin's account.
func (s *Service) Delete(ctx context.Context, callerID, id string) error {
	if callerID == id {
		return apperr.Validation("You cannot delete your own account")
	}
	a, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, a.ID); err != nil {
		return notFound(err)
	}
	if a.AvatarRef != "" {
		s.removeAsset(ctx, a.AvatarRef)
	}
	return nil
}

func (s *Service) find(ctx context.Context, id string) (*models.AdminModel, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Validation("Invalid id")
	}
	a, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (s *Service) removeAsset(ctx context.Context, ref string) {
	if err := s.media.Delete(ctx, ref); err != nil {
		s.logger.Warn("delete avatar failed", zap.String("ref", ref), zap.Error(err))
	}
}

func normalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func notFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("Admin not found")
	}
	return err
}
