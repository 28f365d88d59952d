package resets

import (
	"context"
	"fmt"
	"time"

	"github.com/funnelhub/funnelhub-backend/internal/admins"
	"github.com/funnelhub/funnelhub-backend/internal/repo"
	"github.com/funnelhub/funnelhub-backend/internal/users"
	"github.com/funnelhub/funnelhub-backend/pkg/auth"
	"github.com/funnelhub/funnelhub-backend/pkg/config"
	"github.com/funnelhub/funnelhub-backend/pkg/db/models"
	"github.com/funnelhub/funnelhub-backend/pkg/enums"
	pkgerrors "github.com/funnelhub/funnelhub-backend/pkg/errors"
	"github.com/funnelhub/funnelhub-backend/pkg/logger"
	"github.com/funnelhub/funnelhub-backend/pkg/mailer"
	"github.com/funnelhub/funnelhub-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// TokenTTL is how long a mailed token stays redeemable.
	TokenTTL = 10 * time.Minute

	requestCooldown = time.Minute
	cooldownScope   = "reset"

	invalidTokenMessage = "invalid reset token"
)

// Principal identifies whose password a reset changes.
type Principal struct {
	Kind enums.PrincipalType
	UUID uuid.UUID
}

func (p Principal) IsAdmin() bool { return p.Kind == enums.PrincipalAdmin }

// PrincipalStore is implemented by the users and admins repositories.
type PrincipalStore interface {
	FindCredentialsByEmail(ctx context.Context, email string) (*auth.Credentials, error)
	FindCredentialsByUUID(ctx context.Context, id uuid.UUID) (*auth.Credentials, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

type resetsRepository interface {
	Create(ctx context.Context, reset *models.Reset) error
	FindByUUID(ctx context.Context, id uuid.UUID) (*models.Reset, error)
	MarkUsed(ctx context.Context, id uint, at time.Time) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type passwordHasher interface {
	Hash(password string) (string, error)
}

type cooldownStore interface {
	AcquireCooldown(ctx context.Context, scope, id string, ttl time.Duration) (bool, error)
}

// Service issues and redeems password-reset tokens.
type Service interface {
	// Request never reveals whether the e-mail belongs to anyone.
	Request(ctx context.Context, kind enums.PrincipalType, in RequestPayload) error
	Submit(ctx context.Context, kind enums.PrincipalType, in SubmitPayload) error
}

// ServiceParams packages the reset dependencies. Factories bind the stores to
// the submit transaction and default to the gorm repositories. Cooldown is
// optional.
type ServiceParams struct {
	Resets           resetsRepository
	Users            PrincipalStore
	Admins           PrincipalStore
	DB               txRunner
	Hasher           passwordHasher
	Mailer           mailer.Mailer
	App              config.AppConfig
	Cooldown         cooldownStore
	Logger           *logger.Logger
	Now              func() time.Time
	ResetRepoFactory func(tx *gorm.DB) resetsRepository
	StoreFactories   map[enums.PrincipalType]func(tx *gorm.DB) PrincipalStore
}

type service struct {
	resets    resetsRepository
	stores    map[enums.PrincipalType]PrincipalStore
	db        txRunner
	hasher    passwordHasher
	mail      mailer.Mailer
	app       config.AppConfig
	cooldown  cooldownStore
	logg      *logger.Logger
	now       func() time.Time
	resetsFor func(tx *gorm.DB) resetsRepository
	storesFor map[enums.PrincipalType]func(tx *gorm.DB) PrincipalStore
	hashToken func(raw string) (string, error)
}

func NewService(params ServiceParams) (Service, error) {
	if params.Resets == nil {
		return nil, fmt.Errorf("resets repository required")
	}
	if params.Users == nil || params.Admins == nil {
		return nil, fmt.Errorf("principal stores required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Hasher == nil {
		return nil, fmt.Errorf("password hasher required")
	}
	if params.Mailer == nil {
		return nil, fmt.Errorf("mailer required")
	}

	s := &service{
		resets: params.Resets,
		stores: map[enums.PrincipalType]PrincipalStore{
			enums.PrincipalUser:  params.Users,
			enums.PrincipalAdmin: params.Admins,
		},
		db:        params.DB,
		hasher:    params.Hasher,
		mail:      params.Mailer,
		app:       params.App,
		cooldown:  params.Cooldown,
		logg:      params.Logger,
		now:       params.Now,
		resetsFor: params.ResetRepoFactory,
		hashToken: security.HashResetToken,
		storesFor: map[enums.PrincipalType]func(tx *gorm.DB) PrincipalStore{
			enums.PrincipalUser:  func(tx *gorm.DB) PrincipalStore { return users.NewRepository(tx) },
			enums.PrincipalAdmin: func(tx *gorm.DB) PrincipalStore { return admins.NewRepository(tx) },
		},
	}
	for kind, factory := range params.StoreFactories {
		s.storesFor[kind] = factory
	}
	if s.logg == nil {
		s.logg = logger.Nop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.resetsFor == nil {
		s.resetsFor = func(tx *gorm.DB) resetsRepository { return NewRepository(tx) }
	}
	return s, nil
}

// issueToken returns a fresh raw token and its bcrypt hash.
func (s *service) issueToken() (string, string, error) {
	token, err := security.NewResetToken()
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate reset token")
	}
	hash, err := s.hashToken(token)
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash reset token")
	}
	return token, hash, nil
}

func (s *service) store(kind enums.PrincipalType) (PrincipalStore, error) {
	store, ok := s.stores[kind]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown principal type")
	}
	return store, nil
}

func (s *service) Request(ctx context.Context, kind enums.PrincipalType, in RequestPayload) error {
	store, err := s.store(kind)
	if err != nil {
		return err
	}

	creds, err := store.FindCredentialsByEmail(ctx, in.Email)
	if err != nil {
		if repo.NotFound(err) {
			// Unknown emails still pay the bcrypt cost of a real request.
			_, _, _ = s.issueToken()
			s.logg.Debug(s.logg.WithField(ctx, "ref_type", kind.String()), "reset.unknown_principal")
			return nil
		}
		return repo.MapError(err, "principal", "lookup principal")
	}
	principal := Principal{Kind: creds.Identity.Type, UUID: creds.Identity.UUID}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"ref_type": principal.Kind.String(),
		"ref_uuid": principal.UUID.String(),
	})

	if s.cooldown != nil {
		acquired, err := s.cooldown.AcquireCooldown(ctx, cooldownScope, principal.Kind.String()+":"+principal.UUID.String(), requestCooldown)
		if err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "reset.cooldown_unavailable")
		} else if !acquired {
			s.logg.Info(ctx, "reset.cooldown_active")
			return nil
		}
	}

	token, hash, err := s.issueToken()
	if err != nil {
		return err
	}

	reset := &models.Reset{
		TokenHash: hash,
		RefUUID:   principal.UUID,
		RefType:   principal.Kind,
		ValidBy:   s.now().UTC().Add(TokenTTL),
	}
	if err := s.resets.Create(ctx, reset); err != nil {
		return repo.MapError(err, "reset", "create reset")
	}

	link := s.app.ResetLink(principal.IsAdmin(), token, reset.UUID.String())
	msg := mailer.Message{
		To:      creds.Email,
		Subject: "Reset your FunnelHub password",
		Text:    fmt.Sprintf("Use this link within %d minutes to choose a new password:\n\n%s\n", int(TokenTTL.Minutes()), link),
		HTML:    fmt.Sprintf(`<p>Use <a href="%s">this link</a> within %d minutes to choose a new password.</p>`, link, int(TokenTTL.Minutes())),
	}
	ctx = s.logg.WithField(ctx, "reset_uuid", reset.UUID.String())
	if err := s.mail.Send(ctx, msg); err != nil {
		s.logg.Error(ctx, "reset.mail_failed", err)
		return nil
	}

	s.logg.Info(ctx, "reset.requested")
	return nil
}

func (s *service) Submit(ctx context.Context, kind enums.PrincipalType, in SubmitPayload) error {
	if _, err := s.store(kind); err != nil {
		return err
	}
	resetID, err := uuid.Parse(in.ResetUUID)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"resetUuid": "must be a valid uuid"})
	}

	reset, err := s.resets.FindByUUID(ctx, resetID)
	if err != nil {
		if repo.NotFound(err) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidTokenMessage)
		}
		return repo.MapError(err, "reset", "load reset")
	}
	if reset.RefType != kind {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidTokenMessage)
	}

	match, err := security.CompareResetToken(reset.TokenHash, in.Token)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "compare reset token")
	}
	if !match || reset.UsedAt != nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidTokenMessage)
	}
	now := s.now().UTC()
	if reset.Expired(now) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "token expired")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	principal := Principal{Kind: reset.RefType, UUID: reset.RefUUID}
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		store := s.storesFor[principal.Kind](tx)
		if _, err := store.FindCredentialsByUUID(ctx, principal.UUID); err != nil {
			if repo.NotFound(err) {
				return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidTokenMessage)
			}
			return repo.MapError(err, "principal", "load principal")
		}
		if err := store.UpdatePassword(ctx, principal.UUID, hash); err != nil {
			return repo.MapError(err, "principal", "update password")
		}
		if err := s.resetsFor(tx).MarkUsed(ctx, reset.ID, now); err != nil {
			if repo.NotFound(err) {
				return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidTokenMessage)
			}
			return repo.MapError(err, "reset", "consume reset")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"ref_type":   principal.Kind.String(),
		"reset_uuid": reset.UUID.String(),
	}), "reset.completed")
	return nil
}
