package repo

import (
	"context"
	"errors"

	"github.com/funnelhub/funnelhub-backend/pkg/db"
	pkgerrors "github.com/funnelhub/funnelhub-backend/pkg/errors"
	"gorm.io/gorm"
)

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection,
// which may be a transaction handle.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Updates applies column changes to the row matching model's primary key.
// An empty change set is a no-op.
func (b Base) Updates(ctx context.Context, model any, changes map[string]any) error {
	if len(changes) == 0 {
		return nil
	}
	return b.DB(ctx).Model(model).Updates(changes).Error
}

// SoftDelete marks the row with the given primary key deleted and reports
// gorm.ErrRecordNotFound when no live row matched.
func (b Base) SoftDelete(ctx context.Context, model any, id uint) error {
	res := b.DB(ctx).Delete(model, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// NotFound reports whether err is a missing-row error.
func NotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// MapError turns a repository failure into a typed error. Missing rows become
// CodeNotFound, unique violations CodeConflict, anything else CodeDependency.
func MapError(err error, resource, action string) error {
	if err == nil {
		return nil
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	if NotFound(err) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, resource+" not found")
	}
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, resource+" already exists")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}
