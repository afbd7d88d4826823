package policy

import (
	"context"
	"errors"

	"github.com/diewo77/go-gestion/gate"
	"github.com/diewo77/go-gestion/internal/models"
	"gorm.io/gorm"
)

// DBRoleResolver reads the employee's role column and maps it to the static
// role definitions.
type DBRoleResolver struct {
	DB    *gorm.DB
	roles map[string]*gate.StaticRole
}

func NewDBRoleResolver(db *gorm.DB) *DBRoleResolver {
	return &DBRoleResolver{DB: db, roles: Roles()}
}

// Resolve returns nil when the user is missing, deleted or has an unknown role.
func (r *DBRoleResolver) Resolve(ctx context.Context, userID uint) (gate.Role, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Select("id", "role").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	role, ok := r.roles[models.NormalizeRole(user.Role)]
	if !ok {
		return nil, nil
	}
	return role, nil
}
