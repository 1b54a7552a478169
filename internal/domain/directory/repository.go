package directory

import (
	"context"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// Repository определяет контракт хранилища профилей стейкхолдеров.
type Repository interface {
	// Create сохраняет новый профиль.
	Create(ctx context.Context, profile *StakeholderProfile) error

	// Update сохраняет изменённый профиль.
	Update(ctx context.Context, profile *StakeholderProfile) error

	// FindByID возвращает профиль по ID.
	FindByID(ctx context.Context, id shared.ProfileID) (*StakeholderProfile, error)

	// FindByEmail возвращает профиль по email.
	FindByEmail(ctx context.Context, email shared.Email) (*StakeholderProfile, error)

	// FindAvailableByRole возвращает доступные профили с ролью.
	// Порядок обязан быть детерминированным между вызовами.
	FindAvailableByRole(ctx context.Context, role Role) ([]*StakeholderProfile, error)

	// FindAll возвращает все профили.
	FindAll(ctx context.Context) ([]*StakeholderProfile, error)

	// Count возвращает общее количество профилей.
	Count(ctx context.Context) (int, error)
}
