package employee

import "context"

type Repository interface {
	Create(ctx context.Context, name, passwordHash string) (int, error)
	List(ctx context.Context) ([]Employee, error)
}
