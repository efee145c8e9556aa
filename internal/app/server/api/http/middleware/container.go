package middleware

import (
	"github.com/danielgtaylor/huma/v2"
)

type Middleware = func(ctx huma.Context, next func(huma.Context))

// Container собирает цепочки мидлварей для групп операций.
// Общие мидлвари идут первыми в каждой цепочке.
type Container struct {
	shared huma.Middlewares
	huma.Middlewares
}

// NewContainer создает контейнер с общими мидлварями
func NewContainer(shared ...Middleware) *Container {
	return &Container{
		shared:      shared,
		Middlewares: make(huma.Middlewares, 0),
	}
}

// Add добавляет мидлварь только в следующую цепочку
func (mc *Container) Add(middleware Middleware) {
	mc.Middlewares = append(mc.Middlewares, middleware)
}

// GetAllAndClear возвращает общие и добавленные мидлвари и очищает добавленные
func (mc *Container) GetAllAndClear() huma.Middlewares {
	result := make(huma.Middlewares, 0, len(mc.shared)+len(mc.Middlewares))
	result = append(result, mc.shared...)
	result = append(result, mc.Middlewares...)
	mc.Middlewares = nil
	return result
}
