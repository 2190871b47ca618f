package unitofwork

import "context"

// RepositoryFactory hands out units of work. The chat pipeline asks for a
// fresh one per turn so the durable prefix and the generated suffix commit
// independently.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
