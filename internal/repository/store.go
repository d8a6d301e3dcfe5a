// Package repository persists the project aggregate. Unlike a CRUD layer,
// the store loads and saves the aggregate whole: the sync pipeline mutates
// it in memory and the result is written back in one transaction.
package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/ganttsync/internal/domain"
)

// ErrProjectNotFound is returned by Load when no aggregate exists for the
// given short id.
var ErrProjectNotFound = errors.New("project not found")

// ProjectStore loads and saves project aggregates.
type ProjectStore interface {
	Load(ctx context.Context, shortID string) (*domain.Project, error)
	Save(ctx context.Context, p *domain.Project) error
	List(ctx context.Context) ([]string, error)
}
