package demo

import (
	"context"

	"github.com/folioworks/folio/internal/platform/postgres"
	"github.com/folioworks/folio/pkg/pagination"
)

type Store interface {
	GetBySlug(ctx context.Context, q postgres.Querier, slug string) (*Demo, error)
	List(ctx context.Context, q postgres.Querier, publishedOnly bool, page pagination.Params) ([]*Demo, error)
	Count(ctx context.Context, q postgres.Querier, publishedOnly bool) (int, error)
	Insert(ctx context.Context, q postgres.Querier, demo *Demo) error
	Update(ctx context.Context, q postgres.Querier, demo *Demo) error
	Delete(ctx context.Context, q postgres.Querier, slug string) (int64, error)
}
