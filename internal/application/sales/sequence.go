package sales

import (
	"context"
	"fmt"

	domainsales "github.com/sakura-shop/backoffice/internal/domain/sales"
)

// lastDocNoFinder es lo único que necesita el asignador del repositorio de ventas.
type lastDocNoFinder interface {
	LastDocNoWithPrefix(ctx context.Context, prefix string) (string, error)
}

// LastRowAllocator deriva el consecutivo del último doc_no existente con el mismo prefijo.
// Tolera huecos; dos llamadas concurrentes pueden devolver el mismo número.
type LastRowAllocator struct {
	finder lastDocNoFinder
}

var _ SequenceAllocator = (*LastRowAllocator)(nil)

// NewLastRowAllocator construye el asignador sobre el repositorio de ventas.
func NewLastRowAllocator(finder lastDocNoFinder) *LastRowAllocator {
	return &LastRowAllocator{finder: finder}
}

// NextSequence devuelve último consecutivo + 1 (1 si no hay documentos ese día).
func (a *LastRowAllocator) NextSequence(ctx context.Context, dayPrefix string) (int, error) {
	last, err := a.finder.LastDocNoWithPrefix(ctx, dayPrefix)
	if err != nil {
		return 0, fmt.Errorf("último doc_no: %w", err)
	}
	return domainsales.NextSequence(last, dayPrefix), nil
}
