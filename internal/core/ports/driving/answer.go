package driving

import (
	"context"

	"github.com/norma-labs/norma-cli/internal/core/domain"
)

// AnswerService runs the question answering pipeline.
type AnswerService interface {
	// Ask routes the query, retrieves evidence when warranted, and
	// returns a structured response. Pipeline faults surface as
	// degraded responses, not errors; the returned error is reserved
	// for invalid arguments such as a nil session.
	Ask(ctx context.Context, session *domain.Session, query string) (*domain.Response, error)

	// Status reports component availability for diagnostics.
	Status(ctx context.Context) (*domain.SystemStatus, error)
}
