package download

import (
	"context"

	"github.com/ytget/ytfetch/internal/model"
)

// Runner executes one request to completion. Orchestrator is the production
// implementation.
type Runner interface {
	Run(ctx context.Context, req model.Request, events chan<- model.Event) model.Result
}
