package audit

import "context"

type Repository interface {
	CreateBatch(ctx context.Context, events []Event) error
}
