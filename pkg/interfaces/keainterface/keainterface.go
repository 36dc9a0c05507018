package keainterface

import (
	"context"

	"github.com/vitistack/kea-hostimport/pkg/models/keamodels"
)

type KeaClient interface {
	Send(ctx context.Context, cmd keamodels.Request) (keamodels.Response, error)
}
