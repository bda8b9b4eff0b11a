package metadata

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-storefront/common/errs"
	"github.com/gaze-network/ticket-storefront/core"
	"github.com/gaze-network/ticket-storefront/internal/config"
	"github.com/gaze-network/ticket-storefront/modules/metadata/api/httphandler"
	"github.com/gaze-network/ticket-storefront/modules/metadata/datagateway"
	"github.com/gaze-network/ticket-storefront/modules/metadata/repository/pinata"
	"github.com/gaze-network/ticket-storefront/modules/metadata/usecase"
	"github.com/gaze-network/ticket-storefront/pkg/httpclient"
	"github.com/gaze-network/ticket-storefront/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/do/v2"
	"github.com/samber/lo"
)

const requestTimeout = 60 * time.Second

type Module struct {
	Usecase *usecase.Usecase
}

func (m *Module) Shutdown(context.Context) error {
	return nil
}

func New(injector do.Injector) (core.Module, error) {
	ctx := do.MustInvoke[context.Context](injector)
	conf := do.MustInvoke[config.Config](injector)

	module, err := NewModule(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Mount API
	apiHandlers := lo.Uniq(conf.Pinning.APIHandlers)
	for _, handler := range apiHandlers {
		switch handler {
		case "http":
			httpServer := do.MustInvoke[*fiber.App](injector)
			metadataHandler := httphandler.New(module.Usecase)
			if err := metadataHandler.Mount(httpServer); err != nil {
				return nil, errors.Wrap(err, "can't mount metadata API")
			}
			logger.InfoContext(ctx, "Mounted HTTP handler")
		default:
			return nil, errors.Wrapf(errs.Unsupported, "%q API handler is not supported", handler)
		}
	}
	return module, nil
}

// NewModule builds the pinning usecase. Without a credential the module still starts and every
// request fails, so that clients get an explicit error instead of a missing route.
func NewModule(ctx context.Context, conf config.Config) (*Module, error) {
	var pinningDg datagateway.PinningDataGateway
	if conf.Pinning.JWT == "" {
		logger.WarnContext(ctx, "Pinning credential is not configured, metadata pinning is disabled")
	} else {
		client, err := pinata.NewClient(conf.Pinning.APIURL, conf.Pinning.JWT, httpclient.Config{
			Debug:   conf.Logger.Debug,
			Timeout: requestTimeout,
		})
		if err != nil {
			return nil, errors.Wrap(err, "invalid pinning configuration")
		}
		pinningDg = pinata.NewRepository(client)
	}

	return &Module{
		Usecase: usecase.New(pinningDg, conf.Pinning.MaxIconSize),
	}, nil
}
