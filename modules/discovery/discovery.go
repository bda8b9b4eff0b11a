package discovery

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/ticket-storefront/common/errs"
	"github.com/gaze-network/ticket-storefront/core"
	"github.com/gaze-network/ticket-storefront/core/chain"
	"github.com/gaze-network/ticket-storefront/core/datasources"
	"github.com/gaze-network/ticket-storefront/core/evm"
	"github.com/gaze-network/ticket-storefront/internal/config"
	"github.com/gaze-network/ticket-storefront/modules/discovery/api/httphandler"
	"github.com/gaze-network/ticket-storefront/modules/discovery/entity"
	"github.com/gaze-network/ticket-storefront/modules/discovery/repository/contract"
	"github.com/gaze-network/ticket-storefront/modules/discovery/usecase"
	"github.com/gaze-network/ticket-storefront/pkg/logger"
	"github.com/gaze-network/ticket-storefront/pkg/logger/slogx"
	"github.com/gaze-network/ticket-storefront/pkg/ttlcache"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do/v2"
	"github.com/samber/lo"
)

// Chain is what discovery needs from the remote ledger.
type Chain interface {
	chain.EventSource
	chain.Reader
}

type Module struct {
	Usecase      *usecase.Usecase
	cleanupFuncs []func(context.Context) error
}

func (m *Module) Shutdown(ctx context.Context) error {
	var cleanupErrs []error
	for _, cleanup := range m.cleanupFuncs {
		if err := cleanup(ctx); err != nil {
			cleanupErrs = append(cleanupErrs, err)
		}
	}
	return errors.Join(cleanupErrs...)
}

func New(injector do.Injector) (core.Module, error) {
	ctx := do.MustInvoke[context.Context](injector)
	conf := do.MustInvoke[config.Config](injector)
	client := do.MustInvoke[*evm.Client](injector)

	module, err := NewModule(ctx, conf, client)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Mount API
	apiHandlers := lo.Uniq(conf.Discovery.APIHandlers)
	for _, handler := range apiHandlers {
		switch handler {
		case "http":
			httpServer := do.MustInvoke[*fiber.App](injector)
			discoveryHandler := httphandler.New(module.Usecase)
			if err := discoveryHandler.Mount(httpServer); err != nil {
				return nil, errors.Wrap(err, "can't mount discovery API")
			}
			logger.InfoContext(ctx, "Mounted HTTP handler")
		default:
			return nil, errors.Wrapf(errs.Unsupported, "%q API handler is not supported", handler)
		}
	}

	return module, nil
}

// NewModule builds the discovery usecase and its cache backend from configuration.
func NewModule(ctx context.Context, conf config.Config, client Chain) (*Module, error) {
	params := conf.Network.Params()
	factory := params.FactoryAddress
	if conf.Discovery.FactoryAddress != "" {
		if !common.IsHexAddress(conf.Discovery.FactoryAddress) {
			return nil, errors.Wrapf(errs.InvalidArgument, "invalid factory address %q", conf.Discovery.FactoryAddress)
		}
		factory = common.HexToAddress(conf.Discovery.FactoryAddress)
	}
	genesis := params.GenesisBlock
	if conf.Discovery.GenesisBlock > 0 {
		genesis = conf.Discovery.GenesisBlock
	}

	logsDatasource, err := datasources.NewFactoryLogs(client, factory, genesis, conf.Discovery.WindowSize)
	if err != nil {
		return nil, errors.Wrap(err, "invalid discovery configuration")
	}

	module := &Module{}
	var (
		recordsStore ttlcache.Store[[]entity.SaleCreationRecord]
		salesStore   ttlcache.Store[usecase.Listing]
	)
	switch strings.ToLower(conf.Discovery.Cache.Backend) {
	case "", "memory":
		recordsStore = ttlcache.NewMemoryStore[[]entity.SaleCreationRecord]()
		salesStore = ttlcache.NewMemoryStore[usecase.Listing]()
	case "redis":
		opts, err := redis.ParseURL(conf.Discovery.Cache.RedisURL)
		if err != nil {
			return nil, errors.Wrap(errs.InvalidArgument, "invalid redis url")
		}
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, errors.Wrap(err, "can't connect to redis")
		}
		module.cleanupFuncs = append(module.cleanupFuncs, func(context.Context) error {
			return errors.WithStack(rdb.Close())
		})
		recordsStore = ttlcache.NewRedisStore[[]entity.SaleCreationRecord](rdb, "storefront:")
		salesStore = ttlcache.NewRedisStore[usecase.Listing](rdb, "storefront:")
		logger.InfoContext(ctx, "Using redis discovery cache", slogx.String("addr", opts.Addr))
	default:
		return nil, errors.Wrapf(errs.Unsupported, "%q cache backend is not supported", conf.Discovery.Cache.Backend)
	}

	module.Usecase = usecase.New(
		logsDatasource,
		contract.NewRepository(client),
		recordsStore,
		salesStore,
		conf.Discovery.CacheTTL,
		usecase.Options{PartialHydration: conf.Discovery.PartialHydration},
	)
	return module, nil
}
