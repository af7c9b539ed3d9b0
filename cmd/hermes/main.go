package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hermes/internal/adapters/config"
	"hermes/internal/adapters/errors/noop"
	"hermes/internal/adapters/errors/sentry"
	"hermes/internal/agent"
	"hermes/internal/api"
	"hermes/internal/domain/network"
	"hermes/internal/domain/token"
	"hermes/internal/domain/wallet"
	"hermes/internal/providers/birdeye"
	"hermes/internal/providers/evmrpc"
	"hermes/internal/providers/fourmeme"
	"hermes/internal/providers/pancakeswap"
	"hermes/internal/repository/postgres"
	redisrepo "hermes/internal/repository/redis"
	"hermes/internal/tools"
	"hermes/internal/tools/launch"
	"hermes/internal/tools/swap"
	"hermes/internal/tools/walletinfo"
	"hermes/pkg/crypto"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	var tokenCache token.Cache
	redisClient, err := redisrepo.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		// The token cache is an optimization; a launched token just becomes
		// addressable by address only until redis returns.
		log.Warnf("Redis unavailable, token cache disabled: %v", err)
	} else {
		defer redisClient.Close()
		tokenCache = redisrepo.NewTokenCache(redisClient)
	}

	encryptor, err := crypto.NewEncryptor(cfg.Crypto.EncryptionKey)
	if err != nil {
		log.Fatalf("Failed to init encryptor: %v", err)
	}

	wallets := wallet.NewService(postgres.NewWalletRepository(db), encryptor)
	resolver := token.NewResolver(tokenCache)

	registry := initTools(ctx, cfg, wallets, resolver, log)
	assistant := agent.New(agent.Config{
		Model:     cfg.AI.Model,
		Character: cfg.AI.Character,
		MaxTurns:  cfg.AI.MaxTurns,
	}, agent.NewOpenAIClient(cfg.AI.OpenAIKey), registry)

	server := api.NewServer(api.Config{
		Addr:         cfg.API.Addr(),
		ReadTimeout:  cfg.API.ReadTimeout,
		WriteTimeout: cfg.API.WriteTimeout,
	}, assistant)

	go func() {
		if err := server.Start(); err != nil {
			log.Errorf("HTTP server stopped: %v", err)
			cancel()
		}
	}()

	log.Info("System initialized successfully")
	waitForShutdown(ctx, cfg, server, errorTracker, log)
}

// initTools wires providers into tools and tools into the agent registry.
func initTools(ctx context.Context, cfg *config.Config, wallets *wallet.Service, resolver *token.Resolver, log *logger.Logger) *tools.Registry {
	agentNetworks := network.ParseList(cfg.Networks.Agent)
	defaultNetwork := network.ID(cfg.Networks.Default)

	fourMeme := fourmeme.New(fourmeme.Config{BaseURL: cfg.Providers.FourMemeBaseURL})

	swapTool := swap.New(swap.Config{
		DefaultNetwork:     defaultNetwork,
		AgentNetworks:      agentNetworks,
		DefaultSlippageBps: cfg.Trading.DefaultSlippageBps,
		QuoteTimeout:       cfg.Providers.QuoteTimeout,
	}, wallets, resolver)
	swapTool.RegisterProvider(fourMeme)

	if cfg.Networks.BNBRPCURL != "" {
		caller, err := evmrpc.DialCaller(ctx, cfg.Networks.BNBRPCURL)
		if err != nil {
			log.Warnf("PancakeSwap disabled, BNB RPC unreachable: %v", err)
		} else {
			cake, err := pancakeswap.New(caller, pancakeswap.Config{
				ExecutionURL: cfg.Providers.SwapExecutionURL,
			})
			if err != nil {
				log.Fatalf("Failed to init PancakeSwap provider: %v", err)
			}
			swapTool.RegisterProvider(cake)
		}
	}

	launchTool := launch.New(launch.Config{
		DefaultNetwork: defaultNetwork,
		AgentNetworks:  agentNetworks,
	}, wallets, resolver)
	launchTool.RegisterProvider(fourMeme)

	walletTool := walletinfo.New(walletinfo.Config{
		AgentNetworks: agentNetworks,
	}, wallets, resolver)

	rpcURLs := map[network.ID]string{}
	if cfg.Networks.BNBRPCURL != "" {
		rpcURLs[network.BNB] = cfg.Networks.BNBRPCURL
	}
	if cfg.Networks.EthereumRPCURL != "" {
		rpcURLs[network.Ethereum] = cfg.Networks.EthereumRPCURL
	}
	if len(rpcURLs) > 0 {
		balances, err := evmrpc.Dial(ctx, rpcURLs)
		if err != nil {
			log.Warnf("Balance lookups disabled: %v", err)
		} else {
			walletTool.RegisterBalanceProvider(balances)
		}
	}
	if cfg.Providers.BirdeyeAPIKey != "" {
		walletTool.RegisterPriceProvider(birdeye.New(birdeye.Config{
			APIKey: cfg.Providers.BirdeyeAPIKey,
		}))
	}

	registry := tools.NewRegistry()
	registry.Register(swapTool)
	registry.Register(launchTool)
	registry.Register(walletTool)
	log.Infow("tools registered", "tools", registry.Names())
	return registry
}

// initErrorTracker initializes error tracking (Sentry or no-op).
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	env := cfg.ErrorTracking.Environment
	if env == "" {
		env = cfg.App.Env
	}
	tracker, err := sentry.New(sentry.Config{
		DSN:         cfg.ErrorTracking.SentryDSN,
		Environment: env,
		SampleRate:  cfg.ErrorTracking.SampleRate,
	})
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// waitForShutdown blocks until a signal arrives, then drains the server.
func waitForShutdown(ctx context.Context, cfg *config.Config, server *api.Server, tracker errors.Tracker, log *logger.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Infof("Received signal %s, shutting down", sig)
	case <-ctx.Done():
		log.Info("Context cancelled, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.API.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown failed: %v", err)
	}

	flushCtx, cancelFlush := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancelFlush()
	_ = tracker.Flush(flushCtx)

	log.Info("Shutdown complete")
}
