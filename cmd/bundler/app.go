// cmd/bundler/app.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/launch-bundler/internal/blockchain/solbc"
	"github.com/rovshanmuradov/launch-bundler/internal/bundler"
	"github.com/rovshanmuradov/launch-bundler/internal/config"
	"github.com/rovshanmuradov/launch-bundler/internal/distribution"
	"github.com/rovshanmuradov/launch-bundler/internal/jito"
	"github.com/rovshanmuradov/launch-bundler/internal/launch"
	"github.com/rovshanmuradov/launch-bundler/internal/logger"
	"github.com/rovshanmuradov/launch-bundler/internal/lut"
	"github.com/rovshanmuradov/launch-bundler/internal/metadata"
	"github.com/rovshanmuradov/launch-bundler/internal/storage"
	"github.com/rovshanmuradov/launch-bundler/internal/wallet"
)

// app связывает конфиг, логгер и сервисы для команд CLI.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	client *solbc.Client
	store  *storage.JSONStore
	main   *wallet.Wallet
}

func newApp(envFile string) (*app, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.CreatePrettyLogger(cfg.DebugLogging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	mainWallet, err := wallet.NewWallet(cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load main wallet: %w", err)
	}

	store, err := storage.NewJSONStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:    cfg,
		logger: log,
		client: solbc.NewClient(cfg.RPCEndpoint, log),
		store:  store,
		main:   mainWallet,
	}, nil
}

func (a *app) close() {
	_ = logger.SafeSync(a.logger)
}

func (a *app) distributor() *distribution.Service {
	return distribution.NewService(a.client, a.store, a.logger)
}

func (a *app) tables() *lut.Service {
	return lut.NewService(a.client, a.store, a.logger)
}

func (a *app) bundler() *bundler.Bundler {
	uploader := metadata.NewUploader(a.cfg.MetadataEndpoint, a.logger)
	token := launch.NewService(a.client, uploader, a.logger)
	relay := jito.NewBundleClient(a.cfg.JitoEndpoints, a.logger)

	b := bundler.New(a.client, a.store, a.distributor(), a.tables(), token, relay, a.logger)
	if a.cfg.VanityMode {
		b.WithMintGenerator(bundler.VanityMint(a.cfg.VanitySuffix, a.logger.Named("vanity")))
	}
	return b
}

func (a *app) params() (bundler.Params, error) {
	params := bundler.Params{
		Token: metadata.TokenInfo{
			Name:        a.cfg.TokenName,
			Symbol:      a.cfg.TokenSymbol,
			Description: a.cfg.Description,
			CreatedOn:   a.cfg.TokenCreateOn,
			ImagePath:   a.cfg.File,
			Twitter:     a.cfg.Twitter,
			Telegram:    a.cfg.Telegram,
			Website:     a.cfg.Website,
		},
		SwapAmount:  a.cfg.SwapAmount,
		WalletCount: a.cfg.DistributionWalletNum,
		JitoFee:     a.cfg.JitoFee,
	}
	if a.cfg.BuyerWallet != "" {
		buyer, err := wallet.NewWallet(a.cfg.BuyerWallet)
		if err != nil {
			return params, fmt.Errorf("invalid BUYER_WALLET: %w", err)
		}
		params.Buyer = buyer
		params.BuyerAmount = a.cfg.BuyerAmount
	}
	return params, nil
}

// signalContext отменяется по SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
