// =============================
// File: internal/lut/service.go
// =============================
package lut

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/launch-bundler/internal/blockchain"
	"github.com/rovshanmuradov/launch-bundler/internal/blockchain/solana/programs/addresstable"
	"github.com/rovshanmuradov/launch-bundler/internal/blockchain/solana/programs/computebudget"
	txbuilder "github.com/rovshanmuradov/launch-bundler/internal/blockchain/solana/transaction"
	"github.com/rovshanmuradov/launch-bundler/internal/config"
	"github.com/rovshanmuradov/launch-bundler/internal/retry"
	"github.com/rovshanmuradov/launch-bundler/internal/storage"
	"github.com/rovshanmuradov/launch-bundler/internal/transaction"
	"github.com/rovshanmuradov/launch-bundler/internal/wallet"
)

var (
	ErrLookupTableCreateFailed = errors.New("lookup table creation failed")
	ErrLookupTableExtendFailed = errors.New("lookup table extension failed")
	ErrLookupTableNotReady     = errors.New("lookup table is not visible yet")
)

var errNotVisible = errors.New("lookup table account not found")

// SleepFunc ждёт заданное время с учётом контекста.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Service создаёт и расширяет address lookup table запуска.
type Service struct {
	client blockchain.Client
	store  storage.Storage
	logger *zap.Logger

	policy      retry.Policy
	readyPolicy retry.Policy
	sleep       SleepFunc
}

// NewService создаёт сервис lookup table.
func NewService(client blockchain.Client, store storage.Storage, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		store:  store,
		logger: logger.Named("lookup-table"),
		policy: retry.Policy{
			MaxAttempts: config.LookupTableMaxAttempts,
			Delay:       config.LookupTableRetryDelay,
		},
		readyPolicy: retry.Policy{
			MaxAttempts: config.LookupTableReadyChecks,
			Delay:       config.LookupTableReadyDelay,
		},
		sleep: retry.Sleep,
	}
}

// WithRetryPolicy заменяет политику повторов создания и расширения.
func (s *Service) WithRetryPolicy(policy retry.Policy) *Service {
	s.policy = policy
	return s
}

// WithReadyPolicy заменяет политику опроса готовности таблицы.
func (s *Service) WithReadyPolicy(policy retry.Policy) *Service {
	s.readyPolicy = policy
	return s
}

// WithSleep заменяет паузы между шагами.
func (s *Service) WithSleep(sleep SleepFunc) *Service {
	s.sleep = sleep
	return s
}

// Create создаёт таблицу от имени main, ждёт распространения состояния и сохраняет адрес.
func (s *Service) Create(ctx context.Context, main *wallet.Wallet) (solana.PublicKey, error) {
	table, err := retry.Do(ctx, s.policy, func(attempt int) (solana.PublicKey, error) {
		slot, err := s.client.GetSlot(ctx, rpc.CommitmentConfirmed)
		if err != nil {
			return solana.PublicKey{}, fmt.Errorf("failed to get slot: %w", err)
		}

		ix, table, err := addresstable.NewCreateInstruction(main.PublicKey, main.PublicKey, slot)
		if err != nil {
			return solana.PublicKey{}, retry.Permanent(err)
		}

		tx, err := txbuilder.NewTransactionBuilder().
			WithComputeBudget(computebudget.LookupTable).
			AddInstruction(ix).
			AddSigner(main.PrivateKey).
			Build(ctx, s.client)
		if err != nil {
			return solana.PublicKey{}, err
		}

		if _, err := transaction.SendAndConfirm(ctx, s.client, tx, s.logger); err != nil {
			return solana.PublicKey{}, err
		}
		return table, nil
	}, func(attempt int, err error, next time.Duration) {
		s.logger.Warn("Lookup table creation attempt failed",
			zap.Int("attempt", attempt),
			zap.Error(err))
	})
	if err != nil {
		s.logger.Error("Error in creating Lookuptable", zap.Error(err))
		return solana.PublicKey{}, fmt.Errorf("%w: %w", ErrLookupTableCreateFailed, err)
	}

	s.logger.Info("Lookup table created",
		zap.String("address", table.String()),
		zap.String("url", transaction.LookupTableEntriesURL(table)))

	if err := s.sleep(ctx, config.LookupTableCreateDelay); err != nil {
		return solana.PublicKey{}, err
	}
	if err := s.store.SaveLookupTable(table); err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to persist lookup table: %w", err)
	}
	return table, nil
}

// Extend применяет фазы по порядку; ошибка любой фазы прерывает построение таблицы.
func (s *Service) Extend(ctx context.Context, main *wallet.Wallet, table solana.PublicKey, phases []Phase) error {
	total := 0
	for _, phase := range phases {
		total += len(phase.Addresses)
	}
	if total > addresstable.MaxAddresses {
		return fmt.Errorf("%w: %d addresses exceed table capacity %d", ErrLookupTableExtendFailed, total, addresstable.MaxAddresses)
	}

	for _, phase := range phases {
		for _, chunk := range addresstable.Chunk(phase.Addresses) {
			ix, err := addresstable.NewExtendInstruction(table, main.PublicKey, main.PublicKey, chunk)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrLookupTableExtendFailed, phase.Name, err)
			}

			_, err = retry.Do(ctx, s.policy, func(attempt int) (solana.Signature, error) {
				tx, err := txbuilder.NewTransactionBuilder().
					WithComputeBudget(computebudget.LookupTable).
					AddInstruction(ix).
					AddSigner(main.PrivateKey).
					Build(ctx, s.client)
				if err != nil {
					return solana.Signature{}, err
				}
				return transaction.SendAndConfirm(ctx, s.client, tx, s.logger)
			}, func(attempt int, err error, next time.Duration) {
				s.logger.Warn("Lookup table extend attempt failed",
					zap.String("phase", phase.Name),
					zap.Int("attempt", attempt),
					zap.Error(err))
			})
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrLookupTableExtendFailed, phase.Name, err)
			}
		}

		s.logger.Info("Addresses added to lookup table",
			zap.String("phase", phase.Name),
			zap.Int("count", len(phase.Addresses)))

		if err := s.sleep(ctx, config.LookupTableExtendDelay); err != nil {
			return err
		}
	}

	s.logger.Info("Lookup table extended",
		zap.String("url", transaction.LookupTableEntriesURL(table)))
	return nil
}

// WaitReady опрашивает таблицу, пока RPC не вернёт её состояние.
func (s *Service) WaitReady(ctx context.Context, table solana.PublicKey) (*blockchain.LookupTable, error) {
	state, err := retry.Do(ctx, s.readyPolicy, func(int) (*blockchain.LookupTable, error) {
		state, err := s.client.GetAddressLookupTable(ctx, table)
		if err != nil {
			return nil, err
		}
		if state == nil {
			return nil, errNotVisible
		}
		return state, nil
	}, func(attempt int, err error, next time.Duration) {
		s.logger.Debug("Lookup table not ready", zap.Int("attempt", attempt), zap.Error(err))
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLookupTableNotReady, table, err)
	}
	return state, nil
}

// Status читает сохранённую таблицу и её текущее состояние; state nil, если таблица ещё не видна.
func (s *Service) Status(ctx context.Context) (solana.PublicKey, *blockchain.LookupTable, error) {
	table, err := s.store.LoadLookupTable()
	if err != nil {
		return solana.PublicKey{}, nil, err
	}
	state, err := s.client.GetAddressLookupTable(ctx, table)
	if err != nil {
		return table, nil, fmt.Errorf("failed to read lookup table %s: %w", table, err)
	}
	return table, state, nil
}
