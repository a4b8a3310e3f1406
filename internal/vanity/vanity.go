// internal/vanity/vanity.go
package vanity

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gagliardetto/solana-go"
	"golang.org/x/sync/errgroup"
)

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

var (
	ErrInvalidPattern = errors.New("pattern contains characters outside the base58 alphabet")
	ErrNotFound       = errors.New("no matching address found before deadline")
)

// Options задаёт параметры поиска.
type Options struct {
	Prefix  string
	Suffix  string
	Workers int
	Timeout time.Duration
}

// Result - найденный ключ и статистика поиска.
type Result struct {
	PrivateKey solana.PrivateKey
	PublicKey  solana.PublicKey
	Attempts   uint64
	Duration   time.Duration
}

// EstimateDifficulty returns the expected number of attempts for the pattern lengths.
func EstimateDifficulty(prefixLen, suffixLen int) uint64 {
	return uint64(math.Pow(58, float64(prefixLen+suffixLen)))
}

func validate(pattern string) error {
	for _, r := range pattern {
		if !strings.ContainsRune(base58Alphabet, r) {
			return fmt.Errorf("%w: %q", ErrInvalidPattern, r)
		}
	}
	return nil
}

// Generate перебирает ключи параллельно, пока адрес не совпадёт с шаблоном.
func Generate(ctx context.Context, opts Options) (*Result, error) {
	if err := validate(opts.Prefix + opts.Suffix); err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	var attempts atomic.Uint64
	found := make(chan solana.PrivateKey, 1)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for gctx.Err() == nil {
				key, err := solana.NewRandomPrivateKey()
				if err != nil {
					return err
				}
				attempts.Add(1)
				addr := key.PublicKey().String()
				if strings.HasPrefix(addr, opts.Prefix) && strings.HasSuffix(addr, opts.Suffix) {
					select {
					case found <- key:
					default:
					}
					return errFound
				}
			}
			return nil
		})
	}

	err := g.Wait()
	select {
	case key := <-found:
		return &Result{
			PrivateKey: key,
			PublicKey:  key.PublicKey(),
			Attempts:   attempts.Load(),
			Duration:   time.Since(start),
		}, nil
	default:
	}
	if err != nil && !errors.Is(err, errFound) {
		return nil, err
	}
	if ctx.Err() != nil && !errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, ctx.Err()
	}
	return nil, ErrNotFound
}

// errFound stops the remaining workers once a match is published.
var errFound = errors.New("match found")
