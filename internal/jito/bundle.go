// internal/jito/bundle.go
package jito

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxBundleTransactions is the block engine limit per bundle.
	MaxBundleTransactions = 5

	bundlesPath           = "/api/v1/bundles"
	defaultRequestTimeout = 10 * time.Second
)

var (
	ErrBundleTooLarge = fmt.Errorf("bundle exceeds %d transactions", MaxBundleTransactions)
	ErrEmptyBundle    = errors.New("bundle has no transactions")
	ErrNoEndpoints    = errors.New("no block engine endpoints configured")
)

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// BundleClient отправляет бандлы во все настроенные block engine параллельно.
type BundleClient struct {
	endpoints []string
	client    *http.Client
	logger    *zap.Logger
}

// NewBundleClient создает клиент для списка block engine URL.
func NewBundleClient(endpoints []string, logger *zap.Logger) *BundleClient {
	clean := make([]string, 0, len(endpoints))
	for _, e := range endpoints {
		if e = strings.TrimRight(strings.TrimSpace(e), "/"); e != "" {
			clean = append(clean, e)
		}
	}
	return &BundleClient{
		endpoints: clean,
		client:    &http.Client{Timeout: defaultRequestTimeout},
		logger:    logger.Named("jito"),
	}
}

// EncodeBundle сериализует подписанные транзакции в base64.
func EncodeBundle(txs []*solana.Transaction) ([]string, error) {
	if len(txs) == 0 {
		return nil, ErrEmptyBundle
	}
	if len(txs) > MaxBundleTransactions {
		return nil, ErrBundleTooLarge
	}
	encoded := make([]string, len(txs))
	for i, tx := range txs {
		raw, err := tx.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("failed to serialize transaction %d: %w", i, err)
		}
		encoded[i] = base64.StdEncoding.EncodeToString(raw)
	}
	return encoded, nil
}

// SendBundle отправляет бандл во все endpoints; успех, если хотя бы один принял.
func (c *BundleClient) SendBundle(ctx context.Context, txs []*solana.Transaction) (string, error) {
	if len(c.endpoints) == 0 {
		return "", ErrNoEndpoints
	}
	encoded, err := EncodeBundle(txs)
	if err != nil {
		return "", err
	}

	var (
		g        errgroup.Group
		mu       sync.Mutex
		bundleID string
		failures []error
	)
	for _, endpoint := range c.endpoints {
		g.Go(func() error {
			id, err := c.send(ctx, endpoint, encoded)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				c.logger.Warn("Block engine rejected bundle", zap.String("endpoint", endpoint), zap.Error(err))
				failures = append(failures, fmt.Errorf("%s: %w", endpoint, err))
				return nil
			}
			c.logger.Debug("Block engine accepted bundle", zap.String("endpoint", endpoint), zap.String("bundle_id", id))
			if bundleID == "" {
				bundleID = id
			}
			return nil
		})
	}
	_ = g.Wait()

	if bundleID == "" {
		return "", fmt.Errorf("all block engines rejected the bundle: %w", errors.Join(failures...))
	}
	c.logger.Info("Bundle submitted",
		zap.String("bundle_id", bundleID),
		zap.Int("transactions", len(txs)),
		zap.Int("accepted", len(c.endpoints)-len(failures)),
		zap.Int("endpoints", len(c.endpoints)))
	return bundleID, nil
}

func (c *BundleClient) send(ctx context.Context, endpoint string, encoded []string) (string, error) {
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "sendBundle",
		Params:  []interface{}{encoded, map[string]string{"encoding": "base64"}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+bundlesPath, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var out rpcResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if out.Error != nil {
		return "", fmt.Errorf("rpc error %d: %s", out.Error.Code, out.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	var id string
	if err := json.Unmarshal(out.Result, &id); err != nil || id == "" {
		return "", fmt.Errorf("unexpected result: %s", string(out.Result))
	}
	return id, nil
}
