// internal/storage/json.go
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

const (
	WalletsFile     = "data.json"
	MintFile        = "mint.json"
	LookupTableFile = "lut.json"
)

// JSONStore хранит каждое значение в отдельном JSON-массиве строк base58.
type JSONStore struct {
	dir string
	mu  sync.Mutex
}

// NewJSONStore создаёт хранилище в каталоге dir, создавая его при необходимости.
func NewJSONStore(dir string) (*JSONStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &JSONStore{dir: dir}, nil
}

// Path возвращает полный путь к файлу состояния.
func (s *JSONStore) Path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *JSONStore) SaveWallets(keys []solana.PrivateKey) error {
	values := make([]string, len(keys))
	for i, key := range keys {
		values[i] = base58.Encode(key)
	}
	return s.write(WalletsFile, values)
}

func (s *JSONStore) LoadWallets() ([]solana.PrivateKey, error) {
	values, err := s.read(WalletsFile)
	if err != nil {
		return nil, err
	}
	keys := make([]solana.PrivateKey, 0, len(values))
	for i, value := range values {
		key, err := decodeSecret(value)
		if err != nil {
			return nil, fmt.Errorf("%s entry %d: %w", WalletsFile, i, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (s *JSONStore) SaveMint(key solana.PrivateKey) error {
	return s.write(MintFile, []string{base58.Encode(key)})
}

func (s *JSONStore) LoadMint() (solana.PrivateKey, error) {
	values, err := s.read(MintFile)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s: %w", MintFile, ErrNotFound)
	}
	return decodeSecret(values[0])
}

func (s *JSONStore) SaveLookupTable(address solana.PublicKey) error {
	return s.write(LookupTableFile, []string{address.String()})
}

func (s *JSONStore) LoadLookupTable() (solana.PublicKey, error) {
	values, err := s.read(LookupTableFile)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if len(values) == 0 {
		return solana.PublicKey{}, fmt.Errorf("%s: %w", LookupTableFile, ErrNotFound)
	}
	return solana.PublicKeyFromBase58(values[0])
}

// write перезаписывает файл атомарно через временный файл и rename.
func (s *JSONStore) write(name string, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, s.Path(name)); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

func (s *JSONStore) read(name string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return values, nil
}

func decodeSecret(value string) (solana.PrivateKey, error) {
	raw, err := base58.Decode(value)
	if err != nil {
		return nil, fmt.Errorf("decode secret: %w", err)
	}
	if len(raw) != 64 {
		return nil, fmt.Errorf("invalid secret length %d", len(raw))
	}
	return solana.PrivateKey(raw), nil
}

var _ Storage = (*JSONStore)(nil)
