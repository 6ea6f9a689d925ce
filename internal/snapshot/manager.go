package snapshot

import (
	"errors"
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"nicks/internal/models"
	"nicks/internal/providers"
	"nicks/internal/store"
	"nicks/internal/structures"
)

const formatVersion = 1

var (
	ErrStoreNotEmpty = errors.New("store is not empty")
	ErrUnknownFormat = errors.New("unknown snapshot format")
	ErrNoFile        = errors.New("no snapshot file given")
)

// Snapshot is the exported state of a store: its on-chain version and
// every encoded value.
type Snapshot struct {
	Format         int                  `json:"format"`
	StorageVersion models.SchemaVersion `json:"storageVersion"`
	Entries        []Entry              `json:"entries"`
}

type Entry struct {
	Account models.AccountID `json:"account"`
	Value   []byte           `json:"value"`
}

// Seed is a human written list of registered nicknames. It loads as a
// schema 0 store.
type Seed struct {
	Nicks []SeedNick `json:"nicks"`
}

type SeedNick struct {
	Account models.AccountID `json:"account"`
	Nick    string           `json:"nick"`
	Deposit models.Balance   `json:"deposit"`
}

type ManagerInterface interface {
	Export(fileName string) (int, error)
	Import(fileName string) (int, error)
}

type Manager struct {
	names       store.Backend
	compressor  CompressorInterface
	logger      providers.Logger
	defaultFile string
}

func NewManager(names store.Backend, compressor CompressorInterface, logger providers.Logger, conf *structures.Config) ManagerInterface {
	return &Manager{
		names:       names,
		compressor:  compressor,
		logger:      logger,
		defaultFile: conf.Snapshot.FilePath,
	}
}

func (m *Manager) resolve(fileName string) (string, error) {
	if fileName != "" {
		return fileName, nil
	}
	if m.defaultFile == "" {
		return "", ErrNoFile
	}
	return m.defaultFile, nil
}

// Export writes the store to fileName as zstd compressed JSON and returns
// the number of entries written. An empty fileName uses snapshot.filePath.
func (m *Manager) Export(fileName string) (int, error) {
	fileName, err := m.resolve(fileName)
	if err != nil {
		return 0, err
	}
	version, err := m.names.OnchainVersion()
	if err != nil {
		return 0, err
	}
	snap := Snapshot{Format: formatVersion, StorageVersion: version, Entries: []Entry{}}
	err = m.names.Iterate(func(key models.AccountID, value []byte) error {
		snap.Entries = append(snap.Entries, Entry{Account: key, Value: value})
		return nil
	})
	if err != nil {
		return 0, err
	}

	jsonData, err := json.Marshal(snap)
	if err != nil {
		return 0, err
	}
	data, err := m.compressor.Compress(jsonData)
	if err != nil {
		return 0, err
	}

	if err := writeFileAtomic(fileName, data); err != nil {
		return 0, err
	}
	m.logger.Infof(providers.TypeStore, "Exported %d entries at storage version %d to %s", len(snap.Entries), version, fileName)
	return len(snap.Entries), nil
}

func writeFileAtomic(fileName string, data []byte) error {
	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

// Import loads fileName into an empty store. Both exported snapshots and
// seed files are accepted, compressed or plain.
func (m *Manager) Import(fileName string) (int, error) {
	fileName, err := m.resolve(fileName)
	if err != nil {
		return 0, err
	}
	data, err := os.ReadFile(fileName)
	if err != nil {
		return 0, err
	}

	n, err := m.names.Count()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, fmt.Errorf("%w: %d entries present", ErrStoreNotEmpty, n)
	}

	decompressedData, err := m.compressor.Decompress(data)
	if err != nil {
		m.logger.Debugf(providers.TypeStore, "%s is not compressed, reading as plain JSON: %s", fileName, err)
		decompressedData = data
	}

	var snap Snapshot
	if err := json.Unmarshal(decompressedData, &snap); err == nil && snap.Format == formatVersion {
		for _, e := range snap.Entries {
			if err := m.names.Put(e.Account, e.Value); err != nil {
				return 0, err
			}
		}
		if err := m.names.PutOnchainVersion(snap.StorageVersion); err != nil {
			return 0, err
		}
		m.logger.Infof(providers.TypeStore, "Imported %d entries at storage version %d", len(snap.Entries), snap.StorageVersion)
		return len(snap.Entries), nil
	}

	var seed Seed
	if err := json.Unmarshal(decompressedData, &seed); err != nil || seed.Nicks == nil {
		return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, fileName)
	}
	m.logger.Warnf(providers.TypeStore, "No snapshot header in %s, loading as schema 0 seed", fileName)
	for _, s := range seed.Nicks {
		value, err := models.EncodeRecord(models.RecordV0{Nick: models.Name(s.Nick), Deposit: s.Deposit})
		if err != nil {
			return 0, err
		}
		if err := m.names.Put(s.Account, value); err != nil {
			return 0, err
		}
	}
	if err := m.names.PutOnchainVersion(models.SchemaRawNick); err != nil {
		return 0, err
	}
	m.logger.Infof(providers.TypeStore, "Seeded %d nicknames at storage version 0", len(seed.Nicks))
	return len(seed.Nicks), nil
}
