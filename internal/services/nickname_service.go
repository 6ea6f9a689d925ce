package services

import (
	json "github.com/goccy/go-json"

	"nicks/internal/models"
	"nicks/internal/providers"
	"nicks/internal/store"
	"nicks/internal/structures"
)

// Nickname is the read view of one NameOf entry.
type Nickname struct {
	Account models.AccountID     `json:"account"`
	Schema  models.SchemaVersion `json:"schema"`
	Record  models.Record        `json:"record"`
}

type NicknameServiceInterface interface {
	// Get returns the JSON view of the nickname registered for account.
	Get(account models.AccountID) ([]byte, error)
}

type NicknameService struct {
	names     store.Backend
	cache     providers.CacheProviderInterface
	logger    providers.Logger
	maxLength int
}

func NewNicknameService(names store.Backend, cache providers.CacheProviderInterface, logger providers.Logger, conf *structures.Config) NicknameServiceInterface {
	return &NicknameService{
		names:     names,
		cache:     cache,
		logger:    logger,
		maxLength: conf.Migration.MaxLength,
	}
}

func (ns *NicknameService) Get(account models.AccountID) ([]byte, error) {
	cacheKey := "nick:" + account.String()
	if data, ok := ns.cache.Get(cacheKey); ok {
		return data, nil
	}

	raw, err := ns.names.Get(account)
	if err != nil {
		return nil, err
	}
	onchain, err := ns.names.OnchainVersion()
	if err != nil {
		return nil, err
	}
	rec, err := models.DecodeRecord(onchain, raw, ns.maxLength)
	if err != nil {
		ns.logger.Warnf(providers.TypeGet, "Stored nickname of %s does not decode at version %d: %s", account, onchain, err)
		return nil, err
	}

	gson, err := json.Marshal(Nickname{Account: account, Schema: onchain, Record: rec})
	if err != nil {
		return nil, err
	}
	ns.cache.Set(cacheKey, gson)
	return gson, nil
}
