package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"nicks/internal/structures"
)

const (
	defaultReadWeight  = 25_000_000
	defaultWriteWeight = 100_000_000
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("store.backend", "bolt")
	v.SetDefault("store.openTimeout", time.Second)
	v.SetDefault("migration.targetVersion", 2)
	v.SetDefault("migration.maxLength", 16)
	v.SetDefault("migration.decodeFailure", "drop")
	v.SetDefault("migration.weight.read", defaultReadWeight)
	v.SetDefault("migration.weight.write", defaultWriteWeight)
	v.SetDefault("cache.ttl", time.Minute)

	v.BindEnv("logger.level", "NICKS_LOG_LEVEL")
	v.BindEnv("store.filePath", "NICKS_STORE_PATH")
	v.BindEnv("migration.targetVersion", "NICKS_TARGET_VERSION")
	v.BindEnv("migration.verify", "NICKS_VERIFY")
	v.BindEnv("cache.enabled", "NICKS_CACHE_ENABLED")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "NicksMigrationDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
