package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"dtrplay/internal/structures"

	"github.com/spf13/viper"
)

const AppName = "DTRPlayground"

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	_ = v.BindEnv("logger.level", "DTR_LOG_LEVEL")
	_ = v.BindEnv("classifier.baseURL", "DTR_CLASSIFIER_URL")
	_ = v.BindEnv("classifier.timeout", "DTR_CLASSIFIER_TIMEOUT")
	_ = v.BindEnv("cache.enabled", "DTR_CACHE_ENABLED")
	_ = v.BindEnv("persistence.enabled", "DTR_PERSISTENCE_ENABLED")

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

	conf.ApplyDefaults()
	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
