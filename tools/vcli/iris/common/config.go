// Copyright 2015 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/google/iris/iql/completion"
)

// EnvPrefix is the prefix of the environment variables overriding the
// configuration, e.g. IRIS_CHANNEL_SIZE or IRIS_LOG_LEVEL.
const EnvPrefix = "IRIS"

// LogConfig holds the logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config holds the configuration of the command line tool.
type Config struct {
	Prompt      string    `mapstructure:"prompt"`
	HistoryFile string    `mapstructure:"history_file"`
	Fields      []string  `mapstructure:"fields"`
	ChannelSize int       `mapstructure:"channel_size"`
	BulkSize    int       `mapstructure:"bulk_size"`
	Memoize     bool      `mapstructure:"memoize"`
	DataFiles   []string  `mapstructure:"data_files"`
	Log         LogConfig `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("prompt", "iris> ")
	v.SetDefault("history_file", "")
	v.SetDefault("fields", completion.DefaultFields)
	v.SetDefault("channel_size", 0)
	v.SetDefault("bulk_size", 1000)
	v.SetDefault("memoize", true)
	v.SetDefault("data_files", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// LoadConfig loads the configuration. If path is empty, an optional .iris
// file (yaml, toml or json) is looked up in the working directory and the
// home directory. Environment variables prefixed with IRIS_ override the
// file values.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
	} else {
		v.SetConfigName(".iris")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.ChannelSize < 0 || cfg.BulkSize <= 0 {
		return nil, fmt.Errorf("invalid config: channel_size must be >= 0 and bulk_size > 0; got %d and %d", cfg.ChannelSize, cfg.BulkSize)
	}
	return cfg, nil
}
