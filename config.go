/*
 * Copyright (c) 2024 yakumioto <yaku.mioto@gmail.com>
 * All rights reserved.
 */

package otlplog

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the resolved logger configuration.
//
// Level is one of error, warning, info, verbose or debug; Format is text or json;
// TextDelimiter is tab or space. Invalid values never fail: they fall back to debug,
// text and tab when the logger is built. An empty OTLPEndpoint disables export.
type Config struct {
	ServiceName   string `env:"SERVICE_NAME" env-default:"my-app"`
	Level         string `env:"LOG_LEVEL" env-default:"debug"`
	Format        string `env:"LOG_FORMAT" env-default:"text"`
	TextDelimiter string `env:"LOG_TEXT_DELIMITER" env-default:"tab"`
	OTLPEndpoint  string `env:"OTLP_COLLECTOR_ENDPOINT"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("otlplog: read env: %w", err)
	}
	return cfg, nil
}
