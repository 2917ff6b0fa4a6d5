package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`

	ApiServer ServerConfigs  `toml:"api_server"`
	Discord   DiscordConfigs `toml:"discord"`
	Gemini    GeminiConfigs  `toml:"gemini"`
	Secrets   SecretsConfigs `toml:"secrets"`
}

type ServerConfigs struct {
	Host string `toml:"host"`
	Port string `toml:"port"`
	Cert string `toml:"cert"`
	Key  string `toml:"key"`
}

func (c ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type DiscordConfigs struct {
	ApplicationID       string `toml:"application_id"`
	PublicKeySecretName string `toml:"public_key_secret_name"`
	BotTokenSecretName  string `toml:"bot_token_secret_name"`

	// MaxQuestionLength bounds the question option of the ask command.
	// MaxContentLength bounds any message content sent back to Discord.
	MaxQuestionLength int `toml:"max_question_length"`
	MaxContentLength  int `toml:"max_content_length"`
}

type GeminiConfigs struct {
	APIKeySecretName     string `toml:"api_key_secret_name"`
	Model                string `toml:"model"`
	MaxOutputTokens      int    `toml:"max_output_tokens"`
	CompletionTimeoutSec int    `toml:"completion_timeout_sec"`
}

func (c GeminiConfigs) CompletionTimeout() time.Duration {
	return time.Duration(c.CompletionTimeoutSec) * time.Second
}

type SecretsConfigs struct {
	Region    string `toml:"region"`
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`

	// CacheTTLSec of zero disables the secret cache. The TTL must stay
	// below the rotation interval of the secrets it caches.
	CacheTTLSec int `toml:"cache_ttl_sec"`
}

func (c SecretsConfigs) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSec) * time.Second
}

// Load reads the optional TOML file at path, then applies environment
// variable overrides on top of the built-in defaults.
func Load(path string) (Configs, error) {
	configs := Configs{
		Env:      "dev",
		LogLevel: "INFO",
		ApiServer: ServerConfigs{
			Host: "0.0.0.0",
			Port: "8080",
		},
		Discord: DiscordConfigs{
			PublicKeySecretName: "discord_public_key",
			BotTokenSecretName:  "discord_bot_token",
			MaxQuestionLength:   250,
			MaxContentLength:    1800,
		},
		Gemini: GeminiConfigs{
			APIKeySecretName:     "gemini_api_key",
			Model:                "gemini-1.5-flash",
			MaxOutputTokens:      1024,
			CompletionTimeoutSec: 9,
		},
		Secrets: SecretsConfigs{
			Region: "us-east-1",
		},
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, &configs); err != nil {
			return Configs{}, fmt.Errorf("cannot decode config file %s: %w", path, err)
		}
	}

	overrideString(&configs.Env, "ENV")
	overrideString(&configs.LogLevel, "LOG_LEVEL")
	overrideString(&configs.ApiServer.Host, "API_HOST")
	overrideString(&configs.ApiServer.Port, "API_PORT")
	overrideString(&configs.Discord.ApplicationID, "DISCORD_APPLICATION_ID")
	overrideString(&configs.Discord.PublicKeySecretName, "DISCORD_PUBLIC_KEY_SECRET_NAME")
	overrideString(&configs.Discord.BotTokenSecretName, "DISCORD_BOT_TOKEN_SECRET_NAME")
	overrideString(&configs.Gemini.APIKeySecretName, "GEMINI_API_KEY_SECRET_NAME")
	overrideString(&configs.Gemini.Model, "GEMINI_MODEL")
	overrideInt(&configs.Gemini.MaxOutputTokens, "GEMINI_MAX_OUTPUT_TOKENS")
	overrideInt(&configs.Gemini.CompletionTimeoutSec, "GEMINI_COMPLETION_TIMEOUT_SEC")
	overrideString(&configs.Secrets.Region, "AWS_REGION")
	overrideString(&configs.Secrets.Endpoint, "AWS_SECRETS_ENDPOINT")
	overrideString(&configs.Secrets.AccessKey, "AWS_ACCESS_KEY")
	overrideString(&configs.Secrets.SecretKey, "AWS_SECRET_KEY")
	overrideInt(&configs.Secrets.CacheTTLSec, "SECRETS_CACHE_TTL_SEC")

	return configs, nil
}

func overrideString(target *string, name string) {
	if value := os.Getenv(name); value != "" {
		*target = value
	}
}

func overrideInt(target *int, name string) {
	value := os.Getenv(name)
	if value == "" {
		return
	}

	if parsed, err := strconv.Atoi(value); err == nil {
		*target = parsed
	}
}
