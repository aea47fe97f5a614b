package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/espocrm-client/internal/constants"
	"github.com/fivetwenty-io/espocrm-client/pkg/espo"
	"github.com/fivetwenty-io/espocrm-client/pkg/espoclient"
)

// Configuration keys. Each is also read from ESPO_<KEY>.
const (
	keyURL       = "url"
	keyUsername  = "username"
	keyPassword  = "password"
	keyAPIKey    = "api_key"
	keySecretKey = "secret_key"
	keyOutput    = "output"
	keyTimeout   = "timeout"
	keyVerbose   = "verbose"
)

// Config represents the CLI configuration.
type Config struct {
	URL       string `json:"url,omitempty"        yaml:"url,omitempty"`
	Username  string `json:"username,omitempty"   yaml:"username,omitempty"`
	Password  string `json:"password,omitempty"   yaml:"password,omitempty"`
	APIKey    string `json:"api_key,omitempty"    yaml:"api_key,omitempty"`
	SecretKey string `json:"secret_key,omitempty" yaml:"secret_key,omitempty"`
	Output    string `json:"output,omitempty"     yaml:"output,omitempty"`
	Timeout   string `json:"timeout,omitempty"    yaml:"timeout,omitempty"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage the EspoCRM CLI configuration stored in $HOME/.espo/config.yml",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current CLI configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := maskSecrets(loadConfig())

			switch viper.GetString(keyOutput) {
			case constants.FormatJSON:
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")

				return encoder.Encode(config)
			case constants.FormatYAML:
				return yaml.NewEncoder(cmd.OutOrStdout()).Encode(config)
			default:
				return displayConfigTable(cmd, config)
			}
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. Keys: " + joinKeys(),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := setConfigValue(config, args[0], args[1])
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := unsetConfigValue(config, args[0])
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])

			return nil
		},
	}
}

var configSetters = map[string]func(*Config, string) error{
	keyURL:       func(c *Config, v string) error { c.URL = v; return nil },
	keyUsername:  func(c *Config, v string) error { c.Username = v; return nil },
	keyPassword:  func(c *Config, v string) error { c.Password = v; return nil },
	keyAPIKey:    func(c *Config, v string) error { c.APIKey = v; return nil },
	keySecretKey: func(c *Config, v string) error { c.SecretKey = v; return nil },
	keyOutput: func(c *Config, v string) error {
		switch v {
		case constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
			c.Output = v

			return nil
		default:
			return fmt.Errorf("%w: %s", constants.ErrUnsupportedFormat, v)
		}
	},
	keyTimeout: func(c *Config, v string) error {
		_, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", v, err)
		}

		c.Timeout = v

		return nil
	},
}

func joinKeys() string {
	keys := make([]string, 0, len(configSetters))
	for key := range configSetters {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return strings.Join(keys, ", ")
}

func setConfigValue(config *Config, key, value string) error {
	setter, ok := configSetters[key]
	if !ok {
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	return setter(config, value)
}

func unsetConfigValue(config *Config, key string) error {
	switch key {
	case keyURL:
		config.URL = ""
	case keyUsername:
		config.Username = ""
	case keyPassword:
		config.Password = ""
	case keyAPIKey:
		config.APIKey = ""
	case keySecretKey:
		config.SecretKey = ""
	case keyOutput:
		config.Output = ""
	case keyTimeout:
		config.Timeout = ""
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	return nil
}

func loadConfig() *Config {
	return &Config{
		URL:       viper.GetString(keyURL),
		Username:  viper.GetString(keyUsername),
		Password:  viper.GetString(keyPassword),
		APIKey:    viper.GetString(keyAPIKey),
		SecretKey: viper.GetString(keySecretKey),
		Output:    viper.GetString(keyOutput),
		Timeout:   viper.GetString(keyTimeout),
	}
}

func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".espo")

	err = os.MkdirAll(configDir, constants.ConfigDirPerm)
	if err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.yml"), nil
}

func saveConfigStruct(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func maskSecrets(config *Config) *Config {
	masked := *config

	if masked.Password != "" {
		masked.Password = constants.MaskedSecret
	}

	if masked.SecretKey != "" {
		masked.SecretKey = constants.MaskedSecret
	}

	return &masked
}

func displayConfigTable(cmd *cobra.Command, config *Config) error {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header("Property", "Value")

	_ = table.Append([]string{"URL", formatConfigValue(config.URL)})
	_ = table.Append([]string{"Username", formatConfigValue(config.Username)})
	_ = table.Append([]string{"Password", formatConfigValue(config.Password)})
	_ = table.Append([]string{"API Key", formatConfigValue(config.APIKey)})
	_ = table.Append([]string{"Secret Key", formatConfigValue(config.SecretKey)})
	_ = table.Append([]string{"Output", formatConfigValue(config.Output)})
	_ = table.Append([]string{"Timeout", formatConfigValue(config.Timeout)})

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func formatConfigValue(value string) string {
	if value == "" {
		return constants.None
	}

	return value
}

// buildClientConfig turns the CLI configuration into a client configuration.
func buildClientConfig(config *Config) (*espo.Config, error) {
	if config.URL == "" {
		return nil, constants.ErrNoURLConfigured
	}

	clientConfig := &espo.Config{
		URL:       config.URL,
		Username:  config.Username,
		Password:  config.Password,
		APIKey:    config.APIKey,
		SecretKey: config.SecretKey,
	}

	if config.Timeout != "" {
		timeout, err := time.ParseDuration(config.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", config.Timeout, err)
		}

		clientConfig.HTTPTimeout = timeout
	}

	if viper.GetBool(keyVerbose) {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			With().Timestamp().Logger()

		clientConfig.Logger = espo.NewZerologLogger(logger)
		clientConfig.Debug = true
	}

	return clientConfig, nil
}

// createClient builds a client from the loaded configuration.
func createClient() (espo.Client, error) {
	clientConfig, err := buildClientConfig(loadConfig())
	if err != nil {
		return nil, err
	}

	return espoclient.New(clientConfig)
}
