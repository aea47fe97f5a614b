package commands

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/espocrm-client/internal/auth"
	"github.com/fivetwenty-io/espocrm-client/internal/constants"
	"github.com/fivetwenty-io/espocrm-client/pkg/espo"
)

// SignedHeaders is the output of the sign command.
type SignedHeaders struct {
	Scheme  string            `json:"scheme"  yaml:"scheme"`
	Headers map[string]string `json:"headers" yaml:"headers"`
}

// NewSignCommand creates the sign command.
func NewSignCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sign METHOD ACTION",
		Short: "Print the authentication headers for a request",
		Long: `Print the headers the configured credentials add to a request for
METHOD and ACTION. Useful to reproduce a request with curl.`,
		Example: `  espo sign GET Contact
  espo sign POST Lead --output json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			method, err := espo.ParseMethod(args[0])
			if err != nil {
				return err
			}

			signed, err := signRequest(loadConfig(), method, args[1])
			if err != nil {
				return err
			}

			switch viper.GetString(keyOutput) {
			case constants.FormatJSON:
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")

				return encoder.Encode(signed)
			case constants.FormatYAML:
				return yaml.NewEncoder(cmd.OutOrStdout()).Encode(signed)
			default:
				return displaySignedHeaders(cmd, signed)
			}
		},
	}
}

func signRequest(config *Config, method espo.Method, action string) (*SignedHeaders, error) {
	authenticator := auth.Resolve(auth.Credentials{
		Username:  config.Username,
		Password:  config.Password,
		APIKey:    config.APIKey,
		SecretKey: config.SecretKey,
	})

	headers, err := authenticator.Headers(string(method), action)
	if err != nil {
		return nil, fmt.Errorf("failed to sign request: %w", err)
	}

	signed := &SignedHeaders{
		Scheme:  authenticator.Scheme().String(),
		Headers: make(map[string]string, len(headers)),
	}

	for name := range headers {
		signed.Headers[name] = headers.Get(name)
	}

	return signed, nil
}

func displaySignedHeaders(cmd *cobra.Command, signed *SignedHeaders) error {
	names := make([]string, 0, len(signed.Headers))
	for name := range signed.Headers {
		names = append(names, name)
	}

	sort.Strings(names)

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Scheme: %s\n", signed.Scheme)

	if len(names) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header("Header", "Value")

	for _, name := range names {
		_ = table.Append([]string{name, signed.Headers[name]})
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
