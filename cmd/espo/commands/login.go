package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fivetwenty-io/espocrm-client/internal/constants"
	"github.com/fivetwenty-io/espocrm-client/pkg/espoclient"
)

// currentUserAction returns the authenticated user and fails without valid credentials.
const currentUserAction = "App/user"

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		username  string
		password  string
		apiKey    string
		secretKey string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to an EspoCRM instance",
		Long: `Verify credentials against an EspoCRM instance and store them in the
configuration file. With --api-key the API key (and optional --secret-key for
HMAC) is stored; otherwise a username and password are prompted for.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			config := loadConfig()

			if config.URL == "" {
				url, err := promptLine(reader, out, "URL: ")
				if err != nil {
					return err
				}

				config.URL = url
			}

			if config.URL == "" {
				return constants.ErrNoURLConfigured
			}

			config.Username, config.Password, config.APIKey, config.SecretKey = "", "", "", ""

			if apiKey != "" {
				config.APIKey = apiKey
				config.SecretKey = secretKey
			} else {
				if username == "" {
					line, err := promptLine(reader, out, "Username: ")
					if err != nil {
						return err
					}

					username = line
				}

				if password == "" {
					secret, err := promptPassword(reader, out)
					if err != nil {
						return err
					}

					password = secret
				}

				config.Username = username
				config.Password = password
			}

			err := verifyLogin(cmd.Context(), config)
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			_, _ = fmt.Fprintf(out, "Successfully logged in to %s\n", config.URL)

			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username for authentication")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password for authentication")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key of an API user")
	cmd.Flags().StringVar(&secretKey, "secret-key", "", "secret key for HMAC authentication")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			config.Username, config.Password, config.APIKey, config.SecretKey = "", "", "", ""

			err := saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")

			return nil
		},
	}
}

func verifyLogin(ctx context.Context, config *Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	clientConfig, err := buildClientConfig(config)
	if err != nil {
		return err
	}

	client, err := espoclient.New(clientConfig)
	if err != nil {
		return err
	}

	resp, err := client.Get(ctx, currentUserAction, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to EspoCRM: %w", err)
	}

	if !resp.IsSuccess() {
		return fmt.Errorf("%w: %s", constants.ErrRequestFailed, resp.Status)
	}

	return nil
}

func promptLine(reader *bufio.Reader, out io.Writer, prompt string) (string, error) {
	_, _ = fmt.Fprint(out, prompt)

	line, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return strings.TrimSpace(line), nil
}

func promptPassword(reader *bufio.Reader, out io.Writer) (string, error) {
	stdin := int(syscall.Stdin)
	if !term.IsTerminal(stdin) {
		password, err := promptLine(reader, out, "Password: ")
		if err != nil {
			return "", err
		}

		if password == "" {
			return "", constants.ErrPasswordPromptEmpty
		}

		return password, nil
	}

	_, _ = fmt.Fprint(out, "Password: ")

	bytePassword, err := term.ReadPassword(stdin)

	_, _ = fmt.Fprintln(out)

	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if len(bytePassword) == 0 {
		return "", constants.ErrPasswordPromptEmpty
	}

	return string(bytePassword), nil
}
