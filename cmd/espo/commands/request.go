package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/espocrm-client/internal/constants"
	"github.com/fivetwenty-io/espocrm-client/pkg/espo"
)

// NewRequestCommand creates the request command.
func NewRequestCommand() *cobra.Command {
	var (
		flags paramsFlags
		data  string
	)

	cmd := &cobra.Command{
		Use:   "request METHOD ACTION",
		Short: "Send a request to the EspoCRM API",
		Long: `Send a request to /api/v1/ACTION.

For GET requests the filter flags are encoded into the query string. For other
methods --data is sent as the JSON body.`,
		Example: `  espo request GET Contact --where equals:accountId=abc --max-size 20 --order-by createdAt --order desc
  espo request GET Lead --where in:status=[New,Assigned] --bool-filter onlyMy
  espo request POST Contact --data '{"firstName":"Ann"}'
  espo request DELETE Contact/5f0c...`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			method, err := espo.ParseMethod(args[0])
			if err != nil {
				return err
			}

			params, err := flags.build(cmd)
			if err != nil {
				return err
			}

			payload, err := parseRequestData(data)
			if err != nil {
				return err
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			resp, err := client.Request(context.Background(), method, args[1], params, payload)
			if err != nil {
				return err
			}

			err = renderBody(cmd.OutOrStdout(), resp.Body, viper.GetString(keyOutput), flags.selectAttrs)
			if err != nil {
				return err
			}

			if !resp.IsSuccess() {
				if reason := resp.StatusReason(); reason != "" {
					return fmt.Errorf("%w: %s (%s)", constants.ErrRequestFailed, resp.Status, reason)
				}

				return fmt.Errorf("%w: %s", constants.ErrRequestFailed, resp.Status)
			}

			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body, or @file to read it from a file")

	return cmd
}

// parseRequestData returns the --data document as raw JSON, or nil when unset.
func parseRequestData(data string) (interface{}, error) {
	if data == "" {
		return nil, nil
	}

	raw := []byte(data)

	if path, ok := strings.CutPrefix(data, "@"); ok {
		// #nosec G304 -- path is supplied by the user on the command line
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read data file: %w", err)
		}

		raw = content
	}

	if !json.Valid(raw) {
		return nil, constants.ErrInvalidRequestData
	}

	return json.RawMessage(raw), nil
}
