package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/espocrm-client/pkg/espo"
)

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	var flags paramsFlags

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print the encoded query string for filter flags",
		Long:  "Print the query string a GET request would carry for the given list parameters, without sending anything",
		Example: `  espo query --where isTrue:exampleBoolean --offset 0
  espo query --where-file filters.yml --select id,name`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := flags.build(cmd)
			if err != nil {
				return err
			}

			err = params.Validate()
			if err != nil {
				return err
			}

			query, err := espo.Serialize(params)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), query)

			return err
		},
	}

	flags.register(cmd)

	return cmd
}
