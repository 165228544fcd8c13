// -- cmd/passage.go --
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/berea-app/berea/internal/observability"
)

// newPassageCmd creates the `passage` command: fetch ESV text directly when
// a local key exists, via the proxy otherwise.
func newPassageCmd() *cobra.Command {
	var (
		serverURL string
		headings  bool
	)

	passageCmd := &cobra.Command{
		Use:   "passage <reference>",
		Short: "Print the ESV text of a passage, e.g. 'Psalm 23'",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			// References like "Psalm 23" arrive as two args; rejoin them.
			reference := strings.Join(args, " ")

			creds, err := loadStoredCredentials(logger)
			if err != nil {
				return err
			}
			router, err := buildRouter(creds, serverURL, logger)
			if err != nil {
				return err
			}

			text, err := router.PassageText(ctx, reference, headings)
			if err != nil {
				return err
			}
			fmt.Println(text)
			return nil
		},
	}

	passageCmd.Flags().StringVarP(&serverURL, "server", "s", "", "proxy server base URL, e.g. http://localhost:8080")
	passageCmd.Flags().BoolVar(&headings, "headings", false, "include section headings in the text")
	return passageCmd
}
