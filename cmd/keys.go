// -- cmd/keys.go --
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/berea-app/berea/api/schemas"
	"github.com/berea-app/berea/internal/credstore"
)

// newKeysCmd creates the `keys` command group for the local credential file.
func newKeysCmd() *cobra.Command {
	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage locally stored API keys",
	}
	keysCmd.AddCommand(newKeysSetCmd(), newKeysShowCmd(), newKeysClearCmd())
	return keysCmd
}

func openStore() (*credstore.Store, error) {
	path, err := credstore.DefaultPath()
	if err != nil {
		return nil, err
	}
	return credstore.Open(path)
}

func newKeysSetCmd() *cobra.Command {
	var preferred string

	setCmd := &cobra.Command{
		Use:   "set <provider|esv> <key>",
		Short: "Store an API key locally",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			creds, err := store.Load()
			if err != nil {
				return err
			}

			name, key := strings.ToLower(args[0]), args[1]
			if name == "esv" {
				creds.ESV = key
			} else if err := creds.SetKey(schemas.ProviderID(name), key); err != nil {
				return err
			}
			if preferred != "" {
				id := schemas.ProviderID(preferred)
				if !id.Known() {
					return fmt.Errorf("unknown provider %q", preferred)
				}
				creds.PreferredProvider = id
			}

			if err := store.Save(creds); err != nil {
				return err
			}
			fmt.Printf("Stored %s key in %s\n", name, store.Path())
			return nil
		},
	}

	setCmd.Flags().StringVar(&preferred, "prefer", "", "also record this provider as the preferred one")
	return setCmd
}

func newKeysShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List which keys are stored (values are masked)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			creds, err := store.Load()
			if err != nil {
				return err
			}

			for _, id := range schemas.ProviderPriority {
				fmt.Printf("%-11s %s\n", id+":", maskKey(creds.Key(id)))
			}
			fmt.Printf("%-11s %s\n", "esv:", maskKey(creds.ESV))
			if creds.PreferredProvider != schemas.ProviderAuto {
				fmt.Printf("preferred:  %s\n", creds.PreferredProvider)
			}
			return nil
		},
	}
}

func newKeysClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all locally stored keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			if err := store.Save(credstore.Credentials{}); err != nil {
				return err
			}
			fmt.Printf("Cleared credentials in %s\n", store.Path())
			return nil
		},
	}
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
