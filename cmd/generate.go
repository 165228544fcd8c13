// -- cmd/generate.go --
package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/berea-app/berea/api/schemas"
	"github.com/berea-app/berea/internal/bible"
	"github.com/berea-app/berea/internal/client"
	"github.com/berea-app/berea/internal/config"
	"github.com/berea-app/berea/internal/credstore"
	"github.com/berea-app/berea/internal/observability"
)

// newGenerateCmd creates the `generate` command: the client side of the
// system, producing a study locally when credentials allow and via the proxy
// server otherwise.
func newGenerateCmd() *cobra.Command {
	var (
		provider  string
		model     string
		serverURL string
		asJSON    bool
	)

	generateCmd := &cobra.Command{
		Use:   "generate <reference>",
		Short: "Generate a study guide for a passage, e.g. 'John 3:16-21'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			ref, err := bible.Parse(args[0])
			if err != nil {
				return err
			}

			creds, err := loadStoredCredentials(logger)
			if err != nil {
				return err
			}
			if provider == "" {
				provider = string(creds.PreferredProvider)
			}

			req := ref.Request()
			req.Provider = schemas.ProviderID(provider)
			req.Model = model
			if err := req.Validate(); err != nil {
				return err
			}

			router, err := buildRouter(creds, serverURL, logger)
			if err != nil {
				return err
			}

			result, err := router.GenerateStudy(ctx, req)
			if err != nil {
				return err
			}

			if asJSON {
				enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			printStudy(result)
			return nil
		},
	}

	generateCmd.Flags().StringVarP(&provider, "provider", "p", "", "pin generation to one provider (groq, openrouter, gemini, claude)")
	generateCmd.Flags().StringVarP(&model, "model", "m", "", "override the provider's default model")
	generateCmd.Flags().StringVarP(&serverURL, "server", "s", "", "proxy server base URL, e.g. http://localhost:8080")
	generateCmd.Flags().BoolVar(&asJSON, "json", false, "emit the raw result as JSON")
	return generateCmd
}

// loadStoredCredentials reads the local credential file; a missing file is
// an empty credential set, not an error.
func loadStoredCredentials(logger *zap.Logger) (credstore.Credentials, error) {
	path, err := credstore.DefaultPath()
	if err != nil {
		return credstore.Credentials{}, err
	}
	store, err := credstore.Open(path)
	if err != nil {
		return credstore.Credentials{}, err
	}
	creds, err := store.Load()
	if err != nil {
		logger.Warn("Failed to read stored credentials", zap.String("path", path), zap.Error(err))
		return credstore.Credentials{}, nil
	}
	return creds, nil
}

// buildRouter merges stored keys with the environment (stored keys win) and
// wires the routing layer. serverURL may be empty for local-only operation.
func buildRouter(creds credstore.Credentials, serverURL string, logger *zap.Logger) (*client.Router, error) {
	esvKey := creds.ESV
	if esvKey == "" {
		esvKey = cfg.Credentials.ESV
	}
	corsID := config.CORSEligibleProvider()
	corsKey := creds.Key(corsID)
	if corsKey == "" {
		corsKey = cfg.Credentials.Key(corsID)
	}

	var api *client.APIClient
	if serverURL != "" {
		api = client.NewAPIClient(strings.TrimRight(serverURL, "/"), 2*time.Minute, logger)
	}

	return client.NewRouter(client.RouterOptions{
		ESVKey:  esvKey,
		CORSKey: corsKey,
		Server:  api,
		LLM:     cfg.LLM,
		ESV:     cfg.ESV,
	}, logger)
}

// printStudy renders a generation result for the terminal.
func printStudy(result schemas.GenerationResult) {
	s := result.Study
	if s.IsError {
		fmt.Printf("Study generation failed: %s\n", s.Summary)
		return
	}

	fmt.Printf("# %s\n\n", result.Reference)
	fmt.Printf("Purpose: %s\n\n", s.Purpose)
	fmt.Printf("Context: %s\n\n", s.Context)
	fmt.Printf("Summary: %s\n\n", s.Summary)
	if len(s.KeyThemes) > 0 {
		fmt.Printf("Key themes: %s\n\n", strings.Join(s.KeyThemes, ", "))
	}
	for i, sec := range s.StudyFlow {
		fmt.Printf("## %d. %s (%s)\n", i+1, sec.SectionHeading, sec.PassageSection)
		fmt.Printf("  Observe:   %s\n             %s\n", sec.ObservationQuestion, sec.ObservationAnswer)
		fmt.Printf("  Interpret: %s\n             %s\n", sec.InterpretationQuestion, sec.InterpretationAnswer)
		if sec.Connection != "" {
			fmt.Printf("  -> %s\n", sec.Connection)
		}
		fmt.Println()
	}
	if len(s.ApplicationQuestions) > 0 {
		fmt.Println("## Application")
		for _, q := range s.ApplicationQuestions {
			fmt.Printf("  - %s\n", q)
		}
		fmt.Println()
	}
	if len(s.CrossReferences) > 0 {
		fmt.Println("## Cross references")
		for _, cr := range s.CrossReferences {
			fmt.Printf("  - %s: %s\n", cr.Reference, cr.Note)
		}
		fmt.Println()
	}
	if s.PrayerPrompt != "" {
		fmt.Printf("Prayer: %s\n", s.PrayerPrompt)
	}
	fmt.Printf("\n(generated by %s)\n", result.Provider)
}
