// Command dosagectl computes antimalarial dosage plans from the terminal
// using the same catalog, engine and translations as the HTTP service.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/giygas/antimalarial-dosage/catalog"
	"github.com/giygas/antimalarial-dosage/config"
	"github.com/giygas/antimalarial-dosage/interfaces"
	"github.com/giygas/antimalarial-dosage/logging"
	"github.com/giygas/antimalarial-dosage/render"
	"github.com/giygas/antimalarial-dosage/validation"
)

// errReported is returned once a problem has already been printed
var errReported = errors.New("problem reported")

// options are the persistent flags shared by every subcommand
type options struct {
	catalogPath string
	verbose     bool
}

// env is what subcommands need once the catalog has been loaded
type env struct {
	catalog   *catalog.Catalog
	validator interfaces.CatalogValidator
	localizer *render.Localizer
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "dosagectl",
		Short:         "Antimalarial dosage calculator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "error"
			if opts.verbose {
				level = "debug"
			}
			logging.InitLoggerWithOptions(logging.Options{
				Env:     config.EnvProduction,
				Level:   level,
				Console: cmd.ErrOrStderr(),
			})
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.catalogPath, "catalog", os.Getenv("CATALOG_PATH"),
		"Path to a JSON catalog (defaults to the built-in tables)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log catalog loading to stderr")

	rootCmd.AddCommand(productsCmd(opts))
	rootCmd.AddCommand(computeCmd(opts))

	return rootCmd
}

// load reads and validates the catalog the same way the service scheduler does
func load(opts *options) (*env, error) {
	c, source, err := catalog.NewLoader(opts.catalogPath).LoadCatalog()
	if err != nil {
		return nil, err
	}

	validator := validation.NewCatalogValidator()
	if err := validator.ValidateCatalog(c); err != nil {
		return nil, fmt.Errorf("catalog from %s rejected: %w", source, err)
	}

	localizer, err := render.NewLocalizer(config.SupportedLanguages, config.SupportedLanguages[0])
	if err != nil {
		return nil, err
	}

	logging.Debug("Catalog loaded", "source", source, "products", c.Len())

	return &env{catalog: c, validator: validator, localizer: localizer}, nil
}
