package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fiberflow/opsdash/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and validate the NAP and stock catalog",
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a catalog file",
	Long: `Validate a catalog file. Without an argument the configured catalog is
checked, or the built-in seed catalog when none is configured.

Examples:
  opsdash catalog validate
  opsdash catalog validate ./catalog.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCatalogValidate,
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the configured catalog as YAML",
	Args:  cobra.NoArgs,
	RunE:  runCatalogShow,
}

func init() {
	catalogCmd.AddCommand(catalogValidateCmd)
	catalogCmd.AddCommand(catalogShowCmd)
}

func runCatalogValidate(cmd *cobra.Command, args []string) error {
	path := cfg.Catalog.Path
	if len(args) == 1 {
		path = args[0]
	}

	cat, err := catalog.Read(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	result := cat.Validate()
	if result.Valid {
		fmt.Fprintf(out, "✓ Catalog is valid (%d NAPs, %d stock items)\n", len(cat.NAPs), len(cat.Stock))
		return nil
	}

	fmt.Fprintln(out, "✗ Catalog is invalid:")
	for _, e := range result.Errors {
		fmt.Fprintf(out, "  - %s: %s\n", e.Field, e.Message)
	}
	return fmt.Errorf("%w: %d errors", catalog.ErrInvalidCatalog, len(result.Errors))
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return err
	}

	data, err := cat.Marshal()
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}
