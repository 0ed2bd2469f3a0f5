package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fiberflow/opsdash/internal/dashboard"
	"github.com/fiberflow/opsdash/internal/directory"
	"github.com/fiberflow/opsdash/internal/logging"
	"github.com/fiberflow/opsdash/pkg/opsdash/client"
)

var (
	napsMunicipality string
	napsState        string
	napsSearch       string
	napsLimit        int
	napsFormat       string
)

var napsCmd = &cobra.Command{
	Use:   "naps",
	Short: "Browse the NAP directory",
}

var napsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List NAPs matching a filter",
	Long: `List the NAPs that match the given filter together with port totals.

Examples:
  opsdash naps list
  opsdash naps list --municipality "San Andres"
  opsdash naps list --state full --format json
  opsdash naps list --search pon-2 --api http://localhost:8080`,
	Args: cobra.NoArgs,
	RunE: runNAPsList,
}

var napsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show the install detail of a NAP",
	Long: `Select a NAP and print its install detail: the focus customer, or the next
free port when the NAP has no focus customer.

Examples:
  opsdash naps show NAP-CAL-01
  opsdash naps show NAP-SAN-01 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runNAPsShow,
}

func init() {
	napsCmd.AddCommand(napsListCmd)
	napsCmd.AddCommand(napsShowCmd)

	napsListCmd.Flags().StringVar(&napsMunicipality, "municipality", directory.All, "filter by municipality")
	napsListCmd.Flags().StringVar(&napsState, "state", directory.All, "filter by state (available, full, maintenance)")
	napsListCmd.Flags().StringVar(&napsSearch, "search", "", "free-text search over id, barangay, PON and LCP")
	napsListCmd.Flags().IntVar(&napsLimit, "limit", 100, "maximum rows")
	napsListCmd.Flags().StringVar(&napsFormat, "format", formatTable, "output format (table, json)")

	napsShowCmd.Flags().StringVar(&napsFormat, "format", formatTable, "output format (table, json)")
}

func filterPatch(cmd *cobra.Command) directory.Patch {
	var p directory.Patch
	if cmd.Flags().Changed("municipality") {
		p.Municipality = directory.Value(napsMunicipality)
	}
	if cmd.Flags().Changed("state") {
		p.State = directory.Value(napsState)
	}
	if cmd.Flags().Changed("search") {
		p.Search = directory.Value(napsSearch)
	}
	return p
}

func runNAPsList(cmd *cobra.Command, args []string) error {
	if err := checkFormat(napsFormat); err != nil {
		return err
	}

	var (
		rows   []dashboard.NAPRow
		totals directory.Aggregates
	)

	c, err := remoteClient()
	if err != nil {
		return err
	}

	if c != nil {
		if _, err := c.SetFilter(cmd.Context(), filterFromPatch(filterPatch(cmd))); err != nil {
			return fmt.Errorf("failed to set filter: %w", err)
		}
		page, err := c.ListNAPs(cmd.Context(), client.Query{Limit: napsLimit})
		if err != nil {
			return fmt.Errorf("failed to list NAPs: %w", err)
		}
		rows, totals = napRowsFromClient(page.NAPs), totalsFromClient(page.Totals)
	} else {
		d, err := newDashboard(cfg, logging.L())
		if err != nil {
			return err
		}
		view := d.ApplyFilter(filterPatch(cmd))
		rows, totals = view.Rows, view.Totals
		if napsLimit > 0 && len(rows) > napsLimit {
			rows = rows[:napsLimit]
		}
	}

	out := cmd.OutOrStdout()
	if napsFormat == formatJSON {
		return printJSON(out, map[string]interface{}{
			"naps":   rows,
			"totals": totals,
		})
	}

	printNAPTable(out, rows, totals)
	return nil
}

func printNAPTable(out io.Writer, rows []dashboard.NAPRow, totals directory.Aggregates) {
	if len(rows) == 0 {
		fmt.Fprintln(out, "No NAPs match the current filter.")
		return
	}

	w := newTable(out)
	fmt.Fprintln(w, "NAP\tMUNICIPALITY\tBARANGAY\tPON\tLCP\tPORTS\tAVAILABLE\tSTATE")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			r.ID, r.Municipality, r.Barangay, r.CircuitID, r.ConcentratorID,
			r.TotalPorts, r.AvailablePorts, r.StateLabel)
	}
	w.Flush()

	fmt.Fprintf(out, "\n%d NAPs, %d/%d ports active, %d available, %d%% utilised\n",
		totals.Count, totals.ActivePorts, totals.TotalPorts, totals.AvailablePorts, totals.UtilisationPercent)
}

func runNAPsShow(cmd *cobra.Command, args []string) error {
	if err := checkFormat(napsFormat); err != nil {
		return err
	}
	id := args[0]

	c, err := remoteClient()
	if err != nil {
		return err
	}

	var detail directory.Detail
	if c != nil {
		sel, err := c.SelectNAP(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to select NAP: %w", err)
		}
		detail = detailFromClient(sel.Detail)
	} else {
		d, err := newDashboard(cfg, logging.L())
		if err != nil {
			return err
		}
		view, ok := d.ActivateRow(id)
		if !ok {
			return fmt.Errorf("NAP %q not found", id)
		}
		detail = view.Detail
	}

	out := cmd.OutOrStdout()
	if napsFormat == formatJSON {
		return printJSON(out, detail)
	}

	w := newTable(out)
	fmt.Fprintf(w, "Customer:\t%s\n", detail.Name)
	fmt.Fprintf(w, "PON:\t%s\n", detail.CircuitID)
	fmt.Fprintf(w, "LCP:\t%s\n", detail.ConcentratorID)
	fmt.Fprintf(w, "NAP:\t%s\n", detail.NAPID)
	fmt.Fprintf(w, "Port:\t%s\n", detail.Port)
	return w.Flush()
}
