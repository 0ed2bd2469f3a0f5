package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fiberflow/opsdash/internal/dashboard"
	"github.com/fiberflow/opsdash/internal/logging"
	"github.com/fiberflow/opsdash/internal/reservation"
	"github.com/fiberflow/opsdash/pkg/opsdash/client"
)

var stockFormat string

var stockCmd = &cobra.Command{
	Use:   "stock",
	Short: "Inspect stock and submit job orders",
}

var stockListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stock items and availability",
	Args:  cobra.NoArgs,
	RunE:  runStockList,
}

var stockReserveCmd = &cobra.Command{
	Use:   "reserve item=quantity...",
	Short: "Reserve stock for a job order",
	Long: `Commit the given quantities as one job order.

Quantities are whole numbers and are committed exactly as given. If any
line asks for more than is available the whole order is rejected and no
stock is reserved. A quantity of 0 drops the line.

Without --api the order is committed against an in-process copy of the
catalog, which is discarded on exit. Use it to check whether a job order
would fit the current stock. With --api the order is committed on the
server and the server's staged draft is left alone.

Examples:
  opsdash stock reserve onu-huawei=5 onu-zte=3
  opsdash stock reserve drop-cable=10 --api http://localhost:8080`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStockReserve,
}

func init() {
	stockCmd.AddCommand(stockListCmd)
	stockCmd.AddCommand(stockReserveCmd)

	stockListCmd.Flags().StringVar(&stockFormat, "format", formatTable, "output format (table, json)")
	stockReserveCmd.Flags().StringVar(&stockFormat, "format", formatTable, "output format (table, json)")
}

// reserveArg is one item=quantity argument.
type reserveArg struct {
	ItemID   string
	Quantity int
}

func parseReserveArgs(args []string) ([]reserveArg, error) {
	out := make([]reserveArg, 0, len(args))
	for _, a := range args {
		id, raw, ok := strings.Cut(a, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid reservation %q (want item=quantity)", a)
		}
		qty, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || qty < 0 {
			return nil, fmt.Errorf("invalid quantity in %q: want a whole number of 0 or more", a)
		}
		out = append(out, reserveArg{ItemID: id, Quantity: qty})
	}
	return out, nil
}

// reservationLines drops zero quantities, so a request of only zeros is
// rejected as an empty job order.
func reservationLines(args []reserveArg) []reservation.Line {
	lines := make([]reservation.Line, 0, len(args))
	for _, a := range args {
		if a.Quantity == 0 {
			continue
		}
		lines = append(lines, reservation.Line{ItemID: a.ItemID, Quantity: a.Quantity})
	}
	return lines
}

func runStockList(cmd *cobra.Command, args []string) error {
	if err := checkFormat(stockFormat); err != nil {
		return err
	}

	c, err := remoteClient()
	if err != nil {
		return err
	}

	var view dashboard.StockView
	if c != nil {
		v, err := c.ListStock(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list stock: %w", err)
		}
		view = stockViewFromClient(v)
	} else {
		d, err := newDashboard(cfg, logging.L())
		if err != nil {
			return err
		}
		view = d.Stock()
	}

	out := cmd.OutOrStdout()
	if stockFormat == formatJSON {
		return printJSON(out, view)
	}

	printStockTable(out, view)
	return nil
}

func printStockTable(out io.Writer, view dashboard.StockView) {
	w := newTable(out)
	fmt.Fprintln(w, "ID\tITEM\tCATEGORY\tIN STOCK\tRESERVED\tAVAILABLE\tSTATUS")
	for _, r := range view.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			r.ID, r.Name, r.Category, r.OnHand, r.Reserved, r.Available, r.StatusLabel)
	}
	w.Flush()

	fmt.Fprintf(out, "\n%d units available, %d critical items, %d open job orders\n",
		view.Totals.TotalAvailable, view.Totals.CriticalItems, view.Totals.OpenJobOrders)
}

func runStockReserve(cmd *cobra.Command, args []string) error {
	if err := checkFormat(stockFormat); err != nil {
		return err
	}

	parsed, err := parseReserveArgs(args)
	if err != nil {
		return err
	}
	lines := reservationLines(parsed)

	c, err := remoteClient()
	if err != nil {
		return err
	}

	var (
		outcome dashboard.Outcome
		receipt *reservation.Receipt
	)
	if c != nil {
		outcome, receipt, err = reserveRemote(cmd, c, lines)
	} else {
		outcome, receipt, err = reserveLocal(lines)
	}

	out := cmd.OutOrStdout()
	if stockFormat == formatJSON {
		if perr := printJSON(out, map[string]interface{}{"outcome": outcome, "receipt": receipt}); perr != nil {
			return perr
		}
		return err
	}

	if err != nil {
		if outcome.Message != "" {
			fmt.Fprintf(out, "✗ %s\n", outcome.Message)
		}
		return err
	}

	fmt.Fprintf(out, "✓ %s\n", outcome.Message)
	w := newTable(out)
	for _, l := range receipt.Lines {
		fmt.Fprintf(w, "  %s\t%s\t%d\n", l.ItemID, l.Name, l.Quantity)
	}
	return w.Flush()
}

func reserveLocal(lines []reservation.Line) (dashboard.Outcome, *reservation.Receipt, error) {
	d, err := newDashboard(cfg, logging.L())
	if err != nil {
		return dashboard.Outcome{}, nil, err
	}
	return d.CommitLines(lines)
}

func reserveRemote(cmd *cobra.Command, c *client.Client, lines []reservation.Line) (dashboard.Outcome, *reservation.Receipt, error) {
	req := make([]client.Line, len(lines))
	for i, l := range lines {
		req[i] = client.Line{ItemID: l.ItemID, Quantity: l.Quantity}
	}

	jo, err := c.CommitLines(cmd.Context(), req)
	if err != nil {
		var apiErr *client.Error
		if errors.As(err, &apiErr) {
			msg, _ := apiErr.Context["outcome"].(string)
			return dashboard.Outcome{Tone: dashboard.ToneError, Message: msg}, nil, err
		}
		return dashboard.Outcome{}, nil, err
	}
	return outcomeFromClient(jo.Outcome), receiptFromClient(jo.Receipt), nil
}
