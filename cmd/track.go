package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/kandttextiles/ktportal/internal/core"
	"github.com/kandttextiles/ktportal/pkg/tracking"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// trackCmd shows the location feed of a device
var trackCmd = &cobra.Command{
	Use:   "track <id>",
	Short: "Show the tracking data of a registered device.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")
		asJSON, _ := cmd.Flags().GetBool("json")

		return withCore(func(ctx context.Context, c *core.Core) error {
			page, err := c.Track(ctx, args[0], limit, offset)
			if err != nil {
				if errors.Cause(err) == tracking.ErrNotFound {
					fmt.Println("No tracking data available for this device yet.")
					return nil
				}

				return err
			}

			if asJSON {
				return printJSON(page)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tTIME\tLATITUDE\tLONGITUDE\tSPEED\tBATTERY\tMAP")

			for _, p := range page.Tracking {
				fmt.Fprintf(w, "%s\t%s\t%v\t%v\t%v\t%v%%\t%s\n",
					p.FormattedDate,
					p.FormattedTime,
					p.Latitude,
					p.Longitude,
					p.Speed,
					p.BatteryLevel,
					p.GoogleMapsLink,
				)
			}

			if err = w.Flush(); err != nil {
				return err
			}

			fmt.Printf("\n%d points (offset %d)\n", page.Count, page.Offset)

			return nil
		})
	},
}

func init() {
	trackCmd.Flags().Int("limit", tracking.DefaultLimit, "maximum number of points")
	trackCmd.Flags().Int("offset", 0, "number of newest points to skip")
	trackCmd.Flags().Bool("json", false, "print the raw page as JSON")

	rootCmd.AddCommand(trackCmd)
}
