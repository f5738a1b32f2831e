package cmd

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"text/tabwriter"

	"github.com/kandttextiles/ktportal/internal/core"
	"github.com/kandttextiles/ktportal/pkg/device"
	"github.com/kandttextiles/ktportal/pkg/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var iframeSrc = regexp.MustCompile(`src=["']?([^"'\s>]+)`)

// withCore runs f against an initialized core and closes it afterwards
func withCore(f func(ctx context.Context, c *core.Core) error) error {
	ctx := context.Background()

	c, _, err := newCore(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	return f(ctx, c)
}

func printJSON(val interface{}) error {
	out, err := util.PrettyJSON(val)
	if err != nil {
		return err
	}

	_, err = os.Stdout.Write(out)

	return err
}

// addCmd redeems a tracking code
var addCmd = &cobra.Command{
	Use:   "add <code|link>",
	Short: "Redeem a tracking code or deep link into the device registry.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCore(func(ctx context.Context, c *core.Core) error {
			d, err := c.Redeem(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Tracking device %q added successfully!\n", d.Name)

			return printJSON(d)
		})
	},
}

// listCmd lists registered devices
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered tracking devices.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		index, value, err := listFilter(cmd)
		if err != nil {
			return err
		}

		return withCore(func(ctx context.Context, c *core.Core) error {
			var ds []device.Device

			if index == "" {
				ds, err = c.Devices().AllDevices(ctx)
			} else {
				ds, err = c.Devices().DevicesBy(ctx, index, value)
			}

			if err != nil {
				return err
			}

			if len(ds) == 0 {
				fmt.Println("No tracking devices found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tCONTENT\tSTATUS\tLAST UPDATED")

			for _, d := range ds {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", d.ID, d.Name, d.Type, describeContent(d.ContentRef()), d.Status, d.LastUpdated)
			}

			return w.Flush()
		})
	},
}

// describeContent renders a short summary of device content by its variant
func describeContent(ref device.ContentRef) string {
	switch c := ref.(type) {
	case device.Iframe:
		if m := iframeSrc.FindStringSubmatch(c.HTML); m != nil {
			return "iframe " + m[1]
		}

		return "iframe"
	case device.Image:
		return "image " + c.URL
	case device.Script:
		return fmt.Sprintf("script (%d bytes)", len(c.Code))
	case device.Link:
		return "link " + c.URL
	default:
		return string(ref.Kind())
	}
}

func listFilter(cmd *cobra.Command) (index, value string, err error) {
	flags := map[string]string{
		"type":         device.IndexType,
		"status":       device.IndexStatus,
		"content-type": device.IndexContentType,
	}

	for flag, idx := range flags {
		v, _ := cmd.Flags().GetString(flag)
		if v == "" {
			continue
		}

		if index != "" {
			return "", "", errors.New("only one of --type, --status and --content-type can be given")
		}

		index, value = idx, v
	}

	return index, value, nil
}

// showCmd prints a single device
var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a registered tracking device.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCore(func(ctx context.Context, c *core.Core) error {
			d, err := c.Devices().GetDevice(ctx, args[0])
			if err != nil {
				return err
			}

			if d == nil {
				return errors.Wrap(device.ErrDeviceNotFound, args[0])
			}

			if err = printJSON(d); err != nil {
				return err
			}

			fmt.Println("Content:", describeContent(d.ContentRef()))

			return nil
		})
	},
}

// removeCmd deletes a device
var removeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a tracking device from the registry.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCore(func(ctx context.Context, c *core.Core) error {
			if err := c.Devices().DeleteDevice(ctx, args[0]); err != nil {
				return err
			}

			fmt.Printf("Tracking device %q removed.\n", args[0])

			return nil
		})
	},
}

func init() {
	listCmd.Flags().String("type", "", "only devices of a given type")
	listCmd.Flags().String("status", "", "only devices with a given status")
	listCmd.Flags().String("content-type", "", "only devices with a given content type")

	rootCmd.AddCommand(addCmd, listCmd, showCmd, removeCmd)
}
