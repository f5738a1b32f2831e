package cmd

import (
	"fmt"
	"os"

	"github.com/kandttextiles/ktportal/pkg/deeplink"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// generateCmd produces a deep link for a device
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a tracking deep link (and optionally its QR code).",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()

		p := deeplink.Payload{}
		p.ID, _ = flags.GetString("id")
		p.Content, _ = flags.GetString("content")
		p.Name, _ = flags.GetString("name")
		p.Type, _ = flags.GetString("type")
		p.Location, _ = flags.GetString("location")

		if err := p.Descriptor.Validate(); err != nil {
			return err
		}

		base, _ := flags.GetString("base")
		if base == "" {
			base = viper.GetString("portal.base_url")
		}

		token := deeplink.EncodePayload(p)

		link := deeplink.QueryLink(base, token)
		if usePath, _ := flags.GetBool("path"); usePath {
			link = deeplink.PathLink(base, token)
		}

		fmt.Println(link)

		qrPath, _ := flags.GetString("qr")
		if qrPath == "" {
			return nil
		}

		size, _ := flags.GetInt("qr-size")

		f, err := os.Create(qrPath)
		if err != nil {
			return errors.Wrap(err, "failed to create QR code file")
		}
		defer f.Close()

		if err = deeplink.RenderQR(f, link, size); err != nil {
			return err
		}

		fmt.Printf("QR code written to %s\n", qrPath)

		return nil
	},
}

func init() {
	generateCmd.Flags().String("id", "", "device id (required)")
	generateCmd.Flags().String("content", "", "device content: URL, iframe snippet or script (required)")
	generateCmd.Flags().String("name", "", "display name")
	generateCmd.Flags().String("type", "", "device type")
	generateCmd.Flags().String("location", "", "display location")
	generateCmd.Flags().String("base", "", "portal base URL (default portal.base_url)")
	generateCmd.Flags().Bool("path", false, "put the token into the path instead of the query")
	generateCmd.Flags().String("qr", "", "write a PNG QR code of the link to this file")
	generateCmd.Flags().Int("qr-size", deeplink.DefaultQRSize, "QR code size in pixels")

	generateCmd.MarkFlagRequired("id")
	generateCmd.MarkFlagRequired("content")

	rootCmd.AddCommand(generateCmd)
}
