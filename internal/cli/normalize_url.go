package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/wooauto/internal/siteurl"
)

type NormalizeURLCommand struct {
	URL     string
	Explain bool

	Out io.Writer
}

func NewNormalizeURLCommand() *NormalizeURLCommand {
	return &NormalizeURLCommand{Out: os.Stdout}
}

func (cmd *NormalizeURLCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("normalize-url", flag.ExitOnError)

	fs.StringVar(&cmd.URL, "url", "", "Store address as typed by the user (required)")
	fs.BoolVar(&cmd.Explain, "explain", false, "Print every rule application")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s normalize-url [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Print the canonical site URL and the WooCommerce REST API base URL.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s normalize-url -url shop.example.com/wp-json/wc/v3\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s normalize-url -url 'HTTPS://shop.example.com/index.php/' -explain\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.URL == "" && fs.NArg() > 0 {
		cmd.URL = fs.Arg(0)
	}
	if cmd.URL == "" {
		fs.Usage()
		return fmt.Errorf("url is required")
	}

	return nil
}

func (cmd *NormalizeURLCommand) Run() error {
	normalizer := siteurl.New()

	result := normalizer.Normalize(cmd.URL)
	if result.SiteURL == "" {
		return fmt.Errorf("%q does not contain a usable address", cmd.URL)
	}

	if cmd.Explain {
		_, steps := normalizer.Explain(cmd.URL)
		for _, step := range steps {
			if !step.Matched {
				continue
			}
			fmt.Fprintf(cmd.Out, "pass %d  %-22s %q -> %q\n", step.Pass, step.Rule, step.Before, step.After)
		}
		fmt.Fprintln(cmd.Out)
	}

	fmt.Fprintf(cmd.Out, "site_url:     %s\n", result.SiteURL)
	fmt.Fprintf(cmd.Out, "api_base_url: %s\n", result.APIBaseURL)
	return nil
}
