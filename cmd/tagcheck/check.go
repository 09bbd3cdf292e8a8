package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/JakeFAU/tagcheck/internal/detector"
)

const (
	outputJSON = "json"
	outputText = "text"
)

var vendorLabels = map[detector.Vendor]string{
	detector.VendorGTM:       "Google Tag Manager",
	detector.VendorGA4:       "Google Analytics 4",
	detector.VendorGoogleAds: "Google Ads",
	detector.VendorMetaPixel: "Meta Pixel",
}

func newCheckCmd(cfgFile *string) *cobra.Command {
	var (
		output string
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "check <url>",
		Short: "Check a single URL and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != outputJSON && output != outputText {
				return fmt.Errorf("unknown --output %q (want json or text)", output)
			}
			rt, err := loadRuntime(*cfgFile)
			if err != nil {
				return err
			}
			defer rt.close()

			stop := startSpinner(cmd.ErrOrStderr(), "checking "+args[0])
			res, err := buildDetector(rt).Check(cmd.Context(), args[0])
			stop()
			if err != nil {
				return fmt.Errorf("check %q: %w", args[0], err)
			}

			if output == outputText {
				writeText(cmd.OutOrStdout(), res)
				return nil
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			if pretty {
				enc.SetIndent("", "  ")
			}
			if err := enc.Encode(res); err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "output format: json or text")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")
	return cmd
}

// startSpinner animates on terminals only and returns its stop function.
func startSpinner(w io.Writer, suffix string) func() {
	f, ok := w.(*os.File)
	if !ok {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriterFile(f))
	s.Suffix = " " + suffix
	s.Start()
	return s.Stop
}

func writeText(w io.Writer, res detector.TagResults) {
	fmt.Fprintln(w, color.New(color.Bold).Sprint(res.URL))
	if res.Failed() {
		fmt.Fprintln(w, color.New(color.FgRed).Sprint("  error: "+res.Error))
	}
	for _, v := range detector.Vendors {
		r := res.Result(v)
		mark := color.New(color.FgHiBlack).Sprint("not found")
		if r.Found {
			mark = color.New(color.FgHiGreen).Sprint("found")
		}
		line := fmt.Sprintf("  %-20s %s", vendorLabels[v], mark)
		if r.Location != "" {
			line += " in " + r.Location
		}
		if r.ID != "" {
			line += " " + color.New(color.FgCyan).Sprint(r.ID)
		}
		if r.IDType == detector.IDTypeUniversalAnalytics {
			line += color.New(color.FgYellow).Sprint(" (legacy)")
		}
		fmt.Fprintln(w, line)
	}
}
