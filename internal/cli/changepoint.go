package cli

import (
	"fmt"

	"github.com/ppiankov/morphprod/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var changepointColumn string

// changepointCmd represents the changepoint command
var changepointCmd = &cobra.Command{
	Use:   "changepoint <file>",
	Short: "Locate a shift in the mean of a productivity series",
	Long: `Changepoint reads a table written by 'productivity' or 'resample', takes
one numeric --column and computes the posterior probability that the mean
of the series shifts at each position. The most probable year is printed.

Writes <file>_<column>_changepoint.tsv and, with --html, an interactive chart.

Example:
  morphprod changepoint datasets/cao_productivity.tsv --column potential_productivity
  morphprod changepoint datasets/mento_resampled.tsv --column hapaxes --html`,
	Args: cobra.ExactArgs(1),
	RunE: runChangepoint,
}

func init() {
	rootCmd.AddCommand(changepointCmd)

	changepointCmd.Flags().StringVar(&changepointColumn, "column", "potential_productivity", "column holding the series")
	changepointCmd.Flags().Bool("html", false, "also render an HTML chart")

	_ = viper.BindPFlag("output.html", changepointCmd.Flags().Lookup("html"))
}

func runChangepoint(cmd *cobra.Command, args []string) error {
	input := args[0]

	p, cfg, err := newPipeline()
	if err != nil {
		return err
	}

	res, err := p.Changepoint(input, changepointColumn)
	if err != nil {
		return err
	}

	path, err := p.Renderer().WriteChangepoint(outputName(input, "tsv"), res.Rows)
	if err != nil {
		return err
	}
	fmt.Printf("✓ %s\n", path)

	if cfg.Output.HTML {
		title := fmt.Sprintf("%s: %s", changepointColumn, input)
		html, err := p.Renderer().RenderChangepointHTML(outputName(input, "html"), title, res.Rows)
		if err != nil {
			return err
		}
		fmt.Printf("✓ %s\n", html)
	}

	fmt.Printf("\nMost probable change point: %d (p=%.3f, %s=%g)\n",
		res.Best.Year, res.Best.Probability, changepointColumn, res.Best.Value)
	return nil
}

// outputName derives "<input>_<column>_changepoint.<ext>" so several
// columns of one table do not overwrite each other
func outputName(input, ext string) string {
	return pipeline.OutputName(input, changepointColumn+"_changepoint", ext)
}
