package commands

import (
	"github.com/spf13/cobra"
	"github.com/use-agent/sheetscrape/models"
	"github.com/use-agent/sheetscrape/pipeline"
)

type laptopFlags struct {
	out      string
	chartPNG string
	max      int
	rate     float64
	baseURL  string
}

var (
	laptopsOpts      laptopFlags
	laptopsChartOpts laptopFlags
)

var publicAPIsOpts struct {
	xlsx     string
	pdf      string
	markdown string
	url      string
}

func init() {
	for _, c := range []struct {
		cmd  *cobra.Command
		opts *laptopFlags
	}{
		{laptopsCmd, &laptopsOpts},
		{laptopsChartCmd, &laptopsChartOpts},
	} {
		f := c.cmd.Flags()
		f.StringVar(&c.opts.out, "out", "", "Workbook to write (overwritten).")
		f.IntVar(&c.opts.max, "max", 0, "Maximum number of products to collect.")
		f.Float64Var(&c.opts.rate, "rate", 0, "USD to NGN exchange rate.")
		f.StringVar(&c.opts.baseURL, "base-url", "", "First catalogue page.")
	}
	laptopsChartCmd.Flags().StringVar(&laptopsChartOpts.chartPNG, "chart-png", "", "Also render the chart as a PNG image.")

	f := publicAPIsCmd.Flags()
	f.StringVar(&publicAPIsOpts.xlsx, "xlsx", "", "Workbook to write (overwritten).")
	f.StringVar(&publicAPIsOpts.pdf, "pdf", "", "PDF preview to write (overwritten).")
	f.StringVar(&publicAPIsOpts.markdown, "markdown", "", "Markdown preview to write; skipped when empty.")
	f.StringVar(&publicAPIsOpts.url, "url", "", "Page holding the tables.")

	rootCmd.AddCommand(laptopsCmd, laptopsChartCmd, publicAPIsCmd)
}

// applyLaptopFlags copies the flags the user set onto cfg.Laptops. out
// targets the workbook of the given pipeline.
func applyLaptopFlags(cmd *cobra.Command, o *laptopFlags, id string) {
	f := cmd.Flags()
	if f.Changed("out") {
		if id == models.PipelineLaptopsChart {
			cfg.Laptops.ChartOutput = o.out
		} else {
			cfg.Laptops.Output = o.out
		}
	}
	if f.Changed("max") {
		cfg.Laptops.MaxEntries = o.max
	}
	if f.Changed("rate") {
		cfg.Laptops.ExchangeRate = o.rate
	}
	if f.Changed("base-url") {
		cfg.Laptops.BaseURL = o.baseURL
	}
	if f.Changed("chart-png") {
		cfg.Laptops.ChartImage = o.chartPNG
	}
}

func runPipeline(cmd *cobra.Command, id string) error {
	if err := validated(); err != nil {
		return err
	}
	res, err := pipeline.Run(cmd.Context(), pipeline.NewDeps(cfg), cfg, id)
	if err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), res)
	return nil
}

var laptopsCmd = &cobra.Command{
	Use:   "laptops [--out F] [--max N] [--rate R] [--base-url U]",
	Short: "Scrapes the paginated laptop catalogue into a workbook with USD and NGN prices.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		applyLaptopFlags(cmd, &laptopsOpts, models.PipelineLaptops)
		return runPipeline(cmd, models.PipelineLaptops)
	},
}

var laptopsChartCmd = &cobra.Command{
	Use:   "laptops-chart [--out F] [--chart-png F] [--max N] [--rate R] [--base-url U]",
	Short: "Like laptops, plus a column chart of the first ten USD prices.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		applyLaptopFlags(cmd, &laptopsChartOpts, models.PipelineLaptopsChart)
		return runPipeline(cmd, models.PipelineLaptopsChart)
	},
}

var publicAPIsCmd = &cobra.Command{
	Use:   "public-apis [--xlsx F] [--pdf F] [--markdown F] [--url U]",
	Short: "Scrapes the public-apis README tables into a workbook and a PDF preview.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		if f.Changed("xlsx") {
			cfg.PublicAPIs.XLSXOutput = publicAPIsOpts.xlsx
		}
		if f.Changed("pdf") {
			cfg.PublicAPIs.PDFOutput = publicAPIsOpts.pdf
		}
		if f.Changed("markdown") {
			cfg.PublicAPIs.MarkdownOutput = publicAPIsOpts.markdown
		}
		if f.Changed("url") {
			cfg.PublicAPIs.URL = publicAPIsOpts.url
		}
		return runPipeline(cmd, models.PipelinePublicAPIs)
	},
}
