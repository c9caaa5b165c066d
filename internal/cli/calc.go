package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/SiteTakeoff/internal/export"
	"github.com/piwi3910/SiteTakeoff/internal/importer"
	"github.com/piwi3910/SiteTakeoff/internal/model"
	"github.com/piwi3910/SiteTakeoff/internal/project"
)

// errAwaitingInput is returned when a configuration is still missing the
// dimensions a calculator needs.
var errAwaitingInput = errors.New("awaiting input: plan dimensions are missing")

// calcOpts holds the inputs of a calculator command.
type calcOpts struct {
	file      string
	plan      string
	planScale float64
	values    []string // key=value overrides
	skill     string
	budget    string
	waste     float64
	wasteSet  bool
	output    outputOpts
}

// outputOpts holds the result options shared by calculator and template runs.
type outputOpts struct {
	jsonOut      bool
	pdf          string
	xlsx         string
	dxf          string
	labels       string
	title        string
	job          string
	saveTemplate string
	description  string
}

var calcDescriptions = map[model.Calculator]string{
	model.CalculatorDeck:   "Calculate a raised timber deck",
	model.CalculatorPaving: "Calculate a slab patio",
	model.CalculatorWall:   "Calculate a retaining wall",
}

// calcCommand creates the command for one calculator.
func (c *CLI) calcCommand(calc model.Calculator) *cobra.Command {
	var opts calcOpts

	cmd := &cobra.Command{
		Use:   string(calc) + " [key=value...]",
		Short: calcDescriptions[calc],
		Long: calcDescriptions[calc] + `.

Values are applied in order: settings defaults, the --file configuration,
the --plan drawing, then key=value arguments and flags. Fields the tier
derives are locked and cannot be overridden under the DIY skill tier.`,
		Example: fmt.Sprintf(`  %[1]s %[2]s -f %[2]s.toml
  %[1]s %[2]s width=4800 length=3600 --pdf %[2]s.pdf
  %[1]s %[2]s -f %[2]s.xlsx --skill diy --json`, appName, calc),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.values = args
			opts.wasteSet = cmd.Flags().Changed("waste")
			return c.runCalc(cmd, calc, opts)
		},
	}

	if calc == model.CalculatorWall {
		catalog := model.DefaultCatalog()
		cmd.Long += "\n\nBuilt-in wall types: " + strings.Join(catalog.WallTypeNames(), ", ") + "."
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "configuration file (.toml, .json, .csv, .xlsx)")
	if calc != model.CalculatorWall {
		cmd.Flags().StringVar(&opts.plan, "plan", "", "DXF drawing holding the plan outline")
		cmd.Flags().Float64Var(&opts.planScale, "plan-scale", 1, "millimetres per drawing unit (1000 for drawings in metres)")
	}
	cmd.Flags().StringVar(&opts.skill, "skill", "", "skill tier (diy, pro)")
	cmd.Flags().StringVar(&opts.budget, "budget", "", "budget tier (budget, full)")
	cmd.Flags().Float64Var(&opts.waste, "waste", model.DefaultWastePct, "waste allowance in percent")
	addOutputFlags(cmd, &opts.output)

	return cmd
}

// addOutputFlags registers the result flags on cmd.
func addOutputFlags(cmd *cobra.Command, opts *outputOpts) {
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the result as JSON")
	cmd.Flags().StringVar(&opts.pdf, "pdf", "", "write a PDF report to this path")
	cmd.Flags().StringVar(&opts.xlsx, "xlsx", "", "write a spreadsheet to this path")
	cmd.Flags().StringVar(&opts.dxf, "dxf", "", "write a DXF plan drawing to this path")
	cmd.Flags().StringVar(&opts.labels, "labels", "", "write QR-coded delivery labels to this path")
	cmd.Flags().StringVar(&opts.title, "title", "", "report title")
	cmd.Flags().StringVar(&opts.job, "job", "", "job name printed on labels")
	cmd.Flags().StringVar(&opts.saveTemplate, "save-template", "", "save the configuration as a named template")
	cmd.Flags().StringVar(&opts.description, "description", "", "description stored with --save-template")
}

func (c *CLI) runCalc(cmd *cobra.Command, calc model.Calculator, opts calcOpts) error {
	logger := loggerFromContext(cmd.Context())

	cfg, err := c.buildConfig(logger, calc, opts)
	if err != nil {
		return err
	}
	return c.calculate(cmd, calc, cfg, opts.output)
}

// buildConfig assembles a calculator configuration from the settings
// defaults, the config file, the DXF plan and the command-line values.
func (c *CLI) buildConfig(logger *log.Logger, calc model.Calculator, opts calcOpts) (any, error) {
	cfg, err := model.NewConfig(calc)
	if err != nil {
		return nil, err
	}
	c.settings.ApplyToCommon(model.CommonOf(cfg))

	if opts.file != "" {
		res, err := importer.LoadConfig(opts.file, cfg)
		if err != nil {
			return nil, err
		}
		if len(res.Errors) > 0 {
			return nil, fmt.Errorf("%s: %s", opts.file, strings.Join(res.Errors, "; "))
		}
		logImport(logger, opts.file, res)
		c.rememberFile(logger, opts.file)
	}

	if opts.plan != "" {
		shape := model.ShapeOf(cfg)
		if shape == nil {
			return nil, fmt.Errorf("%s has no plan shape", calc)
		}
		plan := importer.ImportDXF(opts.plan, opts.planScale)
		if len(plan.Errors) > 0 {
			return nil, fmt.Errorf("%s: %s", opts.plan, strings.Join(plan.Errors, "; "))
		}
		for _, w := range plan.Warnings {
			logger.Warn(w, "file", opts.plan)
		}
		*shape = plan.Shape
		logger.Debug("Imported plan", "file", opts.plan, "shape", plan.Shape.Kind)
	}

	if err := applyValues(logger, cfg, opts.values, opts.skill, opts.budget); err != nil {
		return nil, err
	}
	if opts.wasteSet {
		model.CommonOf(cfg).SetWaste(opts.waste)
	}
	return cfg, nil
}

// applyValues writes key=value arguments and tier flags into cfg.
func applyValues(logger *log.Logger, cfg any, args []string, skill, budget string) error {
	values := make(map[string]string, len(args)+2)
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return fmt.Errorf("argument %q is not key=value", arg)
		}
		values[key] = value
	}
	if skill != "" {
		values["tier.skill"] = skill
	}
	if budget != "" {
		values["tier.budget"] = budget
	}
	if len(values) == 0 {
		return nil
	}

	res := importer.ParseForm(values)
	res.Apply(cfg)
	logImport(logger, "arguments", res)
	return nil
}

// logImport reports the outcome of an import at debug level and its
// warnings at warn level.
func logImport(logger *log.Logger, source string, res importer.ImportResult) {
	for _, w := range res.Warnings {
		logger.Warn(w, "source", source)
	}
	logger.Debug("Applied values", "source", source, "fields", len(res.Applied))
}

// rememberFile records path in the recent files list of the settings file.
func (c *CLI) rememberFile(logger *log.Logger, path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	c.settings.AddRecentFile(path)
	if err := project.SaveAppConfig(c.configPath(), c.settings); err != nil {
		logger.Warn("Could not update recent files", "err", err)
	}
}

// calculate runs cfg, prints the result and writes the requested exports.
func (c *CLI) calculate(cmd *cobra.Command, calc model.Calculator, cfg any, opts outputOpts) error {
	logger := loggerFromContext(cmd.Context())

	e, err := c.newEngine()
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	result, err := e.Calculate(cfg)
	if err != nil {
		return err
	}
	if result == nil {
		return fmt.Errorf("%s: %w", calc, errAwaitingInput)
	}
	prog.done(fmt.Sprintf("Calculated %s takeoff", calc))

	out := cmd.OutOrStdout()
	status := out
	if opts.jsonOut {
		status = cmd.ErrOrStderr()
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		printResult(out, result)
		fmt.Fprintln(out)
	}

	if err := c.writeExports(status, result, opts); err != nil {
		return err
	}

	if opts.saveTemplate != "" {
		t, err := model.NewCalculationTemplate(opts.saveTemplate, opts.description, calc, cfg)
		if err != nil {
			return err
		}
		if err := project.SaveTemplate(c.templatesPath(), t); err != nil {
			return fmt.Errorf("save template: %w", err)
		}
		printSuccess(status, "Saved template %s", opts.saveTemplate)
	}
	return nil
}

// writeExports writes each export whose path was given.
func (c *CLI) writeExports(w io.Writer, result *model.BomResult, opts outputOpts) error {
	jobs := []struct {
		path  string
		kind  string
		write func(string) error
	}{
		{opts.pdf, "PDF report", func(p string) error { return export.ExportPDF(p, result, opts.title) }},
		{opts.xlsx, "spreadsheet", func(p string) error { return export.ExportXLSX(p, result) }},
		{opts.dxf, "DXF drawing", func(p string) error { return export.ExportDXF(p, result) }},
		{opts.labels, "labels", func(p string) error { return export.ExportLabels(p, result, opts.job) }},
	}

	for _, job := range jobs {
		if job.path == "" {
			continue
		}
		path, err := c.outputPath(job.path)
		if err != nil {
			return err
		}
		if err := job.write(path); err != nil {
			return fmt.Errorf("export %s: %w", job.kind, err)
		}
		printSuccess(w, "Wrote %s", job.kind)
		printFile(w, path)
	}
	return nil
}
