package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SiteTakeoff/internal/model"
	"github.com/piwi3910/SiteTakeoff/internal/project"
)

func (c *CLI) templatesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"template"},
		Short:   "Manage saved calculations",
		Long:    `List, re-run and delete calculations saved with --save-template.`,
	}

	cmd.AddCommand(c.templatesListCommand())
	cmd.AddCommand(c.templatesRunCommand())
	cmd.AddCommand(c.templatesDeleteCommand())

	return cmd
}

func (c *CLI) templatesListCommand() *cobra.Command {
	var calcName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := project.LoadTemplates(c.templatesPath())
			if err != nil {
				return err
			}
			templates := store.Templates
			if calcName != "" {
				calc, err := model.ParseCalculator(calcName)
				if err != nil {
					return err
				}
				templates = store.ForCalculator(calc)
			}

			out := cmd.OutOrStdout()
			if len(templates) == 0 {
				printInfo(out, "No templates saved")
				return nil
			}
			rows := make([][]string, 0, len(templates))
			for _, t := range templates {
				rows = append(rows, []string{t.ID, t.Name, string(t.Calculator), t.UpdatedAt, t.Description})
			}
			fmt.Fprintln(out, newTable([]string{"ID", "Name", "Calculator", "Updated", "Description"}, rows, -1))
			return nil
		},
	}

	cmd.Flags().StringVar(&calcName, "calc", "", "only list templates of this calculator")
	return cmd
}

func (c *CLI) templatesRunCommand() *cobra.Command {
	var opts outputOpts

	cmd := &cobra.Command{
		Use:   "run <id|name> [key=value...]",
		Short: "Run a saved template",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := project.LoadTemplates(c.templatesPath())
			if err != nil {
				return err
			}
			t := store.Find(args[0])
			if t == nil {
				return templateNotFound(store, args[0])
			}

			cfg, err := model.NewConfig(t.Calculator)
			if err != nil {
				return err
			}
			if err := t.DecodeConfig(cfg); err != nil {
				return err
			}
			logger := loggerFromContext(cmd.Context())
			if err := applyValues(logger, cfg, args[1:], "", ""); err != nil {
				return err
			}
			logger.Debug("Running template", "id", t.ID, "name", t.Name)
			return c.calculate(cmd, t.Calculator, cfg, opts)
		},
	}

	addOutputFlags(cmd, &opts)
	return cmd
}

func (c *CLI) templatesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id|name>",
		Short: "Delete a saved template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := project.LoadTemplates(c.templatesPath())
			if err != nil {
				return err
			}
			t := store.Find(args[0])
			if t == nil {
				return templateNotFound(store, args[0])
			}
			name := t.Name
			store.Remove(t.ID)
			if err := project.SaveTemplates(c.templatesPath(), store); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Deleted template %s", name)
			return nil
		},
	}
}

func templateNotFound(store model.TemplateStore, ref string) error {
	names := store.Names()
	if len(names) == 0 {
		return fmt.Errorf("template %q not found: no templates saved", ref)
	}
	return fmt.Errorf("template %q not found (saved: %s)", ref, strings.Join(names, ", "))
}
