package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SiteTakeoff/internal/project"
)

func (c *CLI) catalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List and extend the material catalog",
		Long: `The catalog holds material densities and packaging, walling units and
sub-base types. It lives in catalog.json in the home directory and is
created with the built-in entries on first use.`,
	}

	cmd.AddCommand(c.catalogListCommand())
	cmd.AddCommand(c.catalogImportCommand())
	cmd.AddCommand(c.catalogExportMaterialCommand())
	cmd.AddCommand(c.catalogImportMaterialCommand())

	return cmd
}

func (c *CLI) catalogListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List materials and wall types",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := project.LoadCatalog(c.catalogPath())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			rows := make([][]string, 0, len(catalog.Materials))
			for _, m := range catalog.Materials {
				rows = append(rows, []string{m.Key, m.Name, formatNumber(m.Density), formatNumber(m.BagKg), formatNumber(m.BulkBagM3)})
			}
			fmt.Fprintln(out, StyleTitle.Render("Materials"))
			fmt.Fprintln(out, newTable([]string{"Key", "Name", "kg/m³", "Bag kg", "Bulk m³"}, rows, 2))

			rows = rows[:0]
			for _, w := range catalog.WallTypes {
				rows = append(rows, []string{w.Key, w.Name, w.Unit, formatNumber(w.UnitsPerM2)})
			}
			fmt.Fprintln(out, StyleTitle.Render("Wall types"))
			fmt.Fprintln(out, newTable([]string{"Key", "Name", "Unit", "Per m²"}, rows, 3))

			rows = rows[:0]
			for _, s := range catalog.SubBaseTypes {
				rows = append(rows, []string{s.Key, s.Name, s.Material})
			}
			fmt.Fprintln(out, StyleTitle.Render("Sub-base types"))
			fmt.Fprintln(out, newTable([]string{"Key", "Name", "Material"}, rows, -1))
			return nil
		},
	}
}

func (c *CLI) catalogImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge the entries of a catalog file into the catalog",
		Long:  `Add the materials, wall types and sub-base types of a catalog JSON file. Entries whose key already exists are skipped.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			existing, err := project.LoadCatalog(c.catalogPath())
			if err != nil {
				return err
			}
			before := len(existing.Materials) + len(existing.WallTypes) + len(existing.SubBaseTypes)
			merged, err := project.ImportCatalog(args[0], existing)
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}
			if err := project.SaveCatalog(c.catalogPath(), merged); err != nil {
				return err
			}
			added := len(merged.Materials) + len(merged.WallTypes) + len(merged.SubBaseTypes) - before
			printSuccess(cmd.OutOrStdout(), "Imported %d catalog entries", added)
			return nil
		},
	}
}

func (c *CLI) catalogExportMaterialCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export-material <key> <file>",
		Short: "Write one material to a JSON file for sharing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := project.LoadCatalog(c.catalogPath())
			if err != nil {
				return err
			}
			m := catalog.FindMaterial(args[0])
			if m == nil {
				return fmt.Errorf("material %q not found", args[0])
			}
			if err := project.ExportMaterial(args[1], *m); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printSuccess(out, "Exported %s", m.Name)
			printFile(out, args[1])
			return nil
		},
	}
}

func (c *CLI) catalogImportMaterialCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import-material <file>",
		Short: "Add or replace one material from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			material, err := project.ImportMaterial(args[0])
			if err != nil {
				return err
			}
			catalog, err := project.LoadCatalog(c.catalogPath())
			if err != nil {
				return err
			}
			if existing := catalog.FindMaterial(material.Key); existing != nil {
				*existing = material
			} else {
				catalog.Materials = append(catalog.Materials, material)
			}
			if err := project.SaveCatalog(c.catalogPath(), catalog); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Imported material %s", material.Key)
			return nil
		},
	}
}
