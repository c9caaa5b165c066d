package cli

import (
	"github.com/spf13/cobra"

	"github.com/piwi3910/SiteTakeoff/internal/project"
)

func (c *CLI) backupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or restore settings, catalog and templates",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "export <file>",
		Short: "Write settings, catalog and templates to one JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, err := c.store().Snapshot()
			if err != nil {
				return err
			}
			if err := project.WriteBackup(args[0], backup); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printSuccess(out, "Backed up %d templates and %d materials", len(backup.Templates.Templates), len(backup.Catalog.Materials))
			printFile(out, args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Restore settings, catalog and templates from a backup file",
		Long:  `Replace the settings, catalog and templates in the home directory with the contents of a backup file.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, err := project.ReadBackup(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if backup.Version != project.BackupVersion {
				printWarning(out, "Backup version %s differs from %s", backup.Version, project.BackupVersion)
			}
			if err := c.store().Restore(backup); err != nil {
				printError(out, "Restore stopped")
				return err
			}
			printSuccess(out, "Restored backup from %s", backup.CreatedAt)
			return nil
		},
	})

	return cmd
}
