package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/sage/internal/config"
	"github.com/example/sage/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the sage database and config",
		Long:  `Initialize the sage database at ~/.sage/sage.db with the required schema and write a default .sage/config.json to the current directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, err := db.GetDBPath()
			if err != nil {
				return fmt.Errorf("failed to get database path: %w", err)
			}

			fmt.Printf("Initializing sage database at %s\n", dbPath)

			// Opening the connection creates the schema.
			if _, err := db.GetDB(); err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			fmt.Println("✓ Database initialized successfully")

			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			if _, err := config.LoadConfig(cwd); err == nil {
				fmt.Println("✓ Existing .sage/config.json kept")
			} else {
				if err := config.SaveConfig(cwd, config.Default()); err != nil {
					return fmt.Errorf("failed to write config: %w", err)
				}
				fmt.Println("✓ Default config written to .sage/config.json")
			}

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  sage event append --type task_complete --query \"...\" --response \"...\"")
			fmt.Println("  sage learn run")
			fmt.Println("  sage status")

			return nil
		},
	}
}
