package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pi-arcade/internal/config"
)

var flagConfigForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the console configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration",
	Long: `Writes the default console configuration as JSON. Without a path the file
goes to --config, or ~/.arcade/config.json. An existing file is kept unless
--force is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long:  `Prints the configuration after defaults, the config file and flags are applied.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func init() {
	configInitCmd.Flags().BoolVarP(&flagConfigForce, "force", "f", false, "Overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(_ *cobra.Command, args []string) error {
	path := flagConfig
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		path = config.DefaultConsolePath()
	}

	if _, err := os.Stat(config.ExpandPath(path)); err == nil && !flagConfigForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := config.SaveConsole(path, config.DefaultConsole()); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, path, err := loadSettings()
	if err != nil {
		return err
	}
	data, err := config.MarshalConsole(cfg)
	if err != nil {
		return err
	}
	if path == "" {
		path = "built-in defaults"
	}
	fmt.Fprintf(os.Stderr, "# from %s\n", path)
	_, err = os.Stdout.Write(data)
	return err
}
