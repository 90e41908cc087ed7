package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/charlie0129/battnotify/pkg/config"
)

func NewConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the effective configuration, with defaults filled in for every
field missing from the config file. The file is created with the defaults if it
does not exist.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := config.NewFile(configPath)
			if err != nil {
				return err
			}

			b, err := yaml.Marshal(conf.Effective())
			if err != nil {
				return err
			}

			cmd.Printf("# %s\n", configPath)
			cmd.Print(string(b))
			return nil
		},
	}
}
