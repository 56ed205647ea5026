package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/cmmoran/rdcgen/pkg/action/generate"
)

func init() {
	rootCmd.AddCommand(NewGenerateCommand())
}

func NewGenerateCommand() *cobra.Command {
	var watch bool

	// generateCmd represents the rdcgen generate command
	var generateCmd = &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "generate target sources",
		Long:    "Generate Java or Go sources for the root types of a Go package tree",
		PreRunE: bindOptionFlags,
		RunE: func(c *cobra.Command, args []string) error {
			opts := loadOptions()
			fs := afero.NewOsFs()
			if watch {
				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
				defer stop()
				return generate.Watch(ctx, fs, opts, generate.DefaultDebounce)
			}

			paths, err := generate.Generate(fs, opts)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(c.OutOrStdout(), p)
			}
			return nil
		},
	}
	addOptionFlags(generateCmd)
	generateCmd.Flags().BoolVarP(&watch, "watch", "w", false, "regenerate whenever a .go file in the input directory changes")

	return generateCmd
}
