package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cmmoran/rdcgen/pkg/options"
)

// optionKeys maps generation flags to their config keys.
var optionKeys = map[string]string{
	"input-directory":  "generate.in_dir",
	"output-directory": "generate.out_dir",
	"target":           "generate.target",
	"package":          "generate.package",
	"type":             "generate.types",
	"manifest":         "generate.manifest",
}

// addOptionFlags declares the generation flags on c. Their viper bindings
// are made by bindOptionFlags once c is the command being run, since several
// commands share the same keys.
func addOptionFlags(c *cobra.Command) {
	defaults := options.NewOptions()
	f := c.Flags()
	f.StringP("input-directory", "i", defaults.InDir, "directory of the Go package tree to read")
	f.StringP("output-directory", "o", defaults.OutDir, "directory generated sources are written under")
	f.StringP("target", "t", defaults.Target, "target language ("+strings.Join(options.Targets, ", ")+")")
	f.StringP("package", "p", "", "Java package or Go package name of the generated code")
	f.StringSlice("type", nil, "root type expression, e.g. Shape or Page[int32]; repeatable; default is every root type of the input directory")
	f.String("manifest", "", "snapshot manifest file (default <output-directory>/manifest.yaml)")
}

func bindOptionFlags(c *cobra.Command, _ []string) error {
	var err error
	c.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := optionKeys[f.Name]; ok && err == nil {
			err = viper.BindPFlag(key, f)
		}
	})
	return err
}

// loadOptions reads the generation options from flags, config and env,
// flags winning.
func loadOptions() *options.Options {
	return &options.Options{
		InDir:    viper.GetString("generate.in_dir"),
		OutDir:   viper.GetString("generate.out_dir"),
		Target:   viper.GetString("generate.target"),
		Package:  viper.GetString("generate.package"),
		Types:    viper.GetStringSlice("generate.types"),
		Manifest: viper.GetString("generate.manifest"),
	}
}
