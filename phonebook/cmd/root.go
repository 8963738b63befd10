/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package cmd

import (
	goflag "flag"
	"fmt"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hypermodeinc/phonebook/phonebook/cmd/graphql"
	"github.com/hypermodeinc/phonebook/phonebook/cmd/version"
	"github.com/hypermodeinc/phonebook/x"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "phonebook",
	Short: "Phonebook: a GraphQL phonebook",
	Long: `
Phonebook serves a small directory of people over GraphQL.  People are kept in
memory; allPeople is read from an external people directory.
` + x.BuildDetails(),
	PersistentPreRunE: cobra.NoArgs,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// https://github.com/kubernetes/kubernetes/issues/17162#issuecomment-225596212
	x.Check(goflag.CommandLine.Parse([]string{}))

	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

var rootConf = viper.New()

// subcommands initially contains all default sub-commands.
var subcommands = []*x.SubCommand{
	&graphql.GraphQL, &version.Version,
}

func initCmds() {
	RootCmd.PersistentFlags().String("config", "",
		"Configuration file. Takes precedence over default values, but is "+
			"overridden to values set with environment variables and flags.")
	RootCmd.PersistentFlags().Bool("bindall", true,
		"Use 0.0.0.0 instead of localhost to bind to all addresses on local machine.")
	x.Check(rootConf.BindPFlags(RootCmd.PersistentFlags()))

	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)
	// Always set stderrthreshold=0. Don't let users set it themselves.
	x.Check(flag.Set("stderrthreshold", "0"))
	x.Check(flag.CommandLine.MarkDeprecated("stderrthreshold",
		"Phonebook always sets this flag to 0. It can't be overwritten."))

	for _, sc := range subcommands {
		RootCmd.AddCommand(sc.Cmd)
		sc.Conf = viper.New()
		x.Checkf(sc.Conf.BindPFlags(sc.Cmd.Flags()), "binding flags of %s", sc.Cmd.Name())
		x.Check(sc.Conf.BindPFlags(RootCmd.PersistentFlags()))
		sc.Conf.AutomaticEnv()
		sc.Conf.SetEnvPrefix(sc.EnvPrefix)
		// Options that contain a "." or "-" should be set with "_" in the
		// environment, e.g. PHONEBOOK_GRAPHQL_...
		sc.Conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	}
	// For bash shell completion
	RootCmd.AddCommand(shellCompletionCmd())

	cobra.OnInitialize(func() {
		// When run inside docker, the working directory is not always the
		// directory holding the config, so the file is read explicitly.
		cfg := rootConf.GetString("config")
		if cfg == "" {
			return
		}
		for _, sc := range subcommands {
			sc.Conf.SetConfigFile(cfg)
			x.Check(x.Wrapf(sc.Conf.ReadInConfig(), "reading config"))
		}
		glog.V(2).Infof("Read configuration from %s", cfg)
	})
}

func shellCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "completion",
		Short:       "Generates shell completion scripts for bash or zsh",
		Annotations: map[string]string{"group": "tool"},
	}
	cmd.SetHelpTemplate(x.NonRootTemplate)

	// bash subcommand
	cmd.AddCommand(&cobra.Command{
		Use:   "bash",
		Short: "bash shell completion",
		Long: `To load bash completion run:
. <(phonebook completion bash)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RootCmd.GenBashCompletion(os.Stdout)
		},
	})

	// zsh subcommand
	cmd.AddCommand(&cobra.Command{
		Use:   "zsh",
		Short: "zsh shell completion",
		Long: `To generate zsh completion run:
phonebook completion zsh > _phonebook`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RootCmd.GenZshCompletion(os.Stdout)
		},
	})

	return cmd
}

func init() {
	initCmds()
}
