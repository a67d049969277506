package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jtlq/internal/banner"
	"jtlq/internal/config"
	"jtlq/internal/csvsave"
	"jtlq/internal/logging"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "jtlq",
	Short: "jtlq - read, write and summarize delimited sample result files",
	Long: `
jtlq works with JMeter-style delimited results files (.jtl/.csv).

Files that start with a header line describe their own columns; files
without one are read with the save configuration from the config file
(saveservice.* keys) or JTLQ_* environment variables.

It can also generate results of its own by running load against a URL.`,
	SilenceUsage: true,
}

func Execute() {
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		fmt.Println(banner.GetString())
		cmd.Usage()
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.jtlq.yaml)")
	pf.String("log-level", "warn", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text or json")
	pf.StringP("delimiter", "d", csvsave.DefaultDelimiter, `delimiter of files without a header (\t for tab)`)
	pf.String("timestamp-format", "ms", `timestamp format: "ms" or a date pattern like "yyyy/MM/dd HH:mm:ss.SSS"`)
	pf.Bool("strict", false, "stop at the first line that fails to decode")

	viper.BindPFlag("log.level", pf.Lookup("log-level"))
	viper.BindPFlag("log.format", pf.Lookup("log-format"))
	viper.BindPFlag("saveservice.default_delimiter", pf.Lookup("delimiter"))
	viper.BindPFlag("saveservice.timestamp_format", pf.Lookup("timestamp-format"))
	viper.BindPFlag("saveservice.strict", pf.Lookup("strict"))

	rootCmd.AddCommand(headerCmd, inspectCmd, summaryCmd, convertCmd, viewCmd, historyCmd, runCmd, targetCmd)
}

func initConfig() {
	if err := config.Init(viper.GetViper(), cfgFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.Setup(viper.GetString("log.level"), viper.GetString("log.format"))
}

// saveConfig is the configuration for files without a header line.
func saveConfig() (*csvsave.SaveConfig, error) {
	p, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	return p.Save.SaveConfig()
}
