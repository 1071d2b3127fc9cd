package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func newRootCommand() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:   "esbulk",
		Short: "Batch records into Elasticsearch bulk requests",
		Long: `esbulk buffers records from a stream or a Kafka topic and indexes them
into Elasticsearch with one bulk request per high-water mark.

Configuration is read from --config (yaml, toml or json) and ESBULK_*
environment variables, e.g. ESBULK_SINK_HIGH_WATER_MARK=500.`,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file")

	root.AddCommand(newStdinCommand(&cfgPath))
	root.AddCommand(newKafkaCommand(&cfgPath))

	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "esbulk:", err)
		os.Exit(1)
	}
}
