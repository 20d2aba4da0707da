// Command anonymize runs the k-anonymity and differential privacy engines
// over enterprise records read from a JSON file or a MySQL table.
//
// Usage examples:
//
//	anonymize kanon --input=data.json --qi=revenue_2023,headquarters --k=5
//	anonymize query --input=data.json --type=sum --field=revenue_2023 --epsilon=0.5
//	anonymize budget --epsilon=0.5 --queries=12
//
// Database settings come from the config file or from ANONYMIZE_DB_DSN,
// ANONYMIZE_DB_TABLE and ANONYMIZE_DB_LIMIT, which may be set in a .env file.
package main

import (
	"flag"
	"os"

	log "github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type globalFlags struct {
	configPath string
	envFile    string
	input      string
	output     string
	seed       int64
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "anonymize",
		Short:         "Anonymize enterprise records with k-anonymity and differential privacy",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			// glog reads its flags from the standard flag set, which cobra has
			// already filled in.
			flag.CommandLine.Parse(nil)
		},
	}
	addGlobalFlags(root.PersistentFlags(), g)
	root.AddCommand(
		newKAnonCmd(g),
		newValidateCmd(g),
		newPrivatizeCmd(g),
		newQueryCmd(g),
		newBudgetCmd(g),
		newMaskCmd(g),
	)
	return root
}

func addGlobalFlags(fs *pflag.FlagSet, g *globalFlags) {
	fs.StringVar(&g.configPath, "config", "", "YAML or JSON configuration file. Defaults apply when empty.")
	fs.StringVar(&g.envFile, "env_file", ".env", "dotenv file with database settings.")
	fs.StringVar(&g.input, "input", "", "JSON file with an array of records. Records are read from the configured database when empty.")
	fs.StringVar(&g.output, "output", "", "Output file. Standard output when empty.")
	fs.Int64Var(&g.seed, "seed", 0, "Seed of the noise source. A crypto-seeded source is used when 0.")
	fs.AddGoFlagSet(flag.CommandLine)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Exitf("anonymize: %v", err)
	}
	log.Flush()
	os.Exit(0)
}
