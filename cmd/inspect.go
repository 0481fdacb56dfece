package cmd

import (
	"fmt"
	"path"
	"sort"

	"github.com/spf13/cobra"
	"github.com/wxbackup/wechat-export/internal"
)

var (
	inspectManifest string
	inspectDomain   string
)

// inspectCmd dumps decoded manifest records, for poking at a backup whose
// databases do not turn up where expected.
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Dump decoded manifest records",
	Long: `Decode a backup manifest and print its records with their storage keys.

By default every manifest under the backup root is decoded; use --manifest
to inspect a single file and --domain to filter records.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		diag := internal.NewDiag(verbose)

		manifests := []string{inspectManifest}
		if inspectManifest == "" {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			manifests, err = internal.FindBackups(cfg.Root)
			if err != nil {
				return err
			}
		}

		for _, manifest := range manifests {
			records, err := internal.LoadManifest(manifest, diag)
			if err != nil {
				internal.PrintError(fmt.Sprintf("%s: %v", manifest, err))
				continue
			}

			keys := make([]string, 0, len(records))
			for key := range records {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			fmt.Printf("%s: %d record(s)\n", manifest, len(records))
			for _, key := range keys {
				rec := records[key]
				if inspectDomain != "" && rec.Domain != inspectDomain {
					continue
				}
				fmt.Printf("  %s  %s  %s\n", rec.StorageKey, rec.Domain, path.Clean(rec.RelativePath))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectManifest, "manifest", "", "Inspect a single manifest file")
	inspectCmd.Flags().StringVar(&inspectDomain, "domain", "", "Only show records in this domain")
}
