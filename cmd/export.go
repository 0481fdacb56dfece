package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wxbackup/wechat-export/internal"
	"github.com/wxbackup/wechat-export/internal/export"
)

var (
	format    string
	outputDir string
	compress  bool
	bom       bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export chat history to files",
	Long: `Export chat history, contacts and group rosters to CSV or JSONL.

Each backup gets a numbered directory under the output directory holding
one file per conversation, a Contacts/contacts file, and one file per
group under Groups/.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("out") || cfg.Dest == "" {
			cfg.Dest = outputDir
		}
		if cmd.Flags().Changed("compress") {
			cfg.Compress = compress
		}
		if cmd.Flags().Changed("bom") {
			cfg.BOM = bom
		}

		diag, err := internal.NewDiagFile(cfg.LogFile, verbose)
		if err != nil {
			return err
		}
		extractor := internal.NewExtractor(diag)
		results, err := extractor.Run(cfg.Root)
		if err != nil {
			return fmt.Errorf("extraction failed: %w", err)
		}

		exporter, err := export.NewExporter(format, cfg.BOM)
		if err != nil {
			return err
		}
		writer := &export.FileWriter{Dir: cfg.Dest, Compress: cfg.Compress, Exporter: exporter}

		written := 0
		for _, result := range results {
			for _, table := range export.Tables(result) {
				path, err := writer.Write(table)
				if err != nil {
					diag.Errorf("failed to export %s: %v", table.Name, err)
					continue
				}
				diag.Debugf("wrote %s", path)
				written++
			}
		}

		if anomalies := diag.Anomalies(); len(anomalies) > 0 {
			diag.Infof("%d anomaly(ies) recorded during extraction", len(anomalies))
		}
		internal.PrintSuccess(fmt.Sprintf("Export complete: %d file(s) written to %s", written, cfg.Dest))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "csv", "Export format (csv, jsonl)")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", "./exports", "Output directory")
	exportCmd.Flags().BoolVar(&compress, "compress", false, "Gzip-compress output files")
	exportCmd.Flags().BoolVar(&bom, "bom", false, "Prefix CSV files with a UTF-8 BOM")
}
