package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/wxbackup/wechat-export/internal"
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	hashStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups and their conversations",
	Long:  `List every WeChat account found under the backup root, with its conversations and message counts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
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

		for _, result := range results {
			fmt.Println(headerStyle.Render(fmt.Sprintf("Backup %d: %s", result.Ordinal, result.BackupDir)))
			fmt.Printf("  %s contact(s), %s group(s), %s conversation(s)\n\n",
				countStyle.Render(fmt.Sprintf("%d", len(result.Contacts))),
				countStyle.Render(fmt.Sprintf("%d", len(result.Groups))),
				countStyle.Render(fmt.Sprintf("%d", len(result.Conversations))))

			w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
			for _, conv := range result.Conversations {
				fmt.Fprintf(w, "  %s\t%s\t%s\n",
					titleStyle.Render(conv.Filename),
					countStyle.Render(fmt.Sprintf("%d msg", len(conv.Messages))),
					hashStyle.Render(conv.ChatKey))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Println()
		}

		if len(results) == 0 {
			internal.PrintInfo("No WeChat data found")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
