package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"github.com/xvierd/somatic/internal/domain"
)

// moodsCmd represents the moods command
var moodsCmd = &cobra.Command{
	Use:   "moods",
	Short: "List the moods a session can start from",
	Long:  `List the check-in moods with the visualization each one drives.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		moods := domain.Moods()

		if jsonOutput {
			var moodList []map[string]interface{}
			for _, m := range moods {
				moodList = append(moodList, map[string]interface{}{
					"id":          string(m.ID),
					"label":       m.Label,
					"name":        m.Name,
					"feeling":     m.Feeling,
					"description": m.Description,
					"variant":     string(m.Variant),
					"primary":     m.Primary,
					"secondary":   m.Secondary,
				})
			}
			data := map[string]interface{}{
				"moods": moodList,
				"count": len(moodList),
			}
			jsonData, err := json.MarshalIndent(data, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal moods: %w", err)
			}
			fmt.Fprintln(out, string(jsonData))
			return nil
		}

		width := 60
		if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 && w < width {
			width = w
		}

		fmt.Fprintf(out, "How does your body feel? (%d moods)\n\n", len(moods))
		for i, m := range moods {
			name := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.Primary)).Render(m.Label)
			fmt.Fprintf(out, "%d. %s %s  %s\n", i+1, m.Icon, name, m.Feeling)
			desc := lipgloss.NewStyle().Width(width - 3).Render(fmt.Sprintf("%s: %s", m.Name, m.Description))
			fmt.Fprintln(out, lipgloss.NewStyle().PaddingLeft(3).Render(desc))
			fmt.Fprintf(out, "   Visual: %s\n\n", m.Variant)
		}
		return nil
	},
}
