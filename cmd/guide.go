package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	glamour "github.com/charmbracelet/glamour"
	guide "github.com/paintmcp/paintd/internal/guide"
	cobra "github.com/spf13/cobra"
)

var guideCmd = &cobra.Command{
	Use:   "guide [command]",
	Short: "Show the operation guide",
	Long: `Show the operation guide: capabilities, coordinate system, color
format, error codes and workflow recipes. With a command name, show
that command's topic and a canonical example request.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plain, _ := cmd.Flags().GetBool("plain")

		if len(args) == 1 {
			return showGuideTopic(args[0], plain)
		}
		return showGuideOverview(plain)
	},
}

func init() {
	rootCmd.AddCommand(guideCmd)

	guideCmd.Flags().Bool("plain", false, "print raw markdown without terminal rendering")
}

func showGuideOverview(plain bool) error {
	printMarkdown(guide.Overview(), plain)
	return nil
}

func showGuideTopic(name string, plain bool) error {
	topic, ok := guide.For(name)
	if !ok {
		return fmt.Errorf("unknown command: %s (run 'paintd guide' for the full list)", name)
	}

	var md strings.Builder
	md.WriteString(fmt.Sprintf("# %s\n\n", topic.Command))
	md.WriteString(topic.Summary + "\n\n")
	md.WriteString(topic.Body + "\n")

	if len(topic.Example) > 0 {
		var pretty bytes.Buffer
		example := string(topic.Example)
		if err := json.Indent(&pretty, topic.Example, "", "  "); err == nil {
			example = pretty.String()
		}
		md.WriteString("\nExample request:\n\n")
		md.WriteString("```json\n" + example + "\n```\n")
	}

	printMarkdown(md.String(), plain)
	return nil
}

// printMarkdown renders markdown for the terminal, falling back to the
// raw text when rendering fails
func printMarkdown(markdown string, plain bool) {
	if plain {
		fmt.Print(markdown)
		return
	}

	rendered, err := renderMarkdown(markdown)
	if err != nil {
		fmt.Print(markdown)
		return
	}
	fmt.Print(rendered)
}

func renderMarkdown(markdown string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(0),
	)
	if err != nil {
		return "", err
	}

	return r.Render(markdown)
}
