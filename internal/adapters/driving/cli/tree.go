package cli

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/parasol/internal/adapters/driving/tui"
	"github.com/custodia-labs/parasol/internal/core/domain"
)

var (
	treeJSON        bool
	treeInteractive bool
)

var treeCmd = &cobra.Command{
	Use:   "tree [service-id]",
	Short: "Show the published tree of a service",
	Long: `Renders the records of a service, as written by 'parasol publish', as a
tree of categories, capabilities, operations and use cases.

Without a service id the published services are listed. Use --interactive
to browse the tree in the terminal UI.

Controls (interactive):
  ↑/k, ↓/j - Move
  →/l, ←/h - Expand / collapse
  Enter    - Open file
  Esc      - Back
  ?        - Toggle help
  q        - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTree,
}

func init() {
	treeCmd.Flags().BoolVar(&treeJSON, "json", false, "output the tree as JSON")
	treeCmd.Flags().BoolVarP(&treeInteractive, "interactive", "i", false, "browse in the terminal UI")
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	s, err := loadConfiguredServices()
	if err != nil {
		return err
	}

	serviceID := ""
	if len(args) > 0 {
		serviceID = args[0]
	}

	if treeInteractive {
		return runTreeBrowser(cmd, s, serviceID)
	}

	if serviceID == "" {
		return listServices(cmd, s)
	}

	root, err := s.Tree.Tree(commandContext(cmd), serviceID)
	if err != nil {
		return fmt.Errorf("failed to build tree: %w", err)
	}

	if treeJSON {
		return writeJSON(cmd.OutOrStdout(), root)
	}

	p := paletteFor(cmd.OutOrStdout())
	root.Walk(func(n *domain.TreeNode, depth int) bool {
		label := n.Label
		if pattern := n.Metadata["pattern"]; pattern != "" {
			label += " " + p.Muted.Render("["+pattern+"]")
		}
		if n.Type == domain.NodeService {
			label = p.Title.Render(label)
		}
		cmd.Printf("%s%s\n", strings.Repeat("  ", depth), label)
		return true
	})
	return nil
}

func listServices(cmd *cobra.Command, s *Services) error {
	rows, err := s.Tree.Services(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list services: %w", err)
	}

	if treeJSON {
		return writeJSON(cmd.OutOrStdout(), rows)
	}
	if len(rows) == 0 {
		cmd.Println("No services published. Run 'parasol publish' first.")
		return nil
	}

	p := paletteFor(cmd.OutOrStdout())
	printTitle(cmd, p, fmt.Sprintf("Services (%d)", len(rows)))
	for _, row := range rows {
		name := row.DisplayName
		if name == "" {
			name = row.Name
		}
		cmd.Printf("  %s  %s\n", p.Label.Render(row.ID), name)
	}
	return nil
}

func runTreeBrowser(cmd *cobra.Command, s *Services, serviceID string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, err := tui.NewApp(tui.NewPorts(s.Tree))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(commandContext(cmd)).WithService(serviceID)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(commandContext(cmd)))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
