package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapbench/internal/cli/output"
	"github.com/leapstack-labs/leapbench/internal/layout"
)

// NewLayoutCommand creates the layout command.
func NewLayoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Inspect and validate workbench layouts",
		Long: `Inspect and validate workbench layouts.

A layout is a tree of rows, columns and tab sets. Each tab names one of the
components sql, results, import or stats. Set layout_file in leapbench.yaml
(or pass --layout) to use your own.`,
	}

	cmd.AddCommand(newLayoutPrintCommand())
	cmd.AddCommand(newLayoutValidateCommand())
	cmd.AddCommand(newLayoutArrangeCommand())
	return cmd
}

// effectiveLayout returns the configured layout or the default one.
func effectiveLayout() (layout.Model, error) {
	m, err := loadLayout(getConfig())
	if err != nil {
		return layout.Model{}, err
	}
	if m == nil {
		return layout.Default(), nil
	}
	return *m, nil
}

func newLayoutPrintCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "print",
		Short: "Print the layout in use",
		Example: `  # Start a custom layout from the default one
  leapbench layout print > layout.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := effectiveLayout()
			if err != nil {
				return err
			}
			r := NewCommandContextWithoutEngine(cmd).Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(m)
			}
			data, err := yaml.Marshal(m)
			if err != nil {
				return fmt.Errorf("failed to encode layout: %w", err)
			}
			_, err = r.Writer().Write(data)
			return err
		},
	}
}

func newLayoutValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file> [file...]",
		Short: "Check layout files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := NewCommandContextWithoutEngine(cmd).Renderer
			invalid := 0
			for _, path := range args {
				m, err := layout.LoadFile(path)
				if err != nil {
					invalid++
					r.StatusLine(path, "failure", err.Error())
					continue
				}
				r.StatusLine(path, "success", fmt.Sprintf("%d components", len(m.Components())))
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d layouts are invalid", invalid, len(args))
			}
			return nil
		},
	}
}

func newLayoutArrangeCommand() *cobra.Command {
	var width, height int

	cmd := &cobra.Command{
		Use:   "arrange",
		Short: "Show where each panel lands in a viewport",
		Example: `  leapbench layout arrange --width 1280 --height 800`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := effectiveLayout()
			if err != nil {
				return err
			}
			r := NewCommandContextWithoutEngine(cmd).Renderer
			placements := layout.Arrange(m, layout.Rect{W: width, H: height})
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(placements)
			}
			return r.RenderTable(placementsTable(placements))
		},
	}

	cmd.Flags().IntVar(&width, "width", 120, "Viewport width")
	cmd.Flags().IntVar(&height, "height", 40, "Viewport height")
	return cmd
}

func placementsTable(placements []layout.Placement) output.Table {
	t := output.Table{
		Header:     []string{"tab", "component", "tabset", "active", "x", "y", "w", "h"},
		RightAlign: []bool{false, false, true, false, true, true, true, true},
		Rows:       make([][]string, len(placements)),
	}
	for i, p := range placements {
		t.Rows[i] = []string{
			p.Name,
			p.Component,
			strconv.Itoa(p.TabSet),
			strconv.FormatBool(p.Active),
			strconv.Itoa(p.Rect.X),
			strconv.Itoa(p.Rect.Y),
			strconv.Itoa(p.Rect.W),
			strconv.Itoa(p.Rect.H),
		}
	}
	return t
}
