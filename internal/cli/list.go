package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/archdiagram/pkg/blueprint"
	"github.com/matzehuels/archdiagram/pkg/catalog"
)

// listCommand prints the registered blueprints.
func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List built-in blueprints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bps := blueprint.All()

			width := 0
			for _, bp := range bps {
				width = max(width, len(bp.Name))
			}

			printTitle(c.Out, "Blueprints")
			for _, bp := range bps {
				desc := bp.Title
				if bp.Description != "" {
					desc += " - " + bp.Description
				}
				printKeyValue(c.Out, width, bp.Name, desc)
			}
			if len(bps) > 0 {
				printNextStep(c.Out, "Generate one", appName+" generate "+bps[0].Name)
			}
			return nil
		},
	}
}

// categoriesCommand prints the icon categories nodes may use.
func (c *CLI) categoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List icon categories accepted for nodes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			icons := catalog.All()

			width := 0
			for _, icon := range icons {
				width = max(width, len(icon.Category))
			}

			group := ""
			for _, icon := range icons {
				if g := icon.Category.Group(); g != group {
					group = g
					printTitle(c.Out, group)
				}
				printKeyValue(c.Out, width, string(icon.Category), icon.Caption)
			}
			printDetail(c.Out, "%d categories", len(icons))
			return nil
		},
	}
}
