// Package cmd - devices command
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"photonic-sparam/core/types"
)

// devicesCmd lists the device catalog
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List supported device kinds and their parameters",
	Run: func(cmd *cobra.Command, args []string) {
		catalog := types.NewCatalog()
		border := strings.Repeat("─", 73)

		fmt.Println("┌" + border + "┐")
		fmt.Printf("│ %-71s │\n", "DEVICE CATALOG")
		for _, kind := range catalog.Kinds() {
			spec, ok := catalog.Get(kind)
			if !ok {
				continue
			}
			fmt.Println("├" + border + "┤")
			fmt.Printf("│ %-50s %20s │\n",
				truncate(fmt.Sprintf("%s (%s)", spec.Kind, spec.Description), 50),
				fmt.Sprintf("%d ports", spec.Ports))
			for _, p := range spec.Parameters {
				right := fmt.Sprintf("default %g %s", p.Default, p.Unit)
				if p.Required {
					right = fmt.Sprintf("required %s", p.Unit)
				}
				fmt.Printf("│   └─ %-45s %20s │\n",
					truncate(fmt.Sprintf("%s: %s", p.Name, p.Description), 45),
					right)
			}
		}
		fmt.Println("└" + border + "┘")
	},
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
