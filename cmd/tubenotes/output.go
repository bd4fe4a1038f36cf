package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// printResult writes v in the format selected by --output. rows renders the
// table form; when it is nil tables fall back to YAML.
func printResult(cmd *cobra.Command, v interface{}, rows func() [][]string) error {
	format, _ := cmd.Flags().GetString("output")
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		return printYAML(v)
	case "table", "":
		if rows == nil {
			return printYAML(v)
		}
		data := rows()
		if len(data) <= 1 {
			pterm.Info.Println("No results")
			return nil
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func printYAML(v interface{}) error {
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
