package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bebetterst/lightAIchat/llm"
)

func newProvidersCommand(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List supported providers and their defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.open(cmd.ErrOrStderr()); err != nil {
				return err
			}
			descs := a.service.Registry().Descriptors()
			out := cmd.OutOrStdout()

			switch strings.ToLower(output) {
			case "yaml", "yml":
				b, err := yaml.Marshal(descs)
				if err != nil {
					return err
				}
				_, err = out.Write(b)
				return err
			case "json":
				b, err := json.MarshalIndent(descs, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(b))
				return err
			case "", "table":
				fmt.Fprintln(out, providerTable(descs))
				return nil
			default:
				return fmt.Errorf("unknown output format %q (want table, json or yaml)", output)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format (table, json, yaml)")
	return cmd
}

func providerTable(descs []llm.Descriptor) string {
	table := uitable.New()
	table.MaxColWidth = 60
	table.Wrap = true
	table.AddRow("ID", "NAME", "DEFAULT MODEL", "MODELS", "STREAM", "REASONING", "ENDPOINT")
	for _, d := range descs {
		endpoint := d.DefaultEndpoint
		if endpoint == "" {
			endpoint = "-"
		}
		models := strings.Join(d.Models, ", ")
		if models == "" {
			models = "-"
		}
		table.AddRow(d.ID, d.Name, d.DefaultModel, models, yesNo(d.SupportsStreaming), yesNo(d.SupportsReasoningSplit), endpoint)
	}
	return table.String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
