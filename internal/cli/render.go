package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xela07ax/complitic/internal/domain"
	"github.com/xela07ax/complitic/internal/render"
	"github.com/xela07ax/complitic/internal/templates"
	"gopkg.in/yaml.v3"
)

func newRenderCmd(catalog *templates.Store) *cobra.Command {
	var (
		set        []string
		valuesFile string
		format     string
		output     string
		strict     bool
	)

	cmd := &cobra.Command{
		Use:   "render <slug>",
		Short: "Render a template with field values",
		Long: "Render a template. Values come from --values (a YAML map) and --set key=value;\n" +
			"--set wins on conflicts. Placeholders without a value stay in the output as {{name}}.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ok := catalog.Get(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, args[0])
			}
			docFormat, err := domain.ParseFormat(format)
			if err != nil {
				return err
			}

			values := domain.FieldValues{}
			if valuesFile != "" {
				if values, err = readValuesFile(valuesFile); err != nil {
					return err
				}
			}
			for _, kv := range set {
				key, value, ok := strings.Cut(kv, "=")
				if !ok || strings.TrimSpace(key) == "" {
					return fmt.Errorf("invalid --set %q: expected key=value", kv)
				}
				values[strings.TrimSpace(key)] = value
			}

			if missing := render.MissingFields(t, values); len(missing) > 0 {
				if strict {
					return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
				}
				writeLine(cmd.ErrOrStderr(), "warning: missing required fields: %s", strings.Join(missing, ", "))
			}

			var content string
			if docFormat == domain.FormatHTML {
				if content, err = render.RenderHTML(t.Content, values); err != nil {
					return err
				}
			} else {
				content = render.Render(t.Content, values)
			}

			if output == "" || output == "-" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			}
			if err := os.WriteFile(output, []byte(content), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			writeLine(cmd.ErrOrStderr(), "wrote %s", output)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&set, "set", nil, "field value as key=value (repeatable)")
	cmd.Flags().StringVar(&valuesFile, "values", "", "YAML file with field values")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or html")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when required fields are missing")
	return cmd
}

func readValuesFile(path string) (domain.FieldValues, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	values := domain.FieldValues{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse values %s: %w", path, err)
	}
	// файл из одного null обнуляет карту
	if values == nil {
		values = domain.FieldValues{}
	}
	return values, nil
}
