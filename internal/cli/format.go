package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jmylchreest/threecolours/internal/colour"
	"github.com/jmylchreest/threecolours/internal/config"
)

// parseFormat normalises an output format name.
func parseFormat(format string) (string, error) {
	f := strings.ToLower(format)
	if !slices.Contains(config.Formats, f) {
		quoted := make([]string, len(config.Formats))
		for i, name := range config.Formats {
			quoted[i] = fmt.Sprintf("%q", name)
		}
		return "", fmt.Errorf("The option -o must be one of %s, %q given", strings.Join(quoted, ", "), format)
	}
	return f, nil
}

// formatResult renders res in the given format. showPreview adds ANSI
// swatches of width cells to the human-readable formats.
func formatResult(res colour.Result, format string, showPreview bool, width int) (string, error) {
	switch format {
	case "json":
		jsonBytes, err := res.ToJSON()
		if err != nil {
			return "", fmt.Errorf("failed to convert to JSON: %w", err)
		}
		return string(jsonBytes) + "\n", nil
	case "xml":
		xmlBytes, err := res.ToXML()
		if err != nil {
			return "", fmt.Errorf("failed to convert to XML: %w", err)
		}
		return string(xmlBytes) + "\n", nil
	case "txt":
		return res.ToText() + "\n", nil
	case "hex":
		return formatLines(res, showPreview, width, colour.RGB.Hex), nil
	case "rgb":
		return formatLines(res, showPreview, width, colour.RGB.String), nil
	case "table":
		return formatTable(res, showPreview, width), nil
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: %s)", format, strings.Join(config.Formats, ", "))
	}
}

// formatLines writes one colour per line in role order.
func formatLines(res colour.Result, showPreview bool, width int, text func(colour.RGB) string) string {
	var sb strings.Builder
	for _, role := range colour.AllRoles() {
		c := res.Get(role)
		if showPreview {
			sb.WriteString(colour.ColourPreview(c, width))
			sb.WriteString("  ")
		}
		sb.WriteString(text(c))
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatTable(res colour.Result, showPreview bool, width int) string {
	headers := []string{"ROLE", "HEX", "RGB"}
	if showPreview {
		headers = append([]string{"SWATCH"}, headers...)
	}

	table := NewTable(headers)
	for _, role := range colour.AllRoles() {
		c := res.Get(role)
		row := []string{string(role), c.Hex(), c.String()}
		if showPreview {
			row = append([]string{colour.ColourPreview(c, width)}, row...)
		}
		table.AddRow(row)
	}
	return table.Render()
}
