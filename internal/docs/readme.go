// Package docs renders the command reference into README.md.
package docs

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/keshon/botkit/internal/command"
)

// CommandSections renders one markdown section per root command, listing every
// runnable command under it with its usage.
func CommandSections(prefix string, roots []*command.Command) string {
	var buf bytes.Buffer
	for i, root := range roots {
		if i > 0 {
			buf.WriteString("\n")
		}
		fmt.Fprintf(&buf, "### %s\n\n", heading(root))
		if d := root.Description(); d != "" {
			fmt.Fprintf(&buf, "%s\n\n", d)
		}
		walk(root, func(c *command.Command) {
			fmt.Fprintf(&buf, "- **`%s%s`**", prefix, c.Usage())
			if c != root && c.Description() != "" {
				fmt.Fprintf(&buf, ": %s", c.Description())
			}
			buf.WriteString("\n")
		})
	}
	return buf.String()
}

func heading(c *command.Command) string {
	title := c.Title()
	if title == "" {
		title = c.Name()
	}
	return strings.TrimSpace(c.Emoji() + " " + title)
}

// walk calls fn for c and every descendant that has a handler, depth first.
func walk(c *command.Command, fn func(*command.Command)) {
	if !c.IsRouter() {
		fn(c)
	}
	for _, sub := range c.Subcommands() {
		walk(sub, fn)
	}
}

// UpdateReadme executes the template at tmplPath with the command sections
// and writes the result to outPath.
func UpdateReadme(tmplPath, outPath, prefix string, roots []*command.Command) error {
	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		return err
	}

	data := struct {
		Prefix          string
		CommandSections string
	}{
		Prefix:          prefix,
		CommandSections: CommandSections(prefix, roots),
	}

	var out bytes.Buffer
	if err := tmpl.Execute(&out, data); err != nil {
		return fmt.Errorf("render %s: %w", tmplPath, err)
	}
	return os.WriteFile(outPath, out.Bytes(), 0o644)
}
