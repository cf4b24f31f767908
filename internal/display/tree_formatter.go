package display

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TreeFormatter formats item trees for display
type TreeFormatter struct {
	options FormatterOptions
}

// FormatterOptions controls tree formatting
type FormatterOptions struct {
	Format   string // "text", "json", "compact"
	ShowIDs  bool   // Append identifiers
	MaxDepth int    // Maximum depth to display
	Indent   string // Indentation string
}

// NewTreeFormatter creates a new tree formatter
func NewTreeFormatter(options FormatterOptions) *TreeFormatter {
	if options.Indent == "" {
		options.Indent = "  "
	}
	return &TreeFormatter{options: options}
}

// Format formats a tree for display
func (tf *TreeFormatter) Format(t *Tree) string {
	if t == nil {
		return "No tree data available"
	}

	switch tf.options.Format {
	case "json":
		return tf.formatJSON(t)
	case "compact":
		return tf.formatCompact(t)
	default:
		return tf.formatText(t)
	}
}

// formatText formats tree as ASCII art
func (tf *TreeFormatter) formatText(t *Tree) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Tree for '%s'\n", t.Title))
	sb.WriteString(fmt.Sprintf("Total nodes: %d, Max depth: %d\n", t.TotalNodes, t.MaxDepth))
	sb.WriteString("\n")

	root := &Node{Title: t.Title, Children: t.Nodes}
	if last, ok := t.Path.Last(); ok {
		root.ID = last.ID
	}
	tf.formatNode(&sb, root, "", true, true)

	return sb.String()
}

// FormatNodes renders nodes under a titled root without the summary
// header, for listings
func (tf *TreeFormatter) FormatNodes(title string, nodes []*Node) string {
	var sb strings.Builder
	tf.formatNode(&sb, &Node{Title: title, Children: nodes}, "", true, true)
	return sb.String()
}

// formatNode recursively formats a tree node
func (tf *TreeFormatter) formatNode(sb *strings.Builder, node *Node, prefix string, isLast bool, isRoot bool) {
	if tf.options.MaxDepth > 0 && node.Depth > tf.options.MaxDepth {
		return
	}

	var branch string
	if isRoot {
		branch = "→ "
	} else if isLast {
		branch = "└─→ "
	} else {
		branch = "├─→ "
	}

	sb.WriteString(prefix)
	sb.WriteString(branch)
	sb.WriteString(node.Title)
	if node.Subtitle != "" && node.Subtitle != node.Title {
		sb.WriteString(fmt.Sprintf(" (%s)", node.Subtitle))
	}
	if tf.options.ShowIDs && node.ID != "" {
		sb.WriteString(fmt.Sprintf(" [%s]", node.ID))
	}
	sb.WriteString("\n")

	var childPrefix string
	if isRoot || isLast {
		childPrefix = prefix + tf.options.Indent
	} else {
		childPrefix = prefix + "│" + tf.options.Indent[1:]
	}

	for i, child := range node.Children {
		tf.formatNode(sb, child, childPrefix, i == len(node.Children)-1, false)
	}
}

// formatCompact follows the first child at every level on one line
func (tf *TreeFormatter) formatCompact(t *Tree) string {
	parts := []string{t.Title}
	nodes := t.Nodes
	for len(nodes) > 0 {
		parts = append(parts, nodes[0].Title)
		if len(nodes) > 1 {
			parts = append(parts, fmt.Sprintf("(+%d more)", len(nodes)-1))
		}
		if tf.options.MaxDepth > 0 && nodes[0].Depth >= tf.options.MaxDepth {
			break
		}
		nodes = nodes[0].Children
	}
	return strings.Join(parts, " → ")
}

// formatJSON formats tree as indented JSON
func (tf *TreeFormatter) formatJSON(t *Tree) string {
	data, err := json.MarshalIndent(t, "", tf.options.Indent)
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(data)
}
