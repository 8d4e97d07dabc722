package report

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// RenderMarkdown formats the report for human review.
func RenderMarkdown(r *Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Validation Report: Merged Waterway Graph\n")
	fmt.Fprintf(&b, "**Report ID**: %s\n", r.ID)
	fmt.Fprintf(&b, "**Generated at**: %s\n\n", r.GeneratedAt.Format(time.RFC3339))

	stats := r.Statistics
	fmt.Fprintf(&b, "## 1. Graph Statistics\n")
	fmt.Fprintf(&b, "- **Total Nodes**: %d\n", stats.TotalNodes)
	fmt.Fprintf(&b, "- **Total Edges**: %d\n", stats.TotalEdges)
	fmt.Fprintf(&b, "- **Unique Fairway Sections (Edges)**: %d\n", stats.UniqueFairwaySections)
	fmt.Fprintf(&b, "- **Connected Components**: %d\n", stats.ConnectedComponents)
	fmt.Fprintf(&b, "- **Largest Component**: %d nodes\n\n", stats.LargestComponentSize)

	fmt.Fprintf(&b, "### Composition\n| Source | Nodes | Edges |\n|--------|-------|-------|\n")
	for _, src := range unionKeys(stats.NodesBySource, stats.EdgesBySource) {
		fmt.Fprintf(&b, "| %s | %d | %d |\n", src, stats.NodesBySource[src], stats.EdgesBySource[src])
	}

	fmt.Fprintf(&b, "\n### Largest Subgraphs\n| Subgraph ID | Nodes | Edges |\n|-------------|-------|-------|\n")
	for _, sg := range stats.Subgraphs {
		fmt.Fprintf(&b, "| %d | %d | %d |\n", sg.SubgraphID, sg.Nodes, sg.Edges)
	}

	border := r.BorderIntegrity
	fmt.Fprintf(&b, "\n## 2. Border Integrity\n")
	fmt.Fprintf(&b, "- **Status**: %s\n", border.Status)
	fmt.Fprintf(&b, "- **Connections Found**: %d (Expected: %d)\n", border.TotalConnections, border.ExpectedConnections)
	fmt.Fprintf(&b, "- **Min Gap**: %.2f m\n", border.MinGapMeters)
	fmt.Fprintf(&b, "- **Max Gap**: %.2f m\n", border.MaxGapMeters)
	fmt.Fprintf(&b, "- **Avg Gap**: %.2f m\n\n", border.AvgGapMeters)

	fmt.Fprintf(&b, "### Connection List\n| Node | Node | Gap (m) |\n|------|------|---------|\n")
	for _, c := range border.Connections {
		fmt.Fprintf(&b, "| %s | %s | %.2f |\n", c.U, c.V, c.Gap)
	}

	fmt.Fprintf(&b, "\n## 3. Schema Compliance & Attribute Completeness\n")
	renderCompliance(&b, "Nodes", r.SchemaCompliance.Nodes, stats.TotalNodes)
	renderCompliance(&b, "Edges", r.SchemaCompliance.Edges, stats.TotalEdges)

	fmt.Fprintf(&b, "\n## 4. Critical Connections\n| Location | Status | Details |\n|----------|--------|---------|\n")
	for _, check := range r.CriticalConnections {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", check.Name, check.Status, check.Details)
	}

	fmt.Fprintf(&b, "\n## 5. Suggested Improvements\n")
	fmt.Fprintf(&b, "- **Attribute Cleanup**: Investigate attributes with high missing/null counts (>50%%) and decide whether they are required or can be dropped.\n")
	fmt.Fprintf(&b, "- **Graph Connectivity**: Check whether the smaller subgraphs are legitimately disconnected waterways or missing logical connections.\n")
	fmt.Fprintf(&b, "- **Legacy Attributes**: Map any flagged non-standard attributes to canonical names in the schema configuration.\n")

	return b.String()
}

func renderCompliance(b *strings.Builder, title string, c ElementCompliance, total int) {
	fmt.Fprintf(b, "\n### %s\n", title)
	if len(c.NonStandardKeys) > 0 {
		fmt.Fprintf(b, "**WARNING**: Found potential non-standard attributes:\n")
		for _, key := range c.NonStandardKeys {
			fmt.Fprintf(b, "- `%s`: %d occurrences\n", key, c.NonStandardCounts[key])
		}
	} else {
		fmt.Fprintf(b, "No legacy non-standard attributes found.\n")
	}

	fmt.Fprintf(b, "\n#### Expected Attributes & Completeness\n")
	fmt.Fprintf(b, "| Attribute | Missing/Null | Total |\n|-----------|--------------|-------|\n")
	for _, key := range c.ExpectedAttributes {
		missing := c.MissingCounts[key]
		pct := 0.0
		if total > 0 {
			pct = float64(missing) / float64(total) * 100
		}
		fmt.Fprintf(b, "| `%s` | %d (%.1f%%) | %d |\n", key, missing, pct, total)
	}
}

func unionKeys(maps ...map[string]int) []string {
	seen := make(map[string]struct{})
	for _, m := range maps {
		for k := range m {
			seen[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
