package fingerprint

import (
	"fmt"
	"strings"
)

// FormatComparison formats a fingerprint comparison for CLI output.
func FormatComparison(c *Comparison) string {
	if c == nil {
		return "No fingerprint comparison available."
	}
	if c.Match {
		return fmt.Sprintf("Validators match the lock file\n\n  Root hash:  %s\n", truncateHash(c.ExpectedRoot))
	}

	var b strings.Builder
	b.WriteString("Validator drift detected\n\n")
	fmt.Fprintf(&b, "  Locked root:  %s\n", truncateHash(c.ExpectedRoot))
	fmt.Fprintf(&b, "  Current root: %s\n\n", truncateHash(c.ActualRoot))

	if len(c.Missing) > 0 {
		b.WriteString("  Entities removed since the lock was written:\n")
		for _, name := range c.Missing {
			fmt.Fprintf(&b, "    - %s\n", name)
		}
		b.WriteString("\n")
	}
	if len(c.Extra) > 0 {
		b.WriteString("  Entities added since the lock was written:\n")
		for _, name := range c.Extra {
			fmt.Fprintf(&b, "    + %s\n", name)
		}
		b.WriteString("\n")
	}
	if len(c.Diffs) > 0 {
		b.WriteString("  Modified entities:\n")
		for _, name := range c.DiffNames() {
			fmt.Fprintf(&b, "\n    %s:\n", name)
			formatEntityDiff(&b, c.Diffs[name], "      ")
		}
	}

	b.WriteString("\nFix:\n")
	b.WriteString("  Review the changes, then refresh the lock file:\n")
	b.WriteString("    sqlzod lock\n")
	return b.String()
}

func formatEntityDiff(b *strings.Builder, diff *EntityDiff, indent string) {
	for _, key := range diff.Missing {
		fmt.Fprintf(b, "%s- %s\n", indent, key)
	}
	for _, key := range diff.Extra {
		fmt.Fprintf(b, "%s+ %s\n", indent, key)
	}
	for _, key := range diff.Modified {
		fmt.Fprintf(b, "%s~ %s\n", indent, key)
	}
}

// FormatQuickStatus formats a one-line fingerprint status.
func FormatQuickStatus(match bool, expectedRoot, actualRoot string) string {
	if match {
		return fmt.Sprintf("OK  %s", truncateHash(expectedRoot))
	}
	return fmt.Sprintf("DRIFT  locked: %s  current: %s",
		truncateHash(expectedRoot), truncateHash(actualRoot))
}

// truncateHash returns the first 12 characters of a hash for display.
func truncateHash(hash string) string {
	if len(hash) <= 12 {
		return hash
	}
	return hash[:12]
}
