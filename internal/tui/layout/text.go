package layout

import "github.com/charmbracelet/x/ansi"

// resetStyle ends any style left open by a cut inside a styled run.
const resetStyle = "\x1b[0m"

// StripANSI removes escape sequences from s.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// VisibleLength returns the number of terminal cells s occupies. Escape
// sequences take none; wide runes take two.
func VisibleLength(s string) int {
	return ansi.StringWidth(s)
}

// TruncateText cuts text to maxWidth cells, ending in the ellipsis, and
// reports whether it cut. When the ellipsis alone does not fit, only a cut
// ellipsis is returned.
func TruncateText(text string, maxWidth int, cfg TextConfig) (string, bool) {
	if maxWidth <= 0 {
		return "", true
	}
	if ansi.StringWidth(text) <= maxWidth {
		return text, false
	}
	if ansi.StringWidth(cfg.Ellipsis) >= maxWidth {
		return ansi.Truncate(cfg.Ellipsis, maxWidth, ""), true
	}
	return ansi.Truncate(text, maxWidth, cfg.Ellipsis), true
}

// TruncateWithPrefixSuffix cuts the title part of a row while keeping its
// prefix (indent, expander) and suffix (folder slash, count).
// Example: TruncateWithPrefixSuffix("Development", 12, "▸ ", "/", cfg) -> "▸ Develo.../"
func TruncateWithPrefixSuffix(text string, maxWidth int, prefix, suffix string, cfg TextConfig) (string, bool) {
	if maxWidth <= 0 {
		return "", true
	}

	combined := prefix + text + suffix
	if ansi.StringWidth(combined) <= maxWidth {
		return combined, false
	}

	room := maxWidth - ansi.StringWidth(prefix) - ansi.StringWidth(suffix)
	if room <= ansi.StringWidth(cfg.Ellipsis) {
		// not even one title cell left, cut the whole row instead
		return TruncateText(combined, maxWidth, cfg)
	}
	return prefix + ansi.Truncate(text, room, cfg.Ellipsis) + suffix, true
}

// TruncateANSIAware cuts styled text such as highlighted search matches.
// Escape sequences are kept and a cut result ends with a style reset.
func TruncateANSIAware(styledText string, maxWidth int, cfg TextConfig) string {
	if maxWidth <= 0 {
		return ""
	}
	if ansi.StringWidth(styledText) <= maxWidth {
		return styledText
	}
	return ansi.Truncate(styledText, maxWidth, cfg.Ellipsis) + resetStyle
}
