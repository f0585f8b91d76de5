package zsh

import (
	"bufio"
	"io"
	"strings"
)

// ScrapePlugins extracts the bare identifiers between a plugins=(
// declaration's opening and closing markers. This is a textual scrape
// kept for checkouts that have not moved their plugin list into
// dotstrap.toml; it tolerates both single-line and multi-line arrays
// and ignores comments.
func ScrapePlugins(r io.Reader) []string {
	var plugins []string
	inBlock := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		if !inBlock {
			idx := strings.Index(line, "plugins=(")
			if idx < 0 {
				continue
			}
			// Never match commented-out declarations.
			if hash := strings.Index(line, "#"); hash >= 0 && hash < idx {
				continue
			}
			line = line[idx+len("plugins=("):]
			inBlock = true
		}

		if hash := strings.Index(line, "#"); hash >= 0 {
			line = line[:hash]
		}

		closed := false
		if end := strings.Index(line, ")"); end >= 0 {
			line = line[:end]
			closed = true
		}

		plugins = append(plugins, strings.Fields(line)...)

		if closed {
			break
		}
	}
	return plugins
}
