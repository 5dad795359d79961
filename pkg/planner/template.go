package planner

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// placeholderPattern covers {word} and {word:03d}-style width specifiers.
var placeholderPattern = regexp.MustCompile(`\{([a-z]+)(?::(0?)(\d+)d)?\}`)

// templateVars carries the values available to a format template for one
// matched file.
type templateVars struct {
	name  string // full original file name, extension included
	stem  string // file name without extension
	ext   string // extension with leading dot, possibly empty
	index int    // 1-based position in MatchSet order
	now   time.Time
}

// expandTemplate substitutes the recognized placeholders. Unknown tokens
// are left as literal text rather than failing, so a plan can never be
// rejected over a template typo (the typo shows up verbatim in the target).
func expandTemplate(template string, vars templateVars) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		groups := placeholderPattern.FindStringSubmatch(match)
		name, zeroPad, width := groups[1], groups[2], groups[3]

		if name == "index" {
			return padIndex(vars.index, zeroPad == "0", width)
		}
		if width != "" {
			// Width specifiers only apply to {index}; anything else is
			// an unknown token.
			return match
		}

		switch name {
		case "name":
			return vars.name
		case "stem":
			return vars.stem
		case "ext":
			return vars.ext
		case "date":
			return vars.now.Format("20060102")
		case "time":
			return vars.now.Format("150405")
		case "datetime":
			return vars.now.Format(timestampLayout)
		default:
			return match
		}
	})
}

func padIndex(index int, zeroPad bool, width string) string {
	if width == "" {
		return strconv.Itoa(index)
	}
	n, _ := strconv.Atoi(width)
	if zeroPad {
		return fmt.Sprintf("%0*d", n, index)
	}
	return fmt.Sprintf("%*d", n, index)
}

// splitStem separates a file name into stem and extension.
func splitStem(name string) (stem, ext string) {
	ext = extOf(name)
	return strings.TrimSuffix(name, ext), ext
}

// extOf mirrors filepath.Ext but treats dotfiles like ".gitignore" as
// all-stem, so prefix and suffix rules never split the leading dot.
func extOf(name string) string {
	for i := len(name) - 1; i > 0; i-- {
		if name[i] == '.' {
			return name[i:]
		}
	}
	return ""
}
