package dashboard

import (
	"fmt"
	"strconv"
	"strings"
)

// UniqueName returns name, or a numbered variant of it, that is not in taken.
// A trailing "(n)" is incremented; otherwise " (2)" is appended.
func UniqueName(name string, taken []string) string {
	used := make(map[string]struct{}, len(taken))
	for _, t := range taken {
		used[t] = struct{}{}
	}
	candidate := name
	for {
		if _, exists := used[candidate]; !exists {
			return candidate
		}
		candidate = nextName(candidate)
	}
}

func nextName(name string) string {
	open := strings.LastIndex(name, "(")
	closing := strings.LastIndex(name, ")")
	if open != -1 && closing == len(name)-1 && open < closing {
		base := strings.TrimSpace(name[:open])
		if n, err := strconv.Atoi(name[open+1 : closing]); err == nil {
			return fmt.Sprintf("%s (%d)", base, n+1)
		}
	}
	return name + " (2)"
}
