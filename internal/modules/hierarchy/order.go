package hierarchy

import (
	"math"
	"sort"
	"strings"

	"github.com/yungbote/meraki-backend/internal/domain"
)

// ParseOrder reads the leading integer of a content order value.
// Empty or non-numeric values return math.MaxInt so they sort last.
func ParseOrder(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.MaxInt
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	n, digits := 0, 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		d := int(r - '0')
		if n > (math.MaxInt-d)/10 {
			return math.MaxInt
		}
		n = n*10 + d
		digits++
	}
	if digits == 0 {
		return math.MaxInt
	}
	if neg {
		return -n
	}
	return n
}

// ContentTitle falls back from title to short description to UntitledTitle.
func ContentTitle(c domain.Content) string {
	if t := strings.TrimSpace(c.Title); t != "" {
		return t
	}
	if d := strings.TrimSpace(c.ShortDescription); d != "" {
		return d
	}
	return UntitledTitle
}

// sortContent orders rows by numeric order, then case-insensitive title, then id.
func sortContent(rows []domain.Content) {
	sort.SliceStable(rows, func(i, j int) bool { return lessContent(rows[i], rows[j]) })
}

func lessContent(a, b domain.Content) bool {
	if oa, ob := ParseOrder(a.Order), ParseOrder(b.Order); oa != ob {
		return oa < ob
	}
	if ta, tb := strings.ToLower(ContentTitle(a)), strings.ToLower(ContentTitle(b)); ta != tb {
		return ta < tb
	}
	return a.ID < b.ID
}
