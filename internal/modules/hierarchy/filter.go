package hierarchy

import "github.com/yungbote/meraki-backend/internal/domain"

// Filter keeps a node when its own rating equals rating or when any
// descendant is kept. Kept nodes only carry their kept children. An empty
// rating keeps everything. The input forest is not modified.
func Filter(nodes []*Node, rating domain.Rating) []*Node {
	if rating == "" {
		return Clone(nodes)
	}
	out := []*Node{}
	for _, n := range nodes {
		if n == nil {
			continue
		}
		kept := Filter(n.Children, rating)
		if len(kept) > 0 || (n.Rating != nil && *n.Rating == rating) {
			out = append(out, n.shallowWith(kept))
		}
	}
	return out
}
