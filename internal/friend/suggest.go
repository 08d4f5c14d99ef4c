package friend

const (
	MaxMutualSuggestions   = 10
	MaxFallbackSuggestions = 5
	MaxSearchResults       = 20
)

// Suggest proposes people email could befriend. Friends of friends come first,
// in the order of candidates; when there are none, any other candidate is
// offered instead. The user, their friends and anyone they already sent a
// pending request to are never suggested.
func Suggest(email string, g *Graph, pendingSent []string, candidates []string) []string {
	excluded := unreachable(email, g, pendingSent)

	mutual := make(map[string]struct{})

	for _, f := range g.Friends(email) {
		for _, ff := range g.Friends(f) {
			if _, skip := excluded[ff]; !skip {
				mutual[ff] = struct{}{}
			}
		}
	}

	if len(mutual) > 0 {
		return pick(candidates, MaxMutualSuggestions, func(c string) bool {
			_, ok := mutual[c]
			return ok
		})
	}

	return pick(candidates, MaxFallbackSuggestions, func(c string) bool {
		_, skip := excluded[c]
		return !skip
	})
}

// unreachable is the set of people email cannot send a new request to.
func unreachable(email string, g *Graph, pendingSent []string) map[string]struct{} {
	excluded := map[string]struct{}{email: {}}
	for _, f := range g.Friends(email) {
		excluded[f] = struct{}{}
	}

	for _, p := range pendingSent {
		excluded[p] = struct{}{}
	}

	return excluded
}

func pick(candidates []string, limit int, keep func(string) bool) []string {
	out := make([]string, 0, limit)
	seen := make(map[string]struct{})

	for _, c := range candidates {
		if len(out) == limit {
			break
		}

		if _, dup := seen[c]; dup || !keep(c) {
			continue
		}

		seen[c] = struct{}{}
		out = append(out, c)
	}

	return out
}
