package friend

// Graph is the undirected adjacency of accepted friendships, built once per
// request. Neighbours keep the order their first edge appeared in.
type Graph struct {
	adj map[string][]string
	set map[string]map[string]struct{}
}

// NewGraph ignores edges that are not accepted, self loops, and repeats of an
// already seen pair.
func NewGraph(edges []*Friend) *Graph {
	g := &Graph{
		adj: make(map[string][]string),
		set: make(map[string]map[string]struct{}),
	}

	for _, e := range edges {
		if e == nil || e.Status != StatusAccepted || e.RequesterEmail == e.RecipientEmail {
			continue
		}

		g.link(e.RequesterEmail, e.RecipientEmail)
		g.link(e.RecipientEmail, e.RequesterEmail)
	}

	return g
}

func (g *Graph) link(a, b string) {
	peers, ok := g.set[a]
	if !ok {
		peers = make(map[string]struct{})
		g.set[a] = peers
	}

	if _, seen := peers[b]; seen {
		return
	}

	peers[b] = struct{}{}
	g.adj[a] = append(g.adj[a], b)
}

// Friends returns a copy of email's accepted friends.
func (g *Graph) Friends(email string) []string {
	return append([]string(nil), g.adj[email]...)
}

func (g *Graph) AreFriends(a, b string) bool {
	_, ok := g.set[a][b]
	return ok
}

// Group is email followed by its friends: the population of a leaderboard.
func (g *Graph) Group(email string) []string {
	return append([]string{email}, g.adj[email]...)
}
