package scoring

// Wallets whose first trades fall within this window of a seed wallet's
// first trade are treated as one coordinated group
const (
	ClusterWindowSeconds = 24 * 3600
	ClusterVoteCap       = 1.5
)

// DetectClusters finds groups of wallets that entered the market within the
// same 24-hour window. Such wallets may be the same person, the same group
// chat, or the same signal service, and should not each count as a fully
// independent vote.
//
// Grouping is greedy and seed-relative: membership is measured against the
// seed wallet's timestamp only, so two members may be further than the
// window apart from each other. Lone wallets are not reported as clusters.
func DetectClusters(profiles []*Profile) [][]string {
	used := make(map[string]bool)
	var clusters [][]string

	for i, p1 := range profiles {
		if used[p1.Wallet] {
			continue
		}
		cluster := []string{p1.Wallet}
		for _, p2 := range profiles[i+1:] {
			if used[p2.Wallet] {
				continue
			}
			delta := p1.Position.FirstTradeTS - p2.Position.FirstTradeTS
			if delta < 0 {
				delta = -delta
			}
			if delta <= ClusterWindowSeconds {
				cluster = append(cluster, p2.Wallet)
				used[p2.Wallet] = true
			}
		}
		if len(cluster) > 1 {
			clusters = append(clusters, cluster)
			used[p1.Wallet] = true
		}
	}

	return clusters
}
