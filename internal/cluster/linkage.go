package cluster

import "sort"

// Merge records a single merge step of the agglomerative run.
type Merge struct {
	A, B       int     // positions of the merged clusters in the live order at merge time
	Similarity float64 // average-linkage similarity of the pair
	Size       int     // size of the new cluster
	Remaining  int     // live clusters after the merge
}

// Agglomerate performs average-linkage agglomerative clustering over the
// keywords of m, merging the most similar pair of live clusters until no pair
// reaches threshold or a single cluster remains.
//
// Clusters live in an arena: merged clusters are appended and the two
// originals are tombstoned, so iterating the arena in index order visits the
// live clusters in the same order a spliced list would. Ties go to the first
// pair found scanning i ascending, then j ascending.
//
// The returned clusters hold keyword indices in ascending order.
func Agglomerate(m *Matrix, threshold float64) ([][]int, []Merge) {
	n := m.Len()
	if n == 0 {
		return [][]int{}, nil
	}

	members := make([][]int, n, 2*n-1)
	active := make([]bool, n, 2*n-1)
	for i := 0; i < n; i++ {
		members[i] = []int{i}
		active[i] = true
	}

	var merges []Merge
	live := n

	for live > 1 {
		best := -1.0
		bestI, bestJ := -1, -1
		posI, posJ := -1, -1

		pi := 0
		for i := range members {
			if !active[i] {
				continue
			}
			pj := pi + 1
			for j := i + 1; j < len(members); j++ {
				if !active[j] {
					continue
				}
				s := averageLinkage(m, members[i], members[j])
				if s > best {
					best = s
					bestI, bestJ = i, j
					posI, posJ = pi, pj
				}
				pj++
			}
			pi++
		}

		if best < threshold {
			break
		}

		merged := make([]int, 0, len(members[bestI])+len(members[bestJ]))
		merged = append(merged, members[bestI]...)
		merged = append(merged, members[bestJ]...)

		active[bestI] = false
		active[bestJ] = false
		members = append(members, merged)
		active = append(active, true)
		live--

		merges = append(merges, Merge{
			A:          posI,
			B:          posJ,
			Similarity: best,
			Size:       len(merged),
			Remaining:  live,
		})
	}

	clusters := make([][]int, 0, live)
	for i, c := range members {
		if !active[i] {
			continue
		}
		sorted := append([]int(nil), c...)
		sort.Ints(sorted)
		clusters = append(clusters, sorted)
	}
	return clusters, merges
}

// averageLinkage is the mean pairwise similarity across two clusters.
func averageLinkage(m *Matrix, a, b []int) float64 {
	var sum float64
	for _, x := range a {
		for _, y := range b {
			sum += m.At(x, y)
		}
	}
	return sum / float64(len(a)*len(b))
}
