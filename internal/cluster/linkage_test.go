package cluster

import (
	"reflect"
	"testing"
)

func TestAgglomerateEmpty(t *testing.T) {
	clusters, merges := Agglomerate(NewMatrix(nil), DefaultThreshold)
	if len(clusters) != 0 || len(merges) != 0 {
		t.Errorf("expected no clusters and no merges, got %v / %v", clusters, merges)
	}
}

func TestAgglomerateSingle(t *testing.T) {
	clusters, merges := Agglomerate(NewMatrix([]string{"seo"}), DefaultThreshold)
	if !reflect.DeepEqual(clusters, [][]int{{0}}) {
		t.Errorf("expected one singleton cluster, got %v", clusters)
	}
	if len(merges) != 0 {
		t.Errorf("expected no merges, got %d", len(merges))
	}
}

func TestAgglomerateBelowThreshold(t *testing.T) {
	m := NewMatrix([]string{"seo tools", "seo software", "marketing tips"})
	clusters, merges := Agglomerate(m, 0.5)
	if len(merges) != 0 {
		t.Errorf("expected no merges at 1/3 similarity, got %d", len(merges))
	}
	if !reflect.DeepEqual(clusters, [][]int{{0}, {1}, {2}}) {
		t.Errorf("expected three singletons in input order, got %v", clusters)
	}
}

func TestAgglomerateMergedClusterMovesToEnd(t *testing.T) {
	// sim(0,1) = 2/3 merges; "cat food" shares nothing with the result.
	m := NewMatrix([]string{"seo tools", "seo tools free", "cat food"})
	clusters, merges := Agglomerate(m, 0.5)

	if !reflect.DeepEqual(clusters, [][]int{{2}, {0, 1}}) {
		t.Errorf("expected [[2] [0 1]], got %v", clusters)
	}
	if len(merges) != 1 {
		t.Fatalf("expected 1 merge, got %d", len(merges))
	}
	if merges[0].A != 0 || merges[0].B != 1 || merges[0].Size != 2 || merges[0].Remaining != 2 {
		t.Errorf("unexpected merge record %+v", merges[0])
	}
}

func TestAgglomerateTieBreakFirstPair(t *testing.T) {
	// All pairs score 1/3; the first pair in scan order merges first.
	m := NewMatrix([]string{"x y", "x z", "x w"})
	clusters, merges := Agglomerate(m, 0.3)

	if len(merges) != 2 {
		t.Fatalf("expected 2 merges, got %d", len(merges))
	}
	if merges[0].A != 0 || merges[0].B != 1 {
		t.Errorf("expected first merge between positions 0 and 1, got %d and %d", merges[0].A, merges[0].B)
	}
	// live order is now [x w], [x y, x z]
	if merges[1].A != 0 || merges[1].B != 1 || merges[1].Size != 3 {
		t.Errorf("unexpected second merge %+v", merges[1])
	}
	if !reflect.DeepEqual(clusters, [][]int{{0, 1, 2}}) {
		t.Errorf("expected a single cluster in input order, got %v", clusters)
	}
}

func TestAgglomeratePrefersStrongestPair(t *testing.T) {
	// (0,2) are identical and must merge before the weaker (0,1).
	m := NewMatrix([]string{"apple pie", "apple tart", "apple pie"})
	clusters, merges := Agglomerate(m, 0.5)

	if len(merges) != 1 {
		t.Fatalf("expected 1 merge, got %d", len(merges))
	}
	if merges[0].A != 0 || merges[0].B != 2 || merges[0].Similarity != 1 {
		t.Errorf("unexpected merge %+v", merges[0])
	}
	if !reflect.DeepEqual(clusters, [][]int{{1}, {0, 2}}) {
		t.Errorf("expected [[1] [0 2]], got %v", clusters)
	}
}

func TestAgglomerateAverageLinkage(t *testing.T) {
	// After merging the identical pair, the remaining keyword averages
	// (1/3 + 1/3) / 2 against the pair, below 0.5.
	m := NewMatrix([]string{"red shoes", "red shoes", "red boots"})
	_, merges := Agglomerate(m, 0.5)
	if len(merges) != 1 {
		t.Errorf("expected average linkage to stop after 1 merge, got %d", len(merges))
	}

	_, merges = Agglomerate(m, 0.3)
	if len(merges) != 2 {
		t.Errorf("expected 2 merges at threshold 0.3, got %d", len(merges))
	}
}

func TestAgglomerateInvariants(t *testing.T) {
	keywords := []string{
		"seo tools", "free seo tools", "seo tools online", "keyword research",
		"keyword research tool", "best keyword research", "content marketing",
		"content marketing tips", "seo", "marketing",
	}
	threshold := 0.3
	m := NewMatrix(keywords)
	clusters, merges := Agglomerate(m, threshold)

	prev := len(keywords)
	for i, mg := range merges {
		if mg.Remaining != prev-1 {
			t.Errorf("merge %d: expected %d live clusters, got %d", i, prev-1, mg.Remaining)
		}
		prev = mg.Remaining
		if mg.Similarity < threshold {
			t.Errorf("merge %d below threshold: %f", i, mg.Similarity)
		}
	}
	if len(clusters) != prev {
		t.Errorf("expected %d final clusters, got %d", prev, len(clusters))
	}

	seen := make(map[int]int)
	for _, c := range clusters {
		for _, idx := range c {
			seen[idx]++
		}
	}
	for i := range keywords {
		if seen[i] != 1 {
			t.Errorf("keyword %d appears %d times", i, seen[i])
		}
	}
}
