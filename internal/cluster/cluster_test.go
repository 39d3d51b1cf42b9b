package cluster

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestGroupKeywordsEmpty(t *testing.T) {
	groups := GroupKeywords([]string{}, DefaultThreshold)
	if groups == nil || len(groups) != 0 {
		t.Errorf("expected empty non-nil groups, got %#v", groups)
	}
}

func TestGroupKeywordsNoMerge(t *testing.T) {
	groups := GroupKeywords([]string{"seo tools", "seo software", "marketing tips"}, 0.5)
	want := []Group{
		{Label: "seo tools", Keywords: []string{"seo tools"}},
		{Label: "seo software", Keywords: []string{"seo software"}},
		{Label: "marketing tips", Keywords: []string{"marketing tips"}},
	}
	if !reflect.DeepEqual(groups, want) {
		t.Errorf("unexpected groups:\n got %#v\nwant %#v", groups, want)
	}
}

func TestGroupKeywordsIdentical(t *testing.T) {
	groups := GroupKeywords([]string{"same", "same", "same"}, 0.5)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if groups[0].Label != "same" || len(groups[0].Keywords) != 3 {
		t.Errorf("unexpected group %#v", groups[0])
	}
}

func TestGroupKeywordsShortWordsFallback(t *testing.T) {
	groups := GroupKeywords([]string{"a", "b"}, 0.5)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Label != "Group 1" || groups[1].Label != "Group 2" {
		t.Errorf("expected positional labels, got %q and %q", groups[0].Label, groups[1].Label)
	}
}

func TestGroupKeywordsSingle(t *testing.T) {
	groups := GroupKeywords([]string{"keyword research"}, 0.5)
	want := []Group{{Label: "keyword research", Keywords: []string{"keyword research"}}}
	if !reflect.DeepEqual(groups, want) {
		t.Errorf("unexpected groups %#v", groups)
	}
}

func TestGroupKeywordsKeepsInputOrder(t *testing.T) {
	keywords := []string{"seo tools free", "cat food", "seo tools"}
	groups := GroupKeywords(keywords, 0.5)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if !reflect.DeepEqual(groups[1].Keywords, []string{"seo tools free", "seo tools"}) {
		t.Errorf("expected merged keywords in input order, got %v", groups[1].Keywords)
	}
}

func TestGroupKeywordsPartition(t *testing.T) {
	keywords := []string{
		"seo tools", "free seo tools", "seo tools", "keyword research",
		"keyword research tool", "content marketing", "a", "b",
	}
	for _, threshold := range []float64{0, 0.2, 0.5, 0.9, 1.1} {
		groups := GroupKeywords(keywords, threshold)
		counts := make(map[string]int)
		total := 0
		for _, g := range groups {
			for _, k := range g.Keywords {
				counts[k]++
				total++
			}
		}
		if total != len(keywords) {
			t.Errorf("threshold %.1f: expected %d keywords, got %d", threshold, len(keywords), total)
		}
		if counts["seo tools"] != 2 {
			t.Errorf("threshold %.1f: expected duplicate keyword twice, got %d", threshold, counts["seo tools"])
		}
	}
}

func TestGrouperCap(t *testing.T) {
	g := NewGrouper(DefaultThreshold, 2)

	_, err := g.Group([]string{"a", "b", "c"})
	if !errors.Is(err, ErrTooManyKeywords) {
		t.Errorf("expected ErrTooManyKeywords, got %v", err)
	}

	groups, err := g.Group([]string{"seo", "seo"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 1 {
		t.Errorf("expected 1 group, got %d", len(groups))
	}
}

func TestGrouperNoCap(t *testing.T) {
	g := NewGrouper(0.5, 0)
	kws := make([]string, 50)
	for i := range kws {
		kws[i] = "keyword"
	}
	groups, err := g.Group(kws)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 1 || len(groups[0].Keywords) != 50 {
		t.Errorf("expected one group of 50, got %d groups", len(groups))
	}
}

func TestGrouperZeroThresholdMergesAll(t *testing.T) {
	g := NewGrouper(0, 10)
	if g.Threshold != 0 {
		t.Fatalf("expected threshold 0 to be kept, got %f", g.Threshold)
	}

	groups, err := g.Group([]string{"seo tools", "marketing tips", "coffee beans"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if len(groups[0].Keywords) != 3 {
		t.Errorf("expected 3 keywords in the group, got %d", len(groups[0].Keywords))
	}
}

func TestValidThreshold(t *testing.T) {
	for _, v := range []float64{0, 0.5, 1} {
		if !ValidThreshold(v) {
			t.Errorf("expected %v to be valid", v)
		}
	}
	for _, v := range []float64{-0.1, 1.1, math.NaN(), math.Inf(1)} {
		if ValidThreshold(v) {
			t.Errorf("expected %v to be rejected", v)
		}
	}
}
