package suggest

import (
	"math/rand/v2"
	"strings"
	"testing"
)

func TestEstimateVolumeBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		v := EstimateVolume("seo", rng)
		if v < 699 || v > 7700 {
			t.Fatalf("one-word volume %d out of range", v)
		}
	}
}

func TestEstimateVolumeShrinksWithWords(t *testing.T) {
	rng := fixedRand(5000)
	prev := EstimateVolume("a", rng)
	for n := 2; n <= 5; n++ {
		v := EstimateVolume(strings.Repeat("a ", n), rng)
		if v >= prev {
			t.Errorf("%d words: %d not below %d", n, v, prev)
		}
		prev = v
	}
}

func TestEstimateVolumeEmptyKeyword(t *testing.T) {
	if got, want := EstimateVolume("", fixedRand(0)), EstimateVolume("x", fixedRand(0)); got != want {
		t.Errorf("empty keyword = %d, want one-word volume %d", got, want)
	}
}

func TestEstimateLongTailVolumeFloor(t *testing.T) {
	// Eight words would give a negative multiplier without the floor.
	v := estimateLongTailVolume("a b c d e f g h", fixedRand(490))
	if v != 25 {
		t.Errorf("got %d, want 25", v)
	}
}

func TestAverageVolume(t *testing.T) {
	if AverageVolume(nil) != 0 {
		t.Error("empty average should be 0")
	}
	got := AverageVolume([]Suggestion{{SearchVolume: 100}, {SearchVolume: 201}})
	if got != 151 {
		t.Errorf("got %d, want 151", got)
	}
}

func TestLongTailPadding(t *testing.T) {
	got := LongTail("seo", nil, fixedRand(0))
	if len(got) != len(longTailPhrases) {
		t.Fatalf("got %d entries", len(got))
	}
	if got[0].Keyword != "seo 方法" || got[7].Keyword != "seo 意味" {
		t.Errorf("unexpected order: %v", got)
	}
}

func TestLongTailCapsPadding(t *testing.T) {
	var suggestions []Suggestion
	for i := 0; i < 10; i++ {
		suggestions = append(suggestions, Suggestion{Keyword: "seo tools " + string(rune('a'+i)), SearchVolume: 100})
	}
	suggestions = append(suggestions, Suggestion{Keyword: "seo tools", SearchVolume: 100})

	got := LongTail("seo", suggestions, fixedRand(0))
	if len(got) != 15 {
		t.Fatalf("got %d entries, want 15", len(got))
	}
	if got[0].SearchVolume != 80 {
		t.Errorf("reused suggestion volume = %d, want 80", got[0].SearchVolume)
	}
	if got[14].Keyword != "seo 比較" {
		t.Errorf("last entry = %q", got[14].Keyword)
	}
}

func TestLongTailSkipsBase(t *testing.T) {
	got := LongTail("a b c", []Suggestion{{Keyword: "a b c", SearchVolume: 10}}, fixedRand(0))
	for _, s := range got {
		if s.Keyword == "a b c" {
			t.Fatal("base keyword must not be repeated")
		}
	}
}
