package stats

import (
	"math/rand/v2"
	"testing"

	"github.com/ppiankov/chronicle/internal/model"
)

func TestAggregate_EndToEnd(t *testing.T) {
	records := []model.Record{
		{Name: "Augustus", Dynasty: "Julio-Claudian"},
		{Name: "Vespasian", Dynasty: "Flavian"},
		{Name: "Tiberius", Dynasty: "Julio-Claudian"},
	}

	summary := Aggregate(records)

	want := []model.DynastyStat{{Name: "Julio-Claudian", Count: 2}, {Name: "Flavian", Count: 1}}
	if len(summary.DynastyStats) != len(want) {
		t.Fatalf("expected %d stats, got %v", len(want), summary.DynastyStats)
	}
	for i := range want {
		if summary.DynastyStats[i] != want[i] {
			t.Errorf("stat %d = %+v, want %+v", i, summary.DynastyStats[i], want[i])
		}
	}
	if summary.Total != 3 {
		t.Errorf("expected total 3, got %d", summary.Total)
	}
}

func TestAggregate_Empty(t *testing.T) {
	summary := Aggregate(nil)

	if summary.Total != 0 || summary.ViolentPercent != 0 {
		t.Errorf("unexpected summary for empty set: %+v", summary)
	}
	if len(summary.DynastyStats) != 0 || len(summary.Dynasties) != 0 {
		t.Errorf("expected no dynasties, got %+v", summary)
	}
}

func TestDynastyStats_TiesKeepFirstEncounter(t *testing.T) {
	records := []model.Record{
		{Dynasty: "Severan"},
		{Dynasty: "Nerva-Antonine"},
		{Dynasty: "Flavian"},
		{Dynasty: "Nerva-Antonine"},
		{Dynasty: "Severan"},
		{Dynasty: ""},
	}

	got := DynastyStats(records)
	want := []string{"Severan", "Nerva-Antonine", "Flavian"}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("position %d = %s, want %s", i, got[i].Name, name)
		}
	}
}

func TestViolentPercent(t *testing.T) {
	records := []model.Record{
		{Cause: model.CauseAssassination},
		{Cause: model.CauseExecution},
		{Cause: model.CauseBattle},
		{Cause: model.CauseNatural},
		{Cause: model.CauseSuicide},
		{Cause: ""},
	}

	// 3/6 = 50%
	if got := ViolentPercent(records); got != 50 {
		t.Errorf("expected 50, got %d", got)
	}

	// 1/3 = 33.3% rounds down, 2/3 = 66.7% rounds up
	if got := ViolentPercent(records[2:5]); got != 33 {
		t.Errorf("expected 33, got %d", got)
	}
	if got := ViolentPercent(records[1:4]); got != 67 {
		t.Errorf("expected 67, got %d", got)
	}
}

func TestAggregate_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	dynasties := []string{"", "Julio-Claudian", "Flavian", "Severan", "Constantinian"}
	causes := append(model.CauseList(), "")

	for trial := 0; trial < 200; trial++ {
		n := rng.IntN(30)
		records := make([]model.Record, n)
		emptyDynasty := false
		for i := range records {
			records[i] = model.Record{
				Dynasty: dynasties[rng.IntN(len(dynasties))],
				Cause:   causes[rng.IntN(len(causes))],
			}
			if records[i].Dynasty == "" {
				emptyDynasty = true
			}
		}

		summary := Aggregate(records)

		sum := 0
		for i, s := range summary.DynastyStats {
			if s.Name == "" || s.Count < 1 {
				t.Fatalf("invalid stat %+v", s)
			}
			if i > 0 && summary.DynastyStats[i-1].Count < s.Count {
				t.Fatalf("stats not sorted descending: %+v", summary.DynastyStats)
			}
			sum += s.Count
		}

		if sum > summary.Total {
			t.Fatalf("sum of counts %d exceeds total %d", sum, summary.Total)
		}
		if (sum == summary.Total) == emptyDynasty {
			t.Fatalf("sum == total must hold iff no record has an empty dynasty (sum=%d total=%d empty=%v)", sum, summary.Total, emptyDynasty)
		}
		if summary.ViolentPercent < 0 || summary.ViolentPercent > 100 {
			t.Fatalf("violent percent out of range: %d", summary.ViolentPercent)
		}
	}
}

func TestDynasties_SortedDistinct(t *testing.T) {
	records := []model.Record{{Dynasty: "Severan"}, {Dynasty: "Flavian"}, {Dynasty: "Severan"}, {}}
	got := Dynasties(records)
	if len(got) != 2 || got[0] != "Flavian" || got[1] != "Severan" {
		t.Errorf("unexpected dynasties %v", got)
	}
}

func TestCauseCounts(t *testing.T) {
	records := []model.Record{
		{Cause: model.CauseSuicide},
		{Cause: ""},
		{Cause: "Poisoned"},
		{Cause: model.CauseSuicide},
	}

	counts := CauseCounts(records)
	if len(counts) != len(model.Causes) {
		t.Fatalf("expected %d cause stats, got %d", len(model.Causes), len(counts))
	}

	byCause := make(map[string]int)
	for _, c := range counts {
		byCause[c.Cause] = c.Count
	}
	if byCause[model.CauseSuicide] != 2 {
		t.Errorf("expected 2 suicides, got %d", byCause[model.CauseSuicide])
	}
	if byCause[model.CauseUnknown] != 2 {
		t.Errorf("expected 2 unknown, got %d", byCause[model.CauseUnknown])
	}
}
