package knowledge

import (
	"context"
	stdErrors "errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestMemoryRepositorySaveGetList(t *testing.T) {
	t.Parallel()

	repo, err := NewMemoryRepository("")
	if err != nil {
		t.Fatalf("create repo: %v", err)
	}
	ctx := context.Background()

	first := &Item{Kind: KindConcept, Category: "finance", Title: "Net Present Value", Content: "NPV discounts cash flows", Keywords: []string{"npv"}}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}
	if first.ID == "" || first.CreatedAt == 0 {
		t.Fatalf("expected id and timestamp to be assigned: %+v", first)
	}

	second := &Item{Kind: KindCaseStudy, Category: "strategy", Title: "Streaming pivot", Content: "A DVD rental business moves online"}
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("save second: %v", err)
	}

	if err := repo.Save(ctx, &Item{ID: first.ID, Content: "dup"}); !stdErrors.Is(err, ErrItemConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	got, err := repo.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got.Keywords[0] = "mutated"
	again, _ := repo.Get(ctx, first.ID)
	if again.Keywords[0] != "npv" {
		t.Fatalf("stored item must not share slices with callers")
	}

	if _, err := repo.Get(ctx, "missing"); !stdErrors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	list, err := repo.List(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID {
		t.Fatalf("expected newest first: %+v", list)
	}
}

func TestMemoryRepositorySearchRanksByRelevance(t *testing.T) {
	t.Parallel()

	repo, _ := NewMemoryRepository("")
	ctx := context.Background()
	items := []*Item{
		{Title: "Payback period", Content: "Capital budgeting shortcut", Category: "finance"},
		{Title: "Net Present Value", Content: "Capital budgeting with discounted cash flows", Keywords: []string{"npv"}, Category: "finance"},
		{Title: "Porter's five forces", Content: "Industry analysis", Category: "strategy"},
	}
	for _, item := range items {
		if err := repo.Save(ctx, item); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	results, err := repo.Search(ctx, "NPV and capital budgeting", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(results))
	}
	if results[0].ID != items[1].ID {
		t.Fatalf("expected keyword match to rank first, got %q", results[0].Title)
	}

	all, err := repo.Search(ctx, "  ", 5)
	if err != nil {
		t.Fatalf("search empty: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("empty query should list everything, got %d", len(all))
	}
}

func TestMemoryRepositorySearchSkipsFillerWords(t *testing.T) {
	t.Parallel()

	repo, _ := NewMemoryRepository("")
	ctx := context.Background()
	if err := repo.Save(ctx, &Item{Title: "Brand loyalty", Content: "Customers return for trust and habit.", Category: "marketing"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	for _, query := range []string{"net present value and capital budgeting decisions", "and the"} {
		results, err := repo.Search(ctx, query, 5)
		if err != nil {
			t.Fatalf("search %q: %v", query, err)
		}
		if len(results) != 0 {
			t.Fatalf("query %q should not match, got %+v", query, results)
		}
	}

	results, err := repo.Search(ctx, "brand trust and habit", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected the loyalty item, got %d", len(results))
	}
}

func TestMemoryRepositoryStatsAndActions(t *testing.T) {
	t.Parallel()

	repo, _ := NewMemoryRepository("")
	ctx := context.Background()
	_ = repo.Save(ctx, &Item{Kind: KindConcept, Category: "finance", Content: "a"})
	_ = repo.Save(ctx, &Item{Kind: KindConcept, Category: "finance", Content: "b"})
	_ = repo.Save(ctx, &Item{Kind: KindCaseStudy, Category: "case-study", Content: "c"})

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := Stats{
		Total:      3,
		ByCategory: map[string]int{"finance": 2, "case-study": 1},
		ByKind:     map[Kind]int{KindConcept: 2, KindCaseStudy: 1},
	}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Fatalf("unexpected stats (-want +got):\n%s", diff)
	}

	for _, focus := range []string{"corporate finance", "", "strategy", "corporate finance"} {
		if err := repo.RecordAction(ctx, Action{Name: "learn_concept", FocusArea: focus}); err != nil {
			t.Fatalf("record action: %v", err)
		}
	}
	summary, err := repo.Actions(ctx)
	if err != nil {
		t.Fatalf("actions: %v", err)
	}
	if diff := cmp.Diff(ActionSummary{Total: 4, FocusAreas: []string{"corporate finance", "strategy"}}, summary); diff != "" {
		t.Fatalf("unexpected action summary (-want +got):\n%s", diff)
	}
}

func TestMemoryRepositoryRestoresFromDisk(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	repo, err := NewMemoryRepository(dir)
	if err != nil {
		t.Fatalf("create repo: %v", err)
	}
	repo.now = func() time.Time { return time.Unix(1700000000, 0) }
	item := &Item{Kind: KindConcept, Category: "finance", Title: "ROI", Content: "Return on investment"}
	if err := repo.Save(ctx, item); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.RecordAction(ctx, Action{Name: "learn_concept", FocusArea: "finance", ItemID: item.ID}); err != nil {
		t.Fatalf("record: %v", err)
	}

	restored, err := NewMemoryRepository(dir)
	if err != nil {
		t.Fatalf("reopen repo: %v", err)
	}
	got, err := restored.Get(ctx, item.ID)
	if err != nil {
		t.Fatalf("get restored: %v", err)
	}
	if got.Title != "ROI" || got.CreatedAt != 1700000000 {
		t.Fatalf("unexpected restored item: %+v", got)
	}
	summary, _ := restored.Actions(ctx)
	if summary.Total != 1 || len(summary.FocusAreas) != 1 {
		t.Fatalf("unexpected restored actions: %+v", summary)
	}
}
