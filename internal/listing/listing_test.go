package listing

import (
	"net/url"
	"slices"
	"testing"
	"time"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	tests := []struct {
		name        string
		page, limit int
		want        []int
		wantPage    int
		wantPages   int
	}{
		{"first page", 1, 2, []int{1, 2}, 1, 3},
		{"last partial", 3, 2, []int{5}, 3, 3},
		{"clamped high", 9, 2, []int{5}, 3, 3},
		{"clamped low", 0, 2, []int{1, 2}, 1, 3},
		{"limit zero is all", 4, 0, items, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(items, tt.page, tt.limit)
			if !slices.Equal(p.Items, tt.want) || p.Page != tt.wantPage || p.TotalPages != tt.wantPages || p.Total != 5 {
				t.Errorf("got %+v", p)
			}
		})
	}
	empty := Paginate([]string(nil), 1, 10)
	if empty.Items == nil || empty.TotalPages != 1 || empty.Page != 1 {
		t.Errorf("empty page: %+v", empty)
	}
}

func TestPageParams(t *testing.T) {
	page, limit := PageParams(url.Values{"page": {"3"}, "limit": {"0"}}, 25)
	if page != 3 || limit != 0 {
		t.Fatalf("got %d %d", page, limit)
	}
	page, limit = PageParams(url.Values{"limit": {"-2"}}, 25)
	if page != 0 || limit != 25 {
		t.Fatalf("got %d %d", page, limit)
	}
}

func TestSearchHelpers(t *testing.T) {
	hay := Haystack("Ali Benali", "SARL Atlas", "")
	if !Match(hay, "  ATLAS ") || Match(hay, "zara") || !Match(hay, "") {
		t.Fatal("match failed")
	}
	tokens := PhoneTokens("+212 612-345-678")
	if !slices.Contains(tokens, "212612345678") || !slices.Contains(tokens, "612345678") {
		t.Fatalf("phone tokens: %v", tokens)
	}
	if PhoneTokens(" ") != nil {
		t.Fatal("blank phone should yield no tokens")
	}
	dt := DateTokens(time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC))
	if !slices.Equal(dt, []string{"2024-03-05", "05/03/2024", "05-03-2024"}) {
		t.Fatalf("date tokens: %v", dt)
	}
	if SortDir("DESC", "asc") != "desc" || SortDir("x", "asc") != "asc" {
		t.Fatal("sort dir")
	}
}
