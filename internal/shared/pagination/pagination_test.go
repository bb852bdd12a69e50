package pagination

import "testing"

func TestNewMetaBounds(t *testing.T) {
	cases := []struct {
		name         string
		total, page  int
		perPage      int
		wantPages    int
		wantNext     bool
		wantPrevious bool
	}{
		{"empty first page", 0, 1, 10, 1, false, false},
		{"single full page", 10, 1, 10, 1, false, false},
		{"first of three", 25, 1, 10, 3, true, false},
		{"middle page", 25, 2, 10, 3, true, true},
		{"last page", 25, 3, 10, 3, false, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			meta := NewMeta(tc.total, tc.page, tc.perPage)
			if meta.TotalPages != tc.wantPages {
				t.Fatalf("total pages = %d, want %d", meta.TotalPages, tc.wantPages)
			}
			if meta.HasNext != tc.wantNext {
				t.Fatalf("has_next = %v, want %v", meta.HasNext, tc.wantNext)
			}
			if meta.HasPrevious != tc.wantPrevious {
				t.Fatalf("has_previous = %v, want %v", meta.HasPrevious, tc.wantPrevious)
			}
		})
	}
}

func TestNewMetaLastPageCoversAllRecords(t *testing.T) {
	meta := NewMeta(42, 5, 10)
	if meta.HasNext {
		t.Fatal("last page should not report has_next")
	}
	if meta.CurrentPage*meta.RecordsPerPage < meta.TotalRecords {
		t.Fatalf("last page must cover all records: %d * %d < %d",
			meta.CurrentPage, meta.RecordsPerPage, meta.TotalRecords)
	}
}

func TestNewMetaPageBeyondFirstAlwaysHasPrevious(t *testing.T) {
	for page := 2; page <= 6; page++ {
		if !NewMeta(60, page, 10).HasPrevious {
			t.Fatalf("page %d must report has_previous", page)
		}
	}
}

func TestNormalizeClamps(t *testing.T) {
	page, perPage, offset := Normalize(0, 0)
	if page != 1 || perPage != DefaultPageSize || offset != 0 {
		t.Fatalf("unexpected defaults: page=%d perPage=%d offset=%d", page, perPage, offset)
	}

	_, perPage, _ = Normalize(1, 5000)
	if perPage != MaxPageSize {
		t.Fatalf("perPage should clamp to %d, got %d", MaxPageSize, perPage)
	}

	page, perPage, offset = Normalize(3, 10)
	if offset != 20 {
		t.Fatalf("offset = %d, want 20", offset)
	}
	_ = page
	_ = perPage
}
