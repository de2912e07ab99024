package core

import "testing"

func TestCategoryByID(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		wantID string
	}{
		{
			name:   "known category",
			id:     "food",
			wantID: "food",
		},
		{
			name:   "empty id falls back to uncategorized",
			id:     "",
			wantID: UncategorizedID,
		},
		{
			name:   "unknown id falls back to uncategorized",
			id:     "crypto",
			wantID: UncategorizedID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CategoryByID(tt.id)
			if got.ID != tt.wantID {
				t.Errorf("CategoryByID(%q).ID = %q, want %q", tt.id, got.ID, tt.wantID)
			}
			if got.Label == "" || got.Color == "" || got.IconName == "" {
				t.Errorf("CategoryByID(%q) returned incomplete metadata: %+v", tt.id, got)
			}
		})
	}
}

func TestCategories_ContainsUncategorized(t *testing.T) {
	found := false
	for _, c := range Categories() {
		if c.ID == UncategorizedID {
			found = true
		}
	}
	if !found {
		t.Error("category table must include the uncategorized fallback")
	}
}

func TestCategories_ReturnsCopy(t *testing.T) {
	cats := Categories()
	cats[0].Label = "tampered"
	if Categories()[0].Label == "tampered" {
		t.Error("Categories() must not expose the internal table")
	}
}
