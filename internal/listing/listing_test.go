package listing

import "testing"

func intPtr(n int) *int { return &n }

func TestResolvePageSize(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		remembered  *int
		def         int
		wantSize    int
		wantPersist *int
	}{
		{"absent uses default", "", nil, 5, 5, nil},
		{"absent uses remembered", "", intPtr(12), 5, 12, nil},
		{"valid overrides remembered", "7", intPtr(12), 5, 7, intPtr(7)},
		{"valid is persisted", "20", nil, 5, 20, intPtr(20)},
		{"zero persisted but default used", "0", intPtr(12), 5, 5, intPtr(0)},
		{"garbage ignored", "abc", intPtr(12), 5, 12, nil},
		{"garbage ignored without session", "abc", nil, 5, 5, nil},
		{"negative ignored", "-3", intPtr(12), 5, 12, nil},
		{"float ignored", "2.5", nil, 5, 5, nil},
		{"remembered zero falls back to default", "", intPtr(0), 5, 5, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size, persist := ResolvePageSize(tt.raw, tt.remembered, tt.def)
			if size != tt.wantSize {
				t.Errorf("size = %d, expected %d", size, tt.wantSize)
			}
			if (persist == nil) != (tt.wantPersist == nil) {
				t.Fatalf("persist = %v, expected %v", persist, tt.wantPersist)
			}
			if persist != nil && *persist != *tt.wantPersist {
				t.Errorf("persist = %d, expected %d", *persist, *tt.wantPersist)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	tests := []struct {
		page     int
		pageSize int
		want     int
	}{
		{1, 5, 0},
		{2, 5, 5},
		{3, 10, 20},
		{0, 5, 0},
		{-1, 5, 0},
	}

	for _, tt := range tests {
		if got := Offset(tt.page, tt.pageSize); got != tt.want {
			t.Errorf("Offset(%d, %d) = %d, expected %d", tt.page, tt.pageSize, got, tt.want)
		}
	}
}
