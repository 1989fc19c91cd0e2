package fop

import (
	"testing"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		limit     string
		want      Page
		wantError bool
	}{
		{name: "defaults", want: Page{Number: 1, Limit: 20}},
		{name: "explicit", page: "3", limit: "10", want: Page{Number: 3, Limit: 10}},
		{name: "clamped", page: "0", limit: "500", want: Page{Number: 1, Limit: DefaultMaxLimit}},
		{name: "negative limit", limit: "-4", want: Page{Number: 1, Limit: 20}},
		{name: "bad page", page: "two", wantError: true},
		{name: "bad limit", limit: "ten", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePage(tt.page, tt.limit, 20)
			if tt.wantError {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPageOffsetAndInfo(t *testing.T) {
	p := Page{Number: 3, Limit: 10}
	if p.Offset() != 20 {
		t.Errorf("offset = %d, want 20", p.Offset())
	}

	info := NewPageInfo(p, 21)
	if info.TotalPages != 3 || info.Total != 21 || info.Page != 3 {
		t.Errorf("info = %+v", info)
	}
	if NewPageInfo(p, 0).TotalPages != 0 {
		t.Error("empty list should have zero pages")
	}
}

func TestParseOrder(t *testing.T) {
	fields := map[string]string{"price": "p.price", "newest": "p.created_at"}
	def := NewBy("p.created_at", DESC)

	got, err := ParseOrder(fields, "", def)
	if err != nil || got != def {
		t.Fatalf("empty order = %+v, %v", got, err)
	}

	got, err = ParseOrder(fields, "price,desc", def)
	if err != nil || got != NewBy("p.price", DESC) {
		t.Fatalf("price,desc = %+v, %v", got, err)
	}

	got, err = ParseOrder(fields, "price", def)
	if err != nil || got.Direction != ASC {
		t.Fatalf("price = %+v, %v", got, err)
	}

	if _, err := ParseOrder(fields, "stock", def); err == nil {
		t.Error("unknown field should error")
	}
	if _, err := ParseOrder(fields, "price,up", def); err == nil {
		t.Error("unknown direction should error")
	}
}
