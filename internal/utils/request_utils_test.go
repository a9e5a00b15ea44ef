package utils

import (
	"errors"
	"testing"
	"time"

	"go-catalog-cache/internal/models"
)

func TestParseProductInput(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantName  string
		wantPrice float64
		wantError bool
	}{
		{
			name:      "valid product",
			body:      `{"name":"Laptop","category":"Electronics","brand":"Acme","price":999.5}`,
			wantName:  "Laptop",
			wantPrice: 999.5,
		},
		{
			name:      "empty body",
			body:      "  ",
			wantError: true,
		},
		{
			name:      "invalid JSON",
			body:      `{"name":`,
			wantError: true,
		},
		{
			name:      "unknown field",
			body:      `{"name":"Laptop","colour":"red"}`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := ParseProductInput([]byte(tt.body))

			if tt.wantError {
				if err == nil {
					t.Errorf("ParseProductInput() expected error, got nil")
				}
				if !errors.Is(err, models.ErrInvalidProduct) {
					t.Errorf("ParseProductInput() error = %v, want ErrInvalidProduct", err)
				}
				return
			}

			if err != nil {
				t.Errorf("ParseProductInput() unexpected error: %v", err)
				return
			}

			if input.Name != tt.wantName {
				t.Errorf("ParseProductInput() name = %v, want %v", input.Name, tt.wantName)
			}
			if input.Price != tt.wantPrice {
				t.Errorf("ParseProductInput() price = %v, want %v", input.Price, tt.wantPrice)
			}
		})
	}
}

func TestParseProductID(t *testing.T) {
	tests := []struct {
		raw       string
		want      int64
		wantError bool
	}{
		{raw: "1", want: 1},
		{raw: "42", want: 42},
		{raw: "0", wantError: true},
		{raw: "-3", wantError: true},
		{raw: "abc", wantError: true},
		{raw: "", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			id, err := ParseProductID(tt.raw)

			if tt.wantError {
				if !errors.Is(err, models.ErrInvalidQuery) {
					t.Errorf("ParseProductID(%q) error = %v, want ErrInvalidQuery", tt.raw, err)
				}
				return
			}

			if err != nil {
				t.Errorf("ParseProductID(%q) unexpected error: %v", tt.raw, err)
			}
			if id != tt.want {
				t.Errorf("ParseProductID(%q) = %v, want %v", tt.raw, id, tt.want)
			}
		})
	}
}

func TestParsePriceRange(t *testing.T) {
	tests := []struct {
		name      string
		min       string
		max       string
		want      models.PriceRange
		wantError bool
	}{
		{name: "both bounds", min: "10", max: "20.5", want: models.PriceRange{Min: 10, Max: 20.5}},
		{name: "missing min", min: "", max: "100", want: models.PriceRange{Min: 0, Max: 100}},
		{name: "missing max", min: "10", max: "", wantError: true},
		{name: "not a number", min: "ten", max: "20", wantError: true},
		{name: "NaN", min: "NaN", max: "20", wantError: true},
		{name: "infinite", min: "0", max: "+Inf", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePriceRange(tt.min, tt.max)

			if tt.wantError {
				if !errors.Is(err, models.ErrInvalidQuery) {
					t.Errorf("ParsePriceRange() error = %v, want ErrInvalidQuery", err)
				}
				return
			}

			if err != nil {
				t.Errorf("ParsePriceRange() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParsePriceRange() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestActorFromHeader(t *testing.T) {
	if got := ActorFromHeader("  alice "); got != "alice" {
		t.Errorf("ActorFromHeader() = %v, want alice", got)
	}
	if got := ActorFromHeader(""); got != AnonymousActor {
		t.Errorf("ActorFromHeader() = %v, want %v", got, AnonymousActor)
	}
}

func TestParseAuditFilter(t *testing.T) {
	after := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		user      string
		action    string
		after     string
		want      models.AuditFilter
		wantError bool
	}{
		{name: "no filters", want: models.AuditFilter{}},
		{name: "user", user: " alice ", want: models.AuditFilter{Username: "alice"}},
		{name: "action any case", action: "search", want: models.AuditFilter{Action: models.ActionSearch}},
		{name: "after", after: "2025-03-01T12:00:00Z", want: models.AuditFilter{After: after}},
		{name: "all", user: "bob", action: "ADD", after: "2025-03-01T12:00:00Z", want: models.AuditFilter{Username: "bob", Action: models.ActionAdd, After: after}},
		{name: "unknown action", action: "LOGIN", wantError: true},
		{name: "bad timestamp", after: "yesterday", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAuditFilter(tt.user, tt.action, tt.after)

			if tt.wantError {
				if !errors.Is(err, models.ErrInvalidQuery) {
					t.Errorf("ParseAuditFilter() error = %v, want ErrInvalidQuery", err)
				}
				return
			}

			if err != nil {
				t.Errorf("ParseAuditFilter() unexpected error: %v", err)
			}
			if got.Username != tt.want.Username || got.Action != tt.want.Action || !got.After.Equal(tt.want.After) {
				t.Errorf("ParseAuditFilter() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
