package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go-catalog-cache/internal/models"
)

// AnonymousActor is recorded in audit logs when a request carries no actor
const AnonymousActor = "anonymous"

// ParseProductInput parses a JSON product body. Unknown fields are rejected.
func ParseProductInput(body []byte) (models.ProductInput, error) {
	var input models.ProductInput
	if len(bytes.TrimSpace(body)) == 0 {
		return input, fmt.Errorf("%w: empty request body", models.ErrInvalidProduct)
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&input); err != nil {
		return input, fmt.Errorf("%w: failed to parse product: %v", models.ErrInvalidProduct, err)
	}

	return input, nil
}

// ParseProductID parses a positive product id
func ParseProductID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid product id %q", models.ErrInvalidQuery, raw)
	}
	return id, nil
}

// ParsePriceRange parses min and max query values. A missing min means 0, max is required.
func ParsePriceRange(minRaw, maxRaw string) (models.PriceRange, error) {
	var priceRange models.PriceRange

	if strings.TrimSpace(minRaw) != "" {
		min, err := parsePrice(minRaw)
		if err != nil {
			return priceRange, err
		}
		priceRange.Min = min
	}

	if strings.TrimSpace(maxRaw) == "" {
		return priceRange, fmt.Errorf("%w: max price is required", models.ErrInvalidQuery)
	}
	max, err := parsePrice(maxRaw)
	if err != nil {
		return priceRange, err
	}
	priceRange.Max = max

	return priceRange, nil
}

// ParseAuditFilter builds an audit filter from query values. Blank values match
// everything; after is an RFC 3339 timestamp.
func ParseAuditFilter(user, action, after string) (models.AuditFilter, error) {
	filter := models.AuditFilter{Username: strings.TrimSpace(user)}

	if strings.TrimSpace(action) != "" {
		parsed, err := models.ParseAction(action)
		if err != nil {
			return filter, err
		}
		filter.Action = parsed
	}

	if strings.TrimSpace(after) != "" {
		ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(after))
		if err != nil {
			return filter, fmt.Errorf("%w: invalid timestamp %q", models.ErrInvalidQuery, after)
		}
		filter.After = ts
	}

	return filter, nil
}

// ActorFromHeader returns the acting user name, or AnonymousActor when blank
func ActorFromHeader(value string) string {
	actor := strings.TrimSpace(value)
	if actor == "" {
		return AnonymousActor
	}
	return actor
}

func parsePrice(raw string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: invalid price %q", models.ErrInvalidQuery, raw)
	}
	return value, nil
}
