package db

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/busdepo/marketplace-api/internal/models"
)

// ErrInvalidPage is returned when page or limit query parameters are not
// positive integers.
var ErrInvalidPage = errors.New("page and limit must be positive integers")

// Default pagination parameters for list endpoints.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Page describes one page of a listing query. All list endpoints sort by
// creation time, newest first.
type Page struct {
	Number int
	Size   int
}

// ParsePage parses page/limit query parameters, applying defaults when
// absent. Non-integer or non-positive values are rejected uniformly.
func ParsePage(pageStr, limitStr string) (Page, error) {
	p := Page{Number: DefaultPage, Size: DefaultLimit}
	if pageStr != "" {
		n, err := strconv.Atoi(pageStr)
		if err != nil || n < 1 {
			return Page{}, ErrInvalidPage
		}
		p.Number = n
	}
	if limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			return Page{}, ErrInvalidPage
		}
		p.Size = n
	}
	return p, nil
}

// Skip returns the offset of the first record on the page.
func (p Page) Skip() int64 {
	return int64(p.Number-1) * int64(p.Size)
}

// FindOptions builds the sort/skip/limit options for the page.
func (p Page) FindOptions() *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(p.Skip()).
		SetLimit(int64(p.Size))
}

// All is a pseudo-page matching every record, still newest first. Search
// endpoints use it: search results are deliberately unpaginated.
func All() Page {
	return Page{Number: 1, Size: 0}
}

// TotalPages computes ceil(totalCount / pageSize).
func TotalPages(totalCount int64, pageSize int) int64 {
	if pageSize <= 0 {
		return 0
	}
	size := int64(pageSize)
	return (totalCount + size - 1) / size
}

// caseInsensitive builds a case-insensitive substring match on the
// literal value.
func caseInsensitive(value string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(value), Options: "i"}
}

// splitList splits a comma-separated value into trimmed, non-empty parts.
func splitList(value string) []string {
	var parts []string
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// makeFilter turns a comma-separated make value into an exact match or a
// set-membership predicate.
func makeFilter(filter bson.M, value string) {
	makes := splitList(value)
	switch len(makes) {
	case 0:
	case 1:
		filter["make"] = makes[0]
	default:
		filter["make"] = bson.M{"$in": makes}
	}
}

// rangeFilter adds an optional lower/upper bound predicate for field.
func rangeFilter(filter bson.M, field string, min, max *float64) {
	if min == nil && max == nil {
		return
	}
	bounds := bson.M{}
	if min != nil {
		bounds["$gte"] = *min
	}
	if max != nil {
		bounds["$lte"] = *max
	}
	filter[field] = bounds
}

func intRangeFilter(filter bson.M, field string, min, max *int) {
	if min == nil && max == nil {
		return
	}
	bounds := bson.M{}
	if min != nil {
		bounds["$gte"] = *min
	}
	if max != nil {
		bounds["$lte"] = *max
	}
	filter[field] = bounds
}

// stateSuffixFilter matches locations ending in ", <state>" for any of
// the states in the comma-separated list.
func stateSuffixFilter(filter bson.M, value string) {
	states := splitList(value)
	if len(states) == 0 {
		return
	}
	quoted := make([]string, len(states))
	for i, s := range states {
		quoted[i] = regexp.QuoteMeta(s)
	}
	pattern := `,\s*(` + strings.Join(quoted, "|") + `)\s*$`
	filter["location"] = primitive.Regex{Pattern: pattern, Options: "i"}
}

// VehicleSearchFilter builds the query predicate for POST /vehicle/search.
// An empty request yields an empty filter, matching all listings.
func VehicleSearchFilter(req models.VehicleSearchRequest) bson.M {
	filter := bson.M{}

	// The literal "All" disables the status filter.
	if req.Status != "" && req.Status != "All" {
		filter["status"] = req.Status
	}
	if req.Type != "" {
		filter["type"] = req.Type
	}
	makeFilter(filter, req.Make)
	rangeFilter(filter, "price", req.MinPrice, req.MaxPrice)
	intRangeFilter(filter, "year_manufacture", req.MinYear, req.MaxYear)
	rangeFilter(filter, "distance_traveled", req.MinDistance, req.MaxDistance)
	if req.PartNumber != "" {
		filter["partNumber"] = caseInsensitive(req.PartNumber)
	}
	if req.Condition != "" {
		filter["condition"] = caseInsensitive(req.Condition)
	}
	stateSuffixFilter(filter, req.Location)

	return filter
}

// SpareSearchFilter builds the query predicate for POST /spare/search.
// Unlike vehicles, spare locations are matched as plain substrings.
func SpareSearchFilter(req models.SpareSearchRequest) bson.M {
	filter := bson.M{}

	makeFilter(filter, req.Make)
	if req.PartNumber != "" {
		filter["partNumber"] = caseInsensitive(req.PartNumber)
	}
	if req.Location != "" {
		filter["location"] = caseInsensitive(req.Location)
	}
	if req.Condition != "" {
		filter["condition"] = caseInsensitive(req.Condition)
	}
	rangeFilter(filter, "price", req.MinPrice, req.MaxPrice)

	return filter
}

// NotSoldFilter excludes listings already marked sold. The public
// vehicle list uses it.
func NotSoldFilter() bson.M {
	return bson.M{"status": bson.M{"$ne": models.StatusSold}}
}

// OwnerFilter scopes a query to the listings created by one user.
func OwnerFilter(userID primitive.ObjectID) bson.M {
	return bson.M{"userId": userID}
}
