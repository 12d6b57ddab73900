package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/visitor-console/internal/application"
)

// Date only query values are read as UTC days; "to" bounds cover the whole day.
const dateLayout = "2006-01-02"

func idParam(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "id"))
}

func pageFromQuery(r *http.Request) application.PageRequest {
	return application.PageRequest{
		Page:    intQuery(r, "page", 1),
		PerPage: intQuery(r, "per_page", application.DefaultPerPage),
	}.Normalize()
}

func intQuery(r *http.Request, key string, def int) int {
	val := strings.TrimSpace(r.URL.Query().Get(key))
	if val == "" {
		return def
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return i
}

func stringQuery(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

func boolQuery(r *http.Request, key string) bool {
	b, err := strconv.ParseBool(stringQuery(r, key))
	return err == nil && b
}

// timeQuery accepts epoch milliseconds, RFC 3339 or a plain date.
func timeQuery(r *http.Request, key string, endOfDay bool) (*time.Time, error) {
	val := stringQuery(r, key)
	if val == "" {
		return nil, nil
	}
	if ms, err := strconv.ParseInt(val, 10, 64); err == nil {
		t := time.UnixMilli(ms).UTC()
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		t = t.UTC()
		return &t, nil
	}
	if t, err := time.Parse(dateLayout, val); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Millisecond)
		}
		return &t, nil
	}
	return nil, fmt.Errorf("query parameter %s must be epoch milliseconds, RFC 3339 or YYYY-MM-DD", key)
}

type timeRange struct {
	from, to *time.Time
}

func timeRangeQuery(r *http.Request, fromKey, toKey string) (timeRange, error) {
	from, err := timeQuery(r, fromKey, false)
	if err != nil {
		return timeRange{}, err
	}
	to, err := timeQuery(r, toKey, true)
	if err != nil {
		return timeRange{}, err
	}
	return timeRange{from: from, to: to}, nil
}

func epochMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func epochMillisPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

type pageDTO struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func toPageDTO[T any](p application.Paged[T]) pageDTO {
	return pageDTO{Page: p.Page, PerPage: p.PerPage, Total: p.Total, TotalPages: p.TotalPages}
}

func mapItems[T, D any](items []T, convert func(T) D) []D {
	out := make([]D, 0, len(items))
	for _, item := range items {
		out = append(out, convert(item))
	}
	return out
}
