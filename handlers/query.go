// backend/handlers/query.go
package handlers

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gewnthar/sitetrack/models"
	"github.com/gewnthar/sitetrack/utils"
)

// listParam collects a list filter from repeated keys and comma-separated values.
func listParam(q url.Values, key string) []string {
	var out []string
	for _, raw := range q[key] {
		for _, part := range strings.Split(raw, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// parseFilterState reads a FilterState from the query string:
// package (ID or name), district, discipline, delay_flag, search, start,
// end, delayed_only.
func parseFilterState(q url.Values) (models.FilterState, error) {
	f := models.FilterState{
		PackageNames:   listParam(q, "package"),
		Districts:      listParam(q, "district"),
		Disciplines:    listParam(q, "discipline"),
		DelayFlags:     listParam(q, "delay_flag"),
		SiteNameSearch: strings.TrimSpace(q.Get("search")),
	}

	if s := strings.TrimSpace(q.Get("start")); s != "" {
		f.DateRangeStart = utils.ParseDate(s)
		if f.DateRangeStart == nil {
			return f, fmt.Errorf("invalid 'start' date %q", s)
		}
	}
	if s := strings.TrimSpace(q.Get("end")); s != "" {
		f.DateRangeEnd = utils.ParseDate(s)
		if f.DateRangeEnd == nil {
			return f, fmt.Errorf("invalid 'end' date %q", s)
		}
	}
	if s := strings.TrimSpace(q.Get("delayed_only")); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return f, fmt.Errorf("invalid 'delayed_only' value %q", s)
		}
		f.ShowOnlyDelayed = b
	}
	return f, nil
}
