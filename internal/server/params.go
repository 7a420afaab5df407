package server

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/jai/internal/apperr"
	"github.com/agenthands/jai/internal/core/model"
)

const dateLayout = "2006-01-02"

// parseCriteria reads the listing query. Absent parameters keep the
// listing defaults; malformed ones are a validation error.
func parseCriteria(c *gin.Context) (model.Criteria, error) {
	criteria := model.NewCriteria()
	criteria.Mood = model.Mood(c.Query("mood"))
	criteria.Tag = c.Query("tag")
	criteria.FreeText = c.Query("search")

	details := map[string]string{}

	if v, ok := queryValue(c, "page"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			details["page"] = "must be an integer"
		}
		criteria.Page = n
	}
	if v, ok := queryValue(c, "limit"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			details["limit"] = "must be an integer"
		}
		criteria.Limit = n
	}
	if v, ok := queryValue(c, "from"); ok {
		t, err := parseBound(v, false)
		if err != nil {
			details["from"] = "must be RFC 3339 or YYYY-MM-DD"
		}
		criteria.From = t
	}
	if v, ok := queryValue(c, "to"); ok {
		t, err := parseBound(v, true)
		if err != nil {
			details["to"] = "must be RFC 3339 or YYYY-MM-DD"
		}
		criteria.To = t
	}

	if len(details) > 0 {
		return model.Criteria{}, apperr.ValidationWithDetails("invalid query parameters", details)
	}
	return criteria, nil
}

func queryValue(c *gin.Context, key string) (string, bool) {
	v := strings.TrimSpace(c.Query(key))
	return v, v != ""
}

// parseBound parses a date filter. A date-only upper bound covers the whole
// day.
func parseBound(v string, upper bool) (*time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, err
	}
	if upper {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
