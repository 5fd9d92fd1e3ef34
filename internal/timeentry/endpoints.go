package timeentry

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

const basePath = "/time_entries"

// listPath builds the list endpoint. start_date always precedes end_date.
func listPath(start, end *time.Time) string {
	var params []string
	if start != nil {
		params = append(params, "start_date="+url.QueryEscape(start.Format(time.RFC3339)))
	}
	if end != nil {
		params = append(params, "end_date="+url.QueryEscape(end.Format(time.RFC3339)))
	}
	if len(params) == 0 {
		return basePath
	}
	return basePath + "?" + strings.Join(params, "&")
}

func startPath() string { return basePath + "/start" }

func currentPath() string { return basePath + "/current" }

func entryPath(id int64) string { return basePath + "/" + strconv.FormatInt(id, 10) }

func stopPath(id int64) string { return entryPath(id) + "/stop" }
