package sinks

import (
	"path"
	"strings"
	"time"

	"github.com/fjlanasa/gtfs-feeds/records"
)

const (
	attributeURL  = "gtfsurl"
	attributeType = "gtfstype"
)

// objectName builds "<gtfstype>/<UTC timestamp>.<ext>". Whole-feed results
// have no gtfstype and land under "feed".
func objectName(result records.Result, now time.Time, ext string) string {
	group := result.Attributes[attributeType]
	if group == "" {
		group = "feed"
	}
	group = strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(group)
	return path.Join(group, now.UTC().Format("20060102T150405.000000000Z")+"."+ext)
}
