package model

import (
	"time"

	"github.com/soochi-lab/soochi/pkg/domain/types"
)

// SeenURLRetention is how long a processed URL stays in the seen-URL store
// before Prune removes it. Feeds rarely resurface articles older than a week.
const SeenURLRetention = 7 * 24 * time.Hour

// SeenURL records a processed article URL with the metadata that later
// decorates Notion pages (source URL, source title, processed date).
type SeenURL struct {
	URLHash   types.URLHash
	URL       string
	Title     string
	CreatedAt time.Time
}
