package memgraph

var indexQueries = []string{
	"CREATE INDEX ON :Entry(id);",
	"CREATE INDEX ON :Entry(owner_id);",
	"CREATE INDEX ON :Entry(created_ts);",
}

const entryProjection = `
		e.id AS id,
		e.owner_id AS owner_id,
		e.title AS title,
		e.content AS content,
		e.mood AS mood,
		e.tags AS tags,
		e.summary AS summary,
		e.has_summary AS has_summary,
		e.created_ts AS created_ts,
		e.updated_ts AS updated_ts`

const (
	CreateEntryQuery = `
		CREATE (e:Entry {
			id: $id,
			owner_id: $owner_id,
			title: $title,
			title_lc: $title_lc,
			content: $content,
			content_lc: $content_lc,
			mood: $mood,
			tags: $tags,
			summary: $summary,
			has_summary: $has_summary,
			created_ts: $created_ts
		})
		RETURN e.id AS id
	`

	GetEntryQuery = `
		MATCH (e:Entry {id: $id, owner_id: $owner_id})
		RETURN` + entryProjection

	// UpdateEntryQuery merges only the patched properties in one statement.
	UpdateEntryQuery = `
		MATCH (e:Entry {id: $id, owner_id: $owner_id})
		SET e += $props
		RETURN` + entryProjection

	DeleteEntryQuery = `
		MATCH (e:Entry {id: $id, owner_id: $owner_id})
		WITH e, e.id AS id
		DETACH DELETE e
		RETURN count(id) AS deleted
	`

	matchEntries = `
		MATCH (e:Entry)
		WHERE `

	countEntriesReturn = `
		RETURN count(e) AS total
	`

	pageEntriesReturn = `
		RETURN` + entryProjection + `
		ORDER BY e.created_ts DESC, e.id DESC
		SKIP $skip
		LIMIT $limit
	`
)
