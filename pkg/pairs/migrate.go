package pairs

import "pairlog/pkg/models"

// Migrate upgrades a loaded pair collection in place of a versioning
// envelope: old documents are recognized purely by absent fields. It
// backfills
//
//   - a missing folders list with an empty one,
//   - a missing conversation order with the conversation's positional
//     index within the pair's conversation array (not re-scoped per
//     folder), and
//   - a missing folderId with null (already the zero value after decode).
//
// Migration is idempotent and additive: it never deletes or reorders
// existing data. When nothing needs backfilling the input document is
// returned unchanged.
func Migrate(doc []models.Pair) []models.Pair {
	var out []models.Pair
	for i := range doc {
		p, changed := migratePair(doc[i])
		if !changed {
			continue
		}
		if out == nil {
			out = make([]models.Pair, len(doc))
			copy(out, doc)
		}
		out[i] = p
	}
	if out == nil {
		return doc
	}
	return out
}

func migratePair(p models.Pair) (models.Pair, bool) {
	changed := false
	if p.Folders == nil {
		p.Folders = []models.Folder{}
		changed = true
	}
	var convos []models.Conversation
	for ci := range p.Conversations {
		if p.Conversations[ci].Order != models.OrderUnset {
			continue
		}
		if convos == nil {
			convos = make([]models.Conversation, len(p.Conversations))
			copy(convos, p.Conversations)
		}
		convos[ci].Order = ci
	}
	if convos != nil {
		p.Conversations = convos
		changed = true
	}
	return p, changed
}
