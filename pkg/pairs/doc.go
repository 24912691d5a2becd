// Package pairs implements the document model operations for the pair
// collection: schema migration on load and the full set of structural edit
// operations (create/move/reorder/delete) over pairs, folders,
// conversations, messages, stickers and character versions.
//
// Every operation is a pure function of (document, arguments) -> document.
// Operations never mutate the input; they rebuild only the slices along the
// changed path. An operation targeting an unknown ID returns the input
// document unchanged, so callers that need confirmation compare before and
// after. Guard-rejecting operations additionally return an error and leave
// the document untouched.
package pairs

import "pairlog/pkg/models"

// pairIndex returns the index of the pair with the given ID, or -1.
func pairIndex(doc []models.Pair, id string) int {
	for i := range doc {
		if doc[i].ID == id {
			return i
		}
	}
	return -1
}

// replacePair returns a new document with the pair at index i swapped out.
func replacePair(doc []models.Pair, i int, p models.Pair) []models.Pair {
	out := make([]models.Pair, len(doc))
	copy(out, doc)
	out[i] = p
	return out
}

// updatePair applies fn to the pair with the given ID. fn receives a copy
// and reports whether it changed anything; when the pair is absent or fn
// reports no change the input document is returned as-is.
func updatePair(doc []models.Pair, pairID string, fn func(models.Pair) (models.Pair, bool)) []models.Pair {
	i := pairIndex(doc, pairID)
	if i < 0 {
		return doc
	}
	p, ok := fn(doc[i])
	if !ok {
		return doc
	}
	return replacePair(doc, i, p)
}

// updateConversation applies fn to one conversation inside one pair with
// the same copy-on-write and no-op rules as updatePair.
func updateConversation(doc []models.Pair, pairID, convoID string, fn func(models.Conversation) (models.Conversation, bool)) []models.Pair {
	return updatePair(doc, pairID, func(p models.Pair) (models.Pair, bool) {
		for ci := range p.Conversations {
			if p.Conversations[ci].ID != convoID {
				continue
			}
			nc, ok := fn(p.Conversations[ci])
			if !ok {
				return p, false
			}
			convos := make([]models.Conversation, len(p.Conversations))
			copy(convos, p.Conversations)
			convos[ci] = nc
			p.Conversations = convos
			return p, true
		}
		return p, false
	})
}

func emptyIfNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
