package pairs

import (
	"pairlog/pkg/models"
	"pairlog/pkg/utils"
)

// PairDetails carries the caller-supplied fields for a new pair. Theme, if
// set, overlays the default workspace theme (the chosen generated
// candidate's flat key/value map).
type PairDetails struct {
	Title           string
	Tags            []string
	BackgroundImage string
	Theme           map[string]any
}

// CreatePair appends a new pair with empty folders, conversations and
// tags, the default (or overlaid) theme, and exactly one default character
// version per role. The ID is freshly generated.
func CreatePair(doc []models.Pair, d PairDetails) []models.Pair {
	theme := models.DefaultWorkspaceTheme()
	for k, v := range d.Theme {
		theme[k] = v
	}
	p := models.Pair{
		ID:              utils.GenPairID(),
		Title:           d.Title,
		Tags:            emptyIfNil(d.Tags),
		BackgroundImage: d.BackgroundImage,
		Theme:           theme,
		Characters:      models.DefaultCharacters(),
		Folders:         []models.Folder{},
		Conversations:   []models.Conversation{},
		SlideImages:     []string{},
	}
	out := make([]models.Pair, 0, len(doc)+1)
	out = append(out, doc...)
	return append(out, p)
}

// DeletePair removes the pair with the given ID. Referenced blobs are
// detached, not deleted; the sweeper reclaims them later.
func DeletePair(doc []models.Pair, id string) []models.Pair {
	i := pairIndex(doc, id)
	if i < 0 {
		return doc
	}
	out := make([]models.Pair, 0, len(doc)-1)
	out = append(out, doc[:i]...)
	return append(out, doc[i+1:]...)
}

// UpdatePairDetails replaces the pair's title and tags.
func UpdatePairDetails(doc []models.Pair, id, title string, tags []string) []models.Pair {
	return updatePair(doc, id, func(p models.Pair) (models.Pair, bool) {
		p.Title = title
		p.Tags = emptyIfNil(tags)
		return p, true
	})
}

// UpdatePairTheme replaces the pair's workspace theme map.
func UpdatePairTheme(doc []models.Pair, id string, theme map[string]any) []models.Pair {
	return updatePair(doc, id, func(p models.Pair) (models.Pair, bool) {
		p.Theme = theme
		return p, true
	})
}

// UpdateBackgroundImage replaces the pair's background image reference.
func UpdateBackgroundImage(doc []models.Pair, id, ref string) []models.Pair {
	return updatePair(doc, id, func(p models.Pair) (models.Pair, bool) {
		p.BackgroundImage = ref
		return p, true
	})
}

// AddSlideImage appends a blob reference to the pair's slideshow.
func AddSlideImage(doc []models.Pair, id, blobID string) []models.Pair {
	return updatePair(doc, id, func(p models.Pair) (models.Pair, bool) {
		imgs := make([]string, 0, len(p.SlideImages)+1)
		imgs = append(imgs, p.SlideImages...)
		p.SlideImages = append(imgs, blobID)
		return p, true
	})
}

// DeleteSlideImage removes a blob reference from the pair's slideshow. The
// blob itself is the caller's to delete.
func DeleteSlideImage(doc []models.Pair, id, blobID string) []models.Pair {
	return updatePair(doc, id, func(p models.Pair) (models.Pair, bool) {
		for i, img := range p.SlideImages {
			if img != blobID {
				continue
			}
			imgs := make([]string, 0, len(p.SlideImages)-1)
			imgs = append(imgs, p.SlideImages[:i]...)
			p.SlideImages = append(imgs, p.SlideImages[i+1:]...)
			return p, true
		}
		return p, false
	})
}

// ReorderPairs moves the dragged pair to the target pair's position
// (insert-before). Unknown IDs leave the document unchanged.
func ReorderPairs(doc []models.Pair, draggedID, targetID string) []models.Pair {
	from := pairIndex(doc, draggedID)
	to := pairIndex(doc, targetID)
	if from < 0 || to < 0 || from == to {
		return doc
	}
	out := make([]models.Pair, 0, len(doc))
	out = append(out, doc[:from]...)
	out = append(out, doc[from+1:]...)
	dragged := doc[from]
	to = pairIndex(out, targetID)
	out = append(out[:to], append([]models.Pair{dragged}, out[to:]...)...)
	return out
}
