package pairs

import "pairlog/pkg/models"

// ItemType names what a drag or drop handle points at.
type ItemType string

const (
	ItemFolder       ItemType = "folder"
	ItemConversation ItemType = "conversation"
	// ItemRoot is only valid as a drop target: the area outside any folder.
	ItemRoot ItemType = "root"
)

// Item identifies one side of a drag-and-drop gesture. The event plumbing
// in the UI reduces to gathering these two handles and calling
// ReorderItems; no placement logic lives in the event handlers.
type Item struct {
	ID   string   `json:"id"`
	Type ItemType `json:"type"`
}

// ReorderItems applies a drag-and-drop move inside one pair:
//
//   - conversation onto a folder: moved to the end of that folder's group,
//     adopting the folder's ID;
//   - conversation onto a conversation: adopts the target's folderId and is
//     spliced in at the target's array index (insert-before);
//   - conversation onto the root: folderId null, appended at the end;
//   - folder onto a folder: spliced to the target folder's position
//     (insert-before);
//   - folder onto anything else: appended to the end of the folder list.
//
// After any move, folder order is renumbered dense 0..n-1 by array
// position and conversation order is renumbered per sibling group (grouped
// by folderId, root included), each group independently dense from 0.
// Unknown drag or drop IDs leave the document unchanged.
func ReorderItems(doc []models.Pair, pairID string, drag, drop Item) []models.Pair {
	return updatePair(doc, pairID, func(p models.Pair) (models.Pair, bool) {
		switch drag.Type {
		case ItemConversation:
			return reorderConversation(p, drag, drop)
		case ItemFolder:
			return reorderFolder(p, drag, drop)
		}
		return p, false
	})
}

func reorderConversation(p models.Pair, drag, drop Item) (models.Pair, bool) {
	from := -1
	for i := range p.Conversations {
		if p.Conversations[i].ID == drag.ID {
			from = i
			break
		}
	}
	if from < 0 {
		return p, false
	}

	dragged := p.Conversations[from]
	rest := make([]models.Conversation, 0, len(p.Conversations))
	rest = append(rest, p.Conversations[:from]...)
	rest = append(rest, p.Conversations[from+1:]...)

	switch drop.Type {
	case ItemFolder:
		if !hasFolder(p, drop.ID) {
			return p, false
		}
		folderID := drop.ID
		dragged.FolderID = &folderID
		rest = append(rest, dragged)
	case ItemConversation:
		if drop.ID == drag.ID {
			return p, false
		}
		at := -1
		for i := range rest {
			if rest[i].ID == drop.ID {
				at = i
				break
			}
		}
		if at < 0 {
			return p, false
		}
		dragged.FolderID = rest[at].FolderID
		rest = append(rest[:at], append([]models.Conversation{dragged}, rest[at:]...)...)
	default: // root
		dragged.FolderID = nil
		rest = append(rest, dragged)
	}

	p.Conversations = rest
	renumber(&p)
	return p, true
}

func reorderFolder(p models.Pair, drag, drop Item) (models.Pair, bool) {
	from := -1
	for i := range p.Folders {
		if p.Folders[i].ID == drag.ID {
			from = i
			break
		}
	}
	if from < 0 {
		return p, false
	}

	if drop.Type == ItemFolder && drop.ID == drag.ID {
		return p, false
	}

	dragged := p.Folders[from]
	rest := make([]models.Folder, 0, len(p.Folders))
	rest = append(rest, p.Folders[:from]...)
	rest = append(rest, p.Folders[from+1:]...)

	if drop.Type == ItemFolder {
		at := -1
		for i := range rest {
			if rest[i].ID == drop.ID {
				at = i
				break
			}
		}
		if at < 0 {
			return p, false
		}
		rest = append(rest[:at], append([]models.Folder{dragged}, rest[at:]...)...)
	} else {
		rest = append(rest, dragged)
	}

	p.Folders = rest
	renumber(&p)
	return p, true
}

// renumber restores ordering density after a move: folders get 0..n-1 by
// array position, conversations get an independent 0..m-1 inside each
// folderId group. Partial renumbering would violate the density invariant,
// so this always walks everything.
func renumber(p *models.Pair) {
	folders := make([]models.Folder, len(p.Folders))
	copy(folders, p.Folders)
	for i := range folders {
		folders[i].Order = i
	}
	p.Folders = folders

	convos := make([]models.Conversation, len(p.Conversations))
	copy(convos, p.Conversations)
	next := map[string]int{}
	for i := range convos {
		key := "root"
		if convos[i].FolderID != nil {
			key = *convos[i].FolderID
		}
		convos[i].Order = next[key]
		next[key]++
	}
	p.Conversations = convos
}
