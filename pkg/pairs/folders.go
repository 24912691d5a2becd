package pairs

import (
	"pairlog/pkg/models"
	"pairlog/pkg/utils"
)

// ConvoDetails carries the caller-supplied fields for a new or edited
// conversation.
type ConvoDetails struct {
	Title string
	Tags  []string
}

// AddConversation appends a root-level conversation. Its order is the
// current count of root-level conversations in the pair, keeping the root
// sibling group dense without a renumber pass.
func AddConversation(doc []models.Pair, pairID string, d ConvoDetails) []models.Pair {
	return updatePair(doc, pairID, func(p models.Pair) (models.Pair, bool) {
		rootCount := 0
		for i := range p.Conversations {
			if p.Conversations[i].FolderID == nil {
				rootCount++
			}
		}
		c := models.Conversation{
			ID:       utils.GenConvoID(),
			Title:    d.Title,
			Tags:     emptyIfNil(d.Tags),
			FolderID: nil,
			Order:    rootCount,
			Messages: []models.Message{},
			Stickers: []models.Sticker{},
		}
		convos := make([]models.Conversation, 0, len(p.Conversations)+1)
		convos = append(convos, p.Conversations...)
		p.Conversations = append(convos, c)
		return p, true
	})
}

// UpdateConversation replaces a conversation's title and tags.
func UpdateConversation(doc []models.Pair, pairID, convoID string, d ConvoDetails) []models.Pair {
	return updateConversation(doc, pairID, convoID, func(c models.Conversation) (models.Conversation, bool) {
		c.Title = d.Title
		c.Tags = emptyIfNil(d.Tags)
		return c, true
	})
}

// DeleteConversation removes a conversation and everything it owns.
func DeleteConversation(doc []models.Pair, pairID, convoID string) []models.Pair {
	return updatePair(doc, pairID, func(p models.Pair) (models.Pair, bool) {
		for i := range p.Conversations {
			if p.Conversations[i].ID != convoID {
				continue
			}
			convos := make([]models.Conversation, 0, len(p.Conversations)-1)
			convos = append(convos, p.Conversations[:i]...)
			p.Conversations = append(convos, p.Conversations[i+1:]...)
			return p, true
		}
		return p, false
	})
}

// AddFolder appends a folder with order equal to the current folder count.
func AddFolder(doc []models.Pair, pairID, name string, tags []string) []models.Pair {
	return updatePair(doc, pairID, func(p models.Pair) (models.Pair, bool) {
		f := models.Folder{
			ID:    utils.GenFolderID(),
			Name:  name,
			Tags:  emptyIfNil(tags),
			Order: len(p.Folders),
		}
		folders := make([]models.Folder, 0, len(p.Folders)+1)
		folders = append(folders, p.Folders...)
		p.Folders = append(folders, f)
		return p, true
	})
}

// RenameFolder replaces a folder's name and tags.
func RenameFolder(doc []models.Pair, pairID, folderID, name string, tags []string) []models.Pair {
	return updatePair(doc, pairID, func(p models.Pair) (models.Pair, bool) {
		for i := range p.Folders {
			if p.Folders[i].ID != folderID {
				continue
			}
			folders := make([]models.Folder, len(p.Folders))
			copy(folders, p.Folders)
			folders[i].Name = name
			folders[i].Tags = emptyIfNil(tags)
			p.Folders = folders
			return p, true
		}
		return p, false
	})
}

// DeleteFolder removes the folder and resets folderId to null on every
// conversation that referenced it. Conversations are never deleted as a
// side effect; they rejoin the root group in their existing relative order.
func DeleteFolder(doc []models.Pair, pairID, folderID string) []models.Pair {
	return updatePair(doc, pairID, func(p models.Pair) (models.Pair, bool) {
		fi := -1
		for i := range p.Folders {
			if p.Folders[i].ID == folderID {
				fi = i
				break
			}
		}
		if fi < 0 {
			return p, false
		}
		folders := make([]models.Folder, 0, len(p.Folders)-1)
		folders = append(folders, p.Folders[:fi]...)
		p.Folders = append(folders, p.Folders[fi+1:]...)

		convos := make([]models.Conversation, len(p.Conversations))
		copy(convos, p.Conversations)
		for i := range convos {
			if convos[i].FolderID != nil && *convos[i].FolderID == folderID {
				convos[i].FolderID = nil
			}
		}
		p.Conversations = convos
		return p, true
	})
}

// MoveConversationToFolder reassigns a conversation's folderId; nil moves
// it to the root. It does not recompute order: readers must tolerate
// sparse or duplicate order values inside a sibling group by falling back
// to stable array order, and callers that care follow with ReorderItems.
// A folderID that does not name a folder of the same pair is a no-op so
// the dangling-reference invariant cannot be violated.
func MoveConversationToFolder(doc []models.Pair, pairID, convoID string, folderID *string) []models.Pair {
	return updatePair(doc, pairID, func(p models.Pair) (models.Pair, bool) {
		if folderID != nil && !hasFolder(p, *folderID) {
			return p, false
		}
		for i := range p.Conversations {
			if p.Conversations[i].ID != convoID {
				continue
			}
			convos := make([]models.Conversation, len(p.Conversations))
			copy(convos, p.Conversations)
			convos[i].FolderID = folderID
			p.Conversations = convos
			return p, true
		}
		return p, false
	})
}

func hasFolder(p models.Pair, folderID string) bool {
	for i := range p.Folders {
		if p.Folders[i].ID == folderID {
			return true
		}
	}
	return false
}
