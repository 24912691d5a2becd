package pairs

import (
	"errors"

	"pairlog/pkg/models"
	"pairlog/pkg/utils"
)

// Role names one of the two fixed character slots of a pair.
type Role string

const (
	RoleMe    Role = "me"
	RoleOther Role = "other"
)

// ErrLastVersion rejects a delete or replace that would leave a role with
// no character version. The document is left unchanged; the UI is expected
// to explain why.
var ErrLastVersion = errors.New("a role must keep at least one character version")

func roleVersions(ch models.Characters, role Role) []models.CharacterVersion {
	if role == RoleMe {
		return ch.Me
	}
	return ch.Other
}

func withRoleVersions(ch models.Characters, role Role, list []models.CharacterVersion) models.Characters {
	if role == RoleMe {
		ch.Me = list
	} else {
		ch.Other = list
	}
	return ch
}

// AddCharacterVersion appends a fresh default version to the role's list.
func AddCharacterVersion(doc []models.Pair, pairID string, role Role, name, username string) []models.Pair {
	return updatePair(doc, pairID, func(p models.Pair) (models.Pair, bool) {
		cur := roleVersions(p.Characters, role)
		list := make([]models.CharacterVersion, 0, len(cur)+1)
		list = append(list, cur...)
		list = append(list, models.NewDefaultCharacterVersion(name, username))
		p.Characters = withRoleVersions(p.Characters, role, list)
		return p, true
	})
}

// CloneCharacterVersion duplicates a version under a fresh ID, suffixing
// the display name so the copy is tellable apart.
func CloneCharacterVersion(doc []models.Pair, pairID string, role Role, versionID string) []models.Pair {
	return updatePair(doc, pairID, func(p models.Pair) (models.Pair, bool) {
		cur := roleVersions(p.Characters, role)
		for i := range cur {
			if cur[i].ID != versionID {
				continue
			}
			clone := cur[i]
			clone.ID = utils.GenVersionID()
			clone.Name = clone.Name + " (복제)"
			clone.Tags = append([]string{}, cur[i].Tags...)
			list := make([]models.CharacterVersion, 0, len(cur)+1)
			list = append(list, cur...)
			list = append(list, clone)
			p.Characters = withRoleVersions(p.Characters, role, list)
			return p, true
		}
		return p, false
	})
}

// DeleteCharacterVersion removes a version from the role's list. The last
// remaining version of a role cannot be deleted: the attempt returns
// ErrLastVersion with the document unchanged. Unknown IDs are a silent
// no-op.
func DeleteCharacterVersion(doc []models.Pair, pairID string, role Role, versionID string) ([]models.Pair, error) {
	i := pairIndex(doc, pairID)
	if i < 0 {
		return doc, nil
	}
	p := doc[i]
	cur := roleVersions(p.Characters, role)
	at := -1
	for vi := range cur {
		if cur[vi].ID == versionID {
			at = vi
			break
		}
	}
	if at < 0 {
		return doc, nil
	}
	if len(cur) <= 1 {
		return doc, ErrLastVersion
	}
	list := make([]models.CharacterVersion, 0, len(cur)-1)
	list = append(list, cur[:at]...)
	list = append(list, cur[at+1:]...)
	p.Characters = withRoleVersions(p.Characters, role, list)
	return replacePair(doc, i, p), nil
}

// VersionUpdate carries field edits for a character version; nil fields
// are left as-is. A non-nil empty Tags slice clears the tags.
type VersionUpdate struct {
	Name          *string
	Username      *string
	Avatar        *string
	ProfileBanner *string
	HeaderColor1  *string
	HeaderColor2  *string
	StatusMessage *string
	Memo          *string
	Tags          []string
}

// UpdateCharacterVersion merges field edits into one version.
func UpdateCharacterVersion(doc []models.Pair, pairID string, role Role, versionID string, upd VersionUpdate) []models.Pair {
	return updatePair(doc, pairID, func(p models.Pair) (models.Pair, bool) {
		cur := roleVersions(p.Characters, role)
		for i := range cur {
			if cur[i].ID != versionID {
				continue
			}
			list := make([]models.CharacterVersion, len(cur))
			copy(list, cur)
			v := list[i]
			if upd.Name != nil {
				v.Name = *upd.Name
			}
			if upd.Username != nil {
				v.Username = *upd.Username
			}
			if upd.Avatar != nil {
				v.Avatar = *upd.Avatar
			}
			if upd.ProfileBanner != nil {
				v.ProfileBanner = *upd.ProfileBanner
			}
			if upd.HeaderColor1 != nil {
				v.HeaderColor1 = *upd.HeaderColor1
			}
			if upd.HeaderColor2 != nil {
				v.HeaderColor2 = *upd.HeaderColor2
			}
			if upd.StatusMessage != nil {
				v.StatusMessage = *upd.StatusMessage
			}
			if upd.Memo != nil {
				v.Memo = *upd.Memo
			}
			if upd.Tags != nil {
				v.Tags = append([]string{}, upd.Tags...)
			}
			list[i] = v
			p.Characters = withRoleVersions(p.Characters, role, list)
			return p, true
		}
		return p, false
	})
}

// ReplaceCharacters swaps the whole character data of a pair, as the
// character settings dialog saves it. Either role arriving empty violates
// the version floor and rejects the replace outright.
func ReplaceCharacters(doc []models.Pair, pairID string, ch models.Characters) ([]models.Pair, error) {
	i := pairIndex(doc, pairID)
	if i < 0 {
		return doc, nil
	}
	if len(ch.Me) == 0 || len(ch.Other) == 0 {
		return doc, ErrLastVersion
	}
	p := doc[i]
	p.Characters = ch
	return replacePair(doc, i, p), nil
}

// ResolveVersion finds the character version a message renders with. A
// deleted version falls back to the role's first remaining version instead
// of erroring; false is returned only when the role has no versions at
// all.
func ResolveVersion(p models.Pair, sender, versionID string) (models.CharacterVersion, bool) {
	list := p.Characters.Other
	if sender == models.SenderMe {
		list = p.Characters.Me
	}
	if len(list) == 0 {
		return models.CharacterVersion{}, false
	}
	for i := range list {
		if list[i].ID == versionID {
			return list[i], true
		}
	}
	return list[0], true
}
