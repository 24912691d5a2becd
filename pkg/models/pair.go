package models

import (
	"encoding/json"

	"pairlog/pkg/utils"
)

// Pair is the root aggregate: a named chat collection owning its folders,
// conversations and the character version lists for both roles. Binary
// payloads are referenced by blob ID only and may fail to resolve.
type Pair struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Tags            []string       `json:"tags"`
	BackgroundImage string         `json:"backgroundImage,omitempty"`
	Theme           map[string]any `json:"theme,omitempty"`
	Characters      Characters     `json:"characters"`
	Folders         []Folder       `json:"folders"`
	Conversations   []Conversation `json:"conversations"`
	SlideImages     []string       `json:"slideImages"`
}

// Characters holds the version lists for the two fixed roles. Each list
// must keep at least one version at all times.
type Characters struct {
	Me    []CharacterVersion `json:"me"`
	Other []CharacterVersion `json:"other"`
}

// CharacterVersion is one named profile variant for a role.
type CharacterVersion struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Username      string   `json:"username"`
	Avatar        string   `json:"avatar,omitempty"`
	ProfileBanner string   `json:"profileBanner,omitempty"`
	HeaderColor1  string   `json:"headerColor1,omitempty"`
	HeaderColor2  string   `json:"headerColor2,omitempty"`
	StatusMessage string   `json:"statusMessage,omitempty"`
	Memo          string   `json:"memo,omitempty"`
	Tags          []string `json:"tags"`
}

// UnmarshalJSON tolerates malformed array fields in stored pairs: a
// non-array value where a list is expected reads as empty instead of
// failing the whole document.
func (p *Pair) UnmarshalJSON(b []byte) error {
	var aux struct {
		ID              string          `json:"id"`
		Title           string          `json:"title"`
		Tags            json.RawMessage `json:"tags"`
		BackgroundImage string          `json:"backgroundImage"`
		Theme           json.RawMessage `json:"theme"`
		Characters      json.RawMessage `json:"characters"`
		Folders         json.RawMessage `json:"folders"`
		Conversations   json.RawMessage `json:"conversations"`
		SlideImages     json.RawMessage `json:"slideImages"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	p.ID = aux.ID
	p.Title = aux.Title
	p.BackgroundImage = aux.BackgroundImage
	p.Tags = lenientList[string](aux.Tags)
	p.Folders = lenientList[Folder](aux.Folders)
	p.Conversations = lenientList[Conversation](aux.Conversations)
	p.SlideImages = lenientList[string](aux.SlideImages)
	p.Theme = nil
	if len(aux.Theme) > 0 {
		_ = json.Unmarshal(aux.Theme, &p.Theme)
	}
	p.Characters = Characters{}
	if len(aux.Characters) > 0 {
		_ = json.Unmarshal(aux.Characters, &p.Characters)
	}
	return nil
}

// HasFolders reports whether the stored pair carried a folders field. A nil
// slice means the field was absent (or coerced) and must be backfilled by
// migration.
func (p *Pair) HasFolders() bool { return p.Folders != nil }

// NewDefaultCharacterVersion builds the default profile variant used when a
// role has no explicit version yet.
func NewDefaultCharacterVersion(name, username string) CharacterVersion {
	if name == "" {
		name = "기본 버전"
	}
	return CharacterVersion{
		ID:           utils.GenVersionID(),
		Name:         name,
		Username:     username,
		HeaderColor1: "#232428",
		HeaderColor2: "#232428",
		Tags:         []string{},
	}
}

// DefaultCharacters returns the version lists a freshly created pair starts
// with: exactly one default version per role.
func DefaultCharacters() Characters {
	return Characters{
		Me:    []CharacterVersion{NewDefaultCharacterVersion("A 캐릭터", "user_a")},
		Other: []CharacterVersion{NewDefaultCharacterVersion("B 캐릭터", "user_b")},
	}
}

// DefaultWorkspaceTheme returns the flat key/value theme applied to new
// pairs when no generated candidate is chosen.
func DefaultWorkspaceTheme() map[string]any {
	return map[string]any{
		"name":            "Clean Light",
		"appBg":           "#F0F2F5",
		"headerTitleColor": "#212529",
		"borderColor":     "#E9ECEF",
		"sidebarBg":       "#FFFFFF",
		"headerBg":        "#FFFFFF",
		"footerBg":        "#FFFFFF",
		"chatBg":          "#FFFFFF",
		"sidebarInputBg":  "#F0F2F5",
		"inputBg":         "#F0F2F5",
		"buttonBg":        "#5865F2",
		"bubbleMeBg":      "#5865F2",
		"nameMeColor":     "#5865F2",
		"bubbleOtherBg":   "#E9ECEF",
		"textColor":       "#212529",
		"nameOtherColor":  "#868E96",
		"mediaMaxWidth":   400,
	}
}

// DefaultGlobalTheme returns the app-level theme defaults (title bar and
// dashboard background).
func DefaultGlobalTheme() map[string]string {
	return map[string]string{
		"titleBarBg":  "#FFFFFF",
		"dashboardBg": "#F0F2F5",
	}
}

// lenientList decodes a JSON array into a typed slice, treating absent or
// non-array values as empty.
func lenientList[T any](raw json.RawMessage) []T {
	if len(raw) == 0 {
		return nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
