package workspace

import (
	"encoding/json"
	"fmt"
	"time"
)

// ItemKind distinguishes folders from files in the item tree
type ItemKind string

const (
	KindFolder ItemKind = "folder"
	KindFile   ItemKind = "file"
)

// Valid reports whether k is a known kind
func (k ItemKind) Valid() bool {
	return k == KindFolder || k == KindFile
}

// DefaultFileType is used when a caller creates a file without a file_type
const DefaultFileType = "document"

// FileAttributes holds the fields that only exist on file items
type FileAttributes struct {
	FileType string `json:"file_type"`
	FileURL  string `json:"file_url"`
	Size     *int64 `json:"size"`
}

// Item is a node of a user's folder/file tree.
// File is non-nil if and only if Kind == KindFile.
type Item struct {
	ID        string
	UserID    string
	Kind      ItemKind
	Name      string
	ParentID  *string // NULL = root level
	File      *FileAttributes
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewFolder builds an unsaved folder item
func NewFolder(userID, name string, parentID *string) *Item {
	return &Item{
		UserID:   userID,
		Kind:     KindFolder,
		Name:     name,
		ParentID: parentID,
	}
}

// NewFile builds an unsaved file item
func NewFile(userID, name string, parentID *string, attrs FileAttributes) *Item {
	return &Item{
		UserID:   userID,
		Kind:     KindFile,
		Name:     name,
		ParentID: parentID,
		File:     &attrs,
	}
}

// IsFolder reports whether the item can hold children
func (i *Item) IsFolder() bool {
	return i.Kind == KindFolder
}

// IsRoot reports whether the item sits at the top level
func (i *Item) IsRoot() bool {
	return i.ParentID == nil
}

// itemJSON is the flat wire form used by the API and the original frontend
type itemJSON struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      ItemKind  `json:"type"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parent_id"`
	FileType  *string   `json:"file_type,omitempty"`
	FileURL   *string   `json:"file_url,omitempty"`
	Size      *int64    `json:"size,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MarshalJSON flattens the file attributes into the item object
func (i Item) MarshalJSON() ([]byte, error) {
	out := itemJSON{
		ID:        i.ID,
		UserID:    i.UserID,
		Type:      i.Kind,
		Name:      i.Name,
		ParentID:  i.ParentID,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
	if i.File != nil {
		out.FileType = &i.File.FileType
		out.FileURL = &i.File.FileURL
		out.Size = i.File.Size
	}
	return json.Marshal(out)
}

// UnmarshalJSON rebuilds the tagged variant from the flat wire form
func (i *Item) UnmarshalJSON(data []byte) error {
	var in itemJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if !in.Type.Valid() {
		return fmt.Errorf("unknown item type %q", in.Type)
	}

	*i = Item{
		ID:        in.ID,
		UserID:    in.UserID,
		Kind:      in.Type,
		Name:      in.Name,
		ParentID:  in.ParentID,
		CreatedAt: in.CreatedAt,
		UpdatedAt: in.UpdatedAt,
	}
	if in.Type == KindFile {
		attrs := FileAttributes{Size: in.Size}
		if in.FileType != nil {
			attrs.FileType = *in.FileType
		}
		if in.FileURL != nil {
			attrs.FileURL = *in.FileURL
		}
		i.File = &attrs
	}
	return nil
}
