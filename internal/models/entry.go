package models

// Entry types recorded by scanners.
const (
	EntryTypeEntry  = "entry"
	EntryTypeExit   = "exit"
	EntryTypeDelete = "delete"
)

// Entry is an immutable log record for an asset. The asset itself has no row;
// it is the set of entries sharing AssetID.
type Entry struct {
	ID        string  `json:"id" validate:"required"`
	AssetID   string  `json:"asset_id" validate:"required"`
	Timestamp string  `json:"timestamp" validate:"required"`
	Type      string  `json:"type" validate:"required"`
	Location  string  `json:"location" validate:"required"`
	Remarks   *string `json:"remarks"`
	Name      *string `json:"name,omitempty"`
	Model     *string `json:"model,omitempty"`
	Condition *string `json:"condition,omitempty"`
}

// AssetGroup is an asset derived from its entries, in insertion order.
// Name, Model and Condition come from the latest entry that carries them.
type AssetGroup struct {
	ID        string  `json:"id"`
	Entries   []Entry `json:"entries"`
	Name      *string `json:"name"`
	Model     *string `json:"model"`
	Condition *string `json:"condition"`
}

// Append adds e to the group and refreshes the descriptive fields
func (g *AssetGroup) Append(e Entry) {
	g.Entries = append(g.Entries, e)
	if e.Name != nil {
		g.Name = e.Name
	}
	if e.Model != nil {
		g.Model = e.Model
	}
	if e.Condition != nil {
		g.Condition = e.Condition
	}
}

// CurrentStatus reports the asset's state as implied by its last entry
func (g AssetGroup) CurrentStatus() string {
	if len(g.Entries) == 0 {
		return "Unknown"
	}
	switch g.Entries[len(g.Entries)-1].Type {
	case EntryTypeEntry:
		return "In Stock"
	case EntryTypeExit:
		return "Checked Out"
	case EntryTypeDelete:
		return "Deleted"
	default:
		return "Unknown"
	}
}
