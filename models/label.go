package models

// LabelType distinguishes server-managed labels from user-created ones
type LabelType string

const (
	LabelTypeSystem LabelType = "system"
	LabelTypeUser   LabelType = "user"
)

// Label represents a mailbox label/tag as returned by the Outpost backend
type Label struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	DisplayName     string    `json:"display_name"`
	Type            LabelType `json:"type"`
	ThreadCount     *int      `json:"thread_count,omitempty"`
	Color           string    `json:"color,omitempty"` // Hex code, e.g. "#FF0000"
	AutoLabel       *bool     `json:"auto_label,omitempty"`
	AutoLabelEmails []string  `json:"auto_label_emails,omitempty"`
}

// LabelPatch is a partial label update. Nil fields are left untouched
// when the patch is applied.
type LabelPatch struct {
	Name            *string    `json:"name,omitempty"`
	DisplayName     *string    `json:"display_name,omitempty"`
	Type            *LabelType `json:"type,omitempty"`
	ThreadCount     *int       `json:"thread_count,omitempty"`
	Color           *string    `json:"color,omitempty"`
	AutoLabel       *bool      `json:"auto_label,omitempty"`
	AutoLabelEmails []string   `json:"auto_label_emails,omitempty"`
}

// Apply merges the patch into the label, preserving fields the patch
// does not carry.
func (p LabelPatch) Apply(l *Label) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.DisplayName != nil {
		l.DisplayName = *p.DisplayName
	}
	if p.Type != nil {
		l.Type = *p.Type
	}
	if p.ThreadCount != nil {
		l.ThreadCount = p.ThreadCount
	}
	if p.Color != nil {
		l.Color = *p.Color
	}
	if p.AutoLabel != nil {
		l.AutoLabel = p.AutoLabel
	}
	if p.AutoLabelEmails != nil {
		l.AutoLabelEmails = p.AutoLabelEmails
	}
}

// Empty reports whether the patch carries no fields at all.
func (p LabelPatch) Empty() bool {
	return p.Name == nil && p.DisplayName == nil && p.Type == nil &&
		p.ThreadCount == nil && p.Color == nil && p.AutoLabel == nil &&
		p.AutoLabelEmails == nil
}
