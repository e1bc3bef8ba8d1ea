package outreach

import (
	"errors"
	"fmt"

	"hiring/sourcing-service/internal/model"
)

var (
	// ErrNoTemplates is returned when a language has no template to select.
	ErrNoTemplates = errors.New("no templates available for language")

	// ErrUnknownTemplate is returned when a template id is not available.
	ErrUnknownTemplate = errors.New("unknown template")
)

func find(id string, available []model.OutreachTemplate) (model.OutreachTemplate, bool) {
	for _, t := range available {
		if t.ID == id {
			return t, true
		}
	}
	return model.OutreachTemplate{}, false
}

func firstInLanguage(lang string, available []model.OutreachTemplate) (string, bool) {
	for _, t := range available {
		if t.Language == lang {
			return t.ID, true
		}
	}
	return "", false
}

// SelectEquivalent returns the template to show after switching to lang.
// It prefers the sibling of currentID (same GroupID) in lang, then the first
// template in lang. It reports false only when lang has no template at all.
func SelectEquivalent(currentID, lang string, available []model.OutreachTemplate) (string, bool) {
	if cur, ok := find(currentID, available); ok {
		if cur.Language == lang {
			return cur.ID, true
		}
		if cur.GroupID != "" {
			for _, t := range available {
				if t.GroupID == cur.GroupID && t.Language == lang {
					return t.ID, true
				}
			}
		}
	}
	return firstInLanguage(lang, available)
}

// AutoSelect keeps selectedID when it is still available and otherwise picks
// the first template in lang.
func AutoSelect(selectedID, lang string, available []model.OutreachTemplate) (string, bool) {
	if selectedID != "" {
		if _, ok := find(selectedID, available); ok {
			return selectedID, true
		}
	}
	return firstInLanguage(lang, available)
}

// Draft is the state of the outreach editor for one candidate. The message
// starts as a rendering of the selected template and is freely editable
// afterwards; Message returns whatever the user left in the editor.
type Draft struct {
	Candidate  model.Candidate
	Language   string
	TemplateID string
	message    string
	edited     bool

	templates []model.OutreachTemplate
	sender    Sender
}

// NewDraft opens the editor for c in lang, auto-selecting the first template
// of that language.
func NewDraft(c model.Candidate, lang string, templates []model.OutreachTemplate, s Sender) (*Draft, error) {
	if !IsLanguage(lang) {
		return nil, fmt.Errorf("unsupported language %q", lang)
	}
	d := &Draft{Candidate: c, Language: lang, templates: templates, sender: s}
	if id, ok := AutoSelect("", lang, templates); ok {
		d.TemplateID = id
		d.rerender()
	}
	return d, nil
}

func (d *Draft) rerender() {
	tpl, ok := find(d.TemplateID, d.templates)
	if !ok {
		return
	}
	d.message = Render(tpl, d.Candidate, d.sender)
	d.edited = false
}

// SetLanguage switches the editor to lang, keeping the same logical template
// when a sibling exists. The message is re-rendered from the new template.
func (d *Draft) SetLanguage(lang string) error {
	if !IsLanguage(lang) {
		return fmt.Errorf("unsupported language %q", lang)
	}
	id, ok := SelectEquivalent(d.TemplateID, lang, d.templates)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoTemplates, lang)
	}
	d.Language = lang
	d.TemplateID = id
	d.rerender()
	return nil
}

// SelectTemplate picks a template explicitly; the editor follows its
// language.
func (d *Draft) SelectTemplate(id string) error {
	tpl, ok := find(id, d.templates)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTemplate, id)
	}
	d.TemplateID = tpl.ID
	d.Language = tpl.Language
	d.rerender()
	return nil
}

// Edit replaces the editor text.
func (d *Draft) Edit(text string) {
	d.message = text
	d.edited = true
}

// Message returns the current editor text.
func (d *Draft) Message() string { return d.message }

// Edited reports whether the text differs from the last rendering.
func (d *Draft) Edited() bool { return d.edited }

// Templates returns the templates the editor can choose from.
func (d *Draft) Templates() []model.OutreachTemplate { return d.templates }

// TemplateRef returns the selected template id, or nil when the message has
// no template behind it.
func (d *Draft) TemplateRef() *string {
	if d.TemplateID == "" {
		return nil
	}
	id := d.TemplateID
	return &id
}
