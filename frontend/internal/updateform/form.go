package updateform

import (
	"fmt"

	"github.com/fieldnotes-dev/fieldnotes/frontend/internal/apiclient"
	"github.com/fieldnotes-dev/fieldnotes/shared/domain"
	"github.com/fieldnotes-dev/fieldnotes/shared/logger"
)

// maxImages mirrors the backend cap; the form never offers more slots.
const maxImages = 10

type State int

const (
	StateIdle State = iota
	StateEditing
	StateSubmitting
	StateSubmitted
	StateFailed
)

// Remote is the slice of the API client the form needs.
type Remote interface {
	Upsert(payload apiclient.UpdatePayload, images, files []apiclient.Attachment) (*domain.ResearchUpdate, error)
	Delete(updateId int64) error
}

// Navigator abstracts the browser effects so the form logic stays
// testable: route changes, the post-publish celebration and the
// delete confirmation prompt.
type Navigator interface {
	NavigateTo(url string)   // soft route change
	FullNavigate(url string) // full page load
	Celebrate()
	Confirm(prompt string) bool
}

// Form drives the research update editor. One instance per open editor,
// not safe for concurrent use (like the page it models).
type Form struct {
	researchId int64
	updateId   *int64 // nil in create mode

	Title       string
	Description string
	VideoURL    string
	Images      []string // kept attachment paths, empty strings are free slots
	Files       []string
	newImages   []apiclient.Attachment
	newFiles    []apiclient.Attachment

	state       State
	lastErr     error
	warnUnsaved bool

	remote Remote
	nav    Navigator
}

// New constructs an empty form in create mode.
func New(researchId int64, remote Remote, nav Navigator) *Form {
	return &Form{researchId: researchId, remote: remote, nav: nav}
}

// FromUpdate constructs a form populated from an existing update.
func FromUpdate(u domain.ResearchUpdate, remote Remote, nav Navigator) *Form {
	id := u.Id
	return &Form{
		researchId:  u.ResearchId,
		updateId:    &id,
		Title:       u.Title,
		Description: u.Description,
		VideoURL:    u.VideoURL,
		Images:      append([]string(nil), u.Images...),
		Files:       append([]string(nil), u.Files...),
		remote:      remote,
		nav:         nav,
	}
}

func (f *Form) State() State { return f.state }

func (f *Form) Err() error { return f.lastErr }

// UnsavedWarning reports whether leaving the page should prompt.
func (f *Form) UnsavedWarning() bool { return f.warnUnsaved }

func (f *Form) SetTitle(title string) { f.Title = title; f.markEditing() }

func (f *Form) SetDescription(description string) { f.Description = description; f.markEditing() }

func (f *Form) SetVideoURL(url string) { f.VideoURL = url; f.markEditing() }

func (f *Form) AttachImage(a apiclient.Attachment) { f.newImages = append(f.newImages, a); f.markEditing() }

func (f *Form) AttachFile(a apiclient.Attachment) { f.newFiles = append(f.newFiles, a); f.markEditing() }

func (f *Form) RemoveImage(i int) {
	if i < 0 || i >= len(f.Images) {
		return
	}
	f.Images = append(f.Images[:i], f.Images[i+1:]...)
	f.markEditing()
}

func (f *Form) markEditing() {
	if f.state != StateSubmitting {
		f.state = StateEditing
		f.warnUnsaved = true
	}
}

// ImageSlots returns how many image pickers to show: one free slot after
// the occupied ones, never more than the cap.
func (f *Form) ImageSlots() int {
	nonEmpty := len(f.newImages)
	for _, path := range f.Images {
		if path != "" {
			nonEmpty++
		}
	}
	return min(nonEmpty+1, maxImages)
}

// Submit saves the form, as a draft or publishing. A submit already in
// flight makes further calls a no-op.
func (f *Form) Submit(asDraft bool) {
	if f.state == StateSubmitting {
		return
	}
	f.state = StateSubmitting
	f.warnUnsaved = false
	f.lastErr = nil

	update, err := f.remote.Upsert(f.payload(asDraft), f.newImages, f.newFiles)
	if err != nil {
		logger.Log.Error("update save failed", "research", f.researchId, "error", err)
		f.lastErr = err
		f.state = StateFailed
		return
	}

	id := update.Id
	f.updateId = &id
	f.state = StateSubmitted

	if !update.Draft {
		f.nav.Celebrate()
	}
	f.nav.NavigateTo(fmt.Sprintf("/research/%d#update-%d", f.researchId, update.Id))
}

// Delete asks for confirmation, soft-deletes remotely and leaves the
// page with a full navigation so no stale editor state survives.
func (f *Form) Delete() error {
	if f.updateId == nil {
		return nil
	}
	if !f.nav.Confirm("Delete this update? It will disappear from the research page.") {
		return nil
	}

	if err := f.remote.Delete(*f.updateId); err != nil {
		f.lastErr = err
		return err
	}

	f.warnUnsaved = false
	f.nav.FullNavigate(fmt.Sprintf("/research/%d", f.researchId))
	return nil
}

// SidebarEntry is one row of the update navigation.
type SidebarEntry struct {
	Id      *int64
	Title   string
	Draft   bool
	Current bool
}

// Sidebar lists the non-deleted sibling updates. In create mode a
// synthetic entry tracks the in-progress title.
func (f *Form) Sidebar(siblings []domain.ResearchUpdate) []SidebarEntry {
	var entries []SidebarEntry
	for _, sibling := range siblings {
		if sibling.Deleted {
			continue
		}
		id := sibling.Id
		entries = append(entries, SidebarEntry{
			Id:      &id,
			Title:   sibling.Title,
			Draft:   sibling.Draft,
			Current: f.updateId != nil && *f.updateId == sibling.Id,
		})
	}

	if f.updateId == nil {
		title := f.Title
		if title == "" {
			title = "Untitled update"
		}
		entries = append(entries, SidebarEntry{Title: title, Draft: true, Current: true})
	}

	return entries
}

func (f *Form) payload(asDraft bool) apiclient.UpdatePayload {
	keptImages := make([]string, 0, len(f.Images))
	for _, path := range f.Images {
		if path != "" {
			keptImages = append(keptImages, path)
		}
	}

	return apiclient.UpdatePayload{
		UpdateId:    f.updateId,
		Title:       f.Title,
		Description: f.Description,
		VideoURL:    f.VideoURL,
		Draft:       asDraft,
		KeptImages:  keptImages,
		KeptFiles:   append([]string(nil), f.Files...),
	}
}
