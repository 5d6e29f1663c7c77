// Package selection holds the in-memory tri-state selection model mirroring
// a scanned test tree: one root, one node per date folder, one leaf per record.
package selection

import (
	"ttc/internal/domain"
)

// State is the tri-state selection value of the root or a date folder.
type State int

const (
	// None means no leaf beneath the node is selected.
	None State = iota
	// Some means the node's leaves are partially selected.
	Some
	// All means every leaf beneath the node is selected.
	All
)

func (s State) String() string {
	switch s {
	case None:
		return "none"
	case Some:
		return "some"
	case All:
		return "all"
	}
	return "unknown"
}

// Leaf is a selectable record.
type Leaf struct {
	Record   domain.TestRecord
	Selected bool
}

// Folder is a date folder node with its derived tri-state.
type Folder struct {
	Date   string
	Leaves []*Leaf
	state  State
}

// State returns the folder's derived tri-state.
func (f *Folder) State() State {
	return f.state
}

// Tree is the full selection model. Folder and root states are never patched
// incrementally; every mutation ends with a bottom-up derive pass so the
// tri-state invariant holds after every call.
type Tree struct {
	folders   []*Folder
	byDate    map[string]*Folder
	byPath    map[string]*Leaf
	root      State
	leafTotal int
}

// NewTree builds a selection tree from a scan result. Diagnostics are not
// part of the tree; only decoded records become leaves. Everything starts
// unselected.
func NewTree(result domain.ScanResult) *Tree {
	t := &Tree{
		byDate: make(map[string]*Folder),
		byPath: make(map[string]*Leaf),
	}

	for _, group := range result.Groups {
		folder := &Folder{Date: group.Date}
		for _, rec := range group.Records {
			leaf := &Leaf{Record: rec}
			folder.Leaves = append(folder.Leaves, leaf)
			t.byPath[rec.Path] = leaf
			t.leafTotal++
		}
		t.folders = append(t.folders, folder)
		t.byDate[group.Date] = folder
	}

	t.derive()
	return t
}

// Folders returns the folder nodes in scan order.
func (t *Tree) Folders() []*Folder {
	return t.folders
}

// RootState returns the derived tri-state of the root.
func (t *Tree) RootState() State {
	return t.root
}

// FolderState returns the derived tri-state of the named date folder.
func (t *Tree) FolderState(date string) State {
	if f, ok := t.byDate[date]; ok {
		return f.state
	}
	return None
}

// LeafSelected reports whether the record at path is selected.
func (t *Tree) LeafSelected(path string) bool {
	if l, ok := t.byPath[path]; ok {
		return l.Selected
	}
	return false
}

// ToggleLeaf flips the selection of a single record.
func (t *Tree) ToggleLeaf(path string) {
	leaf, ok := t.byPath[path]
	if !ok {
		return
	}
	leaf.Selected = !leaf.Selected
	t.derive()
}

// ToggleFolder toggles a date folder: a folder in Some or None resolves to
// all children selected, a folder in All deselects them.
func (t *Tree) ToggleFolder(date string) {
	folder, ok := t.byDate[date]
	if !ok {
		return
	}
	target := folder.state != All
	for _, leaf := range folder.Leaves {
		leaf.Selected = target
	}
	t.derive()
}

// ToggleRoot toggles everything: Some or None resolves to everything
// selected, All deselects everything.
func (t *Tree) ToggleRoot() {
	target := t.root != All
	for _, folder := range t.folders {
		for _, leaf := range folder.Leaves {
			leaf.Selected = target
		}
	}
	t.derive()
}

// SelectedRecords returns the currently selected records in no particular
// order. Callers needing chronological order must sort explicitly.
func (t *Tree) SelectedRecords() []domain.TestRecord {
	var records []domain.TestRecord
	for _, folder := range t.folders {
		for _, leaf := range folder.Leaves {
			if leaf.Selected {
				records = append(records, leaf.Record)
			}
		}
	}
	return records
}

// SelectedCount returns the number of selected leaves.
func (t *Tree) SelectedCount() int {
	var n int
	for _, folder := range t.folders {
		for _, leaf := range folder.Leaves {
			if leaf.Selected {
				n++
			}
		}
	}
	return n
}

// Len returns the total number of leaves.
func (t *Tree) Len() int {
	return t.leafTotal
}

// derive recomputes every folder state from its leaves and the root state
// from all leaves.
func (t *Tree) derive() {
	var selectedTotal int
	for _, folder := range t.folders {
		var selected int
		for _, leaf := range folder.Leaves {
			if leaf.Selected {
				selected++
			}
		}
		folder.state = stateOf(selected, len(folder.Leaves))
		selectedTotal += selected
	}
	t.root = stateOf(selectedTotal, t.leafTotal)
}

func stateOf(selected, total int) State {
	switch {
	case total == 0 || selected == 0:
		return None
	case selected == total:
		return All
	default:
		return Some
	}
}
