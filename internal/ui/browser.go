package ui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"ttc/internal/codec"
	"ttc/internal/config"
	"ttc/internal/domain"
	"ttc/internal/selection"
	"ttc/internal/stats"
	"ttc/internal/store"
)

// Browser is the interactive test browser: a tri-state checkbox tree over
// the scanned store with a metadata preview pane, statistics modal and
// in-place metadata editing.
type Browser struct {
	config *config.Config
	store  *store.Store

	app     *tview.Application
	pages   *tview.Pages
	tree    *tview.TreeView
	preview *tview.TextView
	header  *tview.TextView

	model *selection.Tree
}

type nodeKind int

const (
	nodeRoot nodeKind = iota
	nodeFolder
	nodeLeaf
)

type nodeRef struct {
	kind nodeKind
	date string
	path string
}

// NewBrowser creates a new Browser
func NewBrowser(cfg *config.Config, st *store.Store) *Browser {
	return &Browser{config: cfg, store: st}
}

// Run scans the store and drives the TUI until the user quits. With watch
// enabled the tree rescans automatically when record files change on disk.
func (b *Browser) Run(watch bool) error {
	b.app = tview.NewApplication()
	b.pages = tview.NewPages()

	b.header = tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	b.preview = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	b.tree = tview.NewTreeView()
	b.tree.SetSelectedFunc(func(node *tview.TreeNode) {
		b.toggleNode(node)
	})
	b.tree.SetChangedFunc(func(node *tview.TreeNode) {
		b.updatePreview(node)
	})
	b.tree.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC:
			b.app.Stop()
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case ' ':
				b.toggleNode(b.tree.GetCurrentNode())
				return nil
			case 'a', 'A':
				b.model.ToggleRoot()
				b.refreshTexts()
				b.updateHeader()
				return nil
			case 's', 'S':
				b.showStatistics()
				return nil
			case 'e', 'E':
				b.showEditForm()
				return nil
			case 'r', 'R':
				b.rescan()
				return nil
			case 'q', 'Q':
				b.app.Stop()
				return nil
			}
		}
		return event
	})

	if err := b.rescan(); err != nil {
		return err
	}

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(b.tree, 0, 1, true).
		AddItem(b.preview, 0, 1, false)

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(b.header, 1, 0, false).
		AddItem(flex, 0, 1, true)

	b.pages.AddPage("main", mainLayout, true, true)

	if watch {
		watcher, err := store.NewWatcher(b.store)
		if err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		defer watcher.Close()

		go watcher.Run(ctx)
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-watcher.Changes():
					b.app.QueueUpdateDraw(func() {
						_ = b.rescan()
					})
				}
			}
		}()
	}

	if err := b.app.SetRoot(b.pages, true).SetFocus(b.tree).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// rescan reloads the store and rebuilds the tree, dropping any selection.
func (b *Browser) rescan() error {
	result, err := b.store.Scan()
	if err != nil {
		return err
	}
	b.model = selection.NewTree(result)

	root := tview.NewTreeNode("").
		SetReference(&nodeRef{kind: nodeRoot}).
		SetSelectable(true)

	for _, folder := range b.model.Folders() {
		folderNode := tview.NewTreeNode("").
			SetReference(&nodeRef{kind: nodeFolder, date: folder.Date}).
			SetSelectable(true).
			SetExpanded(true)
		for _, leaf := range folder.Leaves {
			leafNode := tview.NewTreeNode("").
				SetReference(&nodeRef{kind: nodeLeaf, path: leaf.Record.Path}).
				SetSelectable(true)
			folderNode.AddChild(leafNode)
		}
		root.AddChild(folderNode)
	}

	b.tree.SetRoot(root).SetCurrentNode(root)
	b.refreshTexts()
	b.updateHeader()
	b.updatePreview(root)

	if len(result.Diagnostics) > 0 {
		b.preview.SetText(diagnosticsText(result.Diagnostics))
	}
	return nil
}

func checkbox(state selection.State) string {
	switch state {
	case selection.All:
		return "[x]"
	case selection.Some:
		return "[~]"
	}
	return "[ ]"
}

// refreshTexts re-renders every node label from the selection model.
func (b *Browser) refreshTexts() {
	root := b.tree.GetRoot()
	if root == nil {
		return
	}
	root.Walk(func(node, parent *tview.TreeNode) bool {
		ref, ok := node.GetReference().(*nodeRef)
		if !ok {
			return true
		}
		switch ref.kind {
		case nodeRoot:
			node.SetText(fmt.Sprintf("[::b]%s All tests (%d)", escapeBox(checkbox(b.model.RootState())), b.model.Len()))
			node.SetColor(tcell.ColorYellow)
		case nodeFolder:
			folder := b.folderByDate(ref.date)
			node.SetText(fmt.Sprintf("%s %s (%d)", escapeBox(checkbox(b.model.FolderState(ref.date))), ref.date, len(folder.Leaves)))
			node.SetColor(tcell.ColorAqua)
		case nodeLeaf:
			leaf := b.leafByPath(ref.path)
			glyph := "[ ]"
			if b.model.LeafSelected(ref.path) {
				glyph = "[x]"
			}
			node.SetText(fmt.Sprintf("%s %s — %.3f kN", escapeBox(glyph), leaf.Record.Name, leaf.Record.PeakForce))
			node.SetColor(tcell.ColorWhite)
		}
		return true
	})
}

// escapeBox keeps checkbox glyphs out of tview's color-tag parser.
func escapeBox(s string) string {
	return tview.Escape(s)
}

func (b *Browser) folderByDate(date string) *selection.Folder {
	for _, f := range b.model.Folders() {
		if f.Date == date {
			return f
		}
	}
	return &selection.Folder{}
}

func (b *Browser) leafByPath(path string) *selection.Leaf {
	for _, f := range b.model.Folders() {
		for _, l := range f.Leaves {
			if l.Record.Path == path {
				return l
			}
		}
	}
	return &selection.Leaf{}
}

func (b *Browser) toggleNode(node *tview.TreeNode) {
	if node == nil {
		return
	}
	ref, ok := node.GetReference().(*nodeRef)
	if !ok {
		return
	}
	switch ref.kind {
	case nodeRoot:
		b.model.ToggleRoot()
	case nodeFolder:
		b.model.ToggleFolder(ref.date)
	case nodeLeaf:
		b.model.ToggleLeaf(ref.path)
	}
	b.refreshTexts()
	b.updateHeader()
}

func (b *Browser) updateHeader() {
	b.header.SetText(fmt.Sprintf(
		" Tensile tests — %d of %d selected | [yellow]space[white] toggle, [yellow]a[white] all, [yellow]s[white] statistics, [yellow]e[white] edit, [yellow]r[white] rescan, [yellow]q[white] quit ",
		b.model.SelectedCount(), b.model.Len()))
}

func (b *Browser) updatePreview(node *tview.TreeNode) {
	if node == nil {
		return
	}
	ref, ok := node.GetReference().(*nodeRef)
	if !ok || ref.kind != nodeLeaf {
		b.preview.SetText("")
		return
	}
	rec := b.leafByPath(ref.path).Record

	var sb strings.Builder
	fmt.Fprintf(&sb, "[yellow]%s[white]\n\n", rec.Name)
	fmt.Fprintf(&sb, "[cyan]Technician:[white] %s\n", rec.Technician)
	fmt.Fprintf(&sb, "[cyan]Date:[white] %s\n", rec.CreatedAt.Format(codec.TimeLayout))
	fmt.Fprintf(&sb, "[cyan]Peak force:[white] %.3f kN\n", rec.PeakForce)
	fmt.Fprintf(&sb, "[cyan]Samples:[white] %d\n", len(rec.Samples))
	if rec.Notes != "" {
		fmt.Fprintf(&sb, "\n[cyan]Notes:[white]\n%s\n", rec.Notes)
	}
	fmt.Fprintf(&sb, "\n[gray]%s[white]\n", rec.Path)
	b.preview.SetText(sb.String())
}

func (b *Browser) showStatistics() {
	selected := b.model.SelectedRecords()
	rep, err := stats.Summarize(selected)
	if err != nil {
		var ierr *domain.InsufficientSamplesError
		if errors.As(err, &ierr) {
			b.showMessage(fmt.Sprintf("Need at least 2 selected tests for statistics (have %d)", ierr.Got))
			return
		}
		b.showMessage(err.Error())
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Tests: %d\n", rep.Count)
	fmt.Fprintf(&sb, "Mean: %.3f kN\n", rep.Mean)
	fmt.Fprintf(&sb, "Std deviation: %.3f kN\n", rep.StdDev)
	fmt.Fprintf(&sb, "Median: %.3f kN\n", rep.Median)
	fmt.Fprintf(&sb, "Min / Max: %.3f / %.3f kN\n", rep.Min, rep.Max)
	fmt.Fprintf(&sb, "3σ range: %.3f … %.3f kN\n\n", rep.Sigma3Lower, rep.Sigma3Upper)
	for _, rd := range rep.PerRecord {
		fmt.Fprintf(&sb, "%-30s %+8.3f kN\n", rd.Record.Name, rd.Deviation)
	}

	b.showMessage(sb.String())
}

func (b *Browser) showMessage(text string) {
	modal := tview.NewModal().
		SetText(text).
		AddButtons([]string{"Close"}).
		SetDoneFunc(func(int, string) {
			b.pages.RemovePage("modal")
			b.app.SetFocus(b.tree)
		})
	b.pages.AddPage("modal", modal, true, true)
}

func (b *Browser) showEditForm() {
	node := b.tree.GetCurrentNode()
	if node == nil {
		return
	}
	ref, ok := node.GetReference().(*nodeRef)
	if !ok || ref.kind != nodeLeaf {
		b.showMessage("Select a test to edit its metadata")
		return
	}
	rec := b.leafByPath(ref.path).Record

	form := tview.NewForm().
		AddInputField("Name", rec.Name, 40, nil, nil).
		AddInputField("Technician", rec.Technician, 40, nil, nil).
		AddInputField("Notes", rec.Notes, 40, nil, nil)
	form.AddButton("Save", func() {
		name := form.GetFormItemByLabel("Name").(*tview.InputField).GetText()
		technician := form.GetFormItemByLabel("Technician").(*tview.InputField).GetText()
		notes := form.GetFormItemByLabel("Notes").(*tview.InputField).GetText()

		b.pages.RemovePage("edit")
		if err := codec.UpdateMetadata(rec.Path, name, technician, notes); err != nil {
			b.showMessage(fmt.Sprintf("Update failed: %v", err))
			return
		}
		b.touchTechnician(technician)
		_ = b.rescan()
	})
	form.AddButton("Cancel", func() {
		b.pages.RemovePage("edit")
		b.app.SetFocus(b.tree)
	})
	form.SetBorder(true).SetTitle(" Edit test metadata ")

	b.pages.AddPage("edit", center(form, 60, 13), true, true)
	b.app.SetFocus(form)
}

// touchTechnician records the technician in the persisted MRU history.
// Failures here must not disturb the edit flow.
func (b *Browser) touchTechnician(name string) {
	settings, err := b.config.LoadSettings()
	if err != nil {
		return
	}
	settings.TouchTechnician(name)
	_ = settings.Save()
}

// center wraps a primitive in a fixed-size centered flex.
func center(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 0, true).
			AddItem(nil, 0, 1, false), width, 0, true).
		AddItem(nil, 0, 1, false)
}

func diagnosticsText(diags []domain.ScanDiagnostic) string {
	sorted := make([]domain.ScanDiagnostic, len(diags))
	copy(sorted, diags)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	var sb strings.Builder
	fmt.Fprintf(&sb, "[yellow]Skipped %d file(s):[white]\n\n", len(sorted))
	for _, d := range sorted {
		fmt.Fprintf(&sb, "[red]✗[white] %s\n    %v\n", d.Path, d.Err)
	}
	return sb.String()
}
