package render

import (
	"fmt"
	"html/template"
	"io"

	"github.com/Project-Sylos/DriveLister/internal/types"
)

// MessageKind classifies a status line
type MessageKind string

// Message kinds
const (
	MessageLoading MessageKind = "loading"
	MessageInfo    MessageKind = "info"
	MessageError   MessageKind = "error"
)

// EmptyMessage is shown when a folder has no entries
const EmptyMessage = "Nenhum ficheiro encontrado na pasta do Google Drive."

// LoadingMessage is shown while a listing is in flight
const LoadingMessage = "⏳ A carregar ficheiros do Google Drive..."

// Message is a single status line inside the list container
type Message struct {
	Text string
	Kind MessageKind
}

// Page is the model of the files page. It holds either list nodes or a
// single status line, never two status lines.
type Page struct {
	Title   string
	message *Message
	nodes   []*ViewNode
}

// NewPage creates an empty page
func NewPage(title string) *Page {
	return &Page{Title: title}
}

// ShowMessage replaces any previous status line
func (p *Page) ShowMessage(text string, kind MessageKind) {
	p.message = &Message{Text: text, Kind: kind}
}

// SetEntries clears the list and renders entries. An empty listing shows
// the informational empty line instead.
func (p *Page) SetEntries(entries []*types.Entry) {
	p.nodes = nil
	p.message = nil
	if len(entries) == 0 {
		p.ShowMessage(EmptyMessage, MessageInfo)
		return
	}
	p.nodes = BuildView(entries)
}

// Message returns the current status line, if any
func (p *Page) Message() *Message {
	return p.message
}

// Nodes returns the rendered top-level nodes
func (p *Page) Nodes() []*ViewNode {
	return p.nodes
}

// Render writes the full HTML document
func (p *Page) Render(w io.Writer) error {
	if err := pageTemplate.ExecuteTemplate(w, "page", p); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}

// RenderList writes only the list container, for embedding
func (p *Page) RenderList(w io.Writer) error {
	if err := pageTemplate.ExecuteTemplate(w, "list", p); err != nil {
		return fmt.Errorf("failed to render list: %w", err)
	}
	return nil
}

var pageTemplate = template.Must(template.New("files").Parse(`{{define "page"}}<!DOCTYPE html>
<html lang="pt">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
.files-list { list-style: none; padding-left: 0; }
.files-list ul { list-style: none; padding-left: 1.5em; }
.file-item { padding: 0.2em 0; }
.file-icon { margin-right: 0.4em; }
.folder-header { cursor: pointer; user-select: none; }
.folder-toggle { margin-left: 0.4em; font-size: 0.8em; }
.folder-contents.collapsed { display: none; }
.drive-message { text-align: center; font-style: italic; color: #666; }
.drive-message-error { color: #dc3545; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{template "list" .}}
<script>
(function() {
  function bindFolders() {
    document.querySelectorAll('.files-list .folder-header').forEach(function(header) {
      header.addEventListener('click', function() {
        var contents = header.nextElementSibling;
        if (!contents) { return; }
        var open = contents.classList.contains('expanded');
        contents.classList.toggle('expanded', !open);
        contents.classList.toggle('collapsed', open);
        var toggle = header.querySelector('.folder-toggle');
        if (toggle) { toggle.textContent = open ? '▶' : '▼'; }
      });
    });
  }
  if (document.readyState === 'loading') {
    document.addEventListener('DOMContentLoaded', bindFolders);
  } else {
    bindFolders();
  }
})();
</script>
</body>
</html>
{{end}}
{{define "list"}}<ul class="files-list">
{{- range .Nodes}}{{template "node" .}}{{end}}
{{- with .Message}}
<li class="file-item drive-message drive-message-{{.Kind}}">{{.Text}}</li>
{{- end}}
</ul>{{end}}
{{define "node"}}
{{- if .Folder}}
<li class="file-item folder-item" data-id="{{.ID}}">
<div class="folder-header"><span class="file-icon">{{.Icon}}</span><span class="folder-name">{{.Name}}</span><span class="folder-toggle">{{.Indicator}}</span></div>
<ul class="folder-contents {{if .Expanded}}expanded{{else}}collapsed{{end}}"{{if .Truncated}} data-truncated="true"{{end}}>
{{- range .Children}}{{template "node" .}}{{end}}
</ul>
</li>
{{- else}}
<li class="file-item" data-id="{{.ID}}"><a href="{{.Href}}" target="_blank" rel="noopener noreferrer"><span class="file-icon">{{.Icon}}</span><span>{{.Name}}</span></a></li>
{{- end}}
{{- end}}`))
