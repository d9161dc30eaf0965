// Package lsp implements a language server for grammar files. It checks
// every open document and publishes syntax errors together with warnings
// about nonterminals that can never take part in a derivation.
package lsp

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/chomsky/cfgfile"
	"github.com/dhamidi/chomsky/cnf"
	"github.com/dhamidi/chomsky/grammar"
)

const lsName = "chomsky"

var log = commonlog.GetLogger("chomsky.lsp")

type LSPServer struct {
	handler protocol.Handler
	server  *server.Server
	version string
	options []cfgfile.Option

	mu   sync.Mutex
	docs map[string]string
}

func NewLSPServer(version string, opts ...cfgfile.Option) *LSPServer {
	ls := &LSPServer{
		version: version,
		options: opts,
		docs:    make(map[string]string),
	}

	ls.handler = protocol.Handler{
		Initialize:            ls.initialize,
		Initialized:           ls.initialized,
		Shutdown:              ls.shutdown,
		SetTrace:              ls.setTrace,
		TextDocumentDidOpen:   ls.textDocumentDidOpen,
		TextDocumentDidChange: ls.textDocumentDidChange,
		TextDocumentDidClose:  ls.textDocumentDidClose,
		TextDocumentDidSave:   ls.textDocumentDidSave,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("client initialized")
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.update(ctx, params.TextDocument.URI, textChange.Text)
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.mu.Lock()
	delete(ls.docs, params.TextDocument.URI)
	ls.mu.Unlock()

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		ls.update(ctx, params.TextDocument.URI, *params.Text)
		return nil
	}
	ls.mu.Lock()
	text, ok := ls.docs[params.TextDocument.URI]
	ls.mu.Unlock()
	if ok {
		ls.update(ctx, params.TextDocument.URI, text)
	}
	return nil
}

func (ls *LSPServer) update(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	ls.mu.Lock()
	ls.docs[uri] = text
	ls.mu.Unlock()

	path, err := uriToPath(uri)
	if err != nil {
		log.Warningf("bad document uri %s: %s", uri, err)
		path = uri
	}
	diagnostics := Diagnostics(path, text, ls.options...)
	log.Debugf("%s: %d diagnostics", path, len(diagnostics))

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// Diagnostics checks one grammar document. A document that does not parse
// yields a single error; otherwise every structural problem and every
// useless nonterminal is reported as a warning.
func Diagnostics(filename, text string, opts ...cfgfile.Option) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	g, err := cfgfile.Parse(filename, strings.NewReader(text), opts...)
	if err != nil {
		line := 0
		var serr *cfgfile.SyntaxError
		if errors.As(err, &serr) {
			line = serr.Line - 1
		}
		return append(diagnostics, diagnostic(line, protocol.DiagnosticSeverityError, message(err)))
	}

	lines := definitionLines(text)
	for _, problem := range g.Validate() {
		line := 0
		var verr *grammar.ValidationError
		if errors.As(problem, &verr) {
			line = lines[verr.Symbol]
		}
		diagnostics = append(diagnostics, diagnostic(line, protocol.DiagnosticSeverityWarning, problem.Error()))
	}
	if g.StartSymbol() == "" {
		return diagnostics
	}

	generating := cnf.Generating(g)
	reachable := cnf.Reachable(g)
	for _, name := range g.NonTerminals() {
		switch {
		case !generating[name]:
			diagnostics = append(diagnostics, diagnostic(lines[name], protocol.DiagnosticSeverityWarning,
				fmt.Sprintf("%s derives no string of terminals", name)))
		case !reachable[name]:
			diagnostics = append(diagnostics, diagnostic(lines[name], protocol.DiagnosticSeverityWarning,
				fmt.Sprintf("%s is not reachable from %s", name, g.StartSymbol())))
		}
	}
	return diagnostics
}

// message strips the file position, which the editor shows anyway.
func message(err error) string {
	var serr *cfgfile.SyntaxError
	if errors.As(err, &serr) {
		return serr.Msg
	}
	return err.Error()
}

func diagnostic(line int, severity protocol.DiagnosticSeverity, msg string) protocol.Diagnostic {
	source := lsName
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: protocol.UInteger(line)},
			End:   protocol.Position{Line: protocol.UInteger(line + 1)},
		},
		Severity: &severity,
		Source:   &source,
		Message:  msg,
	}
}

// definitionLines maps each left-hand side to the zero-based line of its
// first rule.
func definitionLines(text string) map[string]int {
	lines := make(map[string]int)
	for i, line := range strings.Split(text, "\n") {
		left, _, ok := strings.Cut(line, "->")
		if !ok {
			continue
		}
		name := strings.TrimSpace(left)
		if _, seen := lines[name]; !seen && name != "" {
			lines[name] = i
		}
	}
	return lines
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
