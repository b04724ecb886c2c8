package mcp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lvillar/deckforge/ai"
	"github.com/lvillar/deckforge/deckexport"
	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/pdfexport"
	"github.com/lvillar/deckforge/templates"
)

type grayLoader struct{}

func (grayLoader) Load(context.Context, string) (image.Image, error) {
	return image.NewGray(image.Rect(0, 0, 16, 9)), nil
}

func testToolbox() *Toolbox {
	reg := templates.MustDefault()
	return &Toolbox{
		PDF: pdfexport.New(reg,
			pdfexport.WithSettler(pdfexport.DelaySettler{}),
			pdfexport.WithCaptureScale(0.5),
			pdfexport.WithImageLoader(grayLoader{})),
		Deck:      deckexport.New(reg),
		Templates: reg,
		Generator: ai.Offline{},
		Style:     document.DefaultStyle,
	}
}

func newTestServer() *Server {
	s := NewServerWithIO(nil, nil)
	RegisterDefaultTools(s, testToolbox())
	RegisterDefaultResources(s, templates.MustDefault())
	return s
}

var sampleDocument = map[string]interface{}{
	"metadata": map[string]interface{}{"generatedTitle": "Cloud 101"},
	"pages": []interface{}{
		map[string]interface{}{
			"template": "stat_highlight",
			"content":  map[string]interface{}{"title": "Savings", "bigNumber": "30%", "explanation": "Lower cost"},
		},
		map[string]interface{}{
			"template": "faq_section",
			"content": map[string]interface{}{
				"title": "FAQ",
				"items": []interface{}{map[string]interface{}{"title": "Cost?", "description": "Lower."}},
			},
		},
	},
}

func sendRequest(t *testing.T, s *Server, method string, id int, params interface{}) jsonrpcResponse {
	t.Helper()

	req := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
	}
	if params != nil {
		req["params"] = params
	}

	reqBytes, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	reqBytes = append(reqBytes, '\n')

	var output bytes.Buffer
	s.input = bytes.NewReader(reqBytes)
	s.output = &output

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var resp jsonrpcResponse
	if err := json.Unmarshal(output.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshaling response %q: %v", output.String(), err)
	}
	return resp
}

// callTool runs a tool and returns its content blocks.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) ToolResult {
	t.Helper()
	resp := sendRequest(t, s, "tools/call", 1, map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}
	data, _ := json.Marshal(resp.Result)
	var result ToolResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("decoding tool result: %v", err)
	}
	return result
}

func TestServerInitialize(t *testing.T) {
	s := NewServerWithIO(nil, nil, WithVersion("1.2.3"))

	resp := sendRequest(t, s, "initialize", 1, map[string]interface{}{
		"protocolVersion": "2024-11-05",
		"capabilities":    map[string]interface{}{},
		"clientInfo":      map[string]interface{}{"name": "test", "version": "1.0"},
	})

	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("result is not a map")
	}
	if result["protocolVersion"] != ProtocolVersion {
		t.Fatalf("unexpected protocol version: %v", result["protocolVersion"])
	}

	serverInfo, ok := result["serverInfo"].(map[string]interface{})
	if !ok {
		t.Fatal("missing serverInfo")
	}
	if serverInfo["name"] != "deckforge" || serverInfo["version"] != "1.2.3" {
		t.Fatalf("unexpected server info: %v", serverInfo)
	}
}

func TestServerToolsList(t *testing.T) {
	s := newTestServer()

	resp := sendRequest(t, s, "tools/list", 2, nil)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("result is not a map")
	}
	tools, ok := result["tools"].([]interface{})
	if !ok {
		t.Fatal("tools is not an array")
	}

	var names []string
	for _, tool := range tools {
		if tm, ok := tool.(map[string]interface{}); ok {
			names = append(names, tm["name"].(string))
		}
	}
	want := "export_pdf,export_pptx,generate_document,import_legacy,list_templates,validate_document"
	if got := strings.Join(names, ","); got != want {
		t.Fatalf("tools = %s, want %s", got, want)
	}
}

func TestGenerateToolNeedsGenerator(t *testing.T) {
	s := NewServerWithIO(nil, nil)
	tb := testToolbox()
	tb.Generator = nil
	RegisterDefaultTools(s, tb)
	if _, ok := s.tools["generate_document"]; ok {
		t.Fatal("generate_document registered without a generator")
	}
}

func TestServerResourcesList(t *testing.T) {
	s := newTestServer()

	resp := sendRequest(t, s, "resources/list", 3, nil)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("result is not a map")
	}
	resources, ok := result["resources"].([]interface{})
	if !ok {
		t.Fatal("resources is not an array")
	}
	if len(resources) != 3 {
		t.Fatalf("expected 3 resources, got %d", len(resources))
	}
}

func TestServerReadProfiles(t *testing.T) {
	s := newTestServer()

	resp := sendRequest(t, s, "resources/read", 4, map[string]interface{}{"uri": "deckforge://profiles"})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}
	data, _ := json.Marshal(resp.Result)
	for _, want := range []string{"portrait-document", "landscape-wide", "portrait-tall"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("profiles resource lacks %q", want)
		}
	}

	resp = sendRequest(t, s, "resources/read", 5, map[string]interface{}{"uri": "deckforge://nothing"})
	if resp.Error == nil || resp.Error.Code != codeInvalidParams {
		t.Fatalf("expected invalid params for an unknown resource, got %+v", resp.Error)
	}
}

func TestServerPing(t *testing.T) {
	s := NewServerWithIO(nil, nil)

	resp := sendRequest(t, s, "ping", 4, nil)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}
}

func TestServerUnknownMethod(t *testing.T) {
	s := NewServerWithIO(nil, nil)

	resp := sendRequest(t, s, "nonexistent/method", 5, nil)
	if resp.Error == nil {
		t.Fatal("expected error for unknown method")
	}
	if resp.Error.Code != codeMethodNotFound {
		t.Fatalf("expected error code -32601, got %d", resp.Error.Code)
	}
}

func TestServerUnknownTool(t *testing.T) {
	s := newTestServer()

	resp := sendRequest(t, s, "tools/call", 6, map[string]interface{}{
		"name":      "nonexistent_tool",
		"arguments": map[string]interface{}{},
	})
	if resp.Error == nil {
		t.Fatal("expected error for unknown tool")
	}
}

func TestExportPDFTool(t *testing.T) {
	s := newTestServer()

	result := callTool(t, s, "export_pdf", map[string]interface{}{"document": sampleDocument})
	if result.IsError {
		t.Fatalf("tool failed: %+v", result.Content)
	}
	if len(result.Content) != 2 {
		t.Fatalf("expected summary and data blocks, got %d", len(result.Content))
	}
	if !strings.Contains(result.Content[0].Text, "Cloud 101.pdf exported with 2 pages") {
		t.Fatalf("unexpected summary: %s", result.Content[0].Text)
	}
	pdf, err := base64.StdEncoding.DecodeString(result.Content[1].Data)
	if err != nil {
		t.Fatalf("decoding base64: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) || result.Content[1].MIMEType != "application/pdf" {
		t.Fatalf("not a PDF: %q", pdf[:min(8, len(pdf))])
	}
}

func TestExportPPTXToolWritesFile(t *testing.T) {
	s := newTestServer()
	out := filepath.Join(t.TempDir(), "deck.pptx")

	result := callTool(t, s, "export_pptx", map[string]interface{}{
		"document":   sampleDocument,
		"profile":    "16:9",
		"style":      map[string]interface{}{"palette": "dark"},
		"outputPath": out,
	})
	if result.IsError {
		t.Fatalf("tool failed: %+v", result.Content)
	}
	if !strings.Contains(result.Content[0].Text, "2 slides") {
		t.Fatalf("unexpected summary: %s", result.Content[0].Text)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Fatal("output is not a zip package")
	}
}

func TestExportToolErrors(t *testing.T) {
	s := newTestServer()

	for name, args := range map[string]map[string]interface{}{
		"no document":  {},
		"bad profile":  {"document": sampleDocument, "profile": "letter"},
		"empty":        {"document": map[string]interface{}{"pages": []interface{}{}}},
		"missing file": {"documentPath": filepath.Join(t.TempDir(), "none.json")},
	} {
		result := callTool(t, s, "export_pdf", args)
		if !result.IsError {
			t.Errorf("%s: expected a tool error", name)
		}
	}
}

func TestValidateDocumentTool(t *testing.T) {
	s := newTestServer()

	doc := map[string]interface{}{
		"pages": []interface{}{
			map[string]interface{}{"template": "carousel", "content": map[string]interface{}{"title": "Spin"}},
			map[string]interface{}{"template": "cover", "content": map[string]interface{}{}},
		},
	}
	result := callTool(t, s, "validate_document", map[string]interface{}{"document": doc})
	var v validation
	if err := json.Unmarshal([]byte(result.Content[0].Text), &v); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if !v.Valid || v.Pages != 2 || len(v.Warnings) != 2 {
		t.Fatalf("unexpected report: %+v", v)
	}
	if !strings.Contains(v.Warnings[0], `unknown template "carousel"`) {
		t.Errorf("warning 0 = %q", v.Warnings[0])
	}

	result = callTool(t, s, "validate_document", map[string]interface{}{"document": `{"pages":[]}`})
	if err := json.Unmarshal([]byte(result.Content[0].Text), &v); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if v.Valid {
		t.Fatal("a document without pages must not be valid")
	}
}

func TestImportLegacyTool(t *testing.T) {
	s := newTestServer()

	legacy := map[string]interface{}{
		"metadados": map[string]interface{}{"titulo_gerado": "Velho"},
		"paginas": []interface{}{
			map[string]interface{}{
				"layout_type": "destaque_numero",
				"conteudo":    map[string]interface{}{"numero_grande": "42"},
			},
		},
	}
	result := callTool(t, s, "import_legacy", map[string]interface{}{"document": legacy})
	if result.IsError {
		t.Fatalf("tool failed: %+v", result.Content)
	}
	doc, err := document.Parse([]byte(result.Content[0].Text))
	if err != nil {
		t.Fatalf("converted document does not parse: %v", err)
	}
	if doc.Title() != "Velho" || doc.Pages[0].Template != document.TagStatHighlight || doc.Pages[0].Content.BigNumber != "42" {
		t.Fatalf("unexpected conversion: %+v", doc)
	}

	result = callTool(t, s, "import_legacy", map[string]interface{}{"document": sampleDocument})
	if !result.IsError {
		t.Fatal("expected an error for a current-format document")
	}
}

func TestGenerateDocumentTool(t *testing.T) {
	s := newTestServer()

	result := callTool(t, s, "generate_document", map[string]interface{}{"text": "# Plan\n\nShip the deck on Friday."})
	if result.IsError {
		t.Fatalf("tool failed: %+v", result.Content)
	}
	doc, err := document.Parse([]byte(result.Content[0].Text))
	if err != nil {
		t.Fatalf("generated document does not parse: %v", err)
	}
	if doc.Title() != "Plan" || len(doc.Pages) != 3 {
		t.Fatalf("unexpected document: %s with %d pages", doc.Title(), len(doc.Pages))
	}
}

func TestServerMultipleRequests(t *testing.T) {
	requests := []string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":3,"method":"resources/list"}`,
		`{"jsonrpc":"2.0","id":4,"method":"ping"}`,
	}

	input := strings.Join(requests, "\n") + "\n"
	var output bytes.Buffer

	s := NewServerWithIO(strings.NewReader(input), &output)
	RegisterDefaultTools(s, testToolbox())
	RegisterDefaultResources(s, templates.MustDefault())

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// The notification gets no response.
	lines := strings.Split(strings.TrimSpace(output.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 responses, got %d: %s", len(lines), output.String())
	}

	for i, line := range lines {
		var resp jsonrpcResponse
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			t.Fatalf("response %d: unmarshal error: %v\nline: %s", i, err, line)
		}
		if resp.Error != nil {
			t.Errorf("response %d: unexpected error: %s", i, resp.Error.Message)
		}
	}
}

func TestServerParseError(t *testing.T) {
	var output bytes.Buffer
	s := NewServerWithIO(strings.NewReader("{not json\n"), &output)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	var resp jsonrpcResponse
	if err := json.Unmarshal(output.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != codeParseError {
		t.Fatalf("expected a parse error, got %+v", resp)
	}
}

func TestToolAddTool(t *testing.T) {
	s := NewServerWithIO(nil, nil)

	s.AddTool(Tool{
		Name:        "custom_tool",
		Description: "A custom test tool",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
		Handler: func(context.Context, map[string]interface{}) (ToolResult, error) {
			return ToolResult{
				Content: []ContentBlock{{Type: "text", Text: "custom result"}},
			}, nil
		},
	})

	result := callTool(t, s, "custom_tool", map[string]interface{}{})
	if len(result.Content) != 1 || result.Content[0].Text != "custom result" {
		t.Fatalf("unexpected result: %+v", result)
	}
}
