// Package lsp 实现 PSR 语言服务器
//
// 手写 stdio JSON-RPC 帧协议，消息类型使用 go.lsp.dev/protocol。
// 文档打开/变更时跑一遍编译管线，把前端诊断推送给客户端。
package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/psrlang/psr/internal/pipeline"
)

// Server LSP 服务器
type Server struct {
	docManager *DocumentManager
	pipeline   *pipeline.Pipeline
	logger     *zap.SugaredLogger

	workspaceRoot string

	reader *bufio.Reader
	writer io.Writer
	mu     sync.Mutex

	initialized bool
	shutdown    bool
}

// NewServer 创建 LSP 服务器
func NewServer(logPath string) *Server {
	logger := newLogger(logPath)

	s := &Server{
		logger:   logger,
		pipeline: pipeline.New(),
		reader:   bufio.NewReader(os.Stdin),
		writer:   os.Stdout,
	}
	s.docManager = NewDocumentManager(s.pipeline, logger)
	return s
}

// newLogger 创建文件日志器，PSR_LSP_DEBUG 未开启时为空操作
func newLogger(logPath string) *zap.SugaredLogger {
	debug := os.Getenv("PSR_LSP_DEBUG")
	if debug != "1" && debug != "true" && debug != "on" {
		return zap.NewNop().Sugar()
	}

	cfg := zap.NewProductionConfig()
	if logPath != "" {
		cfg.OutputPaths = []string{logPath}
		cfg.ErrorOutputPaths = []string{logPath}
	}
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file %s: %v\n", logPath, err)
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}

// Run 启动服务器主循环
func (s *Server) Run(ctx context.Context) error {
	s.logger.Infow("psrls started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msg, err := s.readMessage()
		if err != nil {
			if err == io.EOF {
				s.logger.Infow("client disconnected")
				return nil
			}
			s.logger.Errorw("read message", "error", err)
			continue
		}

		s.handleMessage(msg)

		if s.shutdown {
			s.logger.Infow("server shutdown")
			s.logger.Sync()
			return nil
		}
	}
}

// readMessage 读取一条 LSP 消息
func (s *Server) readMessage() ([]byte, error) {
	var contentLength int
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimSpace(line)

		if line == "" {
			break
		}

		if strings.HasPrefix(line, "Content-Length:") {
			lengthStr := strings.TrimSpace(strings.TrimPrefix(line, "Content-Length:"))
			contentLength, err = strconv.Atoi(lengthStr)
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %s", lengthStr)
			}
		}
	}

	if contentLength == 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}

	content := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, content); err != nil {
		return nil, err
	}
	return content, nil
}

// sendMessage 发送一条 LSP 消息
func (s *Server) sendMessage(msg interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(content))
	if _, err := s.writer.Write([]byte(header)); err != nil {
		return err
	}
	_, err = s.writer.Write(content)
	return err
}

// handleMessage 解析并分发消息
func (s *Server) handleMessage(msg []byte) {
	var baseMsg struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      json.RawMessage `json:"id,omitempty"`
		Method  string          `json:"method"`
		Params  json.RawMessage `json:"params,omitempty"`
	}

	if err := json.Unmarshal(msg, &baseMsg); err != nil {
		s.logger.Errorw("parse message", "error", err)
		return
	}

	switch baseMsg.Method {
	case "initialize":
		s.handleInitialize(baseMsg.ID, baseMsg.Params)
	case "initialized":
		s.initialized = true
	case "shutdown":
		s.sendResult(baseMsg.ID, nil)
	case "exit":
		s.shutdown = true
	case "textDocument/didOpen":
		s.handleDidOpen(baseMsg.Params)
	case "textDocument/didChange":
		s.handleDidChange(baseMsg.Params)
	case "textDocument/didClose":
		s.handleDidClose(baseMsg.Params)
	case "textDocument/didSave":
		s.handleDidSave(baseMsg.Params)
	case "textDocument/hover":
		s.handleHover(baseMsg.ID, baseMsg.Params)
	default:
		if baseMsg.ID != nil {
			s.sendError(baseMsg.ID, -32601, "Method not found: "+baseMsg.Method)
		}
	}
}

func (s *Server) handleInitialize(id, params json.RawMessage) {
	var initParams protocol.InitializeParams
	if err := json.Unmarshal(params, &initParams); err != nil {
		s.sendError(id, -32700, "Parse error")
		return
	}

	if initParams.RootURI != "" {
		s.workspaceRoot = string(initParams.RootURI)
	}
	s.logger.Infow("initialize", "workspace", s.workspaceRoot)

	result := map[string]interface{}{
		"capabilities": map[string]interface{}{
			"textDocumentSync": map[string]interface{}{
				"openClose": true,
				"change":    1, // 完整同步
				"save": map[string]interface{}{
					"includeText": true,
				},
			},
			"hoverProvider": true,
		},
		"serverInfo": map[string]interface{}{
			"name":    "psrls",
			"version": "0.1.0",
		},
	}
	s.sendResult(id, result)
}

func (s *Server) handleDidOpen(params json.RawMessage) {
	var p protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Errorw("didOpen params", "error", err)
		return
	}

	docURI := string(p.TextDocument.URI)
	doc := s.docManager.Open(docURI, p.TextDocument.Text, int(p.TextDocument.Version))
	s.publishDiagnostics(doc)
}

func (s *Server) handleDidChange(params json.RawMessage) {
	var p protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Errorw("didChange params", "error", err)
		return
	}

	docURI := string(p.TextDocument.URI)
	if len(p.ContentChanges) > 0 {
		s.docManager.Update(docURI, p.ContentChanges[0].Text, int(p.TextDocument.Version))
	}
	if doc := s.docManager.Get(docURI); doc != nil {
		s.publishDiagnostics(doc)
	}
}

func (s *Server) handleDidClose(params json.RawMessage) {
	var p protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Errorw("didClose params", "error", err)
		return
	}

	docURI := string(p.TextDocument.URI)
	s.docManager.Close(docURI)
	// 清空该文档的诊断
	s.sendNotification("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(docURI),
		Diagnostics: []protocol.Diagnostic{},
	})
}

func (s *Server) handleDidSave(params json.RawMessage) {
	var p protocol.DidSaveTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Errorw("didSave params", "error", err)
		return
	}

	if p.Text != "" {
		docURI := string(p.TextDocument.URI)
		if doc := s.docManager.Get(docURI); doc != nil {
			s.docManager.Update(docURI, p.Text, doc.Version+1)
			s.publishDiagnostics(s.docManager.Get(docURI))
		}
	}
}

func (s *Server) handleHover(id, params json.RawMessage) {
	var p protocol.HoverParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.sendError(id, -32700, "Parse error")
		return
	}

	doc := s.docManager.Get(string(p.TextDocument.URI))
	if doc == nil {
		s.sendResult(id, nil)
		return
	}
	s.sendResult(id, hoverAt(doc, int(p.Position.Line), int(p.Position.Character)))
}

// publishDiagnostics 把一个文档的编译诊断推送给客户端
func (s *Server) publishDiagnostics(doc *Document) {
	result := doc.Compile()
	diags := make([]protocol.Diagnostic, 0, len(result.Diagnostics))
	for _, d := range result.Diagnostics {
		diags = append(diags, toProtocolDiagnostic(d))
	}

	s.logger.Debugw("publish diagnostics", "uri", doc.URI, "count", len(diags))
	s.sendNotification("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(doc.URI),
		Diagnostics: diags,
	})
}

func (s *Server) sendNotification(method string, params interface{}) {
	s.sendMessage(map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
	})
}

func (s *Server) sendResult(id json.RawMessage, result interface{}) {
	s.sendMessage(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	})
}

func (s *Server) sendError(id json.RawMessage, code int, message string) {
	s.sendMessage(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
	})
}
