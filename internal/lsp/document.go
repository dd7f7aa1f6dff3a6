package lsp

import (
	"sync"

	"go.lsp.dev/uri"
	"go.uber.org/zap"

	"github.com/psrlang/psr/internal/pipeline"
)

// 最多缓存的文档数量
const maxOpenDocuments = 16

// Document 一个打开的文档
type Document struct {
	URI     string
	Content string
	Version int

	// 延迟编译的结果缓存
	pipeline *pipeline.Pipeline
	result   *pipeline.Result
	mu       sync.Mutex
}

// Compile 编译文档（结果按版本缓存）
func (d *Document) Compile() *pipeline.Result {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.result == nil {
		d.result = d.pipeline.Compile(d.Content, uriToPath(d.URI))
	}
	return d.result
}

// Invalidate 丢弃缓存的编译结果
func (d *Document) Invalidate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.result = nil
}

// uriToPath 把文档 URI 转成文件路径，解析失败时原样返回
func uriToPath(docURI string) string {
	parsed, err := uri.Parse(docURI)
	if err != nil {
		return docURI
	}
	return parsed.Filename()
}

// DocumentManager 文档管理器，LRU 淘汰
type DocumentManager struct {
	docs      map[string]*Document
	openOrder []string // 最近使用的在最后
	pipeline  *pipeline.Pipeline
	logger    *zap.SugaredLogger
	mu        sync.Mutex
}

// NewDocumentManager 创建文档管理器
func NewDocumentManager(p *pipeline.Pipeline, logger *zap.SugaredLogger) *DocumentManager {
	return &DocumentManager{
		docs:      make(map[string]*Document),
		openOrder: make([]string, 0, 8),
		pipeline:  p,
		logger:    logger,
	}
}

// Open 打开文档
func (dm *DocumentManager) Open(docURI, content string, version int) *Document {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if doc, exists := dm.docs[docURI]; exists {
		doc.Content = content
		doc.Version = version
		doc.Invalidate()
		dm.updateLRU(docURI)
		return doc
	}

	if len(dm.docs) >= maxOpenDocuments {
		dm.evictOldest()
	}

	doc := &Document{
		URI:      docURI,
		Content:  content,
		Version:  version,
		pipeline: dm.pipeline,
	}
	dm.docs[docURI] = doc
	dm.openOrder = append(dm.openOrder, docURI)
	dm.logger.Debugw("document opened", "uri", docURI, "version", version)
	return doc
}

// Update 更新文档内容
func (dm *DocumentManager) Update(docURI, content string, version int) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc, exists := dm.docs[docURI]
	if !exists {
		return
	}
	doc.Content = content
	doc.Version = version
	doc.Invalidate()
	dm.updateLRU(docURI)
}

// Close 关闭文档
func (dm *DocumentManager) Close(docURI string) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc, exists := dm.docs[docURI]
	if !exists {
		return
	}
	delete(dm.docs, docURI)
	for i, u := range dm.openOrder {
		if u == docURI {
			dm.openOrder = append(dm.openOrder[:i], dm.openOrder[i+1:]...)
			break
		}
	}
	doc.Invalidate()
	doc.Content = ""
	dm.logger.Debugw("document closed", "uri", docURI, "remaining", len(dm.docs))
}

// Get 获取文档
func (dm *DocumentManager) Get(docURI string) *Document {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc, exists := dm.docs[docURI]
	if !exists {
		return nil
	}
	dm.updateLRU(docURI)
	return doc
}

// Count 当前打开的文档数量
func (dm *DocumentManager) Count() int {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return len(dm.docs)
}

// updateLRU 调用者需持有锁
func (dm *DocumentManager) updateLRU(docURI string) {
	for i, u := range dm.openOrder {
		if u == docURI {
			dm.openOrder = append(dm.openOrder[:i], dm.openOrder[i+1:]...)
			break
		}
	}
	dm.openOrder = append(dm.openOrder, docURI)
}

// evictOldest 调用者需持有锁
func (dm *DocumentManager) evictOldest() {
	if len(dm.openOrder) == 0 {
		return
	}
	oldestURI := dm.openOrder[0]
	if doc := dm.docs[oldestURI]; doc != nil {
		doc.Invalidate()
		doc.Content = ""
	}
	delete(dm.docs, oldestURI)
	dm.openOrder = dm.openOrder[1:]
	dm.logger.Infow("evicted oldest document", "uri", oldestURI)
}
