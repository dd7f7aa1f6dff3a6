package ast

import (
	"unsafe"
)

// ============================================================================
// Arena 内存分配器
// ============================================================================
//
// AST 节点数量大、生命周期一致（解析完一个文件后整体交给分析器，
// 分析结束统一丢弃），逐个 new 会给 GC 制造大量小对象。
// Arena 把节点集中分配在少量大块内存里：
//
// - 分配是简单的指针递增
// - GC 只追踪块，不追踪节点
// - 文件处理完 Reset 复用内存块
//
// Parser 是单线程的，Arena 不加锁。
//
// 使用方式：
//   arena := NewArena(0)
//   ident := arena.NewIdentifier(tok)
//
// ============================================================================

// 默认内存块大小：64KB，足够解析中等大小的 .psr 文件
const defaultChunkSize = 64 * 1024

// Arena 内存池分配器
type Arena struct {
	chunks    [][]byte // 内存块列表
	current   []byte   // 当前内存块
	offset    int      // 当前块的分配偏移
	chunkSize int      // 每个块的标准大小
}

// NewArena 创建一个新的 Arena 分配器
//
// chunkSize <= 0 时使用默认的 64KB。
func NewArena(chunkSize int) *Arena {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	a := &Arena{
		chunks:    make([][]byte, 0, 4),
		chunkSize: chunkSize,
	}
	a.grow(chunkSize)
	return a
}

// Alloc 从 Arena 分配指定大小的内存
//
// align 必须是 2 的幂。
//
// PERF: 这是热路径，保持简单以便内联
func (a *Arena) Alloc(size, align int) unsafe.Pointer {
	// 位运算对齐（align 是 2 的幂）
	offset := (a.offset + align - 1) &^ (align - 1)

	if offset+size > len(a.current) {
		a.grow(max(size, a.chunkSize))
		offset = 0
	}

	ptr := unsafe.Pointer(&a.current[offset])
	a.offset = offset + size
	return ptr
}

// AllocType 分配指定类型的内存（泛型版本）
//
// 用法:
//
//	node := AllocType[Identifier](arena)
func AllocType[T any](a *Arena) *T {
	var zero T
	size := int(unsafe.Sizeof(zero))
	align := int(unsafe.Alignof(zero))
	ptr := (*T)(a.Alloc(size, align))
	// Reset 后内存块会被复用，必须清零
	*ptr = zero
	return ptr
}

// grow 分配一个新的内存块
func (a *Arena) grow(size int) {
	if size < a.chunkSize {
		size = a.chunkSize
	}

	chunk := make([]byte, size)
	a.chunks = append(a.chunks, chunk)
	a.current = chunk
	a.offset = 0
}

// Reset 重置 Arena，保留第一个内存块以便复用
//
// 调用 Reset 后，之前分配的所有节点指针都将失效。
// 多文件编译时每个文件解析完后 Reset，避免反复 malloc。
func (a *Arena) Reset() {
	if len(a.chunks) > 1 {
		a.chunks = a.chunks[:1]
		a.current = a.chunks[0]
	} else if len(a.chunks) == 1 {
		a.current = a.chunks[0]
	}
	a.offset = 0
}

// Free 完全释放 Arena 的所有内存
func (a *Arena) Free() {
	a.chunks = nil
	a.current = nil
	a.offset = 0
}

// ArenaStats Arena 统计信息（调试用）
type ArenaStats struct {
	ChunkCount int // 内存块数量
	TotalBytes int // 总分配字节数
	UsedBytes  int // 已使用字节数
}

// Stats 获取 Arena 的统计信息
func (a *Arena) Stats() ArenaStats {
	stats := ArenaStats{
		ChunkCount: len(a.chunks),
	}
	for i, chunk := range a.chunks {
		stats.TotalBytes += len(chunk)
		if i < len(a.chunks)-1 {
			stats.UsedBytes += len(chunk)
		} else {
			stats.UsedBytes += a.offset
		}
	}
	return stats
}
