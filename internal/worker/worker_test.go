package worker

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type funcTask func()

func (f funcTask) Execute() { f() }

// TestPanicRecovery 测试 panic 后 worker 继续运行
func TestPanicRecovery(t *testing.T) {
	pool := NewPool(2, 10)
	pool.Start()
	defer pool.Stop()

	var completed int32
	pool.Submit(funcTask(func() { panic("intentional panic for testing") }))
	pool.Submit(funcTask(func() { panic("intentional panic for testing") }))
	pool.Submit(funcTask(func() { atomic.AddInt32(&completed, 1) }))
	pool.Submit(funcTask(func() { atomic.AddInt32(&completed, 1) }))
	pool.Submit(funcTask(func() { atomic.AddInt32(&completed, 1) }))

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(3), atomic.LoadInt32(&completed))
}

// TestGracefulShutdown 测试优雅关闭等待在途任务
func TestGracefulShutdown(t *testing.T) {
	pool := NewPool(2, 10)
	pool.Start()

	var completed int32
	var started sync.WaitGroup
	started.Add(1)

	pool.Submit(funcTask(func() {
		started.Done()
		time.Sleep(300 * time.Millisecond)
		atomic.AddInt32(&completed, 1)
	}))

	started.Wait()
	begin := time.Now()
	pool.Stop()

	assert.GreaterOrEqual(t, time.Since(begin), 250*time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&completed))
}

// TestSubmitWhenQueueFull 测试队列满时的非阻塞丢弃
func TestSubmitWhenQueueFull(t *testing.T) {
	// 不启动 worker，队列只能容纳 1 个任务
	pool := NewPool(1, 1)

	assert.True(t, pool.Submit(funcTask(func() {})))
	assert.False(t, pool.Submit(funcTask(func() {})))
}

// TestTrySubmitRetries 测试满队列下的重试提交
func TestTrySubmitRetries(t *testing.T) {
	pool := NewPool(1, 1)
	assert.True(t, pool.Submit(funcTask(func() {})))

	// 重试两次后队列仍满
	begin := time.Now()
	ok := pool.TrySubmit(funcTask(func() {}), 2, 10*time.Millisecond)
	assert.False(t, ok)
	assert.GreaterOrEqual(t, time.Since(begin), 20*time.Millisecond)

	// worker 启动后排空队列，重试成功
	pool.Start()
	defer pool.Stop()
	assert.True(t, pool.TrySubmit(funcTask(func() {}), 5, 20*time.Millisecond))
}
