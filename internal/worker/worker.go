package worker

import (
	"context"
	"log"
	"runtime"
	"sync"
	"time"
)

// Task 异步任务接口
type Task interface {
	Execute()
}

// Pool 协程池，承载裁剪等后台任务
type Pool struct {
	workers int
	queue   chan Task
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	mu      sync.Mutex
}

// NewPool 创建工作池
func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU() * 2
	}
	if queueSize <= 0 {
		queueSize = 1000
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers: workers,
		queue:   make(chan Task, queueSize),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start 启动工作池
func (p *Pool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return
	}

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	p.started = true
	log.Printf("Worker pool started with %d workers", p.workers)
}

// Stop 停止工作池，等待在途任务结束
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
	close(p.queue)

	p.mu.Lock()
	p.started = false
	p.mu.Unlock()

	log.Println("Worker pool stopped")
}

// Submit 提交任务（非阻塞，队列满时丢弃并记日志）
func (p *Pool) Submit(task Task) bool {
	select {
	case p.queue <- task:
		return true
	case <-p.ctx.Done():
		return false
	default:
		log.Println("WARN: Worker pool queue is full, task dropped")
		return false
	}
}

// TrySubmit 提交任务，队列满时按间隔重试
func (p *Pool) TrySubmit(task Task, retries int, interval time.Duration) bool {
	for i := 0; i <= retries; i++ {
		if i > 0 {
			time.Sleep(interval)
		}
		if p.Submit(task) {
			return true
		}
	}
	return false
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case task, ok := <-p.queue:
			if !ok {
				return
			}
			p.executeTask(task)
		case <-p.ctx.Done():
			return
		}
	}
}

// executeTask 执行任务并捕获 panic
func (p *Pool) executeTask(task Task) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic recovered in async task: %v", r)
		}
	}()
	task.Execute()
}
