package search

import (
	"context"
	"sync"
	"time"

	"github.com/harane/toolshed/database/models"
)

// DefaultInterval 默认去抖间隔
const DefaultInterval = 350 * time.Millisecond

// Result 一次搜索执行的结果
// Seq 单调递增，消费方据此丢弃乱序到达的陈旧结果
type Result struct {
	Seq   uint64
	Query string
	Tools []*models.Tool
	Err   error
}

// ExecFunc 实际执行搜索的回调
type ExecFunc func(ctx context.Context, query string) ([]*models.Tool, error)

// Debouncer 搜索去抖器
// 连续的查询更新会重置计时器，只有输入静默超过间隔后才真正执行；
// 结果通道只保留最新一条，慢消费方看到的永远是最后一次查询的结果。
type Debouncer struct {
	interval time.Duration
	exec     ExecFunc

	mu        sync.Mutex
	timer     *time.Timer
	pending   string
	seq       uint64
	delivered uint64
	closed    bool

	ctx     context.Context
	cancel  context.CancelFunc
	results chan Result
}

// NewDebouncer 创建搜索去抖器
func NewDebouncer(interval time.Duration, exec ExecFunc) *Debouncer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Debouncer{
		interval: interval,
		exec:     exec,
		ctx:      ctx,
		cancel:   cancel,
		results:  make(chan Result, 1),
	}
}

// Update 提交新的查询输入
// 每次调用都会重置去抖计时器，之前尚未触发的查询被覆盖
func (d *Debouncer) Update(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.pending = query
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.fire)
}

// Flush 立即执行当前待定查询，不等待计时器
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
	d.fire()
}

// fire 执行当前待定查询并投递结果
func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.seq++
	seq := d.seq
	query := d.pending
	d.mu.Unlock()

	tools, err := d.exec(d.ctx, query)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	// 更晚的查询已经投递过结果，丢弃本次陈旧结果
	if seq <= d.delivered {
		return
	}
	d.delivered = seq

	// 通道容量为 1，投递前先腾掉未被消费的旧结果
	select {
	case <-d.results:
	default:
	}
	d.results <- Result{Seq: seq, Query: query, Tools: tools, Err: err}
}

// Results 返回结果通道
func (d *Debouncer) Results() <-chan Result {
	return d.results
}

// Close 关闭去抖器，取消进行中的执行
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.cancel()
	close(d.results)
}
