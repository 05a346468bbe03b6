// Package workerpool 常驻协程池，供逐行并行的帧合成复用。
//
// 同一个 Pool 在整个变形序列中复用，避免每帧重新创建协程：
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//	pool.ParallelFor(height, func(start, end int) {
//	    for y := start; y < end; y++ {
//	        // 处理第 y 行
//	    }
//	})
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

type Pool struct {
	numWorkers int
	workC      chan workItem
	closeOnce  sync.Once
	closed     atomic.Bool
}

type workItem struct {
	fn      func()
	barrier *sync.WaitGroup
}

// New 创建 numWorkers 个常驻协程，numWorkers <= 0 时取 GOMAXPROCS
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		workC:      make(chan workItem, numWorkers*2),
	}
	for range numWorkers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for item := range p.workC {
		item.fn()
		item.barrier.Done()
	}
}

func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close 关闭协程池，可重复调用。关闭后的 Pool 退化为串行执行。
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// ParallelFor 把 [0, n) 切成连续区间分给各协程，阻塞到全部完成。
// nil 或已关闭的 Pool 直接串行执行。
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if p == nil || p.closed.Load() {
		fn(0, n)
		return
	}

	workers := min(p.numWorkers, n)
	if workers == 1 {
		fn(0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := range workers {
		start := i * chunkSize
		end := min(start+chunkSize, n)
		if start >= n {
			wg.Done()
			continue
		}
		p.workC <- workItem{
			fn:      func() { fn(start, end) },
			barrier: &wg,
		}
	}
	wg.Wait()
}

// ParallelForBatched 按 batchSize 分批，协程用原子计数抢占下一批。
// 每行开销不均匀时（例如线很多、只有部分区域靠近特征线）负载更平均。
func (p *Pool) ParallelForBatched(n, batchSize int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if p == nil || p.closed.Load() {
		fn(0, n)
		return
	}

	numBatches := (n + batchSize - 1) / batchSize
	workers := min(p.numWorkers, numBatches)
	if workers == 1 {
		fn(0, n)
		return
	}

	var next atomic.Int32
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		p.workC <- workItem{
			fn: func() {
				for {
					start := (int(next.Add(1)) - 1) * batchSize
					if start >= n {
						return
					}
					fn(start, min(start+batchSize, n))
				}
			},
			barrier: &wg,
		}
	}
	wg.Wait()
}
