package meshing

import (
	"context"
	"sync"

	"voxedit/internal/voxel"
)

// Job asks the pool to mesh one occupancy. Key is echoed in the Result.
type Job struct {
	Key       string
	Occupancy voxel.Occupancy
	Result    chan<- Result
}

// Result carries one finished extraction.
type Result struct {
	Key  string
	Mesh *MeshBuffers
}

// Pool runs extractions on a fixed set of goroutines. The extractor and
// its material source must not be mutated while jobs are in flight.
type Pool struct {
	ex      *Extractor
	jobs    chan Job
	workers int
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewPool starts workers goroutines meshing with ex.
func NewPool(ex *Extractor, workers, queueSize int) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		ex:      ex,
		jobs:    make(chan Job, queueSize),
		workers: max(workers, 1),
		ctx:     ctx,
		cancel:  cancel,
	}
	for range p.workers {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Submit queues job without blocking. It returns false when the queue is
// full or the pool is shut down.
func (p *Pool) Submit(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case p.jobs <- job:
		return true
	default:
		return false
	}
}

// SubmitBlocking waits for queue space, ctx cancellation or shutdown.
func (p *Pool) SubmitBlocking(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case p.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return p.ctx.Err()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobs:
			res := Result{Key: job.Key, Mesh: p.ex.Extract(job.Occupancy)}
			select {
			case job.Result <- res:
			case <-p.ctx.Done():
				res.Mesh.Release()
				return
			}
		case <-p.ctx.Done():
			return
		}
	}
}

// QueueLength returns the number of queued jobs not yet picked up.
func (p *Pool) QueueLength() int { return len(p.jobs) }

// Shutdown stops the workers and waits for them. Queued jobs are dropped.
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}

// ExtractAll meshes every occupancy in jobs concurrently and returns the
// meshes keyed like the input. On cancellation the meshes finished so far
// are released and ctx's error is returned.
func (p *Pool) ExtractAll(ctx context.Context, jobs map[string]voxel.Occupancy) (map[string]*MeshBuffers, error) {
	results := make(chan Result, len(jobs))
	out := make(map[string]*MeshBuffers, len(jobs))
	release := func() {
		for _, m := range out {
			m.Release()
		}
	}

	sent := 0
	for key, occ := range jobs {
		if err := p.SubmitBlocking(ctx, Job{Key: key, Occupancy: occ, Result: results}); err != nil {
			p.drain(results, sent, out)
			release()
			return nil, err
		}
		sent++
	}
	for range sent {
		select {
		case r := <-results:
			out[r.Key] = r.Mesh
		case <-ctx.Done():
			release()
			return nil, ctx.Err()
		}
	}
	return out, nil
}

// drain collects the results of jobs already submitted so none leak.
func (p *Pool) drain(results <-chan Result, n int, out map[string]*MeshBuffers) {
	for range n {
		select {
		case r := <-results:
			out[r.Key] = r.Mesh
		case <-p.ctx.Done():
			return
		}
	}
}
