package pool

// Pool is an arena for short-lived byte buffers. The audio driver stages
// every tick's sample bytes through one Pool so the steady-state tick path
// does not allocate. A buffer stays valid until the arena wraps; callers
// that keep data longer must copy it out.
type Pool struct {
	pos int
	buf []byte
}

const maxpoolsize = 500 * 1024

func (pool *Pool) Get(size int) []byte {
	if maxpoolsize-pool.pos < size {
		pool.pos = 0
		pool.buf = make([]byte, maxpoolsize)
	}
	b := pool.buf[pool.pos : pool.pos+size]
	pool.pos += size
	return b
}

func NewPool() *Pool {
	return &Pool{
		buf: make([]byte, maxpoolsize),
	}
}
