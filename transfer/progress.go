package transfer

import (
	"io"
	"math"

	"golang.org/x/time/rate"
)

// ProgressFunc receives the bytes of the request body sent so far. total is 0 when unknown.
type ProgressFunc func(loaded, total int64)

// ProgressPercent converts a progress event to 0..100, treating an unknown total as 1.
func ProgressPercent(loaded, total int64) int {
	if total <= 0 {
		total = 1
	}
	percent := int(math.Round(float64(loaded) * 100 / float64(total)))
	switch {
	case percent < 0:
		return 0
	case percent > 100:
		return 100
	}
	return percent
}

// NewProgressLimiter returns nil (no throttling) when perSecond is 0.
func NewProgressLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

// progressReader reports every read to onProgress. Intermediate reports are dropped when the
// limiter has no token; the one that completes the body always goes through.
type progressReader struct {
	r          io.Reader
	loaded     int64
	total      int64
	limiter    *rate.Limiter
	onProgress ProgressFunc
}

func newProgressReader(r io.Reader, total int64, limiter *rate.Limiter, onProgress ProgressFunc) *progressReader {
	return &progressReader{
		r:          r,
		total:      total,
		limiter:    limiter,
		onProgress: onProgress,
	}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.loaded += int64(n)
		p.report(false)
	}
	if err == io.EOF && p.total <= 0 {
		// unknown length: the end of the body is the only final event we can detect
		p.report(true)
	}
	return n, err
}

func (p *progressReader) report(force bool) {
	if p.onProgress == nil {
		return
	}
	final := force || (p.total > 0 && p.loaded >= p.total)
	if !final && p.limiter != nil && !p.limiter.Allow() {
		return
	}
	p.onProgress(p.loaded, p.total)
}
