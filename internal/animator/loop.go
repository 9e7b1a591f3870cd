package animator

import (
	"context"
	"time"
)

// Target is something that can be posed at an elapsed time, typically a
// session.
type Target interface {
	Tick(elapsed float64)
}

// Loop drives target at fps frames per second until ctx is cancelled,
// standing in for a host render loop. It returns the number of frames
// rendered.
func Loop(ctx context.Context, target Target, fps int) int {
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	start := time.Now()
	frames := 0
	for {
		select {
		case <-ctx.Done():
			return frames
		case now := <-ticker.C:
			target.Tick(now.Sub(start).Seconds())
			frames++
		}
	}
}
