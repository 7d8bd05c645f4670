package client

import (
	"context"

	"golang.org/x/time/rate"
)

// StreamFrames plays an animation: each frame is written to the
// inactive buffer and swapped in, paced to fps. The controller's
// frame-boundary swap discipline means a late frame simply repeats the
// previous one; this loop never outruns the renderer destructively.
func (c *Client) StreamFrames(ctx context.Context, frames []Frame, fps float64) error {
	if fps <= 0 {
		fps = 25
	}
	limiter := rate.NewLimiter(rate.Limit(fps), 1)

	for _, f := range frames {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		if err := c.WriteFrame(f); err != nil {
			return err
		}
	}
	return nil
}

// Loop streams the frame list repeatedly until the context is
// cancelled.
func (c *Client) Loop(ctx context.Context, frames []Frame, fps float64) error {
	for {
		if err := c.StreamFrames(ctx, frames, fps); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
