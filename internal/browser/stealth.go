package browser

import (
	"math/rand"
	"time"

	"github.com/playwright-community/playwright-go"
)

// RandomDelay waits for a random duration between min and max milliseconds.
func RandomDelay(min, max int) {
	if max <= min {
		time.Sleep(time.Duration(min) * time.Millisecond)
		return
	}
	time.Sleep(time.Duration(rand.Intn(max-min+1)+min) * time.Millisecond)
}

// HumanScroll scrolls down in steps, then back up a little, so lazy-loaded
// listings render before the content is read.
func HumanScroll(page playwright.Page) error {
	for i := 0; i < 5; i++ {
		if _, err := page.Evaluate("window.scrollBy(0, window.innerHeight / 2)"); err != nil {
			return err
		}
		RandomDelay(300, 900)
	}
	_, err := page.Evaluate("window.scrollBy(0, -200)")
	return err
}

// MouseJiggle moves the mouse to a few random points in the viewport.
func MouseJiggle(page playwright.Page) error {
	vp := page.ViewportSize()
	if vp == nil || vp.Width == 0 || vp.Height == 0 {
		return nil
	}
	for i := 0; i < 3; i++ {
		if err := page.Mouse().Move(float64(rand.Intn(vp.Width)), float64(rand.Intn(vp.Height))); err != nil {
			return err
		}
		RandomDelay(100, 300)
	}
	return nil
}
