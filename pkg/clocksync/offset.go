package clocksync

import "fmt"

// RunOffset — режим без порта: прочитать часы, прибавить offset, установить,
// показать результат. При нулевом offset или без Init часы не трогаются.
func (c *Controller) RunOffset(opt Options) error {
	c.stats = Stats{}
	if opt.Offset == 0 || !opt.Init {
		return nil
	}

	d := c.Clock.Now()
	fmt.Fprintf(c.Out, "Current time: %f\n", d)

	d += opt.Offset
	fmt.Fprintf(c.Out, "Adjusting time with offset %f to %f\n", opt.Offset, d)
	c.commit(d)

	fmt.Fprintf(c.Out, "%f\n", c.Clock.Now())
	return nil
}
