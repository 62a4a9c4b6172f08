package telemetry

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/blossomtext/blossom/output"
)

// TimingCollector builds a tree of timed operations. The first timer started
// becomes the root; timers started while another runs nest under it.
type TimingCollector struct {
	mu      sync.Mutex
	root    *span
	current *span
}

type span struct {
	name     string
	start    time.Time
	end      time.Time
	parent   *span
	children []*span
}

// NewTimingCollector creates an empty timing collector.
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{}
}

// Start begins timing an operation nested under the currently running one.
func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &span{name: name, start: time.Now()}
	if c.root == nil {
		c.root = node
	} else {
		node.parent = c.current
		c.current.children = append(c.current.children, node)
	}
	c.current = node

	return &spanTimer{collector: c, node: node}
}

// Report writes the timing tree:
//
//	load main.blossom: 85ms
//	├─ parse main.blossom (1204 bytes): 45ms
//	└─ ledger.process (312 elements): 12ms
func (c *TimingCollector) Report(w io.Writer, styles *output.Styles) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.root == nil {
		return
	}
	c.writeNode(w, c.root, "", "", styles)
}

func (c *TimingCollector) writeNode(w io.Writer, node *span, branch, childPrefix string, styles *output.Styles) {
	duration := node.end.Sub(node.start)
	slow := duration >= 100*time.Millisecond
	timing := formatDuration(duration)

	if styles != nil {
		name := node.name
		if node.parent == nil {
			name = styles.Keyword(name)
		}
		if slow {
			timing = styles.Warning(timing)
		} else {
			timing = styles.Dim(timing)
		}
		_, _ = fmt.Fprintf(w, "%s%s: %s\n", styles.Dim(branch), name, timing)
	} else {
		_, _ = fmt.Fprintf(w, "%s%s: %s\n", branch, node.name, timing)
	}

	for i, child := range node.children {
		if i == len(node.children)-1 {
			c.writeNode(w, child, childPrefix+"└─ ", childPrefix+"   ", styles)
		} else {
			c.writeNode(w, child, childPrefix+"├─ ", childPrefix+"│  ", styles)
		}
	}
}

// formatDuration shows milliseconds below one second, seconds above.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2fs", float64(d)/float64(time.Second))
}

type spanTimer struct {
	collector *TimingCollector
	node      *span
}

// End stops the timer and returns the nesting point to its parent.
func (t *spanTimer) End() {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	t.node.end = time.Now()
	if t.node.parent != nil {
		t.collector.current = t.node.parent
	}
}

// Child creates a timer nested under this one regardless of the collector's
// current nesting point.
func (t *spanTimer) Child(name string) Timer {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	node := &span{name: name, start: time.Now(), parent: t.node}
	t.node.children = append(t.node.children, node)

	return &spanTimer{collector: t.collector, node: node}
}
