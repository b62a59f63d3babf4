package cmd

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// progressPrinter shows live scan progress on stdout. The subdomain total is
// only known after discovery, so it starts indeterminate and is set once.
type progressPrinter struct {
	mu       sync.Mutex
	total    int
	done     int
	assets   int
	finished chan struct{}
	updates  chan struct{}
	stopOnce sync.Once
}

func newProgressPrinter() *progressPrinter {
	return &progressPrinter{
		finished: make(chan struct{}),
		updates:  make(chan struct{}, 1),
	}
}

func (p *progressPrinter) Start() {
	go p.loop()
}

// SetTotal records the discovered subdomain count.
func (p *progressPrinter) SetTotal(total int) {
	p.mu.Lock()
	p.total = total
	p.mu.Unlock()
	p.notify()
}

// Increment records one completed subdomain and its asset count.
func (p *progressPrinter) Increment(assets int) {
	p.mu.Lock()
	p.done++
	p.assets += assets
	p.mu.Unlock()
	p.notify()
}

func (p *progressPrinter) Stop() {
	p.stopOnce.Do(func() {
		close(p.finished)
	})
	fmt.Fprintf(os.Stdout, "\r%s\r", strings.Repeat(" ", 80))
}

func (p *progressPrinter) notify() {
	select {
	case p.updates <- struct{}{}:
	default:
	}
}

func (p *progressPrinter) loop() {
	for {
		select {
		case <-p.updates:
			p.print()
		case <-p.finished:
			return
		}
	}
}

func (p *progressPrinter) print() {
	p.mu.Lock()
	total, done, assets := p.total, p.done, p.assets
	p.mu.Unlock()

	if total > 0 {
		fmt.Fprintf(os.Stdout, "\rScanning: %d/%d subdomains, %d assets", done, total, assets)
	} else {
		fmt.Fprintf(os.Stdout, "\rScanning: %d subdomains, %d assets", done, assets)
	}
}
