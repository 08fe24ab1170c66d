package netmon

import (
	"context"
	"net"
	"time"

	zlog "github.com/rs/zerolog/log"
)

// ProbeConfig configures the probing monitor.
type ProbeConfig struct {
	Addr     string        // host:port dialed to assess reachability
	Interval time.Duration // Time between probes
	Timeout  time.Duration // Per-probe dial timeout
}

// Probe is a monitor that periodically dials a well-known address and
// broadcasts reachability transitions. Probing is passive from the
// subscribers' perspective; they only see callback-style channel sends.
type Probe struct {
	*broadcaster

	cfg    ProbeConfig
	dial   func(ctx context.Context, addr string) error
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewProbe creates a probing monitor. Start must be called to begin probing;
// until the first probe completes the status is assumed reachable.
func NewProbe(cfg ProbeConfig) *Probe {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Probe{
		broadcaster: newBroadcaster(true),
		cfg:         cfg,
		dial:        dialProbe,
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
	}
}

// Start begins probing in the background.
func (p *Probe) Start() {
	go p.run()
}

// Stop ends probing and waits for the probe loop to exit.
func (p *Probe) Stop() {
	p.cancel()
	<-p.done
}

func (p *Probe) run() {
	defer close(p.done)

	p.probe()
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.probe()
		}
	}
}

func (p *Probe) probe() {
	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.Timeout)
	defer cancel()

	err := p.dial(ctx, p.cfg.Addr)
	reachable := err == nil
	if p.set(reachable) {
		zlog.Info().Msgf("netmon: reachability changed: reachable=%v addr=%s", reachable, p.cfg.Addr)
	}
}

func dialProbe(ctx context.Context, addr string) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	return conn.Close()
}
