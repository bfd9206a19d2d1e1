// File: cmd/ringgauge/run.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/control"
	"github.com/momentics/hioload-ring/core/ring"
	"github.com/momentics/hioload-ring/display"
	"github.com/momentics/hioload-ring/pool"
)

// readCommand on a line of its own reads one element out of the ring.
const readCommand = "<"

// record is the ring element. It holds no Go pointers so every allocator,
// mmap included, can back it.
type record struct {
	seq  uint64
	n    int
	text [240]byte
}

func (r *record) set(seq uint64, s string) {
	r.seq = seq
	r.n = copy(r.text[:], s)
}

func (r *record) String() string {
	return string(r.text[:r.n])
}

func run(ctx context.Context, cfg control.Config, in io.Reader, out io.Writer) (err error) {
	log, err := control.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	alloc, closeAlloc, err := newAllocator(cfg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, closeAlloc()) }()

	var cell control.StatusCell
	if cfg.MetricsAddr != "" {
		stop, err := serveMetrics(cfg.MetricsAddr, &cell, log)
		if err != nil {
			return err
		}
		defer stop()
	}

	gauge := display.NewGauge(cfg.Segments)
	return ring.With(cfg.Capacity, func(b *ring.Buffer[record]) error {
		d := &driver{buf: b, alloc: alloc, gauge: gauge, cell: &cell, out: out, log: log}
		return d.consume(ctx, in)
	},
		ring.WithAllocator[record](alloc),
		ring.WithLogger[record](log.Named("ring")),
		ring.WithOverflowPolicy[record](cfg.OverflowPolicy()),
	)
}

type driver struct {
	buf   *ring.Buffer[record]
	alloc api.Allocator[record]
	gauge display.Renderer
	cell  *control.StatusCell
	out   io.Writer
	log   *zap.Logger
	seq   uint64
}

func (d *driver) consume(ctx context.Context, in io.Reader) error {
	d.cell.Publish(d.buf.Status())
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.apply(sc.Text()); err != nil {
			return err
		}
		st := d.buf.Status()
		d.cell.Publish(st)
		if err := d.gauge.Render(d.out, st); err != nil {
			return err
		}
	}
	return sc.Err()
}

func (d *driver) apply(line string) error {
	if line == readCommand {
		elem, ok := d.buf.Read()
		if !ok {
			_, err := fmt.Fprintln(d.out, "(empty)")
			return err
		}
		if _, err := fmt.Fprintf(d.out, "read #%d %s\n", elem.seq, elem); err != nil {
			return err
		}
		// Ownership came back with Read.
		return d.alloc.Release(elem)
	}

	elem, err := d.alloc.Allocate()
	if err != nil {
		return err
	}
	d.seq++
	elem.set(d.seq, line)
	if err := d.buf.Write(elem); err != nil {
		d.log.Error("write failed", zap.Uint64("seq", d.seq), zap.Error(err))
		if d.buf.Cap() == 0 {
			// The ring already attempted to release elem itself.
			return err
		}
		return multierr.Append(err, d.alloc.Release(elem))
	}
	return nil
}

func newAllocator(cfg control.Config) (api.Allocator[record], func() error, error) {
	noop := func() error { return nil }
	switch cfg.Allocator {
	case control.AllocatorRecycling:
		return pool.NewRecyclingAllocator[record](cfg.RecycleLimit), noop, nil
	case control.AllocatorMmap:
		m, err := pool.NewMmapAllocator[record]()
		if err != nil {
			return nil, nil, err
		}
		return m, m.Close, nil
	default:
		return pool.NewHeapAllocator[record](), noop, nil
	}
}

func serveMetrics(addr string, src api.StatusProvider, log *zap.Logger) (func(), error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(control.NewRingCollector("ringgauge", src))

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server stopped", zap.Error(err))
		}
	}()
	log.Info("serving metrics", zap.String("addr", ln.Addr().String()))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
