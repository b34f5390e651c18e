// Package transport talks to a Circuit Tracks over a raw MIDI port.
//
// A port is any byte stream carrying MIDI, typically a raw MIDI character
// device such as /dev/snd/midiC1D0. Device paces outgoing SysEx messages and
// reassembles incoming ones.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/arloliu/ctpatch"
	"github.com/arloliu/ctpatch/errs"
	"github.com/arloliu/ctpatch/internal/pool"
	"github.com/arloliu/ctpatch/patch"
	"github.com/arloliu/ctpatch/sysex"
)

// Port is a bidirectional MIDI byte stream.
type Port interface {
	io.ReadWriteCloser
}

// Device sends and receives SysEx messages on a Port.
//
// Sends are serialized and paced; a Device is safe for concurrent use.
type Device struct {
	cfg  *Config
	port Port

	mu       sync.Mutex
	lastSent time.Time
	closed   bool

	readMu  sync.Mutex
	scanner sysex.Scanner
	queue   [][]byte
}

// New wraps an already open port.
func New(port Port, opts ...Option) (*Device, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	return &Device{cfg: cfg, port: port}, nil
}

// Open opens the MIDI device file at path for reading and writing.
//
// A device that is missing or busy, e.g. while the synth is still being
// enumerated or another program holds the port, is retried with exponential
// backoff until WithOpenTimeout expires or ctx ends. Permission errors are not
// retried.
func Open(ctx context.Context, path string, opts ...Option) (*Device, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 50 * time.Millisecond
	bo.MaxInterval = time.Second
	bo.MaxElapsedTime = cfg.openTimeout

	var policy backoff.BackOff = bo
	if cfg.openTimeout == 0 {
		policy = &backoff.StopBackOff{}
	}

	var f *os.File
	op := func() error {
		var err error
		f, err = os.OpenFile(path, os.O_RDWR, 0)
		if errors.Is(err, os.ErrPermission) {
			return backoff.Permanent(err)
		}

		return err
	}
	notify := func(err error, next time.Duration) {
		cfg.logger.Warn("failed to open MIDI port, retrying",
			zap.String("port", path), zap.Error(err), zap.Duration("next", next))
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(policy, ctx), notify); err != nil {
		return nil, fmt.Errorf("open MIDI port %s: %w", path, err)
	}

	cfg.logger.Info("opened MIDI port", zap.String("port", path))

	return &Device{cfg: cfg, port: f}, nil
}

// Close closes the port. Pending and later calls fail with errs.ErrPortClosed.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	return d.port.Close()
}

// Send writes one SysEx message, waiting first until the configured delay has
// passed since the previous message.
func (d *Device) Send(ctx context.Context, msg []byte) error {
	if err := sysex.CheckFrame(msg, 0); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return errs.ErrPortClosed
	}

	if wait := d.cfg.delay - time.Since(d.lastSent); !d.lastSent.IsZero() && wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}

	if _, err := d.port.Write(msg); err != nil {
		return fmt.Errorf("write %d bytes: %w", len(msg), err)
	}
	d.lastSent = time.Now()

	return nil
}

// SendPatch encodes p and sends it.
//
// A patch with a Replace Current Patch command is loaded into the synth's
// edit buffer; a Replace Patch command stores it into a pack slot.
func (d *Device) SendPatch(ctx context.Context, p *patch.Patch) error {
	buf := pool.GetPacketBuffer()
	defer pool.PutPacketBuffer(buf)

	out, err := ctpatch.Append(buf.B, p)
	if err != nil {
		return err
	}
	buf.B = out

	if err := d.Send(ctx, out); err != nil {
		return err
	}

	d.cfg.logger.Debug("sent patch",
		zap.String("name", p.Meta.DisplayName()),
		zap.Uint8("command", uint8(p.Command.CommandID())),
		zap.Int("bytes", len(out)))

	return nil
}

// SendBank sends every message of bank in order and returns the number sent.
func (d *Device) SendBank(ctx context.Context, bank []byte) (int, error) {
	msgs, err := sysex.Split(bank)
	if err != nil {
		return 0, err
	}

	for i, msg := range msgs {
		if err := d.Send(ctx, msg); err != nil {
			return i, fmt.Errorf("message %d of %d: %w", i+1, len(msgs), err)
		}
		d.cfg.logger.Info("sent message",
			zap.Int("index", i+1), zap.Int("total", len(msgs)), zap.Int("bytes", len(msg)))
	}

	return len(msgs), nil
}

// Receive returns the next complete SysEx message read from the port.
//
// Reads block on the port. If ctx ends first, Receive returns ctx.Err() and
// the read in progress completes in the background; a message it completes is
// kept for the next call.
func (d *Device) Receive(ctx context.Context) ([]byte, error) {
	done := make(chan []byte)
	failed := make(chan error, 1)

	go func() {
		d.readMu.Lock()
		defer d.readMu.Unlock()

		msg, err := d.next()
		if err != nil {
			failed <- err
			return
		}

		select {
		case done <- msg:
		case <-ctx.Done():
			d.queue = append([][]byte{msg}, d.queue...)
		}
	}()

	select {
	case msg := <-done:
		return msg, nil
	case err := <-failed:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// next pops a queued message, reading from the port until one is complete.
// The caller holds readMu.
func (d *Device) next() ([]byte, error) {
	buf := make([]byte, d.cfg.readSize)
	for len(d.queue) == 0 {
		n, err := d.port.Read(buf)
		if n > 0 {
			msgs, ferr := d.scanner.Feed(buf[:n])
			if ferr != nil {
				d.cfg.logger.Debug("dropped incomplete message", zap.Error(ferr))
			}
			d.queue = append(d.queue, msgs...)
		}

		if err != nil && len(d.queue) == 0 {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) || errors.Is(err, os.ErrClosed) {
				return nil, errs.ErrPortClosed
			}

			return nil, err
		}
	}

	msg := d.queue[0]
	d.queue = d.queue[1:]

	return msg, nil
}

// RequestCurrentPatch asks the synth for the patch loaded at location and
// waits for it. Messages that are not patch packets are skipped.
func (d *Device) RequestCurrentPatch(ctx context.Context, location uint8) (*patch.Patch, error) {
	if err := d.Send(ctx, ctpatch.DumpRequest(location)); err != nil {
		return nil, err
	}

	for {
		msg, err := d.Receive(ctx)
		if err != nil {
			return nil, err
		}

		p, err := ctpatch.Decode(msg)
		if err != nil {
			d.cfg.logger.Debug("skipped message", zap.Int("bytes", len(msg)), zap.Error(err))
			continue
		}

		return p, nil
	}
}
