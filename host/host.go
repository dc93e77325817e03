// Package host wires a claim registry backend, the event journal and the
// sequencer into a runnable unit for embedding applications.
package host

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spacemeshos/poe/claims"
	"github.com/spacemeshos/poe/journal"
	"github.com/spacemeshos/poe/logging"
	"github.com/spacemeshos/poe/registry"
	"github.com/spacemeshos/poe/sequencer"
)

var ErrUnknownBackend = errors.New("unknown registry backend")

type Host struct {
	cfg Config

	store     registry.Store
	journal   *journal.Journal
	sequencer *sequencer.Sequencer

	metricsListener net.Listener
}

// NewLogger creates the logger described by cfg.
func NewLogger(cfg *Config) *zap.Logger {
	level := zap.InfoLevel
	if cfg.DebugLog {
		level = zap.DebugLevel
	}
	return logging.New(level, logging.Options{
		FileName:   cfg.LogFile(),
		MaxSize:    cfg.MaxLogFileSize,
		MaxBackups: cfg.MaxLogFiles,
		JSON:       cfg.JSONLog,
	})
}

func New(ctx context.Context, cfg Config) (*Host, error) {
	logger := logging.FromContext(ctx)
	for _, dir := range []string{cfg.DataDir, cfg.DbDir} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create %v: %w", dir, err)
		}
	}

	switch cfg.Registry.Backend {
	case BackendLevelDB, BackendMemory:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Registry.Backend)
	}
	s, err := loadState(cfg.DataDir, cfg.Registry.Backend)
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}
	if err := saveState(cfg.DataDir, s); err != nil {
		return nil, fmt.Errorf("saving state: %w", err)
	}

	store, err := openStore(cfg.DbDir, cfg.Registry)
	if err != nil {
		return nil, fmt.Errorf("opening registry: %w", err)
	}

	events, err := journal.Open(filepath.Join(cfg.DbDir, "events"))
	if err != nil {
		return nil, multierror.Append(fmt.Errorf("opening journal: %w", err), store.Close())
	}

	h := &Host{
		cfg:     cfg,
		store:   store,
		journal: events,
	}

	// the memory backend starts empty, its state lives in the journal only
	if cfg.Registry.Backend == BackendMemory {
		entries, err := events.Events(0)
		if err != nil {
			return nil, multierror.Append(fmt.Errorf("reading journal: %w", err), h.Close())
		}
		if err := journal.Restore(store, entries); err != nil {
			return nil, multierror.Append(err, h.Close())
		}
		logger.Info("restored registry from journal", zap.Int("events", len(entries)))
	}

	startSeq := cfg.Sequencer.StartSeq
	if startSeq == 0 {
		next, err := nextSequence(store, events)
		if err != nil {
			return nil, multierror.Append(err, h.Close())
		}
		startSeq = next
		logger.Info("resuming sequence", zap.Uint64("seq", startSeq))
	}
	h.sequencer = sequencer.New(
		store,
		events,
		sequencer.WithStartSequence(startSeq),
		sequencer.WithQueueSize(cfg.Sequencer.QueueSize),
	)

	if cfg.MetricsPort != nil {
		listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", *cfg.MetricsPort))
		if err != nil {
			return nil, multierror.Append(fmt.Errorf("failed to listen: %w", err), h.Close())
		}
		h.metricsListener = listener
	}

	logger.Info("registry host created", zap.Object("config", &cfg))
	return h, nil
}

func openStore(dbdir string, cfg RegistryConfig) (registry.Store, error) {
	var store registry.Store
	switch cfg.Backend {
	case BackendLevelDB:
		db, err := registry.OpenLevelDB(filepath.Join(dbdir, "claims"))
		if err != nil {
			return nil, err
		}
		store = db
	case BackendMemory:
		store = registry.NewMemory()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}

	if cfg.CacheSize <= 0 {
		return store, nil
	}
	cached, err := registry.NewCached(store, cfg.CacheSize)
	if err != nil {
		return nil, multierror.Append(err, store.Close())
	}
	return cached, nil
}

// nextSequence returns the sequence number following everything the journal or
// the registry has recorded. Records can be ahead of the journal if the process
// stopped between committing a mutation and journaling its event.
func nextSequence(store registry.Store, events *journal.Journal) (uint64, error) {
	last, _, err := events.LastSequence()
	if err != nil {
		return 0, fmt.Errorf("reading last sequence: %w", err)
	}
	err = store.Range(func(_ claims.Fingerprint, r claims.Record) bool {
		if r.RegisteredAt > last {
			last = r.RegisteredAt
		}
		return true
	})
	if err != nil {
		return 0, fmt.Errorf("scanning registry: %w", err)
	}
	return last + 1, nil
}

// MetricsAddr returns the address metrics are served on, or nil if disabled.
func (h *Host) MetricsAddr() net.Addr {
	if h.metricsListener == nil {
		return nil
	}
	return h.metricsListener.Addr()
}

// Start runs the sequencer and the metrics endpoint until ctx is canceled.
func (h *Host) Start(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	logger := logging.FromContext(ctx)

	eg.Go(func() error {
		return h.sequencer.Run(ctx)
	})

	if h.metricsListener != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		server := &http.Server{Handler: mux, ReadHeaderTimeout: time.Second * 5}
		eg.Go(func() error {
			logger.Sugar().Infof("metrics server listening on %s", h.metricsListener.Addr())
			err := server.Serve(h.metricsListener)
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		})
		eg.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	return eg.Wait()
}

func (h *Host) Register(ctx context.Context, caller claims.Identity, fp claims.Fingerprint) (sequencer.Receipt, error) {
	return h.sequencer.Submit(ctx, caller, claims.Call{Op: claims.OpCreateClaim, Fingerprint: fp})
}

func (h *Host) Revoke(ctx context.Context, caller claims.Identity, fp claims.Fingerprint) (sequencer.Receipt, error) {
	return h.sequencer.Submit(ctx, caller, claims.Call{Op: claims.OpRevokeClaim, Fingerprint: fp})
}

func (h *Host) Transfer(
	ctx context.Context,
	caller claims.Identity,
	fp claims.Fingerprint,
	target claims.Identity,
) (sequencer.Receipt, error) {
	return h.sequencer.Submit(ctx, caller, claims.Call{Op: claims.OpTransferClaim, Fingerprint: fp, Target: target})
}

func (h *Host) Lookup(ctx context.Context, fp claims.Fingerprint) (claims.Record, bool, error) {
	return h.sequencer.Lookup(ctx, fp)
}

// StateRoot returns the merkle root of all claims, see registry.StateRoot.
func (h *Host) StateRoot(ctx context.Context) (root []byte, err error) {
	err = h.sequencer.View(ctx, func(claims.Registry) error {
		root, err = registry.StateRoot(h.store)
		return err
	})
	return root, err
}

// Events returns the journaled events with a sequence number >= from.
func (h *Host) Events(from uint64) ([]journal.Entry, error) {
	return h.journal.Events(from)
}

func (h *Host) Close() error {
	var result *multierror.Error
	if h.metricsListener != nil {
		if err := h.metricsListener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			result = multierror.Append(result, err)
		}
	}
	if err := h.journal.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("closing journal: %w", err))
	}
	if err := h.store.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("closing registry: %w", err))
	}
	return result.ErrorOrNil()
}
