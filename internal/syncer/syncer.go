// internal/syncer/syncer.go
package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/bartek5186/plentyexport/internal/exporter"
	"github.com/rs/zerolog"
)

// Runner – jeden przebieg eksportu
type Runner interface {
	Run(ctx context.Context) (exporter.Stats, error)
}

type Syncer struct {
	log      zerolog.Logger // logowanie
	runner   Runner
	mu       sync.Mutex // ochrona sekcji krytycznych
	interval time.Duration
	running  bool // czy syncer działa
	cancel   context.CancelFunc
	wg       sync.WaitGroup // śledzi pętlę
	runs     uint64         // licznik przebiegów
	last     *Result
}

// Result – wynik ostatniego przebiegu
type Result struct {
	Stats    exporter.Stats
	Err      error
	Finished time.Time
}

func New(log zerolog.Logger, runner Runner, interval time.Duration) *Syncer {
	return &Syncer{log: log, runner: runner, interval: interval}
}

// Start odpala eksport od razu, potem co interval. Drugi Start nic nie robi.
func (s *Syncer) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true
	s.wg.Add(1)
	s.mu.Unlock()

	s.log.Info().Dur("interval", s.Interval()).Msg("Syncer: start")
	go s.loop(ctx)
	return nil
}

func (s *Syncer) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
	s.log.Info().Msg("Syncer: stop")
}

func (s *Syncer) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// SetInterval – nowy interwał łapie pętla przy następnym tyknięciu
func (s *Syncer) SetInterval(d time.Duration) {
	s.mu.Lock()
	s.interval = d
	s.mu.Unlock()
}

func (s *Syncer) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.interval > 0 {
		return s.interval
	}
	return time.Hour
}

func (s *Syncer) Runs() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

func (s *Syncer) Last() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return Result{}, false
	}
	return *s.last, true
}

func (s *Syncer) loop(ctx context.Context) {
	defer s.wg.Done()

	// pierwszy strzał od razu
	s.runOnce(ctx)

	cur := s.Interval()
	ticker := time.NewTicker(cur)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("Syncer: koniec pętli")
			return
		case <-ticker.C:
			s.runOnce(ctx)
			// jeśli ktoś zmienił interwał, odśwież ticker
			if next := s.Interval(); next != cur {
				cur = next
				ticker.Reset(cur)
			}
		}
	}
}

func (s *Syncer) runOnce(ctx context.Context) {
	st, err := s.runner.Run(ctx)

	s.mu.Lock()
	s.runs++
	n := s.runs
	s.last = &Result{Stats: st, Err: err, Finished: time.Now()}
	s.mu.Unlock()

	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.log.Error().Err(err).Uint64("run", n).Msg("Syncer: przebieg nieudany")
		return
	}
	s.log.Info().Uint64("run", n).Int("exported", st.Exported).Msg("Syncer: przebieg zakończony")
}
