package main

import (
	"bufio"
	"context"
	"disruption-replay-service/internal/adapters/backend"
	"disruption-replay-service/internal/adapters/lock"
	"disruption-replay-service/internal/adapters/mapsurface"
	"disruption-replay-service/internal/config"
	"disruption-replay-service/internal/domain"
	"disruption-replay-service/internal/services"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	revealInterval time.Duration
	logInterval    time.Duration
	cardDelay      time.Duration
	routeDelay     time.Duration
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Run the risk feed and replay selected disruptions",
	Long: `Loads the map data from the backend and reveals risk events at a fixed
interval. Type a risk id and press enter to select it. A selection made while
a replay is running is ignored. "route <shipment>" shows a route's details,
e.g. "route 1001" or "route new-g-1001". Ctrl-D or Ctrl-C quits.`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

// registerPlayFlags runs after .env is loaded so its values become flag defaults.
func registerPlayFlags() {
	pacing := services.DefaultPacing()
	playCmd.Flags().DurationVar(&revealInterval, "reveal-interval", durationEnv("REVEAL_INTERVAL", services.DefaultRevealInterval), "delay between risk reveals")
	playCmd.Flags().DurationVar(&logInterval, "log-interval", durationEnv("LOG_INTERVAL", pacing.LogInterval), "delay between log entries")
	playCmd.Flags().DurationVar(&cardDelay, "card-delay", durationEnv("CARD_DELAY", pacing.CardDelay), "delay before the decision card")
	playCmd.Flags().DurationVar(&routeDelay, "route-delay", durationEnv("ROUTE_DELAY", pacing.RouteDelay), "delay before new routes are drawn")
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(config.Get(key, fallback.String()))
	if err != nil {
		return fallback
	}
	return d
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, err := backend.NewClient(backendURL, nil)
	if err != nil {
		return err
	}

	fixtures, err := client.LoadFixtures(ctx)
	if err != nil {
		return err
	}
	store, err := domain.NewFixtureStore(fixtures, []string{services.ScenarioReroute, services.ScenarioResource, services.ScenarioSplit})
	if err != nil {
		return err
	}

	surface := mapsurface.NewRecorder(nil, logrus.WithField("component", "map"))
	panel := newConsole(os.Stdout, surface)
	scene := services.NewScene(store, surface)
	if err := scene.DrawInitial(ctx); err != nil {
		return err
	}

	feed := services.NewRiskFeed(store.RiskEvents(), lock.NewLocalSingleFlight(), nil, revealInterval)
	engine := services.NewReplayEngine(nil, services.Pacing{
		LogInterval: logInterval,
		CardDelay:   cardDelay,
		RouteDelay:  routeDelay,
	})

	replay := func(ctx context.Context, ev domain.RiskEvent) error {
		o, err := client.TriggerDisruption(ctx, ev.ScenarioKey)
		if err != nil {
			return err
		}
		res, err := engine.Replay(ctx, scene, panel, o)
		if err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"run_id":  res.RunID,
			"derived": len(res.Derived),
			"skipped": res.Skipped,
		}).Info("replay complete")
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := feed.Run(gctx, func(ctx context.Context, ev domain.RiskEvent) error {
			panel.riskRevealed(ev)
			return scene.RevealRisk(ctx, ev)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		inspect := func(key string) {
			if err := scene.InspectRoute(gctx, key); err != nil {
				logrus.WithError(err).Warn("inspect route failed")
			}
		}
		return readSelections(gctx, os.Stdin, inspect, func(id int) {
			// Selections run beside the input loop so a second one can be dropped.
			g.Go(func() error {
				err := feed.Select(gctx, id, replay)
				switch {
				case err == nil:
				case errors.Is(err, services.ErrReplayInFlight):
					logrus.WithField("risk_id", id).Info("replay already running; selection ignored")
				default:
					logrus.WithError(err).WithField("risk_id", id).Warn("selection failed")
				}
				return nil
			})
		})
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// readSelections calls onSelect for each risk id typed on in. End of input
// stops reading; the feed and any running replay still finish.
func readSelections(ctx context.Context, in io.Reader, onInspect func(string), onSelect func(int)) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)

	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			scanErr <- err
			return
		}
		scanErr <- io.EOF
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-scanErr:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		case line := <-lines:
			text := strings.TrimPrefix(strings.TrimSpace(line), "select ")
			if text == "" {
				continue
			}
			if key, ok := strings.CutPrefix(text, "route "); ok {
				onInspect(strings.TrimSpace(key))
				continue
			}
			id, err := strconv.Atoi(strings.TrimSpace(text))
			if err != nil {
				logrus.WithField("input", line).Warn("expected a risk id")
				continue
			}
			onSelect(id)
		}
	}
}
