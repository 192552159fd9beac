package main

import (
	"bufio"
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/homegamehq/homegame/internal/config"
	"github.com/homegamehq/homegame/internal/host"
	"github.com/homegamehq/homegame/internal/table"
)

// HostCmd runs the authoritative table and a command prompt for the host
// player. Flags override config file values when set.
type HostCmd struct {
	Config     string `short:"c" default:"homegame.hcl" help:"Path to HCL config file"`
	Name       string `short:"n" default:"host" help:"Host player's display name"`
	Addr       string `help:"Listen address override (host:port)"`
	SmallBlind int    `help:"Small blind override"`
	BigBlind   int    `help:"Big blind override"`
	BuyIn      int    `help:"Buy-in override"`
	Seed       *int64 `help:"Deterministic RNG seed for pairing codes"`
	Debug      bool   `help:"Enable debug logging and duplicate names"`
}

func (c *HostCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if c.SmallBlind > 0 {
		cfg.Table.SmallBlind = c.SmallBlind
	}
	if c.BigBlind > 0 {
		cfg.Table.BigBlind = c.BigBlind
	}
	if c.BuyIn > 0 {
		cfg.Table.BuyIn = c.BuyIn
	}
	if c.Debug {
		cfg.Host.LogLevel = "debug"
		cfg.Table.Debug = true
	}

	addr := c.Addr
	if addr == "" {
		addr = fmt.Sprintf("%s:%d", cfg.Host.Address, cfg.Host.Port)
	}

	logger := newLogger(cfg.Host.LogLevel)

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}
	rng := rand.New(rand.NewSource(seed))

	t := table.New(table.Config{
		MaxSeats:       cfg.Table.MaxSeats,
		BuyIn:          cfg.Table.BuyIn,
		SmallBlind:     cfg.Table.SmallBlind,
		BigBlind:       cfg.Table.BigBlind,
		AutoMoveDealer: *cfg.Table.AutoMoveDealer,
		Debug:          cfg.Table.Debug,
	})

	game := host.NewGame(t, cfg.Table.BuyIn, logger, rng)
	srv := host.NewServer(addr, logger, game)

	if _, err := game.SeatHost(c.Name); err != nil {
		return fmt.Errorf("seat host: %w", err)
	}

	logger.Info("hosting table", "address", addr,
		"small_blind", cfg.Table.SmallBlind, "big_blind", cfg.Table.BigBlind,
		"buy_in", cfg.Table.BuyIn)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start()
	})
	g.Go(func() error {
		<-ctx.Done()
		return srv.Stop()
	})

	// The prompt runs detached so a signal shuts the server down without
	// waiting on a blocked stdin read.
	go func() {
		defer stop()
		if err := hostPrompt(ctx, game); err != nil {
			logger.Error("prompt failed", "error", err)
		}
	}()

	return g.Wait()
}

// hostPrompt reads table commands from stdin until quit or EOF.
func hostPrompt(ctx context.Context, game *host.Game) error {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("Commands: deal | check | call | fold | bet <n> | raise <n> | win <pot> <name...> | state | quit")

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		if err := runHostCommand(game, fields); err != nil {
			if err == errQuit {
				return nil
			}
			fmt.Println("error:", err)
		}
	}
}

var errQuit = fmt.Errorf("quit")

func runHostCommand(game *host.Game, fields []string) error {
	switch fields[0] {
	case "quit", "exit":
		return errQuit

	case "deal":
		return game.StartHand()

	case "state":
		game.View(func(t *table.Table) {
			fmt.Println(t.String())
		})
		return nil

	case "win":
		if len(fields) < 3 {
			return fmt.Errorf("usage: win <pot> <name...>")
		}
		potIndex, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("bad pot index %q", fields[1])
		}
		winnerIDs, err := resolveNames(game, fields[2:])
		if err != nil {
			return err
		}
		return game.Distribute(potIndex, winnerIDs)

	default:
		action, err := table.ParseAction(fields[0])
		if err != nil {
			return err
		}
		amount := 0
		if len(fields) > 1 {
			amount, err = strconv.Atoi(fields[1])
			if err != nil {
				return fmt.Errorf("bad amount %q", fields[1])
			}
		}
		return game.HostAction(action, amount)
	}
}

func resolveNames(game *host.Game, names []string) ([]string, error) {
	ids := make([]string, 0, len(names))
	var missing string
	game.View(func(t *table.Table) {
		for _, name := range names {
			found := false
			for _, s := range t.Seats {
				if s != nil && s.Name == name {
					ids = append(ids, s.ID)
					found = true
					break
				}
			}
			if !found && missing == "" {
				missing = name
			}
		}
	})
	if missing != "" {
		return nil, fmt.Errorf("no player named %q", missing)
	}
	return ids, nil
}
