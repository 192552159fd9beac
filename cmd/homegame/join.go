package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/homegamehq/homegame/internal/client"
	"github.com/homegamehq/homegame/internal/table"
)

// JoinCmd connects to a hosted table as a mirroring peer.
type JoinCmd struct {
	URL      string `arg:"" help:"Host URL, e.g. http://192.168.1.10:8080"`
	Name     string `short:"n" required:"" help:"Display name at the table"`
	LogLevel string `default:"warn" help:"Log level"`
}

func (c *JoinCmd) Run() error {
	logger := newLogger(c.LogLevel)

	cl := client.New(c.URL, logger)
	done := make(chan struct{})

	cl.OnEvent(func(event client.Event, detail string) {
		switch event {
		case client.EventOtpRequired:
			fmt.Println("Enter the pairing code shown on the host's screen.")
		case client.EventInvalidOtp:
			fmt.Println("Wrong pairing code, try again.")
		case client.EventNameTaken:
			fmt.Println("That name is already at the table.")
			close(done)
		case client.EventJoinFailed:
			fmt.Println("Could not join:", detail)
			close(done)
		case client.EventJoined:
			fmt.Println("Seated. Waiting for the host to deal.")
		case client.EventHandStarted:
			fmt.Println("New hand dealt.")
			printTurn(cl)
		case client.EventStateChanged, client.EventPotDistributed:
			printTurn(cl)
		case client.EventDisconnected:
			fmt.Println("Disconnected from host.")
			close(done)
		}
	})

	if err := cl.Connect(); err != nil {
		return err
	}
	defer func() { _ = cl.Close() }()

	if err := cl.Join(c.Name); err != nil {
		return err
	}

	go readCommands(cl)

	<-done
	return nil
}

// printTurn shows whose turn it is, and this player's options when it is
// theirs. All of it is read from the local replica.
func printTurn(cl *client.Client) {
	cl.View(func(t *table.Table) {
		actor := t.CurrentActor()
		if actor == nil {
			if t.IsShowdown {
				fmt.Println("Showdown. Waiting for the host to award pots.")
			}
			return
		}
		if actor.ID != cl.PlayerID() {
			fmt.Printf("Waiting for %s to act.\n", actor.Name)
			return
		}

		options := make([]string, 0, 4)
		for _, a := range t.LegalActions(actor) {
			options = append(options, a.String())
		}
		fmt.Printf("Your turn (stack %d, to call %d): %s\n",
			actor.StackSize, t.CurrentBet-actor.Bet, strings.Join(options, " / "))
	})
}

func readCommands(cl *client.Client) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			_ = cl.Leave()
			return
		}

		action, err := table.ParseAction(fields[0])
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		amount := 0
		if len(fields) > 1 {
			amount, err = strconv.Atoi(fields[1])
			if err != nil {
				fmt.Printf("error: bad amount %q\n", fields[1])
				continue
			}
		}
		if err := cl.Act(action, amount); err != nil {
			fmt.Println("error:", err)
		}
	}
}
