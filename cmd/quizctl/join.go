package main

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/correctquiz/Correct-Quiz-project/pkg/client"
	"github.com/correctquiz/Correct-Quiz-project/pkg/protocol"
)

func joinCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "join <code> <name>",
		Short: "Join a running game by room code",
		Long: `Join a running game by room code.

Questions are printed as the host advances them; answer by typing the
choice number. Type quit to leave the game.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			done := make(chan struct{})
			var once sync.Once
			finish := func() { once.Do(func() { close(done) }) }

			ch := client.NewChannel(client.WithLogger(logger))
			p := client.NewPlayer(ch,
				client.WithPlayerLogger(logger),
				client.WithGameEndedHandler(func() {
					info("the host ended the game")
					finish()
				}),
				client.WithKickedHandler(func() {
					warn("removed from the game")
					finish()
				}),
			)
			p.OnMessage(func(pk protocol.Packet) {
				fb, ok := pk.(*protocol.PlayerAnswerFeedbackPacket)
				if !ok {
					return
				}
				if fb.IsCorrect {
					success("correct (+%d streak bonus)", fb.StreakBonus)
				} else {
					errorMsg("wrong")
				}
			})

			var prev client.Snapshot
			unsubscribe := p.View().Subscribe(func(s client.Snapshot) {
				if q := s.CurrentQuestion; q != nil &&
					(prev.CurrentQuestion == nil || q.Index != prev.CurrentQuestion.Index) {
					info("question %d: %s", q.Index+1, q.Name)
					for i, choice := range q.Choices {
						info("  %d) %s", i+1, choice.Name)
					}
				}
				if s.Points != prev.Points {
					info("points: %d", s.Points)
				}
				if s.Rank != prev.Rank && s.Rank > 0 {
					info("rank: %d", s.Rank)
				}
				prev = s
			})
			defer unsubscribe()

			if err := p.Join(cmd.Context(), cfg.ServerURL, args[0], args[1], cfg.Token); err != nil {
				return err
			}
			defer p.Close()
			success("joined game %s as %s", args[0], args[1])

			go func() {
				sc := bufio.NewScanner(os.Stdin)
				for sc.Scan() {
					line := strings.TrimSpace(sc.Text())
					switch line {
					case "":
						continue
					case "quit", "exit":
						p.SignalPlayerLeaving()
						finish()
						return
					}
					n, err := strconv.Atoi(line)
					if err != nil {
						errorMsg("enter a choice number, or quit")
						continue
					}
					q := p.View().Snapshot().CurrentQuestion
					if q == nil {
						errorMsg("no question is live")
						continue
					}
					if err := p.Answer(q.Index, n-1); err != nil {
						errorMsg("answer: %s", err)
						finish()
						return
					}
				}
			}()

			<-done
			return nil
		},
	}
}
