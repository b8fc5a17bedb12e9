package main

import (
	"bufio"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/correctquiz/Correct-Quiz-project/pkg/client"
)

func hostCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "host <quiz-id>",
		Short: "Host a live game for the given quiz",
		Long: `Host a live game for the given quiz.

The server assigns a room code players use to join. Game phases are
driven interactively from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			ch := client.NewChannel(client.WithLogger(logger))
			h := client.NewHost(ch, client.WithHostLogger(logger))

			var prev client.Snapshot
			unsubscribe := h.View().Subscribe(func(s client.Snapshot) {
				if s.GameCode != "" && s.GameCode != prev.GameCode {
					success("room code: %s", s.GameCode)
				}
				if s.State != prev.State {
					info("state: %s", s.State)
				}
				if len(s.Players) != len(prev.Players) {
					info("players (%d):", len(s.Players))
					for _, p := range s.Players {
						info("  %s  %s", p.ID, p.Name)
					}
				}
				if q := s.CurrentQuestion; q != nil &&
					(prev.CurrentQuestion == nil || q.Index != prev.CurrentQuestion.Index) {
					info("question %d: %s", q.Index+1, q.Name)
				}
				if s.ShowAnswer && !prev.ShowAnswer {
					info("answer counts: %v", s.AnswerCounts)
				}
				prev = s
			})
			defer unsubscribe()

			if err := h.Connect(cmd.Context(), cfg.ServerURL, cfg.Token); err != nil {
				return err
			}
			defer h.Close()

			if err := h.HostQuiz(args[0]); err != nil {
				return err
			}

			info("commands: start | next | intermission | kick <player-id> | end")
			sc := bufio.NewScanner(os.Stdin)
			for sc.Scan() {
				fields := strings.Fields(sc.Text())
				if len(fields) == 0 {
					continue
				}
				switch fields[0] {
				case "start":
					err = h.Start()
				case "next":
					err = h.NextQuestion()
				case "intermission":
					err = h.Intermission()
				case "kick":
					if len(fields) < 2 {
						errorMsg("usage: kick <player-id>")
						continue
					}
					err = h.KickPlayer(fields[1])
				case "end", "quit", "exit":
					h.SignalHostLeaving()
					return nil
				default:
					errorMsg("unknown command %q", fields[0])
					continue
				}
				if err != nil {
					return err
				}
			}
			return sc.Err()
		},
	}
}
