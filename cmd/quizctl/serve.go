package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/correctquiz/Correct-Quiz-project/internal/gameserver"
	"github.com/correctquiz/Correct-Quiz-project/pkg/quiz"
	"github.com/correctquiz/Correct-Quiz-project/pkg/quizapi"
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run a local game server",
		Long: `Run a local game server.

Quiz content is fetched from the configured content API; when the API is
unreachable a built-in demo quiz is served instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			store := gameserver.StaticQuizzes{}
			api := quizapi.New(cfg.APIURL,
				quizapi.WithTokenProvider(quizapi.StaticToken(cfg.Token)),
				quizapi.WithAPILogger(logger),
			)
			quizzes, err := api.ListQuizzes(cmd.Context())
			if err != nil {
				logger.Warn("content api unavailable, serving demo quiz", "error", err)
				demo := demoQuiz()
				store[fmt.Sprint(demo.ID)] = demo
			} else {
				for i := range quizzes {
					store[fmt.Sprint(quizzes[i].ID)] = &quizzes[i]
				}
			}

			srv := gameserver.New(store, gameserver.WithLogger(logger))
			r := chi.NewRouter()
			r.Handle("/metrics", promhttp.Handler())
			r.Mount("/", srv.Handler())

			quizIDs := make([]string, 0, len(store))
			for id := range store {
				quizIDs = append(quizIDs, id)
			}
			success("serving on %s", cfg.ListenAddr)
			info("quizzes: %v", quizIDs)
			return http.ListenAndServe(cfg.ListenAddr, r)
		},
	}
}

func demoQuiz() *quiz.Quiz {
	return &quiz.Quiz{
		ID:   1,
		Name: "Demo",
		Questions: []quiz.QuizQuestion{
			{
				ID:   1,
				Name: "Which planet is closest to the sun?",
				Time: 20,
				Choices: []quiz.QuizChoice{
					{ID: 1, Name: "Mercury", Correct: true},
					{ID: 2, Name: "Venus"},
					{ID: 3, Name: "Mars"},
				},
			},
			{
				ID:   2,
				Name: "How many legs does a spider have?",
				Time: 20,
				Choices: []quiz.QuizChoice{
					{ID: 4, Name: "Six"},
					{ID: 5, Name: "Eight", Correct: true},
					{ID: 6, Name: "Ten"},
				},
			},
		},
	}
}
