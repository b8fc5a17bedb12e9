package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/correctquiz/Correct-Quiz-project/pkg/quizapi"
)

func listCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the quizzes available on the content API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			api := quizapi.New(cfg.APIURL,
				quizapi.WithTokenProvider(quizapi.StaticToken(cfg.Token)),
				quizapi.WithAPILogger(logger),
			)
			quizzes, err := api.ListQuizzes(cmd.Context())
			if err != nil {
				return err
			}
			if len(quizzes) == 0 {
				info("no quizzes")
				return nil
			}

			fmt.Printf("  %-6s %-30s %s\n", "ID", "NAME", "QUESTIONS")
			for _, q := range quizzes {
				fmt.Printf("  %-6d %-30s %d\n", q.ID, q.Name, len(q.Questions))
			}
			return nil
		},
	}
}
