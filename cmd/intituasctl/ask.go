package main

import (
	"fmt"
	"os"
	"strings"

	"intituas-ai-be/internal/bootstrap"
	"intituas-ai-be/internal/config"
	"intituas-ai-be/internal/dto"
	"intituas-ai-be/internal/pkg/logger"
	"intituas-ai-be/internal/pkg/serverutils"
	"intituas-ai-be/internal/service"
	"intituas-ai-be/pkg/metrics"

	"github.com/spf13/cobra"
)

func newAskCmd(root *rootOptions) *cobra.Command {
	var (
		documentFile string
		userId       string
		research     bool
	)
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a question, optionally grounded in a document file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dto.AnswerRequest{
				Question:     strings.Join(args, " "),
				ResearchMode: research,
				UserId:       userId,
			}
			if documentFile != "" {
				raw, err := os.ReadFile(documentFile)
				if err != nil {
					return err
				}
				content := string(raw)
				req.DocumentContent = &content
			}
			if err := serverutils.ValidateRequest(req); err != nil {
				return err
			}

			cfg := config.Load()
			capab, err := bootstrap.NewCapability(cfg, nil, logger.NewNopLogger())
			if err != nil {
				return err
			}

			var recorder service.IHistoryRecorder = service.NopHistoryRecorder{}
			if userId != "" {
				db, err := openDB(cfg)
				if err != nil {
					return err
				}
				store, closeStore, err := bootstrap.NewHistoryStore(cmd.Context(), db, cfg)
				if err != nil {
					return err
				}
				defer closeStore()
				recorder = service.NewSyncHistoryRecorder(store, nil)
			}

			answerService := service.NewAnswerService(capab, recorder, nil, metrics.New(), logger.NewNopLogger())
			resp := answerService.Answer(cmd.Context(), req)
			if err := render(cmd.OutOrStdout(), root.output, resp); err != nil {
				return err
			}
			if resp.Failed() {
				return fmt.Errorf("%s", resp.Error)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&documentFile, "document", "d", "", "path to a text file the answer must be grounded in")
	cmd.Flags().StringVarP(&userId, "user", "u", "", "record the exchange in this user's history")
	cmd.Flags().BoolVar(&research, "research", false, "enable research mode")
	return cmd
}
