package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/cinepick/internal/core/domain"
)

var (
	recommendPayload string
	recommendJSON    bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend a movie for a group",
	Long: `Recommends one movie from the indexed catalogue for a group.

The payload is a JSON file (or - for stdin) in the same shape the HTTP API
accepts:

  {
    "timeAvailable": "2 hours",
    "pollAnswers": [
      {"favoriteMovie": "Heat", "favoritePerson": "Al Pacino",
       "freshness": ["New"], "mood": ["tense"]}
    ],
    "usedRecommendations": ["Inception"]
  }`,
	Args: cobra.NoArgs,
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().StringVarP(&recommendPayload, "payload", "p", "", "request payload file, or - for stdin")
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "output the recommendation as JSON")
	_ = recommendCmd.MarkFlagRequired("payload")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	if recommendationService == nil {
		return errRecommendationNotConfigured
	}

	req, err := readPayload(cmd.InOrStdin(), recommendPayload)
	if err != nil {
		return err
	}

	result := recommendationService.Recommend(cmd.Context(), req)
	rec, ok := result.Recommendation()
	if !ok {
		return fmt.Errorf("%s (%s)", result.Message(), result.Kind())
	}

	out := cmd.OutOrStdout()
	if recommendJSON || !isTerminal(out) {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}

	fmt.Fprintln(out, renderRecommendation(rec))
	return nil
}

func readPayload(stdin io.Reader, path string) (domain.RecommendationRequest, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return domain.RecommendationRequest{}, fmt.Errorf("reading payload: %w", err)
	}

	var req domain.RecommendationRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return domain.RecommendationRequest{}, fmt.Errorf("%s: %w", domain.MessageBadPayload, err)
	}
	return req, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
