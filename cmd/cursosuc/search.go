package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/cursos-uc/cursos-app/internal/core/domain"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search courses by name, code or description",
	Long: `Search the catalog. Filters apply even with an empty query.

Examples:
  cursosuc search IIC
  cursosuc search "cálculo" --difficulty 3
  cursosuc search --area OFG --rating 4`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("area", "", "only courses in this area")
	searchCmd.Flags().Int("difficulty", 0, "only courses of exactly this difficulty (1-5)")
	searchCmd.Flags().Float64("rating", 0, "only courses rated at least this much")
	searchCmd.Flags().String("sort", "", "sort results by rating or difficulty")
	searchCmd.Flags().String("order", "asc", "sort order (asc, desc)")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	area, _ := cmd.Flags().GetString("area")
	difficulty, _ := cmd.Flags().GetInt("difficulty")
	rating, _ := cmd.Flags().GetFloat64("rating")
	sortBy, _ := cmd.Flags().GetString("sort")
	order, _ := cmd.Flags().GetString("order")

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	filters := domain.SearchFilters{Area: area, Difficulty: difficulty, Rating: rating}
	if _, err := a.search.Search(ctx, strings.Join(args, " "), filters); err != nil {
		return err
	}
	if sortBy != "" {
		criteria, o, err := domain.ParseSort(sortBy, order)
		if err != nil {
			return err
		}
		a.search.Sort(criteria, o)
	}

	results, _ := a.search.Results()
	if jsonOut {
		return printJSON(map[string]any{
			"courses": results,
			"count":   len(results),
		})
	}
	return printCourses(results)
}
