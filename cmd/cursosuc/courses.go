package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cursos-uc/cursos-app/internal/core/domain"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "Browse the course catalog",
	Long: `Catalog commands.

Examples:
  cursosuc courses list
  cursosuc courses list --sort difficulty --order desc
  cursosuc courses show 12`,
}

var coursesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every course",
	RunE:  runCoursesList,
}

var coursesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a course with its comments",
	Args:  cobra.ExactArgs(1),
	RunE:  runCoursesShow,
}

func init() {
	coursesListCmd.Flags().String("sort", "", "sort by rating or difficulty")
	coursesListCmd.Flags().String("order", "asc", "sort order (asc, desc)")

	coursesCmd.AddCommand(coursesListCmd)
	coursesCmd.AddCommand(coursesShowCmd)

	rootCmd.AddCommand(coursesCmd)
}

func runCoursesList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	sortBy, _ := cmd.Flags().GetString("sort")
	order, _ := cmd.Flags().GetString("order")

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	if err := a.catalog.Refresh(ctx); err != nil {
		return err
	}
	if sortBy != "" {
		criteria, o, err := domain.ParseSort(sortBy, order)
		if err != nil {
			return err
		}
		a.catalog.Sort(criteria, o)
	}

	courses := a.catalog.Courses()
	if jsonOut {
		return printJSON(map[string]any{
			"courses": courses,
			"count":   len(courses),
		})
	}
	return printCourses(courses)
}

func printCourses(courses []domain.Course) error {
	if len(courses) == 0 {
		fmt.Println("No courses found")
		return nil
	}

	w := newTable()
	printTableHeader(w, "ID", "CODE", "NAME", "AREA", "DIFFICULTY", "RATING")
	for _, c := range courses {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.1f\n",
			c.ID,
			c.Code,
			truncate(c.Name, 40),
			c.Area,
			c.Difficulty,
			c.AverageRating,
		)
	}
	return w.Flush()
}

func runCoursesShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	d, err := a.details.Load(ctx, args[0])
	if err != nil {
		return err
	}
	course, comments := d.Course(), d.Comments()
	url := domain.BuscaCursosURL(course.Code, time.Now())

	if jsonOut {
		return printJSON(map[string]any{
			"course":         course,
			"comments":       comments,
			"buscaCursosUrl": url,
		})
	}

	fmt.Printf("%s %s\n", course.Code, course.Name)
	fmt.Printf("Difficulty: %d  Rating: %.1f (%d ratings)  Sections: %d  Spots: %d\n",
		course.Difficulty, course.AverageRating, course.TotalRatings, course.Sections, course.AvailableSpots)
	if len(course.Requirements) > 0 {
		fmt.Printf("Requirements: %s\n", strings.Join(course.Requirements, ", "))
	}
	if course.Description != "" {
		fmt.Printf("\n%s\n", course.Description)
	}
	fmt.Printf("\nBuscaCursos: %s\n\n", url)

	if len(comments) == 0 {
		fmt.Println("No comments yet")
		return nil
	}
	w := newTable()
	printTableHeader(w, "AUTHOR", "RATING", "DIFFICULTY", "COMMENT")
	for _, c := range comments {
		text := ""
		if c.Content != nil {
			text = *c.Content
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", c.UserName, c.Rating, c.Difficulty, truncate(text, 60))
	}
	return w.Flush()
}
