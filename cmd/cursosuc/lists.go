package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Show and edit your course lists",
	Long: `List commands. All of them need a signed-in session.

Examples:
  cursosuc lists show
  cursosuc lists create "Próximo semestre"
  cursosuc lists add 101 12
  cursosuc lists remove 101 12
  cursosuc lists delete 101`,
}

var listsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show every list with its courses",
	RunE:  runListsShow,
}

var listsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an empty list",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runListsCreate,
}

var listsAddCmd = &cobra.Command{
	Use:   "add <list-id> <course-id>",
	Short: "Add a course to a list",
	Args:  cobra.ExactArgs(2),
	RunE:  runListsAdd,
}

var listsRemoveCmd = &cobra.Command{
	Use:   "remove <list-id> <course-id>",
	Short: "Remove a course from a list",
	Args:  cobra.ExactArgs(2),
	RunE:  runListsRemove,
}

var listsDeleteCmd = &cobra.Command{
	Use:   "delete <list-id>",
	Short: "Delete a list",
	Args:  cobra.ExactArgs(1),
	RunE:  runListsDelete,
}

func init() {
	listsCmd.AddCommand(listsShowCmd)
	listsCmd.AddCommand(listsCreateCmd)
	listsCmd.AddCommand(listsAddCmd)
	listsCmd.AddCommand(listsRemoveCmd)
	listsCmd.AddCommand(listsDeleteCmd)

	rootCmd.AddCommand(listsCmd)
}

func runListsShow(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	if err := a.lists.Load(ctx); err != nil {
		return err
	}
	lists, courses := a.lists.Lists(), a.lists.Courses()

	if jsonOut {
		return printJSON(map[string]any{"lists": lists, "courses": courses})
	}
	if len(lists) == 0 {
		fmt.Println("No lists yet")
		return nil
	}

	w := newTable()
	printTableHeader(w, "ID", "NAME", "COURSES")
	for _, l := range lists {
		codes := make([]string, 0, len(l.Courses))
		for _, id := range l.Courses {
			if c, ok := courses[id]; ok {
				codes = append(codes, c.Code)
				continue
			}
			codes = append(codes, "#"+id)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", l.ID, l.Name, strings.Join(codes, ", "))
	}
	return w.Flush()
}

func runListsCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	user, ok := a.session.CurrentUser()
	if !ok {
		return fmt.Errorf("not signed in; run cursosuc login first")
	}
	created, err := a.lists.CreateList(ctx, user.ID, strings.Join(args, " "))
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(created)
	}
	fmt.Printf("Created list %s (%s)\n", created.Name, created.ID)
	return nil
}

func runListsAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	upd, err := a.lists.AddCourse(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(upd)
	}
	if upd.Warning != "" {
		fmt.Println(upd.Warning)
		return nil
	}
	fmt.Printf("Added course %s to %s\n", args[1], upd.List.Name)
	return nil
}

func runListsRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	upd, err := a.lists.RemoveCourse(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(upd)
	}
	if upd.Warning != "" {
		fmt.Println(upd.Warning)
		return nil
	}
	fmt.Printf("Removed course %s from %s\n", args[1], upd.List.Name)
	return nil
}

func runListsDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	if err := a.lists.DeleteList(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted list %s\n", args[0])
	return nil
}
