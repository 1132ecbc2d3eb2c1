package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/persistorai/movierec/client"
)

func newMovieCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "movie",
		Short: "Manage catalog movies",
	}
	cmd.AddCommand(movieListCmd())
	cmd.AddCommand(movieGetCmd())
	cmd.AddCommand(movieCreateCmd())
	cmd.AddCommand(movieUpdateCmd())
	cmd.AddCommand(movieDeleteCmd())
	return cmd
}

// parseID parses a positional movie id.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid movie id %q", s)
	}
	return id, nil
}

func movieIDArg(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return err
	}
	_, err := parseID(args[0])
	return err
}

func printMovies(movies []client.Movie) {
	switch flagFmt {
	case "table":
		headers := []string{"ID", "TITLE", "GENRE", "YEAR", "RATING"}
		rows := make([][]string, 0, len(movies))
		for _, m := range movies {
			year := ""
			if m.Year != nil {
				year = strconv.Itoa(*m.Year)
			}
			rows = append(rows, []string{
				strconv.FormatInt(m.ID, 10), truncate(m.Title, 40), m.Genre, year, fmt.Sprintf("%.1f", m.Rating),
			})
		}
		formatTable(headers, rows)
	case "quiet":
		for _, m := range movies {
			fmt.Println(m.ID)
		}
	default:
		output(movies, "")
	}
}

func movieListCmd() *cobra.Command {
	var search string
	var limit, offset int
	var refresh bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List movies",
		Run: func(cmd *cobra.Command, args []string) {
			if limit < 0 {
				fmt.Fprintf(os.Stderr, "Error: --limit must be non-negative\n")
				os.Exit(1)
			}
			if offset < 0 {
				fmt.Fprintf(os.Stderr, "Error: --offset must be non-negative\n")
				os.Exit(1)
			}
			movies, _, err := apiClient.Movies.List(context.Background(), &client.MovieListOptions{
				Search:  search,
				Limit:   limit,
				Offset:  offset,
				Refresh: refresh,
			})
			if err != nil {
				fatal("list movies", err)
			}
			printMovies(movies)
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Filter by title")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Import the popular feed before listing")
	return cmd
}

func movieGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a movie by ID",
		Args:  movieIDArg,
		Run: func(cmd *cobra.Command, args []string) {
			id, _ := parseID(args[0])
			movie, err := apiClient.Movies.Get(context.Background(), id)
			if err != nil {
				fatal("get movie", err)
			}
			output(movie, strconv.FormatInt(movie.ID, 10))
		},
	}
}

func movieCreateCmd() *cobra.Command {
	var req client.CreateMovieRequest
	var year int
	var tmdbID string
	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a movie",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req.Title = args[0]
			if cmd.Flags().Changed("year") {
				req.Year = &year
			}
			if tmdbID != "" {
				req.TMDbID = &tmdbID
			}
			movie, err := apiClient.Movies.Create(context.Background(), &req)
			if err != nil {
				fatal("create movie", err)
			}
			output(movie, strconv.FormatInt(movie.ID, 10))
		},
	}
	cmd.Flags().StringVar(&req.Genre, "genre", "", "Genre")
	cmd.Flags().StringVar(&req.Description, "description", "", "Description")
	cmd.Flags().Float64Var(&req.Rating, "rating", 0, "Rating between 0 and 10")
	cmd.Flags().IntVar(&year, "year", 0, "Release year")
	cmd.Flags().StringVar(&req.PosterURL, "poster", "", "Poster URL")
	cmd.Flags().StringVar(&tmdbID, "tmdb-id", "", "External TMDb id")
	return cmd
}

func movieUpdateCmd() *cobra.Command {
	var title, genre, description, poster, tmdbID string
	var rating float64
	var year int
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a movie",
		Args:  movieIDArg,
		Run: func(cmd *cobra.Command, args []string) {
			id, _ := parseID(args[0])
			flags := cmd.Flags()
			req := &client.UpdateMovieRequest{}
			if flags.Changed("title") {
				req.Title = &title
			}
			if flags.Changed("genre") {
				req.Genre = &genre
			}
			if flags.Changed("description") {
				req.Description = &description
			}
			if flags.Changed("rating") {
				req.Rating = &rating
			}
			if flags.Changed("year") {
				req.Year = &year
			}
			if flags.Changed("poster") {
				req.PosterURL = &poster
			}
			if flags.Changed("tmdb-id") {
				req.TMDbID = &tmdbID
			}
			movie, err := apiClient.Movies.Update(context.Background(), id, req)
			if err != nil {
				fatal("update movie", err)
			}
			output(movie, strconv.FormatInt(movie.ID, 10))
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Title")
	cmd.Flags().StringVar(&genre, "genre", "", "Genre")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().Float64Var(&rating, "rating", 0, "Rating between 0 and 10")
	cmd.Flags().IntVar(&year, "year", 0, "Release year")
	cmd.Flags().StringVar(&poster, "poster", "", "Poster URL")
	cmd.Flags().StringVar(&tmdbID, "tmdb-id", "", "External TMDb id")
	return cmd
}

func movieDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a movie",
		Args:  movieIDArg,
		Run: func(cmd *cobra.Command, args []string) {
			id, _ := parseID(args[0])
			if err := apiClient.Movies.Delete(context.Background(), id); err != nil {
				fatal("delete movie", err)
			}
			fmt.Println("deleted")
		},
	}
}
