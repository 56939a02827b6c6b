// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for database and backend credentials.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize the cache database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "token",
				Usage: "Extract a backend bearer token from a browser cURL command",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools (Copy as cURL)",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to .sh file containing cURL command",
					},
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupToken,
			},
		},
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authenticate with Spotify using OAuth2",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Check current authentication state (local tokens and backend /health)",
				Action: r.AuthStatus,
			},
		},
	}
}

// genresCommand handles genre aggregation operations
func genresCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "genres",
		Usage: "Genre statistics from your top artists",
		Commands: []*cli.Command{
			{
				Name:  "top",
				Usage: "Weighted genre ranking for a listening term",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.StringFlag{
						Name:    "term",
						Aliases: []string{"t"},
						Usage:   "Listening term (short_term, medium_term, long_term)",
						Value:   "medium_term",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Number of top artists to aggregate",
						Value: 50,
					},
					&cli.BoolFlag{
						Name:  "refresh",
						Usage: "Bypass the cache and refetch",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Export to file (.csv or .md by extension)",
					},
				},
				Action: r.GenresTop,
			},
			{
				Name:  "grouped",
				Usage: "Genres rolled up into parent categories",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.StringFlag{
						Name:    "term",
						Aliases: []string{"t"},
						Usage:   "Listening term (short_term, medium_term, long_term)",
						Value:   "medium_term",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Number of top artists to aggregate",
						Value: 50,
					},
					&cli.BoolFlag{
						Name:  "refresh",
						Usage: "Bypass the cache and refetch",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.GenresGrouped,
			},
		},
	}
}

// releasesCommand handles release radar operations
func releasesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "releases",
		Aliases: []string{"radar"},
		Usage:   "Release radar from your followed artists",
		Commands: []*cli.Command{
			{
				Name:  "load",
				Usage: "Fetch and merge recent releases",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "refresh",
						Usage: "Bypass the cache and refetch",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.ReleasesLoad,
			},
			{
				Name:  "weeks",
				Usage: "Releases grouped into Saturday-to-Friday weeks",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "count",
						Usage: "Number of recent weeks to list",
						Value: 8,
					},
					&cli.BoolFlag{
						Name:  "refresh",
						Usage: "Bypass the cache and refetch",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ReleasesWeeks,
			},
			{
				Name:  "calendar",
				Usage: "Month calendar with releases on their exact dates",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "month",
						Usage: "Month to render (YYYY-MM, default current)",
					},
					&cli.BoolFlag{
						Name:  "refresh",
						Usage: "Bypass the cache and refetch",
					},
				},
				Action: r.ReleasesCalendar,
			},
			{
				Name:  "export",
				Usage: "Export the release radar to csv, markdown, or text",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (csv, markdown, text)",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path (base filename for csv, directory for markdown)",
					},
					&cli.BoolFlag{
						Name:  "refresh",
						Usage: "Bypass the cache and refetch",
					},
				},
				Action: r.ReleasesExport,
			},
		},
	}
}

// cacheCommand handles cache inspection and invalidation
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and clear the local cache",
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Show freshness of the well-known cache entries",
				Action: r.CacheStatus,
			},
			{
				Name:  "clear",
				Usage: "Remove cached entries",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "prefix",
						Usage: "Only clear keys with this prefix",
					},
				},
				Action: r.CacheClear,
			},
		},
	}
}

// apiCommand handles direct backend API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the companion backend",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the backend, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for browsing the release radar.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for the release radar",
		Action:  r.TUI,
	}
}
