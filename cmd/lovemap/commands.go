package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bwise1/love_map/config"
	"github.com/bwise1/love_map/internal/dispatch"
	"github.com/bwise1/love_map/internal/filter"
	"github.com/bwise1/love_map/internal/model"
	"github.com/bwise1/love_map/internal/placestore"
	"github.com/spf13/cobra"
)

// errReported marks errors the presenter has already shown.
var errReported = errors.New("reported")

func reported(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", errReported, err)
}

type rootOptions struct {
	apiURL  string
	near    string
	offline bool
	verbose bool
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	var (
		opts rootOptions
		a    *app
	)

	root := &cobra.Command{
		Use:           "lovemap",
		Short:         "Keep track of the places you want to go and the places you have been",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewClient()
			if err != nil {
				return err
			}
			if opts.apiURL != "" {
				cfg.APIURL = opts.apiURL
			}
			if opts.offline {
				cfg.OfflineCreate = true
			}
			a, err = newApp(cfg, opts.near, out, errOut, opts.verbose)
			return err
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.apiURL, "api", "", "server URL (default from LOVEMAP_API_URL)")
	flags.StringVar(&opts.near, "near", "", "preset location used as the current city")
	flags.BoolVar(&opts.offline, "offline-create", false, "keep new places on this device when the server is unreachable")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log client activity")

	appFn := func() *app { return a }
	root.AddCommand(
		newLoginCmd(appFn),
		newLogoutCmd(appFn),
		newWhoamiCmd(appFn),
		newListCmd(appFn),
		newShowCmd(appFn),
		newAddCmd(appFn),
		newUpdateCmd(appFn),
		newVisitCmd(appFn),
		newDeleteCmd(appFn),
		newPickCmd(appFn),
		newStatsCmd(appFn),
		newTimelineCmd(appFn),
		newMessagesCmd(appFn),
		newExportCmd(appFn),
		newImportCmd(appFn),
		newPhotoCmd(appFn),
		newSearchCmd(appFn),
		newTrailCmd(appFn),
		newPresetsCmd(out),
	)
	return root
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid place id %q", arg)
	}
	return id, nil
}

// withStore opens the store, loads it and runs fn.
func withStore(ctx context.Context, a *app, fn func() error) error {
	if err := a.open(); err != nil {
		return err
	}
	defer a.close()
	if err := a.load(ctx); err != nil {
		return reported(err)
	}
	return fn()
}

func dispatchCmd(ctx context.Context, a *app, cmd dispatch.Command) error {
	return reported(a.dispatcher.Dispatch(ctx, cmd))
}

func newLoginCmd(appFn func() *app) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Sign in and remember the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFn()
			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return err
				}
				password = strings.TrimSpace(line)
			}
			resp, err := a.client.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			if err := a.saveToken(resp.Token); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "welcome back, %s\n", resp.DisplayName)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when empty)")
	return cmd
}

func newLogoutCmd(appFn func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFn()
			if err := a.client.Logout(cmd.Context()); err != nil {
				a.logger.Warn("server logout failed", "error", err)
			}
			return a.clearToken()
		},
	}
}

func newWhoamiCmd(appFn func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := appFn().client.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", user.DisplayName, user.Username)
			return nil
		},
	}
}

func newListCmd(appFn func() *app) *cobra.Command {
	var placeType string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List places",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := model.PlaceType(placeType)
			if t != "" && !t.Valid() {
				return fmt.Errorf("type must be heart or paw")
			}
			a := appFn()
			return withStore(cmd.Context(), a, func() error {
				return dispatchCmd(cmd.Context(), a, dispatch.ListPlaces{Type: t})
			})
		},
	}
	cmd.Flags().StringVarP(&placeType, "type", "t", "", "only heart (want to go) or paw (visited) places")
	return cmd
}

func newShowCmd(appFn func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one place with its messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a := appFn()
			return withStore(cmd.Context(), a, func() error {
				if err := dispatchCmd(cmd.Context(), a, dispatch.FocusPlace{ID: id}); err != nil {
					return err
				}
				if placestore.IsLocalOnly(id) {
					return nil
				}
				messages, err := a.client.Messages(cmd.Context(), id)
				if err != nil {
					a.logger.Warn("loading messages failed", "error", err)
					return nil
				}
				printMessages(cmd.OutOrStdout(), messages)
				return nil
			})
		},
	}
}

type placeFlags struct {
	name     string
	note     string
	rating   int
	category string
}

func (f *placeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "place name")
	cmd.Flags().StringVar(&f.note, "note", "", "note")
	cmd.Flags().IntVar(&f.rating, "rating", 0, "rating from 0 to 5, visited places only")
	cmd.Flags().StringVar(&f.category, "category", "", "food category")
}

func newAddCmd(appFn func() *app) *cobra.Command {
	var (
		f         placeFlags
		lat, lng  float64
		placeType string
		at        string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Mark a new place",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if at != "" {
				loc, ok := filter.Preset(at)
				if !ok {
					return fmt.Errorf("unknown location %q", at)
				}
				lat, lng = loc.Lat, loc.Lng
			} else if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lng") {
				return fmt.Errorf("--lat and --lng (or --at) are required")
			}

			a := appFn()
			return withStore(cmd.Context(), a, func() error {
				draft := a.store.BeginPlacement(lat, lng, model.PlaceType(placeType))
				draft.Name = f.name
				draft.Note = f.note
				draft.Rating = f.rating
				draft.Category = model.Category(f.category)
				return dispatchCmd(cmd.Context(), a, dispatch.CreatePlace{Draft: draft, KeepLocally: a.cfg.OfflineCreate})
			})
		},
	}
	f.register(cmd)
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude")
	cmd.Flags().StringVar(&at, "at", "", "use a preset location instead of --lat/--lng")
	cmd.Flags().StringVarP(&placeType, "type", "t", string(model.Heart), "heart (want to go) or paw (visited)")
	return cmd
}

func newUpdateCmd(appFn func() *app) *cobra.Command {
	var f placeFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var fields model.PlaceUpdate
			if cmd.Flags().Changed("name") {
				fields.Name = &f.name
			}
			if cmd.Flags().Changed("note") {
				fields.Note = &f.note
			}
			if cmd.Flags().Changed("rating") {
				fields.Rating = &f.rating
			}
			if cmd.Flags().Changed("category") {
				c := model.Category(f.category)
				fields.Category = &c
			}
			if fields.Empty() {
				return fmt.Errorf("nothing to update")
			}
			a := appFn()
			return withStore(cmd.Context(), a, func() error {
				return dispatchCmd(cmd.Context(), a, dispatch.UpdatePlace{ID: id, Fields: fields})
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newVisitCmd(appFn func() *app) *cobra.Command {
	var visit model.VisitInput
	cmd := &cobra.Command{
		Use:   "visit <id>",
		Short: "Turn a wish-list place into a visited one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a := appFn()
			return withStore(cmd.Context(), a, func() error {
				return dispatchCmd(cmd.Context(), a, dispatch.MarkVisited{ID: id, Visit: visit})
			})
		},
	}
	cmd.Flags().IntVar(&visit.Rating, "rating", 0, "rating from 0 to 5")
	cmd.Flags().StringVar(&visit.Note, "note", "", "what it was like")
	return cmd
}

func newDeleteCmd(appFn func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a := appFn()
			return withStore(cmd.Context(), a, func() error {
				return dispatchCmd(cmd.Context(), a, dispatch.DeletePlace{ID: id})
			})
		},
	}
}

func newPickCmd(appFn func() *app) *cobra.Command {
	var region, category string
	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Let the gachapon choose where to go next",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFn()
			return withStore(cmd.Context(), a, func() error {
				return dispatchCmd(cmd.Context(), a, dispatch.SelectRandom{Region: region, Category: model.Category(category)})
			})
		},
	}
	cmd.Flags().StringVar(&region, "region", filter.RegionAll, "all, current_city (needs --near) or a preset name")
	cmd.Flags().StringVar(&category, "category", string(model.CategoryAll), "food category or all")
	return cmd
}

func newStatsCmd(appFn func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count the wish list against the visited list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFn()
			return withStore(cmd.Context(), a, func() error {
				return dispatchCmd(cmd.Context(), a, dispatch.ShowStats{})
			})
		},
	}
}

func newTimelineCmd(appFn func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "timeline",
		Short: "Show the most recently added places",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFn()
			return withStore(cmd.Context(), a, func() error {
				return dispatchCmd(cmd.Context(), a, dispatch.ShowTimeline{})
			})
		},
	}
}

func printMessages(w io.Writer, messages []model.Message) {
	for _, m := range messages {
		fmt.Fprintf(w, "  [%d] %s %s: %s\n", m.ID, m.CreatedAt.Local().Format("01-02 15:04"), m.Author, m.Content)
	}
}

func newMessagesCmd(appFn func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "messages <place-id>",
		Short: "Read the messages left on a place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			messages, err := appFn().client.Messages(cmd.Context(), id)
			if err != nil {
				return err
			}
			if len(messages) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no messages yet")
			}
			printMessages(cmd.OutOrStdout(), messages)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <place-id> <text>",
		Short: "Leave a message on a place",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			m, err := appFn().client.AddMessage(cmd.Context(), id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "message %d saved\n", m.ID)
			return nil
		},
	}, &cobra.Command{
		Use:   "delete <message-id>",
		Short: "Remove a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid message id %q", args[0])
			}
			return appFn().client.DeleteMessage(cmd.Context(), id)
		},
	})
	return cmd
}

func newExportCmd(appFn func() *app) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download a backup of every place",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			backup, filename, err := appFn().client.Export(cmd.Context())
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(backup, "", "  ")
			if err != nil {
				return err
			}
			path := filepath.Join(dir, filepath.Base(filename))
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %d places to %s\n", len(backup.Places), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "directory to write the backup to")
	return cmd
}

func newImportCmd(appFn func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Restore places from a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			result, err := appFn().client.Import(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d places\n", result.Imported, result.Total)
			return nil
		},
	}
}

func newPhotoCmd(appFn func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "photo <place-id> <image>",
		Short: "Attach a photo to a place",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			url, err := appFn().client.UploadPhoto(cmd.Context(), id, filepath.Base(args[1]), f)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
}

func newSearchCmd(appFn func() *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <address>",
		Short: "Look up coordinates for an address",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := appFn().client.SearchAddress(cmd.Context(), strings.Join(args, " "), limit)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no matches")
			}
			for _, r := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%.5f,%.5f  %s\n", r.Lat, r.Lng, r.Name)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "maximum number of results")
	return cmd
}

func newTrailCmd(appFn func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "trail",
		Short: "Print the visited places as an encoded polyline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			trail, err := appFn().client.Trail(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d points\n%s\n", trail.Points, trail.Polyline)
			return nil
		},
	}
}

func newPresetsCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the preset locations",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			for _, loc := range filter.Presets() {
				fmt.Fprintf(out, "%-12s %.4f,%.4f\n", loc.Name, loc.Lat, loc.Lng)
			}
			return nil
		},
	}
}
