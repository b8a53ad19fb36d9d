package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"kbcportal/internal/application/catalog"
	"kbcportal/internal/application/usecase"
	"kbcportal/internal/domain"
	"kbcportal/internal/infrastructure/cache"
	"kbcportal/internal/infrastructure/repository"
	"kbcportal/internal/infrastructure/security"
)

const minPasswordLength = 8

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.database(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
			return nil
		},
	}
}

func newCreateAdminCommand(ctx *commandContext) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an approved admin, or promote and re-key an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email = strings.TrimSpace(email)
			if email == "" {
				return errors.New("--email is required")
			}
			if utf8.RuneCountInString(password) < minPasswordLength {
				return fmt.Errorf("--password must be at least %d characters", minPasswordLength)
			}
			if strings.TrimSpace(name) == "" {
				name = "Admin"
			}

			db, err := ctx.database()
			if err != nil {
				return err
			}
			// Sessions and tokens are not used by the bootstrap path.
			auth := usecase.NewAuthUseCase(
				repository.NewUserRepository(db),
				cache.NewMemorySessionStore(),
				security.NewPasswordHasher(),
				security.NewTokenManager("unused"),
				nil,
			)
			created, err := auth.BootstrapAdmin(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s\n", strings.ToLower(email))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Updated admin %s\n", strings.ToLower(email))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Login email")
	cmd.Flags().StringVar(&password, "password", "", "Login password")
	return cmd
}

func newUsersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List accounts with their status and role",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := ctx.database()
			if err != nil {
				return err
			}
			users, err := repository.NewUserRepository(db).List(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tEMAIL\tNAME\tSTATUS\tROLE")
			for _, u := range users {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Name, u.Status, u.Role)
			}
			return w.Flush()
		},
	}
}

func newVideosCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "videos [id...]",
		Short: "Show library videos, or look up the given video ids in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.videos()
			if err != nil {
				return err
			}

			var (
				videos  []domain.Video
				missing []string
			)
			if len(args) == 0 {
				videos, err = client.ListVideos(cmd.Context())
			} else {
				videos, missing, err = lookupVideos(cmd.Context(), client, args)
			}
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDURATION\tTITLE")
			for _, v := range videos {
				fmt.Fprintf(w, "%s\t%s\t%s\n", v.ID, catalog.FormatLessonDuration(v.DurationSeconds), v.Title)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if len(missing) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Not found: %s\n", strings.Join(missing, ", "))
			}
			return nil
		},
	}
}

// lookupVideos resolves ids against the library listing and asks for the
// rest one by one, since unlisted videos do not show up in the listing.
func lookupVideos(ctx context.Context, client videoLookup, ids []string) ([]domain.Video, []string, error) {
	listed, err := client.ListVideosByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[string]domain.Video, len(listed))
	for _, v := range listed {
		byID[v.ID] = v
	}

	var (
		out     []domain.Video
		missing []string
	)
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			out = append(out, v)
			continue
		}
		v, err := client.GetVideo(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		if v == nil {
			missing = append(missing, id)
			continue
		}
		out = append(out, *v)
	}
	return out, missing, nil
}
